// Package user models the user account lifecycle: verification, activity,
// voluntary deactivation, time-bounded suspension, permanent ban, and
// deletion. Suspension expiry travels as metadata only; the engine never
// lifts a suspension on its own.
package user
