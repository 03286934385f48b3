// Package payment models the payment lifecycle as an immutable state machine
// and normalizes the heterogeneous vocabulary of external gateways into the
// canonical status set.
//
// The lifecycle is:
//
//	pending  -> approved | rejected
//	approved -> charged_back | refunded
//
// rejected, charged_back, and refunded are terminal.
//
// Named operations (Approve, Reject, Chargeback, Refund) wrap the underlying
// transition with an action tag, the acting identity, and operation-specific
// metadata. Each returns a new Payment; the caller persists the result.
//
// # External events
//
// Gateways report status through webhooks using their own vocabulary
// ("authorized", "refused", "chargedback", ...). FromExternalEvent resolves
// such values to canonical statuses and fails with *UnknownExternalStateError
// for anything outside the known set. ApplyExternalEvent resolves and
// transitions in one step, treating a value that resolves to the current
// status as a duplicate delivery: an idempotent no-op, not an error. The
// engine gives no ordering guarantee between concurrent webhook deliveries;
// the caller must feed the instance matching the entity's last persisted
// state.
package payment
