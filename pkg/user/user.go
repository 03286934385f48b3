package user

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/statekit/pkg/fsm"
)

// Status represents the user account lifecycle state.
type Status string

const (
	StatusPendingVerification Status = "pending_verification"
	StatusActive              Status = "active"
	StatusInactive            Status = "inactive"
	StatusSuspended           Status = "suspended"
	StatusBanned              Status = "banned"
	StatusDeleted             Status = "deleted"
)

// table is shared read-only by every User instance. Suspended and inactive
// accounts can be reactivated; a banned account can only be deleted.
var table = fsm.Table[Status]{
	StatusPendingVerification: {StatusActive, StatusDeleted},
	StatusActive:              {StatusInactive, StatusSuspended, StatusBanned, StatusDeleted},
	StatusInactive:            {StatusActive, StatusDeleted},
	StatusSuspended:           {StatusActive, StatusBanned, StatusDeleted},
	StatusBanned:              {StatusDeleted},
	StatusDeleted:             {},
}

// User is an immutable user account lifecycle machine.
type User struct {
	m fsm.Machine[Status]
}

// New creates a user awaiting verification.
func New() User {
	return User{m: fsm.MustNew(table, StatusPendingVerification)}
}

// FromStatus reconstructs a user loaded at a known status.
func FromStatus(s Status, opts ...fsm.Option[Status]) (User, error) {
	m, err := fsm.Restore(table, s, opts...)
	if err != nil {
		return User{}, err
	}
	return User{m: m}, nil
}

// FromSnapshot reconstructs a user from its serialized projection.
func FromSnapshot(snap fsm.Snapshot[Status]) (User, error) {
	m, err := fsm.FromSnapshot(table, snap)
	if err != nil {
		return User{}, err
	}
	return User{m: m}, nil
}

// Replay rebuilds a user from a persisted trail starting at
// pending_verification.
func Replay(records []fsm.Record[Status]) (User, error) {
	m, err := fsm.Replay(table, StatusPendingVerification, records)
	if err != nil {
		return User{}, err
	}
	return User{m: m}, nil
}

// Verify activates a freshly registered account.
func (u User) Verify(actor uuid.UUID) (User, error) {
	return u.transition(StatusActive, map[string]any{
		"action":   "verify",
		"actor_id": actor.String(),
	})
}

// Deactivate moves an active account to inactive, typically at the user's own
// request.
func (u User) Deactivate(actor uuid.UUID, reason string) (User, error) {
	return u.transition(StatusInactive, map[string]any{
		"action":   "deactivate",
		"actor_id": actor.String(),
		"reason":   reason,
	})
}

// Suspend blocks the account for the given duration. The computed expiry is
// carried as plain metadata under "suspension_expires_at": the engine never
// applies it, lifting the suspension is the surrounding system's job.
func (u User) Suspend(actor uuid.UUID, reason string, d time.Duration) (User, error) {
	return u.transition(StatusSuspended, map[string]any{
		"action":                "suspend",
		"actor_id":              actor.String(),
		"reason":                reason,
		"suspension_expires_at": time.Now().UTC().Add(d).Format(time.RFC3339),
	})
}

// Ban blocks the account permanently; only deletion remains.
func (u User) Ban(actor uuid.UUID, reason string) (User, error) {
	return u.transition(StatusBanned, map[string]any{
		"action":   "ban",
		"actor_id": actor.String(),
		"reason":   reason,
	})
}

// Reactivate restores an inactive or suspended account.
func (u User) Reactivate(actor uuid.UUID) (User, error) {
	return u.transition(StatusActive, map[string]any{
		"action":   "reactivate",
		"actor_id": actor.String(),
	})
}

// Delete removes the account permanently.
func (u User) Delete(actor uuid.UUID) (User, error) {
	return u.transition(StatusDeleted, map[string]any{
		"action":   "delete",
		"actor_id": actor.String(),
	})
}

func (u User) transition(target Status, metadata map[string]any) (User, error) {
	next, err := u.m.TransitionTo(target, metadata)
	if err != nil {
		return User{}, err
	}
	return User{m: next}, nil
}

// Status returns the current lifecycle state.
func (u User) Status() Status {
	return u.m.Current()
}

// CanLogin reports whether the account may open a session.
func (u User) CanLogin() bool {
	return u.m.Current() == StatusActive
}

// IsBlocked reports whether the account is suspended or banned.
func (u User) IsBlocked() bool {
	switch u.m.Current() {
	case StatusSuspended, StatusBanned:
		return true
	}
	return false
}

// NeedsVerification reports whether the account has not completed sign-up.
func (u User) NeedsVerification() bool {
	return u.m.Current() == StatusPendingVerification
}

func (u User) IsSuspended() bool { return u.m.Current() == StatusSuspended }

// IsFinal reports whether the account reached a terminal state.
func (u User) IsFinal() bool {
	return u.m.Current() == StatusDeleted
}

func (u User) CanTransitionTo(target Status) bool {
	return u.m.CanTransitionTo(target)
}

func (u User) AvailableTransitions() []Status {
	return u.m.AvailableTransitions()
}

func (u User) History() []fsm.Record[Status] {
	return u.m.History()
}

func (u User) Metadata() map[string]any {
	return u.m.Metadata()
}

func (u User) Snapshot() fsm.Snapshot[Status] {
	return u.m.Snapshot()
}

func (u User) MarshalJSON() ([]byte, error) {
	return u.m.MarshalJSON()
}

// Equal reports structural equality of two users.
func (u User) Equal(other User) bool {
	return u.m.Equal(other.m)
}

// Diagram renders the user lifecycle as a Mermaid state diagram.
func Diagram() string {
	return table.Mermaid(StatusPendingVerification)
}
