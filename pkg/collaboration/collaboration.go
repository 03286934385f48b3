package collaboration

import (
	"github.com/google/uuid"

	"github.com/dmitrymomot/statekit/pkg/fsm"
)

// Status represents the collaboration lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusRejected  Status = "rejected"
	StatusFinished  Status = "finished"
	StatusCancelled Status = "cancelled"
)

// table is shared read-only by every Collaboration instance. A rejected
// collaboration can be resubmitted, re-entering the review cycle.
var table = fsm.Table[Status]{
	StatusPending:   {StatusActive, StatusRejected},
	StatusRejected:  {StatusPending},
	StatusActive:    {StatusFinished, StatusCancelled},
	StatusFinished:  {},
	StatusCancelled: {},
}

// Collaboration is an immutable collaboration lifecycle machine.
type Collaboration struct {
	m fsm.Machine[Status]
}

// New creates a collaboration awaiting review.
func New() Collaboration {
	return Collaboration{m: fsm.MustNew(table, StatusPending)}
}

// FromStatus reconstructs a collaboration loaded at a known status.
func FromStatus(s Status, opts ...fsm.Option[Status]) (Collaboration, error) {
	m, err := fsm.Restore(table, s, opts...)
	if err != nil {
		return Collaboration{}, err
	}
	return Collaboration{m: m}, nil
}

// FromSnapshot reconstructs a collaboration from its serialized projection.
func FromSnapshot(snap fsm.Snapshot[Status]) (Collaboration, error) {
	m, err := fsm.FromSnapshot(table, snap)
	if err != nil {
		return Collaboration{}, err
	}
	return Collaboration{m: m}, nil
}

// Replay rebuilds a collaboration from a persisted trail starting at pending.
func Replay(records []fsm.Record[Status]) (Collaboration, error) {
	m, err := fsm.Replay(table, StatusPending, records)
	if err != nil {
		return Collaboration{}, err
	}
	return Collaboration{m: m}, nil
}

// Approve activates a pending collaboration.
func (c Collaboration) Approve(actor uuid.UUID) (Collaboration, error) {
	return c.transition(StatusActive, map[string]any{
		"action":   "approve",
		"actor_id": actor.String(),
	})
}

// Reject declines a pending collaboration with a reviewer reason.
func (c Collaboration) Reject(actor uuid.UUID, reason string) (Collaboration, error) {
	return c.transition(StatusRejected, map[string]any{
		"action":   "reject",
		"actor_id": actor.String(),
		"reason":   reason,
	})
}

// Resubmit returns a rejected collaboration to the review queue.
func (c Collaboration) Resubmit(actor uuid.UUID) (Collaboration, error) {
	return c.transition(StatusPending, map[string]any{
		"action":   "resubmit",
		"actor_id": actor.String(),
	})
}

// Finish completes an active collaboration.
func (c Collaboration) Finish(actor uuid.UUID) (Collaboration, error) {
	return c.transition(StatusFinished, map[string]any{
		"action":   "finish",
		"actor_id": actor.String(),
	})
}

// Cancel aborts an active collaboration.
func (c Collaboration) Cancel(actor uuid.UUID, reason string) (Collaboration, error) {
	return c.transition(StatusCancelled, map[string]any{
		"action":   "cancel",
		"actor_id": actor.String(),
		"reason":   reason,
	})
}

func (c Collaboration) transition(target Status, metadata map[string]any) (Collaboration, error) {
	next, err := c.m.TransitionTo(target, metadata)
	if err != nil {
		return Collaboration{}, err
	}
	return Collaboration{m: next}, nil
}

// Status returns the current lifecycle state.
func (c Collaboration) Status() Status {
	return c.m.Current()
}

func (c Collaboration) IsActive() bool { return c.m.Current() == StatusActive }

// IsEditable reports whether the owner may still modify the collaboration.
func (c Collaboration) IsEditable() bool {
	switch c.m.Current() {
	case StatusPending, StatusRejected:
		return true
	}
	return false
}

// CanReceiveDonations reports whether the collaboration accepts contributions.
func (c Collaboration) CanReceiveDonations() bool {
	return c.m.Current() == StatusActive
}

// IsFinal reports whether the collaboration reached a terminal state.
func (c Collaboration) IsFinal() bool {
	switch c.m.Current() {
	case StatusFinished, StatusCancelled:
		return true
	}
	return false
}

func (c Collaboration) CanTransitionTo(target Status) bool {
	return c.m.CanTransitionTo(target)
}

func (c Collaboration) AvailableTransitions() []Status {
	return c.m.AvailableTransitions()
}

func (c Collaboration) History() []fsm.Record[Status] {
	return c.m.History()
}

func (c Collaboration) Metadata() map[string]any {
	return c.m.Metadata()
}

func (c Collaboration) Snapshot() fsm.Snapshot[Status] {
	return c.m.Snapshot()
}

func (c Collaboration) MarshalJSON() ([]byte, error) {
	return c.m.MarshalJSON()
}

// Equal reports structural equality of two collaborations.
func (c Collaboration) Equal(other Collaboration) bool {
	return c.m.Equal(other.m)
}

// Diagram renders the collaboration lifecycle as a Mermaid state diagram.
func Diagram() string {
	return table.Mermaid(StatusPending)
}
