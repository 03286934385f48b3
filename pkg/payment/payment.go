package payment

import (
	"github.com/google/uuid"

	"github.com/dmitrymomot/statekit/pkg/fsm"
)

// Status represents the canonical payment lifecycle state.
type Status string

const (
	StatusPending     Status = "pending"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
	StatusChargedBack Status = "charged_back"
	StatusRefunded    Status = "refunded"
)

// table is shared read-only by every Payment instance.
var table = fsm.Table[Status]{
	StatusPending:     {StatusApproved, StatusRejected},
	StatusApproved:    {StatusChargedBack, StatusRefunded},
	StatusRejected:    {},
	StatusChargedBack: {},
	StatusRefunded:    {},
}

// Payment is an immutable payment lifecycle machine. Named operations return a
// new Payment and leave the receiver unchanged; the caller persists the result.
type Payment struct {
	m fsm.Machine[Status]
}

// New creates a payment at the pending state.
func New() Payment {
	return Payment{m: fsm.MustNew(table, StatusPending)}
}

// FromStatus reconstructs a payment loaded at a known status. A status outside
// the canonical vocabulary fails with fsm.ErrUnknownState.
func FromStatus(s Status, opts ...fsm.Option[Status]) (Payment, error) {
	m, err := fsm.Restore(table, s, opts...)
	if err != nil {
		return Payment{}, err
	}
	return Payment{m: m}, nil
}

// FromSnapshot reconstructs a payment from its serialized projection.
func FromSnapshot(snap fsm.Snapshot[Status]) (Payment, error) {
	m, err := fsm.FromSnapshot(table, snap)
	if err != nil {
		return Payment{}, err
	}
	return Payment{m: m}, nil
}

// Replay rebuilds a payment from a persisted trail starting at pending,
// re-validating every hop.
func Replay(records []fsm.Record[Status]) (Payment, error) {
	m, err := fsm.Replay(table, StatusPending, records)
	if err != nil {
		return Payment{}, err
	}
	return Payment{m: m}, nil
}

// Approve marks the payment approved by the gateway or an operator.
func (p Payment) Approve(actor uuid.UUID, transactionID string) (Payment, error) {
	return p.transition(StatusApproved, map[string]any{
		"action":         "approve",
		"actor_id":       actor.String(),
		"transaction_id": transactionID,
	})
}

// Reject declines a pending payment.
func (p Payment) Reject(actor uuid.UUID, reason string) (Payment, error) {
	return p.transition(StatusRejected, map[string]any{
		"action":   "reject",
		"actor_id": actor.String(),
		"reason":   reason,
	})
}

// Chargeback records a dispute reversal of an approved payment.
func (p Payment) Chargeback(actor uuid.UUID, reason string) (Payment, error) {
	return p.transition(StatusChargedBack, map[string]any{
		"action":   "chargeback",
		"actor_id": actor.String(),
		"reason":   reason,
	})
}

// Refund returns an approved payment to the payer. Amount is in the smallest
// currency unit.
func (p Payment) Refund(actor uuid.UUID, amount int64) (Payment, error) {
	return p.transition(StatusRefunded, map[string]any{
		"action":   "refund",
		"actor_id": actor.String(),
		"amount":   amount,
	})
}

func (p Payment) transition(target Status, metadata map[string]any) (Payment, error) {
	next, err := p.m.TransitionTo(target, metadata)
	if err != nil {
		return Payment{}, err
	}
	return Payment{m: next}, nil
}

// Status returns the current canonical status.
func (p Payment) Status() Status {
	return p.m.Current()
}

func (p Payment) IsPending() bool  { return p.m.Current() == StatusPending }
func (p Payment) IsApproved() bool { return p.m.Current() == StatusApproved }

// IsFinal reports whether the payment reached a terminal status.
func (p Payment) IsFinal() bool {
	switch p.m.Current() {
	case StatusRejected, StatusChargedBack, StatusRefunded:
		return true
	}
	return false
}

// CanRefund reports whether a refund is currently legal.
func (p Payment) CanRefund() bool {
	return p.m.CanTransitionTo(StatusRefunded)
}

// CanChargeback reports whether a chargeback is currently legal.
func (p Payment) CanChargeback() bool {
	return p.m.CanTransitionTo(StatusChargedBack)
}

func (p Payment) CanTransitionTo(target Status) bool {
	return p.m.CanTransitionTo(target)
}

func (p Payment) AvailableTransitions() []Status {
	return p.m.AvailableTransitions()
}

func (p Payment) History() []fsm.Record[Status] {
	return p.m.History()
}

func (p Payment) Metadata() map[string]any {
	return p.m.Metadata()
}

func (p Payment) Snapshot() fsm.Snapshot[Status] {
	return p.m.Snapshot()
}

func (p Payment) MarshalJSON() ([]byte, error) {
	return p.m.MarshalJSON()
}

// Equal reports structural equality of two payments.
func (p Payment) Equal(other Payment) bool {
	return p.m.Equal(other.m)
}

// Diagram renders the payment lifecycle as a Mermaid state diagram.
func Diagram() string {
	return table.Mermaid(StatusPending)
}
