package fsm

import (
	"fmt"
	"maps"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Machine is an immutable finite-state-machine instance bound to a shared
// read-only transition table. Every transition produces a new Machine value
// and leaves the source untouched, so instances can be passed around and read
// concurrently without locks; "mutation" is always expressed as producing a
// new value that the caller propagates.
type Machine[S ~string] struct {
	current  S
	table    Table[S]
	history  []Record[S]
	metadata map[string]any
}

// Option configures a machine during restoration.
type Option[S ~string] func(*Machine[S])

// WithHistory seeds the restored machine with a previously persisted trail.
// The records are copied; the machine does not re-validate them (use Replay
// when the trail must be checked against the table).
func WithHistory[S ~string](records []Record[S]) Option[S] {
	return func(m *Machine[S]) {
		m.history = cloneRecords(records)
	}
}

// WithMetadata seeds the restored machine with its aggregate metadata.
func WithMetadata[S ~string](metadata map[string]any) Option[S] {
	return func(m *Machine[S]) {
		m.metadata = maps.Clone(metadata)
	}
}

// New creates a machine at the given initial state with no history. It fails
// with ErrEmptyTable or ErrUnknownState when the table cannot host the state.
func New[S ~string](table Table[S], initial S) (Machine[S], error) {
	if len(table) == 0 {
		return Machine[S]{}, ErrEmptyTable
	}
	if !table.Knows(initial) {
		return Machine[S]{}, fmt.Errorf("%w: %q", ErrUnknownState, string(initial))
	}
	return Machine[S]{current: initial, table: table}, nil
}

// MustNew is like New but panics on error. Intended for static domain tables
// whose validity is established at package init.
func MustNew[S ~string](table Table[S], initial S) Machine[S] {
	m, err := New(table, initial)
	if err != nil {
		panic(fmt.Sprintf("fsm: %v", err))
	}
	return m
}

// Restore reconstructs a machine for an entity loaded at a known state,
// optionally carrying its persisted history and aggregate metadata.
func Restore[S ~string](table Table[S], current S, opts ...Option[S]) (Machine[S], error) {
	m, err := New(table, current)
	if err != nil {
		return Machine[S]{}, err
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m, nil
}

// FromSnapshot reconstructs a machine from its serialized projection,
// trusting the snapshot's history and metadata the way Restore trusts its
// caller. Round-trips with Snapshot: FromSnapshot(table, m.Snapshot())
// yields a machine equal to m.
func FromSnapshot[S ~string](table Table[S], snap Snapshot[S]) (Machine[S], error) {
	return Restore(table, snap.CurrentState,
		WithHistory(snap.History),
		WithMetadata[S](snap.Metadata),
	)
}

// Replay rebuilds a machine by applying a stored trail record by record from
// the initial state, re-validating every hop against the table and preserving
// each record's ID, timestamp, and metadata. A machine replayed from another's
// History yields an equal Snapshot.
func Replay[S ~string](table Table[S], initial S, records []Record[S]) (Machine[S], error) {
	m, err := New(table, initial)
	if err != nil {
		return Machine[S]{}, err
	}
	for i, rec := range records {
		if rec.From != m.current {
			return Machine[S]{}, fmt.Errorf("%w: record %d starts at %q but machine is at %q",
				ErrDiscontinuousHistory, i, string(rec.From), string(m.current))
		}
		if !m.table.CanTransition(m.current, rec.To) {
			return Machine[S]{}, newInvalidTransitionError(m.current, rec.To, m.table.Destinations(m.current))
		}
		m = m.apply(rec.clone())
	}
	return m, nil
}

// Current returns the machine's current state.
func (m Machine[S]) Current() S {
	return m.current
}

// CanTransitionTo reports whether target is directly reachable from the
// current state. Unknown targets and terminal states yield false, never an
// error.
func (m Machine[S]) CanTransitionTo(target S) bool {
	return m.table.CanTransition(m.current, target)
}

// AvailableTransitions returns the ordered legal destinations from the current
// state; empty for terminal states.
func (m Machine[S]) AvailableTransitions() []S {
	return m.table.Destinations(m.current)
}

// TransitionTo applies a transition to target and returns the resulting
// machine. The receiver is left unchanged. On an illegal target it returns an
// *InvalidTransitionError reporting the current state, the requested target,
// and the full allowed set; no history record is appended on failure.
//
// The metadata map is recorded verbatim on the new history record and
// shallow-merged over the machine's aggregate metadata, later transitions
// overriding earlier values key by key.
func (m Machine[S]) TransitionTo(target S, metadata map[string]any) (Machine[S], error) {
	if !m.table.CanTransition(m.current, target) {
		return Machine[S]{}, newInvalidTransitionError(m.current, target, m.table.Destinations(m.current))
	}
	rec := Record[S]{
		ID:       uuid.New(),
		From:     m.current,
		To:       target,
		At:       time.Now().UTC(),
		Metadata: maps.Clone(metadata),
	}
	return m.apply(rec), nil
}

// apply assumes rec is validated and exclusively owned by the new instance.
func (m Machine[S]) apply(rec Record[S]) Machine[S] {
	history := make([]Record[S], len(m.history)+1)
	copy(history, m.history)
	history[len(history)-1] = rec

	metadata := m.metadata
	if len(rec.Metadata) > 0 {
		metadata = maps.Clone(m.metadata)
		if metadata == nil {
			metadata = make(map[string]any, len(rec.Metadata))
		}
		maps.Copy(metadata, rec.Metadata)
	}

	return Machine[S]{
		current:  rec.To,
		table:    m.table,
		history:  history,
		metadata: metadata,
	}
}

// History returns the full ordered transition trail as a defensive copy;
// mutating the result never affects the machine.
func (m Machine[S]) History() []Record[S] {
	return cloneRecords(m.history)
}

// Metadata returns a copy of the aggregate metadata accumulated across all
// applied transitions.
func (m Machine[S]) Metadata() map[string]any {
	return maps.Clone(m.metadata)
}

// Equal reports structural equality: same current state, same full history,
// and same aggregate metadata. Two machines are never "the same instance"
// across transitions even when they share a state value; callers must compare
// with Equal, not identity.
func (m Machine[S]) Equal(other Machine[S]) bool {
	if m.current != other.current || len(m.history) != len(other.history) {
		return false
	}
	for i := range m.history {
		if !m.history[i].equal(other.history[i]) {
			return false
		}
	}
	return equalMetadata(m.metadata, other.metadata)
}

func equalMetadata(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || reflect.DeepEqual(a, b)
}
