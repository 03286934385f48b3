// Package fsm provides a generic, immutable finite-state-machine engine for
// modeling business entity lifecycles.
//
// The engine is a pure computation library: it performs no I/O, owns no
// persistence, and completes every operation synchronously in bounded time.
// Callers hold the last known Machine value for an entity, invoke a
// transition, and persist or propagate the returned instance themselves.
//
// # Architecture
//
// Three pieces cooperate:
//
//   - Table: a static map from each state to its ordered reachable set,
//     constructed once as a literal and shared read-only by every machine.
//   - Machine: an immutable instance holding the current state, a reference to
//     the shared table, the ordered transition history, and aggregate
//     metadata. TransitionTo returns a new Machine; the source is never
//     touched.
//   - Record: one append-only audit entry per executed transition (from, to,
//     UTC timestamp, transition-local metadata, and a unique ID for
//     deduplication by the persistence layer).
//
// Because nothing is mutated in place, concurrent reads of a machine and
// concurrent use of one table across goroutines are safe without locks.
//
// # Usage
//
//	var table = fsm.Table[string]{
//		"draft":     {"published"},
//		"published": {"archived"},
//		"archived":  {"published"},
//	}
//
//	m := fsm.MustNew(table, "draft")
//	m, err := m.TransitionTo("published", map[string]any{"actor_id": id})
//	if err != nil {
//		// *InvalidTransitionError carries From, To, and the allowed set
//	}
//
// # Metadata
//
// Each transition's metadata is kept twice, deliberately: verbatim on its own
// history record, and shallow-merged into the machine's aggregate metadata
// where later transitions override earlier keys. The aggregate answers "what
// is known about the entity now", the records answer "what exactly happened
// at each step".
//
// # Restoration and replay
//
// Restore reconstructs a machine for an entity loaded from storage at a known
// state, trusting the supplied history; FromSnapshot does the same from a
// machine's serialized projection. Replay instead re-applies a stored trail
// hop by hop, re-validating each record against the table; replaying a
// machine's own History from the initial state reproduces an equal Snapshot.
//
// # Error Handling
//
// Illegal transitions fail with *InvalidTransitionError, which reports the
// source state, the requested target, and the full allowed-destination set.
// Use IsInvalidTransitionError to branch on it:
//
//	if fsm.IsInvalidTransitionError(err) { /* surface "not allowed" */ }
//
// Construction misuse surfaces as the ErrEmptyTable, ErrUnknownState, and
// ErrDiscontinuousHistory sentinels.
package fsm
