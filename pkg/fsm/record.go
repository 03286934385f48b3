package fsm

import (
	"maps"
	"time"

	"github.com/google/uuid"
)

// Record is a single immutable audit entry describing one executed transition.
// The ID lets callers deduplicate persisted trails; At is always UTC and
// serializes as RFC 3339. Metadata holds the transition-local details exactly
// as they were passed to TransitionTo, never merged or rewritten.
type Record[S ~string] struct {
	ID       uuid.UUID      `json:"id"`
	From     S              `json:"from"`
	To       S              `json:"to"`
	At       time.Time      `json:"at"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func (r Record[S]) clone() Record[S] {
	r.Metadata = maps.Clone(r.Metadata)
	return r
}

func (r Record[S]) equal(other Record[S]) bool {
	return r.ID == other.ID &&
		r.From == other.From &&
		r.To == other.To &&
		r.At.Equal(other.At) &&
		equalMetadata(r.Metadata, other.Metadata)
}

func cloneRecords[S ~string](records []Record[S]) []Record[S] {
	if records == nil {
		return nil
	}
	out := make([]Record[S], len(records))
	for i, r := range records {
		out[i] = r.clone()
	}
	return out
}
