package fsm

import (
	"encoding/json"
)

// Snapshot is the serializable projection of a machine, consumed by
// persistence and response layers. Slices and the metadata map are always
// non-nil so the JSON encoding carries [] and {} rather than null or a
// missing key for terminal or fresh machines.
type Snapshot[S ~string] struct {
	CurrentState         S              `json:"current_state"`
	AvailableTransitions []S            `json:"available_transitions"`
	History              []Record[S]    `json:"history"`
	Metadata             map[string]any `json:"metadata"`
}

// Snapshot projects the machine into its serializable form.
func (m Machine[S]) Snapshot() Snapshot[S] {
	history := m.History()
	if history == nil {
		history = []Record[S]{}
	}
	metadata := m.Metadata()
	if metadata == nil {
		metadata = map[string]any{}
	}
	return Snapshot[S]{
		CurrentState:         m.current,
		AvailableTransitions: m.AvailableTransitions(),
		History:              history,
		Metadata:             metadata,
	}
}

func (m Machine[S]) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Snapshot())
}
