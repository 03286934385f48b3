package project

import (
	"github.com/google/uuid"

	"github.com/dmitrymomot/statekit/pkg/fsm"
)

// Status represents the project lifecycle state.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
	StatusDeleted   Status = "deleted"
)

// table is shared read-only by every Project instance. Archived projects can
// be republished.
var table = fsm.Table[Status]{
	StatusDraft:     {StatusPublished, StatusDeleted},
	StatusPublished: {StatusArchived},
	StatusArchived:  {StatusPublished, StatusDeleted},
	StatusDeleted:   {},
}

// Project is an immutable project lifecycle machine.
type Project struct {
	m fsm.Machine[Status]
}

// New creates a project in draft.
func New() Project {
	return Project{m: fsm.MustNew(table, StatusDraft)}
}

// FromStatus reconstructs a project loaded at a known status.
func FromStatus(s Status, opts ...fsm.Option[Status]) (Project, error) {
	m, err := fsm.Restore(table, s, opts...)
	if err != nil {
		return Project{}, err
	}
	return Project{m: m}, nil
}

// FromSnapshot reconstructs a project from its serialized projection.
func FromSnapshot(snap fsm.Snapshot[Status]) (Project, error) {
	m, err := fsm.FromSnapshot(table, snap)
	if err != nil {
		return Project{}, err
	}
	return Project{m: m}, nil
}

// Replay rebuilds a project from a persisted trail starting at draft.
func Replay(records []fsm.Record[Status]) (Project, error) {
	m, err := fsm.Replay(table, StatusDraft, records)
	if err != nil {
		return Project{}, err
	}
	return Project{m: m}, nil
}

// Publish makes the project publicly visible.
func (p Project) Publish(actor uuid.UUID) (Project, error) {
	return p.transition(StatusPublished, map[string]any{
		"action":   "publish",
		"actor_id": actor.String(),
	})
}

// Archive withdraws a published project from public view.
func (p Project) Archive(actor uuid.UUID, reason string) (Project, error) {
	return p.transition(StatusArchived, map[string]any{
		"action":   "archive",
		"actor_id": actor.String(),
		"reason":   reason,
	})
}

// Republish restores an archived project to public view.
func (p Project) Republish(actor uuid.UUID) (Project, error) {
	return p.transition(StatusPublished, map[string]any{
		"action":   "republish",
		"actor_id": actor.String(),
	})
}

// Delete removes the project permanently.
func (p Project) Delete(actor uuid.UUID) (Project, error) {
	return p.transition(StatusDeleted, map[string]any{
		"action":   "delete",
		"actor_id": actor.String(),
	})
}

func (p Project) transition(target Status, metadata map[string]any) (Project, error) {
	next, err := p.m.TransitionTo(target, metadata)
	if err != nil {
		return Project{}, err
	}
	return Project{m: next}, nil
}

// Status returns the current lifecycle state.
func (p Project) Status() Status {
	return p.m.Current()
}

// IsEditable reports whether the project content may be modified.
func (p Project) IsEditable() bool {
	switch p.m.Current() {
	case StatusDraft, StatusArchived:
		return true
	}
	return false
}

// IsPublic reports whether the project is publicly visible.
func (p Project) IsPublic() bool {
	return p.m.Current() == StatusPublished
}

func (p Project) IsArchived() bool { return p.m.Current() == StatusArchived }

// IsFinal reports whether the project reached a terminal state.
func (p Project) IsFinal() bool {
	return p.m.Current() == StatusDeleted
}

func (p Project) CanTransitionTo(target Status) bool {
	return p.m.CanTransitionTo(target)
}

func (p Project) AvailableTransitions() []Status {
	return p.m.AvailableTransitions()
}

func (p Project) History() []fsm.Record[Status] {
	return p.m.History()
}

func (p Project) Metadata() map[string]any {
	return p.m.Metadata()
}

func (p Project) Snapshot() fsm.Snapshot[Status] {
	return p.m.Snapshot()
}

func (p Project) MarshalJSON() ([]byte, error) {
	return p.m.MarshalJSON()
}

// Equal reports structural equality of two projects.
func (p Project) Equal(other Project) bool {
	return p.m.Equal(other.m)
}

// Diagram renders the project lifecycle as a Mermaid state diagram.
func Diagram() string {
	return table.Mermaid(StatusDraft)
}
