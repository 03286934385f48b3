package fsm_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/statekit/pkg/fsm"
)

type docState string

const (
	draft     docState = "draft"
	review    docState = "review"
	published docState = "published"
	rejected  docState = "rejected"
	archived  docState = "archived"
)

var docTable = fsm.Table[docState]{
	draft:     {review},
	review:    {published, rejected},
	rejected:  {review},
	published: {archived},
	archived:  {},
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("fresh machine at initial state", func(t *testing.T) {
		t.Parallel()
		m, err := fsm.New(docTable, draft)
		require.NoError(t, err)
		assert.Equal(t, draft, m.Current())
		assert.Empty(t, m.History())
		assert.Empty(t, m.Metadata())
	})

	t.Run("empty table rejected", func(t *testing.T) {
		t.Parallel()
		_, err := fsm.New(fsm.Table[docState]{}, draft)
		require.ErrorIs(t, err, fsm.ErrEmptyTable)
	})

	t.Run("state outside table rejected", func(t *testing.T) {
		t.Parallel()
		_, err := fsm.New(docTable, docState("limbo"))
		require.ErrorIs(t, err, fsm.ErrUnknownState)
	})

	t.Run("destination-only state accepted", func(t *testing.T) {
		t.Parallel()
		table := fsm.Table[docState]{draft: {published}}
		m, err := fsm.New(table, published)
		require.NoError(t, err)
		assert.Empty(t, m.AvailableTransitions())
	})
}

func TestTransitionTo(t *testing.T) {
	t.Parallel()

	t.Run("legal transition produces new instance", func(t *testing.T) {
		t.Parallel()
		m := fsm.MustNew(docTable, draft)

		next, err := m.TransitionTo(review, map[string]any{"actor_id": "u1"})
		require.NoError(t, err)

		assert.Equal(t, review, next.Current())
		require.Len(t, next.History(), 1)
		rec := next.History()[0]
		assert.Equal(t, draft, rec.From)
		assert.Equal(t, review, rec.To)
		assert.Equal(t, "u1", rec.Metadata["actor_id"])
		assert.NotZero(t, rec.ID)
		assert.False(t, rec.At.IsZero())
	})

	t.Run("source instance is never mutated", func(t *testing.T) {
		t.Parallel()
		m := fsm.MustNew(docTable, draft)

		_, err := m.TransitionTo(review, map[string]any{"k": "v"})
		require.NoError(t, err)

		assert.Equal(t, draft, m.Current())
		assert.Empty(t, m.History())
		assert.Empty(t, m.Metadata())
	})

	t.Run("illegal target fails with full diagnostics", func(t *testing.T) {
		t.Parallel()
		m := fsm.MustNew(docTable, review)

		_, err := m.TransitionTo(archived, nil)
		require.Error(t, err)
		require.True(t, fsm.IsInvalidTransitionError(err))

		var ite *fsm.InvalidTransitionError
		require.ErrorAs(t, err, &ite)
		assert.Equal(t, "review", ite.From)
		assert.Equal(t, "archived", ite.To)
		assert.Equal(t, []string{"published", "rejected"}, ite.Allowed)
	})

	t.Run("failure appends no history", func(t *testing.T) {
		t.Parallel()
		m := fsm.MustNew(docTable, draft)
		next, err := m.TransitionTo(review, nil)
		require.NoError(t, err)

		_, err = next.TransitionTo(archived, nil)
		require.Error(t, err)
		assert.Len(t, next.History(), 1)
	})

	t.Run("any transition from terminal state fails", func(t *testing.T) {
		t.Parallel()
		m := fsm.MustNew(docTable, archived)
		assert.Empty(t, m.AvailableTransitions())

		for _, target := range []docState{draft, review, published, archived} {
			_, err := m.TransitionTo(target, nil)
			require.True(t, fsm.IsInvalidTransitionError(err), "target %s", target)

			var ite *fsm.InvalidTransitionError
			require.ErrorAs(t, err, &ite)
			assert.Empty(t, ite.Allowed)
		}
	})

	t.Run("history grows by one per transition and stays ordered", func(t *testing.T) {
		t.Parallel()
		m := fsm.MustNew(docTable, draft)

		m, err := m.TransitionTo(review, nil)
		require.NoError(t, err)
		m, err = m.TransitionTo(rejected, nil)
		require.NoError(t, err)
		m, err = m.TransitionTo(review, nil)
		require.NoError(t, err)

		hist := m.History()
		require.Len(t, hist, 3)
		assert.Equal(t, review, hist[0].To)
		assert.Equal(t, rejected, hist[1].To)
		assert.Equal(t, review, hist[2].To)
		for i := 1; i < len(hist); i++ {
			assert.False(t, hist[i].At.Before(hist[i-1].At))
		}
	})
}

func TestCanTransitionTo(t *testing.T) {
	t.Parallel()

	m := fsm.MustNew(docTable, rejected)
	assert.True(t, m.CanTransitionTo(review))
	assert.False(t, m.CanTransitionTo(published))
	assert.False(t, m.CanTransitionTo(docState("limbo")))
}

func TestMetadataAggregation(t *testing.T) {
	t.Parallel()

	t.Run("later keys override, records keep their own view", func(t *testing.T) {
		t.Parallel()
		m := fsm.MustNew(docTable, draft)

		m, err := m.TransitionTo(review, map[string]any{"actor_id": "u1", "note": "first"})
		require.NoError(t, err)
		m, err = m.TransitionTo(rejected, map[string]any{"actor_id": "u2", "reason": "typos"})
		require.NoError(t, err)

		agg := m.Metadata()
		assert.Equal(t, "u2", agg["actor_id"])
		assert.Equal(t, "first", agg["note"])
		assert.Equal(t, "typos", agg["reason"])

		hist := m.History()
		assert.Equal(t, map[string]any{"actor_id": "u1", "note": "first"}, hist[0].Metadata)
		assert.Equal(t, map[string]any{"actor_id": "u2", "reason": "typos"}, hist[1].Metadata)
	})

	t.Run("caller mutations of inputs and views do not leak", func(t *testing.T) {
		t.Parallel()
		in := map[string]any{"actor_id": "u1"}
		m := fsm.MustNew(docTable, draft)
		m, err := m.TransitionTo(review, in)
		require.NoError(t, err)

		in["actor_id"] = "tampered"
		assert.Equal(t, "u1", m.Metadata()["actor_id"])

		view := m.History()
		view[0].Metadata["actor_id"] = "tampered"
		assert.Equal(t, "u1", m.History()[0].Metadata["actor_id"])

		agg := m.Metadata()
		agg["actor_id"] = "tampered"
		assert.Equal(t, "u1", m.Metadata()["actor_id"])
	})
}

func TestRestore(t *testing.T) {
	t.Parallel()

	m := fsm.MustNew(docTable, draft)
	m, err := m.TransitionTo(review, map[string]any{"actor_id": "u1"})
	require.NoError(t, err)

	restored, err := fsm.Restore(docTable, m.Current(),
		fsm.WithHistory(m.History()),
		fsm.WithMetadata[docState](m.Metadata()),
	)
	require.NoError(t, err)
	assert.True(t, restored.Equal(m))
}

func TestFromSnapshot(t *testing.T) {
	t.Parallel()

	t.Run("round-trips a machine with history and metadata", func(t *testing.T) {
		t.Parallel()
		m := fsm.MustNew(docTable, draft)
		m, err := m.TransitionTo(review, map[string]any{"actor_id": "u1"})
		require.NoError(t, err)
		m, err = m.TransitionTo(rejected, map[string]any{"reason": "typos"})
		require.NoError(t, err)

		restored, err := fsm.FromSnapshot(docTable, m.Snapshot())
		require.NoError(t, err)
		assert.True(t, restored.Equal(m))
		assert.Equal(t, m.Snapshot(), restored.Snapshot())
	})

	t.Run("round-trips a fresh machine", func(t *testing.T) {
		t.Parallel()
		m := fsm.MustNew(docTable, draft)
		restored, err := fsm.FromSnapshot(docTable, m.Snapshot())
		require.NoError(t, err)
		assert.True(t, restored.Equal(m))
	})

	t.Run("rejects a snapshot at an unknown state", func(t *testing.T) {
		t.Parallel()
		_, err := fsm.FromSnapshot(docTable, fsm.Snapshot[docState]{CurrentState: "limbo"})
		require.ErrorIs(t, err, fsm.ErrUnknownState)
	})
}

func TestReplay(t *testing.T) {
	t.Parallel()

	t.Run("reproduces an equal snapshot", func(t *testing.T) {
		t.Parallel()
		m := fsm.MustNew(docTable, draft)
		m, err := m.TransitionTo(review, map[string]any{"actor_id": "u1"})
		require.NoError(t, err)
		m, err = m.TransitionTo(published, map[string]any{"actor_id": "u2"})
		require.NoError(t, err)

		replayed, err := fsm.Replay(docTable, draft, m.History())
		require.NoError(t, err)
		assert.True(t, replayed.Equal(m))
		assert.Equal(t, m.Snapshot(), replayed.Snapshot())
	})

	t.Run("rejects a gap in the trail", func(t *testing.T) {
		t.Parallel()
		m := fsm.MustNew(docTable, draft)
		m, err := m.TransitionTo(review, nil)
		require.NoError(t, err)
		m, err = m.TransitionTo(published, nil)
		require.NoError(t, err)

		hist := m.History()
		_, err = fsm.Replay(docTable, draft, hist[1:])
		require.ErrorIs(t, err, fsm.ErrDiscontinuousHistory)
	})

	t.Run("rejects a hop the table forbids", func(t *testing.T) {
		t.Parallel()
		bad := []fsm.Record[docState]{{From: draft, To: archived}}
		_, err := fsm.Replay(docTable, draft, bad)
		require.True(t, fsm.IsInvalidTransitionError(err))
	})
}

func TestEqual(t *testing.T) {
	t.Parallel()

	t.Run("same walk compares equal, identity is irrelevant", func(t *testing.T) {
		t.Parallel()
		a := fsm.MustNew(docTable, draft)
		b := fsm.MustNew(docTable, draft)
		assert.True(t, a.Equal(b))
	})

	t.Run("differing history breaks equality even at same state", func(t *testing.T) {
		t.Parallel()
		a := fsm.MustNew(docTable, review)

		b := fsm.MustNew(docTable, draft)
		b, err := b.TransitionTo(review, nil)
		require.NoError(t, err)

		assert.Equal(t, a.Current(), b.Current())
		assert.False(t, a.Equal(b))
	})

	t.Run("differing metadata breaks equality", func(t *testing.T) {
		t.Parallel()
		a, err := fsm.Restore(docTable, review, fsm.WithMetadata[docState](map[string]any{"k": "a"}))
		require.NoError(t, err)
		b, err := fsm.Restore(docTable, review, fsm.WithMetadata[docState](map[string]any{"k": "b"}))
		require.NoError(t, err)
		assert.False(t, a.Equal(b))
	})
}

func TestSnapshotJSON(t *testing.T) {
	t.Parallel()

	t.Run("projection shape", func(t *testing.T) {
		t.Parallel()
		m := fsm.MustNew(docTable, draft)
		m, err := m.TransitionTo(review, map[string]any{"actor_id": "u1"})
		require.NoError(t, err)

		raw, err := json.Marshal(m)
		require.NoError(t, err)

		var out map[string]any
		require.NoError(t, json.Unmarshal(raw, &out))
		assert.Equal(t, "review", out["current_state"])
		assert.Equal(t, []any{"published", "rejected"}, out["available_transitions"])
		require.Len(t, out["history"], 1)
		assert.Equal(t, map[string]any{"actor_id": "u1"}, out["metadata"])
	})

	t.Run("terminal machine serializes empty slices, not null", func(t *testing.T) {
		t.Parallel()
		m := fsm.MustNew(docTable, archived)
		raw, err := json.Marshal(m)
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"available_transitions":[]`)
		assert.Contains(t, string(raw), `"history":[]`)
		assert.Contains(t, string(raw), `"metadata":{}`)
	})
}

func TestTable(t *testing.T) {
	t.Parallel()

	t.Run("terminal detection", func(t *testing.T) {
		t.Parallel()
		assert.True(t, docTable.IsTerminal(archived))
		assert.False(t, docTable.IsTerminal(review))
	})

	t.Run("destinations are copies", func(t *testing.T) {
		t.Parallel()
		dests := docTable.Destinations(review)
		require.Equal(t, []docState{published, rejected}, dests)
		dests[0] = draft
		assert.Equal(t, []docState{published, rejected}, docTable.Destinations(review))
	})

	t.Run("states sorted and complete", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t,
			[]docState{archived, draft, published, rejected, review},
			docTable.States(),
		)
	})
}
