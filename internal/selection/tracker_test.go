package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/debitum/internal/models"
)

func TestStateFor(t *testing.T) {
	tests := []struct {
		size int
		want State
	}{
		{0, Empty},
		{1, Single},
		{2, Multiple},
		{10, Multiple},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, StateFor(tt.size))
		})
	}
}

func TestActionsFor(t *testing.T) {
	assert.Equal(t, Actions{Add: true}, ActionsFor(0))
	assert.Equal(t, Actions{Edit: true, Delete: true}, ActionsFor(1))
	assert.Equal(t, Actions{Delete: true}, ActionsFor(2))
	assert.Equal(t, Actions{Delete: true}, ActionsFor(7))
}

func TestTracker_SelectIsIdempotent(t *testing.T) {
	once := NewTracker()
	once.Select("a")

	twice := NewTracker()
	twice.Select("a")
	twice.Select("a")

	assert.Equal(t, once.Keys(), twice.Keys())
	assert.Equal(t, once.State(), twice.State())
	assert.Equal(t, Single, twice.State())
}

func TestTracker_Transitions(t *testing.T) {
	tr := NewTracker()
	assert.Equal(t, Empty, tr.State())

	tr.Select("a")
	assert.Equal(t, Single, tr.State())

	tr.Select("b")
	assert.Equal(t, Multiple, tr.State())
	assert.Equal(t, []models.PersonID{"a", "b"}, tr.Keys())

	tr.Deselect("a")
	assert.Equal(t, Single, tr.State())
	assert.False(t, tr.IsSelected("a"))
	assert.True(t, tr.IsSelected("b"))

	tr.Deselect("missing")
	assert.Equal(t, 1, tr.Size())

	tr.Toggle("b")
	assert.Equal(t, Empty, tr.State())
	tr.Toggle("b")
	assert.True(t, tr.IsSelected("b"))
}

func TestTracker_ClearAlwaysEmpties(t *testing.T) {
	for _, keys := range [][]models.PersonID{nil, {"a"}, {"a", "b", "c"}} {
		tr := NewTracker()
		for _, k := range keys {
			tr.Select(k)
		}
		tr.Clear()
		assert.Equal(t, Empty, tr.State())
		assert.Empty(t, tr.Keys())
	}
}

func TestTracker_SnapshotIsIndependent(t *testing.T) {
	tr := NewTracker()
	tr.Select("a")
	tr.Select("b")

	snap := tr.Snapshot()
	tr.Clear()
	tr.Select("c")

	assert.Equal(t, []models.PersonID{"a", "b"}, snap)
}

func TestTracker_NotifiesEveryMutation(t *testing.T) {
	tr := NewTracker()
	var changes []Change
	cancel := tr.Observe(func(c Change) { changes = append(changes, c) })

	tr.Select("a")
	tr.Select("b")
	tr.Select("b")
	tr.Toggle("a")
	tr.Clear()

	require.Len(t, changes, 5)
	assert.Equal(t, Change{Size: 1, State: Single}, changes[0])
	assert.Equal(t, Change{Size: 2, State: Multiple}, changes[1])
	assert.Equal(t, Change{Size: 2, State: Multiple}, changes[2])
	assert.Equal(t, Change{Size: 1, State: Single}, changes[3])
	assert.Equal(t, Change{Size: 0, State: Empty}, changes[4])

	cancel()
	tr.Select("z")
	assert.Len(t, changes, 5)
}

func TestTracker_ObserverMayQueryTracker(t *testing.T) {
	tr := NewTracker()
	var seen []models.PersonID
	tr.Observe(func(Change) { seen = tr.Keys() })

	tr.Select("a")
	assert.Equal(t, []models.PersonID{"a"}, seen)
}
