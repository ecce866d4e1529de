package anymap_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krisalay/ui-memory/anymap"
	"github.com/krisalay/ui-memory/cell"
)

type state struct {
	A int32 `json:"a"`
}

type otherState struct {
	B string `json:"b"`
}

func TestOneSlotPerKey(t *testing.T) {
	m := anymap.New[int]()

	anymap.Insert(m, 1, state{A: 1})
	anymap.Insert(m, 2, state{A: 2})
	anymap.Insert(m, 1, "replaced")

	assert.Equal(t, 2, m.CountAll())
	assert.Equal(t, 1, anymap.Count[state](m))
	assert.Equal(t, 1, anymap.Count[string](m))

	_, ok := anymap.Get[state](m, 1)
	assert.False(t, ok)

	s, ok := anymap.Get[string](m, 1)
	require.True(t, ok)
	assert.Equal(t, "replaced", s)
}

func TestGetMutOrInsertWithDiscardsOtherType(t *testing.T) {
	m := anymap.New[string]()
	anymap.Insert(m, "k", otherState{B: "x"})

	p := anymap.GetMutOrInsertWith(m, "k", func() state { return state{A: 7} })
	assert.Equal(t, int32(7), p.A)
	p.A = 8

	got := anymap.GetOrDefault[state](m, "k")
	assert.Equal(t, int32(8), got.A)
	assert.Equal(t, 0, anymap.Count[otherState](m))
}

func TestResetAndRemove(t *testing.T) {
	m := anymap.New[int]()
	for i := 0; i < 5; i++ {
		anymap.Insert(m, i, state{A: int32(i)})
	}
	anymap.Insert(m, 10, "keep")

	anymap.Reset[state](m)
	assert.Equal(t, 1, m.CountAll())
	assert.True(t, m.Remove(10))
	assert.False(t, m.Remove(10))

	anymap.Insert(m, 1, 1)
	m.ResetAll()
	assert.Equal(t, 0, m.CountAll())
}

func TestCloneIsIndependent(t *testing.T) {
	m := anymap.New[int]()
	anymap.Insert(m, 1, state{A: 1})

	cp := m.Clone()
	p, ok := anymap.GetMut[state](cp, 1)
	require.True(t, ok)
	p.A = 2

	got, _ := anymap.Get[state](m, 1)
	assert.Equal(t, int32(1), got.A)
}

// roundTrip writes the map through JSON the way a persistence layer would.
func roundTrip(t *testing.T, m *anymap.AnyMap[int]) *anymap.AnyMap[int] {
	t.Helper()
	raw, err := json.Marshal(m.Snapshot())
	require.NoError(t, err)

	var entries []anymap.Entry[int]
	require.NoError(t, json.Unmarshal(raw, &entries))

	out := anymap.NewPersisted[int](cell.JSON)
	out.Restore(entries)
	return out
}

func TestDiscardDifferentStruct(t *testing.T) {
	m := anymap.NewPersisted[int](cell.JSON)
	anymap.Insert(m, 1, state{A: 42})

	restored := roundTrip(t, m)

	_, ok := anymap.Get[otherState](restored, 1)
	assert.False(t, ok)

	got, ok := anymap.Get[state](restored, 1)
	require.True(t, ok)
	assert.Equal(t, state{A: 42}, got)
}

func TestNewFieldBetweenRuns(t *testing.T) {
	type stateV2 struct {
		A int32  `json:"a"`
		B string `json:"b"`
	}

	// the previous run stored {"a":42} under stateV2's type id
	restored := anymap.NewPersisted[int](cell.JSON)
	restored.Restore([]anymap.Entry[int]{{
		Key:  1,
		Type: cell.TypeOf[stateV2](),
		Data: `{"a":42}`,
	}})

	got, ok := anymap.Get[stateV2](restored, 1)
	require.True(t, ok)
	assert.Equal(t, stateV2{A: 42}, got)
}

func TestTemporaryValuesAreNotPersisted(t *testing.T) {
	m := anymap.New[int]()
	anymap.Insert(m, 1, state{A: 1})
	assert.Empty(t, m.Snapshot())
}
