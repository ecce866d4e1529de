package typemap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krisalay/ui-memory/cell"
	"github.com/krisalay/ui-memory/typemap"
)

type theme struct {
	Dark  bool    `json:"dark"`
	Scale float64 `json:"scale"`
}

type layout struct {
	Windows []string `json:"windows"`
}

func TestOneSlotPerType(t *testing.T) {
	m := typemap.New()

	typemap.Insert(m, theme{Dark: true})
	typemap.Insert(m, uint32(42))
	typemap.Insert(m, theme{Scale: 2})

	assert.Equal(t, 2, m.CountAll())
	assert.Equal(t, 1, typemap.Count[theme](m))
	assert.Equal(t, 0, typemap.Count[layout](m))

	got, ok := typemap.Get[theme](m)
	require.True(t, ok)
	assert.Equal(t, theme{Scale: 2}, got)

	n, ok := typemap.Get[uint32](m)
	require.True(t, ok)
	assert.Equal(t, uint32(42), n)
}

func TestGetOrInsert(t *testing.T) {
	m := typemap.New()

	assert.Equal(t, 0, typemap.GetOrDefault[int](m))
	p := typemap.GetMutOrDefault[int](m)
	*p = 5
	assert.Equal(t, 5, typemap.GetOrInsertWith(m, func() int { return 9 }))

	calls := 0
	l := typemap.GetMutOrInsertWith(m, func() layout {
		calls++
		return layout{Windows: []string{"main"}}
	})
	l.Windows = append(l.Windows, "side")
	typemap.GetMutOrInsertWith(m, func() layout {
		calls++
		return layout{}
	})
	assert.Equal(t, 1, calls)

	got, _ := typemap.Get[layout](m)
	assert.Equal(t, []string{"main", "side"}, got.Windows)
}

func TestResetAndRemove(t *testing.T) {
	m := typemap.New()
	typemap.Insert(m, 1)
	typemap.Insert(m, "x")

	typemap.Reset[int](m)
	assert.Equal(t, 0, typemap.Count[int](m))
	assert.False(t, typemap.Remove[int](m))
	assert.True(t, typemap.Remove[string](m))

	typemap.Insert(m, 1)
	m.ResetAll()
	assert.Equal(t, 0, m.CountAll())
}

func TestCloneIsIndependent(t *testing.T) {
	m := typemap.New()
	typemap.Insert(m, theme{Scale: 1})

	cp := m.Clone()
	p, _ := typemap.GetMut[theme](cp)
	p.Scale = 3

	got, _ := typemap.Get[theme](m)
	assert.Equal(t, 1.0, got.Scale)
}

func TestSnapshotRestore(t *testing.T) {
	m := typemap.NewPersisted(cell.JSON)
	typemap.Insert(m, theme{Dark: true, Scale: 1.5})
	typemap.Insert(m, layout{Windows: []string{"a"}})

	entries := m.Snapshot()
	require.Len(t, entries, 2)

	restored := typemap.NewPersisted(cell.JSON)
	restored.Restore(entries)
	assert.Equal(t, 2, restored.CountAll())
	assert.Equal(t, 2, restored.CountSerialized())

	got, ok := typemap.Get[theme](restored)
	require.True(t, ok)
	assert.Equal(t, theme{Dark: true, Scale: 1.5}, got)
	assert.Equal(t, 1, restored.CountSerialized())
}

func TestTemporaryMapSnapshotsNothing(t *testing.T) {
	m := typemap.New()
	typemap.Insert(m, 1)
	assert.Empty(t, m.Snapshot())

	m.Restore([]typemap.Entry{{Type: cell.TypeOf[int](), Data: "1"}})
	assert.Equal(t, 1, m.CountAll(), "restore into a temporary map is ignored")
}

func TestChangedTypeFallsBackToDefault(t *testing.T) {
	// persisted by an older build where theme.Scale was a string
	restored := typemap.NewPersisted(cell.JSON)
	restored.Restore([]typemap.Entry{{
		Type: cell.TypeOf[theme](),
		Data: `{"dark":true,"scale":"large"}`,
	}})

	_, ok := typemap.Get[theme](restored)
	assert.False(t, ok)
	assert.Equal(t, theme{}, typemap.GetOrDefault[theme](restored))
}
