package anymap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krisalay/ui-memory/anymap"
	"github.com/krisalay/ui-memory/cell"
	"github.com/krisalay/ui-memory/id"
)

type serializable struct {
	N int `json:"n"`
}

type nonSerializable struct {
	F float32
}

func TestTwoIDsTwoTypes(t *testing.T) {
	a, b := id.New("a"), id.New("b")
	m := anymap.NewIDTypeMap(nil)

	anymap.InsertPersisted(m, a, 13.37)
	anymap.InsertTemp(m, b, 42)

	v, ok := anymap.GetPersisted[float64](m, a)
	require.True(t, ok)
	assert.Equal(t, 13.37, v)

	n, ok := anymap.GetPersisted[int](m, b)
	require.True(t, ok)
	assert.Equal(t, 42, n)

	v, ok = anymap.GetTemp[float64](m, a)
	require.True(t, ok)
	assert.Equal(t, 13.37, v)
}

func TestOneIDManyTypes(t *testing.T) {
	i := id.New("a")
	m := anymap.NewIDTypeMap(cell.JSON)

	anymap.InsertPersisted(m, i, 13.37)
	anymap.InsertTemp(m, i, 42)
	assert.Equal(t, 2, m.Len())

	assert.True(t, anymap.Remove[int](m, i))
	_, ok := anymap.GetTemp[int](m, i)
	assert.False(t, ok)

	v, ok := anymap.GetTemp[float64](m, i)
	require.True(t, ok, "other type owned by the same id survives")
	assert.Equal(t, 13.37, v)

	anymap.Remove[float64](m, i)
	assert.True(t, m.IsEmpty())
}

func TestMixSerialize(t *testing.T) {
	i := id.New("a")
	m := anymap.NewIDTypeMap(cell.JSON)
	anymap.InsertPersisted(m, i, serializable{N: 555})
	anymap.InsertTemp(m, i, nonSerializable{F: 1})

	entries := m.Snapshot()
	require.Len(t, entries, 1, "temporary values are not written")

	restored := anymap.NewIDTypeMap(cell.JSON)
	restored.Restore(entries)
	assert.Equal(t, 1, restored.CountSerialized())

	_, ok := anymap.GetTemp[serializable](restored, i)
	assert.False(t, ok, "GetTemp never decodes")

	got, ok := anymap.GetPersisted[serializable](restored, i)
	require.True(t, ok)
	assert.Equal(t, serializable{N: 555}, got)

	got, ok = anymap.GetTemp[serializable](restored, i)
	require.True(t, ok, "once decoded the value is live")
	assert.Equal(t, serializable{N: 555}, got)
	assert.Equal(t, 0, restored.CountSerialized())
}

func TestGetTempMutReplacesSerialized(t *testing.T) {
	i := id.New("w")
	m := anymap.NewIDTypeMap(cell.JSON)
	m.Restore([]anymap.IDEntry{{ID: i, Type: cell.TypeOf[serializable](), Data: `{"n":1}`}})

	p := anymap.GetTempMutOrDefault[serializable](m, i)
	assert.Equal(t, serializable{}, *p)
	assert.Empty(t, m.Snapshot(), "replacement is temporary")
}

func TestPersistedMutFallsBackOnCorruptData(t *testing.T) {
	i := id.New("w")
	m := anymap.NewIDTypeMap(cell.JSON)
	m.Restore([]anymap.IDEntry{{ID: i, Type: cell.TypeOf[serializable](), Data: `{"n":"oops"}`}})

	p := anymap.GetPersistedMutOrInsertWith(m, i, func() serializable { return serializable{N: 9} })
	assert.Equal(t, 9, p.N)

	p.N = 10
	entries := m.Snapshot()
	require.Len(t, entries, 1)
	assert.JSONEq(t, `{"n":10}`, entries[0].Data)
}

func TestRemoveByTypeAndCounts(t *testing.T) {
	m := anymap.NewIDTypeMap(nil)
	for i := 0; i < 4; i++ {
		anymap.InsertTemp(m, id.New(i), serializable{N: i})
		anymap.InsertTemp(m, id.New(i), "label")
	}

	assert.Equal(t, 4, anymap.CountOf[serializable](m))
	assert.Equal(t, 4, m.CountByType()[cell.TypeOf[string]()])
	ids := m.IDs()
	assert.Len(t, ids, 4)
	assert.True(t, ids.Contains(id.New(3)))

	anymap.RemoveByType[serializable](m)
	assert.Equal(t, 0, anymap.CountOf[serializable](m))
	assert.Equal(t, 4, m.Len())

	cp := m.Clone()
	m.Clear()
	assert.Equal(t, 4, cp.Len())
	assert.True(t, m.IsEmpty())
}

func TestSnapshotIsSorted(t *testing.T) {
	m := anymap.NewIDTypeMap(cell.JSON)
	for i := 0; i < 20; i++ {
		anymap.InsertPersisted(m, id.New(i), i)
	}
	entries := m.Snapshot()
	require.Len(t, entries, 20)
	for i := 1; i < len(entries); i++ {
		assert.Less(t, entries[i-1].ID, entries[i].ID)
	}
}
