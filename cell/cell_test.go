package cell_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krisalay/ui-memory/cell"
)

type scroll struct {
	Offset float64 `json:"offset" yaml:"offset"`
	Max    float64 `json:"max" yaml:"max"`
}

type collapsing struct {
	Open bool `json:"open" yaml:"open"`
}

func TestTypedAccess(t *testing.T) {
	c := cell.New(uint32(42))

	n, ok := cell.Get[uint32](c)
	require.True(t, ok)
	assert.Equal(t, uint32(42), n)

	_, ok = cell.Get[string](c)
	assert.False(t, ok, "mismatched read must report absent")

	_, ok = cell.Get[int](c)
	assert.False(t, ok, "uint32 and int are different types")

	assert.Equal(t, cell.TypeOf[uint32](), c.TypeID())
	assert.False(t, c.IsPersisted())
	assert.False(t, c.IsSerialized())
}

func TestGetMutMutatesInPlace(t *testing.T) {
	c := cell.New(scroll{Offset: 1})

	p, ok := cell.GetMut[scroll](c)
	require.True(t, ok)
	p.Offset = 10

	got, ok := cell.Get[scroll](c)
	require.True(t, ok)
	assert.Equal(t, 10.0, got.Offset)
}

func TestGetMutOrSetWithReplacesMismatch(t *testing.T) {
	c := cell.New("text")

	calls := 0
	p := cell.GetMutOrSetWith(c, func() int {
		calls++
		return 7
	})
	assert.Equal(t, 7, *p)
	assert.Equal(t, 1, calls)

	_, ok := cell.Get[string](c)
	assert.False(t, ok, "old value is discarded")

	p = cell.GetMutOrSetWith(c, func() int {
		calls++
		return 8
	})
	assert.Equal(t, 7, *p)
	assert.Equal(t, 1, calls, "factory runs only on a miss")
}

func TestTypeIDIsStableAndNamed(t *testing.T) {
	assert.Equal(t, cell.TypeOf[scroll](), cell.TypeOf[scroll]())
	assert.NotEqual(t, cell.TypeOf[scroll](), cell.TypeOf[collapsing]())
	assert.NotEqual(t, cell.TypeOf[int](), cell.TypeOf[int64]())

	assert.Equal(t, "github.com/krisalay/ui-memory/cell_test.scroll", cell.TypeOf[scroll]().Name())
	assert.Equal(t, "[]string", cell.TypeOf[[]string]().String())
	assert.Contains(t, cell.TypeID(12345).String(), "TypeID(")
}

func TestSerializeRoundTrip(t *testing.T) {
	for _, codec := range []cell.Codec{cell.JSON, cell.YAML} {
		t.Run(codec.Name(), func(t *testing.T) {
			c := cell.NewPersisted(scroll{Offset: 3.5, Max: 100}, codec)
			require.True(t, c.IsPersisted())

			s, ok := c.Serialize()
			require.True(t, ok)
			assert.Equal(t, cell.TypeOf[scroll](), s.Type)

			restored := cell.FromSerialized(s, codec)
			assert.True(t, restored.IsSerialized())

			_, ok = cell.Peek[scroll](restored)
			assert.False(t, ok, "peek never decodes")

			got, ok := cell.Get[scroll](restored)
			require.True(t, ok)
			assert.Equal(t, scroll{Offset: 3.5, Max: 100}, got)
			assert.False(t, restored.IsSerialized())
		})
	}
}

func TestTemporaryCellsAreNotSerialized(t *testing.T) {
	_, ok := cell.New(1).Serialize()
	assert.False(t, ok)
}

func TestSerializedWrongTypeIsAbsent(t *testing.T) {
	c := cell.NewPersisted(scroll{Offset: 1}, cell.JSON)
	s, ok := c.Serialize()
	require.True(t, ok)

	restored := cell.FromSerialized(s, cell.JSON)
	_, ok = cell.Get[collapsing](restored)
	assert.False(t, ok)
	assert.True(t, restored.IsSerialized(), "a mismatched read leaves the payload alone")

	s2, ok := restored.Serialize()
	require.True(t, ok)
	assert.Equal(t, s, s2, "untouched payloads are written back verbatim")
}

func TestCorruptPayloadFallsBackToDefault(t *testing.T) {
	restored := cell.FromSerialized(cell.Serialized{
		Type: cell.TypeOf[scroll](),
		Data: "{not json",
	}, cell.JSON)

	_, ok := cell.Get[scroll](restored)
	assert.False(t, ok)

	p := cell.GetMutOrSetWith(restored, func() scroll { return scroll{Max: 1} })
	assert.Equal(t, scroll{Max: 1}, *p)
	assert.True(t, restored.IsPersisted(), "replacement keeps the persistence mode")
}

func TestCloneIsIndependent(t *testing.T) {
	c := cell.New(scroll{Offset: 1})
	cp := c.Clone()

	p, _ := cell.GetMut[scroll](cp)
	p.Offset = 99

	got, _ := cell.Get[scroll](c)
	assert.Equal(t, 1.0, got.Offset)

	serialized := cell.FromSerialized(cell.Serialized{Type: cell.TypeOf[int](), Data: "5"}, cell.JSON)
	cp = serialized.Clone()
	n, ok := cell.Get[int](cp)
	require.True(t, ok)
	assert.Equal(t, 5, n)
	assert.True(t, serialized.IsSerialized())
}

func TestCodecByName(t *testing.T) {
	c, err := cell.CodecByName("")
	require.NoError(t, err)
	assert.Equal(t, "json", c.Name())

	c, err = cell.CodecByName("yaml")
	require.NoError(t, err)
	assert.Equal(t, "yaml", c.Name())

	_, err = cell.CodecByName("gob")
	assert.ErrorIs(t, err, cell.ErrUnknownCodec)
}
