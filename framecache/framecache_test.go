package framecache_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krisalay/ui-memory/expiration"
	"github.com/krisalay/ui-memory/framecache"
	"github.com/krisalay/ui-memory/types"
)

type counter struct {
	calls map[string]int
}

func (c *counter) Compute(key string) int {
	if c.calls == nil {
		c.calls = make(map[string]int)
	}
	c.calls[key]++
	return len(key)
}

func TestComputeOncePerMiss(t *testing.T) {
	comp := &counter{}
	c := framecache.New[string, int](comp)

	assert.Equal(t, 5, c.Get("hello"))
	assert.Equal(t, 5, c.Get("hello"))
	assert.Equal(t, 3, c.Get("abc"))

	assert.Equal(t, 1, comp.calls["hello"])
	assert.Equal(t, 1, comp.calls["abc"])
	assert.Equal(t, 2, c.Len())
}

type hitCounter struct {
	types.NoopMetrics
	hits, misses int
}

func (h *hitCounter) Hit(string) { h.hits++ }
func (h *hitCounter) Miss(string) { h.misses++ }

func TestRepeatInSameFrameIsAHit(t *testing.T) {
	m := &hitCounter{}
	c := framecache.New[string, int](&counter{}, framecache.WithMetrics(m))

	c.Get("hello")
	c.Get("hello")
	assert.Equal(t, 1, m.misses)
	assert.Equal(t, 1, m.hits, "computed earlier in this frame")

	c.EvictCache()
	c.Get("hello")
	assert.Equal(t, 2, m.hits)
}

func TestUnusedEntriesDropAfterOneFrame(t *testing.T) {
	comp := &counter{}
	c := framecache.New[string, int](comp)

	c.Get("kept")
	c.Get("dropped")
	assert.Equal(t, 0, c.EvictCache(), "everything was used this frame")

	c.Get("kept")
	assert.Equal(t, 1, c.EvictCache())
	assert.True(t, c.Contains("kept"))
	assert.False(t, c.Contains("dropped"))

	c.Get("dropped")
	assert.Equal(t, 2, comp.calls["dropped"], "recomputed after eviction")
	assert.Equal(t, 1, comp.calls["kept"])
}

func TestContainsDoesNotKeepAlive(t *testing.T) {
	c := framecache.New[string, int](&counter{})
	c.Get("x")
	c.EvictCache()

	assert.True(t, c.Contains("x"))
	c.EvictCache()
	assert.False(t, c.Contains("x"))
}

func TestGenerationWrapsAround(t *testing.T) {
	comp := &counter{}
	c := framecache.New[string, int](comp, framecache.WithStartGeneration(math.MaxUint32-1))

	for frame := 0; frame < 4; frame++ {
		c.Get("steady")
		assert.Equal(t, 0, c.EvictCache(), "frame %d", frame)
	}
	assert.Equal(t, uint32(2), c.Generation())
	assert.Equal(t, 1, comp.calls["steady"])

	c.EvictCache()
	assert.Equal(t, 0, c.Len())
}

func TestKeepFrames(t *testing.T) {
	comp := &counter{}
	c := framecache.New[string, int](comp,
		framecache.WithExpiration(expiration.KeepFrames{N: 2}),
		framecache.WithStartGeneration(math.MaxUint32),
	)

	c.Get("blink")
	c.EvictCache() // ends the frame it was used in

	// two frames of grace, across the wrap
	c.EvictCache()
	c.EvictCache()
	assert.True(t, c.Contains("blink"))
	c.EvictCache()
	assert.False(t, c.Contains("blink"))
}

func TestStructKeys(t *testing.T) {
	type job struct {
		Text string
		Wrap float32
	}
	calls := 0
	c := framecache.New[job, string](framecache.ComputerFunc[job, string](func(j job) string {
		calls++
		return strings.ToUpper(j.Text)
	}))

	assert.Equal(t, "HI", c.Get(job{Text: "hi", Wrap: 10}))
	assert.Equal(t, "HI", c.Get(job{Text: "hi", Wrap: 10}))
	c.Get(job{Text: "hi", Wrap: 20})
	assert.Equal(t, 2, calls)
}

type galleyCache struct {
	*framecache.FrameCache[string, int]
}

type widthCache struct {
	*framecache.FrameCache[string, int]
}

func TestStorage(t *testing.T) {
	s := framecache.NewStorage()

	newGalleys := func() galleyCache {
		return galleyCache{framecache.New[string, int](&counter{}, framecache.WithName("galley"))}
	}
	g := framecache.CacheOf(s, newGalleys)
	g.Get("a")
	g.Get("b")

	again := framecache.CacheOf(s, func() galleyCache {
		t.Fatal("factory must run once")
		return galleyCache{}
	})
	require.Same(t, g.FrameCache, again.FrameCache)

	w := framecache.CacheOf(s, func() widthCache {
		return widthCache{framecache.New[string, int](&counter{}, framecache.WithName("width"))}
	})
	w.Get("a")

	assert.Equal(t, 2, s.NumCaches())
	assert.Equal(t, 3, s.NumValues())
	assert.Equal(t, map[string]int{"galley": 2, "width": 1}, s.Sizes())

	assert.Equal(t, 0, s.Update())
	g.Get("a")
	assert.Equal(t, 2, s.Update())
	assert.Equal(t, 1, s.NumValues())
}

func TestStorageRejectsNilFactory(t *testing.T) {
	s := framecache.NewStorage()
	assert.Panics(t, func() {
		framecache.CacheOf(s, func() *framecache.FrameCache[string, int] { return nil })
	})
}
