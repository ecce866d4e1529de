package memory_test

import (
	"context"
	"fmt"
	"testing"

	memory "github.com/krisalay/ui-memory"
	"github.com/krisalay/ui-memory/anymap"
	"github.com/krisalay/ui-memory/framecache"
	"github.com/krisalay/ui-memory/id"
	"github.com/krisalay/ui-memory/persist"
)

func newBenchmarkMemory() *memory.Memory {
	return newTestMemory(persist.NewMemoryStore(), discardLogger())
}

//
// ================= ID BENCH =================
//

func BenchmarkIDNewString(b *testing.B) {
	for i := 0; i < b.N; i++ {
		id.New("settings")
	}
}

func BenchmarkIDWithChain(b *testing.B) {
	root := id.New("window")
	for i := 0; i < b.N; i++ {
		root.With("panel").With(i).With("button")
	}
}

//
// ================= STATE BENCH =================
//

func BenchmarkDataGetHit(b *testing.B) {
	m := newBenchmarkMemory()
	w := id.New("w")
	anymap.InsertPersisted(m.Data, w, windowState{Open: true})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		anymap.GetPersisted[windowState](m.Data, w)
	}
}

func BenchmarkDataGetOrDefaultManyWidgets(b *testing.B) {
	m := newBenchmarkMemory()
	ids := make([]id.ID, 10000)
	for i := range ids {
		ids[i] = id.New(i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		anymap.GetTempMutOrDefault[int](m.Data, ids[i%len(ids)])
	}
}

//
// ================= FRAME BENCH =================
//

func BenchmarkFrameCacheSteadyFrame(b *testing.B) {
	ctx := context.Background()
	m := newBenchmarkMemory()
	labels := make([]string, 500)
	for i := range labels {
		labels[i] = fmt.Sprintf("label-%d", i)
	}
	newCache := func() galleyCache {
		return galleyCache{framecache.New[string, int](framecache.ComputerFunc[string, int](func(s string) int {
			return len(s)
		}), m.CacheOptions("galley")...)}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.BeginFrame(screen)
		c := framecache.CacheOf(m.Caches, newCache)
		for _, l := range labels {
			c.Get(l)
		}
		_ = m.EndFrame(ctx)
	}
}

//
// ================= PERSISTENCE BENCH =================
//

func BenchmarkSave(b *testing.B) {
	ctx := context.Background()
	m := newBenchmarkMemory()
	for i := 0; i < 1000; i++ {
		anymap.InsertPersisted(m.Data, id.New(i), windowState{X: float32(i)})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := m.Save(ctx); err != nil {
			b.Fatal(err)
		}
	}
}

//
// ================= PARALLEL BENCH =================
//

func BenchmarkSharedParallelWrite(b *testing.B) {
	s := memory.NewShared(memory.New(nil, nil))
	w := id.New("counter")

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			s.Write(func(m *memory.Memory) {
				*anymap.GetTempMutOrDefault[int](m.Data, w)++
			})
		}
	})
}
