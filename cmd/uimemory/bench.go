package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	memory "github.com/krisalay/ui-memory"
	"github.com/krisalay/ui-memory/anymap"
	"github.com/krisalay/ui-memory/framecache"
	"github.com/krisalay/ui-memory/id"
	"github.com/krisalay/ui-memory/types"
)

type benchLabels struct {
	*framecache.FrameCache[string, int]
}

// ================= BENCHMARK =================

func runBench(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	goroutines, _ := cmd.Flags().GetInt("goroutines")
	frames, _ := cmd.Flags().GetInt("frames")
	widgets, _ := cmd.Flags().GetInt("widgets")
	if goroutines <= 0 || frames <= 0 || widgets <= 0 {
		return fmt.Errorf("--goroutines, --frames and --widgets must be positive")
	}

	fmt.Println("\n================ MEMORY FRAME BENCHMARK =================")
	fmt.Println("CONFIG")
	fmt.Println("---------------------------------")
	fmt.Println("Persistence  :", cfg.Persistence.Enabled, cfg.Persistence.Backend)
	fmt.Println("Keep Frames  :", cfg.Frame.KeepFrames)
	fmt.Println("Goroutines   :", goroutines)
	fmt.Println("Frames/G     :", frames)
	fmt.Println("Widgets/Frame:", widgets)
	fmt.Println("---------------------------------")

	mem, err := memory.Open(ctx, cfg, logger, memory.WithRegisterer(prometheus.NewRegistry()))
	if err != nil {
		return err
	}

	// ---------------- Widget ids ----------------
	root := id.New("bench window")
	ids := make([]id.ID, widgets)
	labels := make([]string, widgets)
	for i := range ids {
		ids[i] = root.With(i)
		labels[i] = fmt.Sprintf("widget %d", i)
	}

	// ---------------- Load Test ----------------
	fmt.Println("Running frames...")
	screen := types.NewRect(0, 0, 1920, 1080)
	start := time.Now()

	var (
		wg      sync.WaitGroup
		errOnce sync.Once
		runErr  error
	)
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func(g int) {
			defer wg.Done()
			for f := 0; f < frames; f++ {
				mem.BeginFrame(screen)
				mem.Write(func(m *memory.Memory) {
					c := framecache.CacheOf(m.Caches, func() benchLabels {
						return benchLabels{framecache.New[string, int](framecache.ComputerFunc[string, int](func(s string) int {
							return len(s)
						}), m.CacheOptions("bench_labels")...)}
					})
					for i, w := range ids {
						*anymap.GetTempMutOrDefault[int](m.Data, w) += c.Get(labels[i])
						if i%10 == g%10 {
							anymap.GetPersistedMutOrDefault[float32](m.Data, w)
						}
					}
				})
				if err := mem.EndFrame(ctx); err != nil {
					errOnce.Do(func() { runErr = err })
				}
			}
		}(g)
	}
	wg.Wait()

	duration := time.Since(start)
	totalFrames := goroutines * frames
	stats := mem.Stats()

	if err := mem.Close(ctx); err != nil && runErr == nil {
		runErr = err
	}

	fmt.Println("\n================ RESULTS =================")
	fmt.Printf("Total Frames     : %d\n", totalFrames)
	fmt.Printf("Total Time       : %v\n", duration)
	fmt.Printf("Throughput       : %.2f frames/sec\n", float64(totalFrames)/duration.Seconds())
	fmt.Printf("Per Widget       : %v\n", duration/time.Duration(totalFrames*widgets))
	fmt.Printf("Values Held      : %d\n", stats.Data)
	fmt.Printf("Cached Values    : %d\n", stats.CachedValues())
	fmt.Println("=========================================")
	return runErr
}
