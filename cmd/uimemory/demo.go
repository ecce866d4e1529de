package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	memory "github.com/krisalay/ui-memory"
	"github.com/krisalay/ui-memory/anymap"
	"github.com/krisalay/ui-memory/config"
	"github.com/krisalay/ui-memory/framecache"
	"github.com/krisalay/ui-memory/id"
	"github.com/krisalay/ui-memory/persist"
	"github.com/krisalay/ui-memory/typemap"
	"github.com/krisalay/ui-memory/types"
)

// ================= WIDGET STATE =================

type windowState struct {
	Open      bool    `json:"open" yaml:"open"`
	X         float32 `json:"x" yaml:"x"`
	Collapsed bool    `json:"collapsed" yaml:"collapsed"`
}

type theme struct {
	Dark  bool    `json:"dark" yaml:"dark"`
	Scale float32 `json:"scale" yaml:"scale"`
}

// labelWidths stands in for text layout: an expensive value recomputed only when its input changes.
type labelWidths struct {
	*framecache.FrameCache[string, int]
}

var demoScreen = types.NewRect(0, 0, 1280, 720)

func runDemo(cmd *cobra.Command, _ []string) error {
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

	// Without configured persistence the demo saves to a store only it can see.
	var opts []memory.OpenOption
	if !cfg.Persistence.Enabled {
		cfg.Persistence.Enabled = true
		opts = append(opts, memory.WithStore(persist.NewMemoryStore()))
	}
	cfg.Persistence.AutosaveInterval = 0
	cfg.Metrics.Prometheus = true

	fmt.Println("\n==================== SYSTEM BOOT ====================")
	fmt.Println("BACKEND      :", backendName(cfg, len(opts) > 0))
	fmt.Println("CODEC        :", cfg.Persistence.Codec)
	fmt.Println("WRITE POLICY :", cfg.Persistence.WritePolicy)
	fmt.Println("KEEP FRAMES  :", cfg.Frame.KeepFrames)

	reg := prometheus.NewRegistry()
	mem, err := memory.Open(ctx, cfg, logger, append(opts, memory.WithRegisterer(reg))...)
	if err != nil {
		return err
	}

	settings := id.New("settings window")
	newWidths := func(m *memory.Memory) func() labelWidths {
		return func() labelWidths {
			return labelWidths{framecache.New[string, int](framecache.ComputerFunc[string, int](func(s string) int {
				fmt.Printf("LAYOUT → measuring %q\n", s)
				return 7 * len(s)
			}), m.CacheOptions("label_widths")...)}
		}
	}

	// ====================================================
	fmt.Println("\n==================== 1) PERSISTENT STATE ====================")
	mem.BeginFrame(demoScreen)
	mem.Write(func(m *memory.Memory) {
		w := anymap.GetPersistedMutOrDefault[windowState](m.Data, settings)
		fmt.Printf("STATE  → %s starts as %+v\n", settings.Short(), *w)
		w.Open = true
		w.X = 140
		t := typemap.GetMutOrInsertWith(m.Globals, func() theme { return theme{Scale: 1} })
		t.Dark = true
		fmt.Printf("STATE  → %s now %+v, theme %+v\n", settings.Short(), *w, *t)
	})
	if err := mem.EndFrame(ctx); err != nil {
		return err
	}

	// ====================================================
	fmt.Println("\n==================== 2) FRAME CACHE ====================")
	for frame, labels := range [][]string{{"File", "Edit"}, {"File", "Edit"}, {"File"}, {"File"}} {
		mem.BeginFrame(demoScreen)
		mem.Write(func(m *memory.Memory) {
			c := framecache.CacheOf(m.Caches, newWidths(m))
			for _, l := range labels {
				fmt.Printf("FRAME %d → width(%s) = %d\n", frame, l, c.Get(l))
			}
		})
		if err := mem.EndFrame(ctx); err != nil {
			return err
		}
		fmt.Printf("FRAME %d → cached labels after sweep: %d\n", frame, mem.Stats().CacheValues["label_widths"])
	}

	// ====================================================
	fmt.Println("\n==================== 3) ID CLASH ====================")
	mem.BeginFrame(demoScreen)
	mem.Write(func(m *memory.Memory) {
		btn := id.New("toolbar").With("button")
		m.CheckForIDClash(btn, types.NewRect(10, 10, 80, 30), "Button")
		m.CheckForIDClash(btn, types.NewRect(8, 8, 82, 32), "Frame")
		fmt.Println("CLASH  → frame around its own button is fine")

		m.CheckForIDClash(btn, types.NewRect(300, 10, 370, 30), "Button")
		for _, c := range m.Clashes() {
			fmt.Println("CLASH  →", c.Error())
		}
	})
	if err := mem.EndFrame(ctx); err != nil {
		return err
	}

	// ====================================================
	fmt.Println("\n==================== 4) SAVE & RESTORE ====================")
	if err := mem.Close(ctx); err != nil {
		return err
	}
	fmt.Println("SYSTEM → memory saved and closed")

	printMetrics(reg)

	again, err := memory.Open(ctx, cfg, logger, append(opts, memory.WithRegisterer(prometheus.NewRegistry()))...)
	if err != nil {
		return err
	}
	again.Read(func(m *memory.Memory) {
		fmt.Printf("STATE  → restored %d values, %d still serialized\n", m.Data.Len(), m.Data.CountSerialized())
		w, ok := anymap.GetPersisted[windowState](m.Data, settings)
		fmt.Printf("STATE  → %s = %+v (found %v)\n", settings.Short(), w, ok)
		t := typemap.GetOrDefault[theme](m.Globals)
		fmt.Printf("STATE  → theme = %+v\n", t)
	})

	// ====================================================
	fmt.Println("\n==================== SHUTDOWN ====================")
	if err := again.Close(ctx); err != nil {
		return err
	}
	fmt.Println("SYSTEM → memory closed cleanly")
	return nil
}

func backendName(cfg config.Config, injected bool) string {
	if injected {
		return "process memory"
	}
	return cfg.Persistence.Backend
}

func printMetrics(g prometheus.Gatherer) {
	families, err := g.Gather()
	if err != nil {
		fmt.Println("METRICS → gather failed:", err)
		return
	}
	fmt.Println("\n==================== METRICS ====================")
	var lines []string
	for _, f := range families {
		for _, m := range f.GetMetric() {
			var labels []string
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			name := f.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			switch {
			case m.GetCounter() != nil:
				lines = append(lines, fmt.Sprintf("%-60s %g", name, m.GetCounter().GetValue()))
			case m.GetGauge() != nil:
				lines = append(lines, fmt.Sprintf("%-60s %g", name, m.GetGauge().GetValue()))
			}
		}
	}
	sort.Strings(lines)
	for _, l := range lines {
		fmt.Println(l)
	}
}
