package metrics

import "github.com/krisalay/ui-memory/types"

// Multi fans every event out to each of its members.
type Multi []types.Metrics

var _ types.Metrics = Multi(nil)

func (m Multi) Hit(cache string) {
	for _, x := range m {
		x.Hit(cache)
	}
}

func (m Multi) Miss(cache string) {
	for _, x := range m {
		x.Miss(cache)
	}
}

func (m Multi) Eviction(cache string, n int) {
	for _, x := range m {
		x.Eviction(cache, n)
	}
}

func (m Multi) Sweep(cache string, generation uint32, live int) {
	for _, x := range m {
		x.Sweep(cache, generation, live)
	}
}

func (m Multi) IDClash() {
	for _, x := range m {
		x.IDClash()
	}
}

func (m Multi) Save(bytes int, err error) {
	for _, x := range m {
		x.Save(bytes, err)
	}
}
