package types

// This file defines how the memory reports what it is doing.

/*
Metrics is an interface that defines what the memory wants to measure.
Each method represents an event in the frame lifecycle. The memory calls these methods whenever something happens.

cache names the frame cache the event belongs to.
*/
type Metrics interface {

	// Hit is called when a frame cache returns a cached value instead of computing it.
	Hit(cache string)

	// Miss is called when a frame cache has to compute a value.
	Miss(cache string)

	// Eviction is called once per sweep with the number of entries that were not used in the frame.
	Eviction(cache string, n int)

	// Sweep is called after a sweep with the new generation and the number of live entries.
	Sweep(cache string, generation uint32, live int)

	// IDClash is called when two widgets claim the same id in one frame.
	IDClash()

	// Save is called after a snapshot was written, with its size in bytes or the error.
	Save(bytes int, err error)
}

/*
NoopMetrics is a "do nothing" implementation of Metrics.

We don't want to force every host to implement metrics. If nobody cares about metrics,
the memory still works without nil checks everywhere.
*/
type NoopMetrics struct{}

func (NoopMetrics) Hit(string)                {}
func (NoopMetrics) Miss(string)               {}
func (NoopMetrics) Eviction(string, int)      {}
func (NoopMetrics) Sweep(string, uint32, int) {}
func (NoopMetrics) IDClash()                  {}
func (NoopMetrics) Save(int, error)           {}
