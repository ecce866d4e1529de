// This file defines when frame cache entries are swept.

package expiration

/*
Strategy is the interface that all sweep rules must follow. Instead of hard-coding
the sweep into the frame cache, we define a strategy so the rule can be swapped easily.

Generations are compared by equality or modular difference only. The counter wraps
after 2^32 frames and an ordering comparison would wrongly evict everything then.
*/
type Strategy interface {

	// IsExpired reports whether an entry last used in generation used must be dropped
	// by the sweep that ends generation current.
	IsExpired(used, current uint32) bool
}

// LastFrame keeps exactly the entries used in the frame being ended. It is the default.
type LastFrame struct{}

// IsExpired implements Strategy.
func (LastFrame) IsExpired(used, current uint32) bool {
	return used != current
}

/*
KeepFrames keeps an entry alive for N frames after its last use.

KeepFrames{N: 0} behaves like LastFrame. Useful for values that are expensive to compute
and only shown every few frames, e.g. a tooltip that blinks.
*/
type KeepFrames struct {
	N uint32
}

// IsExpired implements Strategy.
func (k KeepFrames) IsExpired(used, current uint32) bool {
	return current-used > k.N
}
