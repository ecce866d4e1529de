package types

// CacheEntry is one computed value in a frame cache.
// Generation is the frame generation the value was last used in.
type CacheEntry[V any] struct {
	Value      V
	Generation uint32
}
