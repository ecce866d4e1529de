package types

// Stats is a point-in-time count of what a memory holds, for leak diagnostics.
type Stats struct {
	Frame uint64

	// Data is the number of per-widget values; DataSerialized of them are not decoded yet.
	Data           int
	DataSerialized int

	Globals int

	// CacheValues is the number of values per frame cache name.
	CacheValues map[string]int

	// UsedIDs is the number of ids claimed in the current frame.
	UsedIDs int
}

// CachedValues returns the total across all frame caches.
func (s Stats) CachedValues() int {
	n := 0
	for _, v := range s.CacheValues {
		n += v
	}
	return n
}
