package id

// Set is a set of ids.
type Set map[ID]struct{}

// Insert adds i and reports whether it was new.
func (s Set) Insert(i ID) bool {
	if _, ok := s[i]; ok {
		return false
	}
	s[i] = struct{}{}
	return true
}

func (s Set) Contains(i ID) bool {
	_, ok := s[i]
	return ok
}

func (s Set) Remove(i ID) {
	delete(s, i)
}

// Map maps ids to values. Ids are already hashes, so they are used as keys directly.
type Map[V any] map[ID]V
