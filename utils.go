package prerender

import "io/fs"

type Set map[string]struct{}

// Insert adds v to s, returning true if v was already present.
func (s Set) Insert(v string) bool {
	_, ok := s[v]
	s[v] = struct{}{}

	return ok
}

func FileIs(f fs.FileInfo, mode fs.FileMode) bool {
	return f.Mode()&mode != 0
}
