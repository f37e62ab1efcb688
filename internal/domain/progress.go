package domain

import "maps"

// ProgressMap records progress per subject id. Absent ids are empty.
type ProgressMap map[string]Progress

// Get returns the progress for id, defaulting to empty.
func (m ProgressMap) Get(id string) Progress {
	if p, ok := m[id]; ok && p.Valid() {
		return p
	}
	return ProgressEmpty
}

// Clone returns a copy of m. A nil map clones to an empty one.
func (m ProgressMap) Clone() ProgressMap {
	out := make(ProgressMap, len(m))
	maps.Copy(out, m)
	return out
}
