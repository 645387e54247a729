package domain

// Favorites is an insertion-ordered set of card IDs.
// It is persisted as a plain JSON list.
type Favorites []string

// Contains reports whether id is a favorite.
func (f Favorites) Contains(id string) bool {
	for _, v := range f {
		if v == id {
			return true
		}
	}
	return false
}

// Add appends id if it is not already present and reports whether f changed.
func (f *Favorites) Add(id string) bool {
	if f.Contains(id) {
		return false
	}
	*f = append(*f, id)
	return true
}

// Remove deletes id and reports whether f changed.
func (f *Favorites) Remove(id string) bool {
	for i, v := range *f {
		if v == id {
			*f = append((*f)[:i:i], (*f)[i+1:]...)
			return true
		}
	}
	return false
}

// Dedupe drops repeated IDs, keeping the first occurrence.
// Persisted lists written by hand may contain duplicates.
func (f Favorites) Dedupe() Favorites {
	seen := make(map[string]struct{}, len(f))
	out := make(Favorites, 0, len(f))
	for _, v := range f {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
