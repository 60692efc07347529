package store

import "slices"

type SelectionKey string

const (
	SelectionTags       SelectionKey = "tags"
	SelectionCategories SelectionKey = "categories"
)

// Selection is an insertion-ordered set of item identifiers.
type Selection []string

// Add reports whether v was inserted.
func (s *Selection) Add(v string) bool {
	if s.Contains(v) {
		return false
	}
	*s = append(*s, v)
	return true
}

// Remove reports whether v was present.
func (s *Selection) Remove(v string) bool {
	i := slices.Index(*s, v)
	if i < 0 {
		return false
	}
	*s = slices.Delete(*s, i, i+1)
	return true
}

func (s Selection) Contains(v string) bool {
	return slices.Contains(s, v)
}

func (s Selection) Values() []string {
	return append([]string(nil), s...)
}

func (s Selection) Clone() Selection {
	if s == nil {
		return nil
	}
	return append(Selection(nil), s...)
}
