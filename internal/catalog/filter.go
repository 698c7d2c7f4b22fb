package catalog

import "strings"

// FilterByAuthor returns the items whose author contains term as a
// case-insensitive substring, preserving the original relative order. An
// empty term matches everything. Items with no author are treated as having
// an empty author rather than being an error.
func FilterByAuthor(items []Item, term string) []Item {
	out := make([]Item, 0, len(items))
	term = strings.TrimSpace(term)
	if term == "" {
		out = append(out, items...)
		return out
	}
	needle := strings.ToLower(term)
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Author), needle) {
			out = append(out, it)
		}
	}
	return out
}
