package catalog

import "strings"

// Filter keeps products matching both the category and the search text, in
// their original order. An empty or "all" category matches everything; the
// search text is a case-insensitive substring of title or description.
// Filter never mutates its input.
func Filter(products []Product, categoryID, searchText string) []Product {
	needle := strings.ToLower(searchText)

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if !matchesCategory(p, categoryID) || !matchesSearch(p, needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesCategory(p Product, category string) bool {
	return category == "" || category == CategoryAll || p.Category == category
}

func matchesSearch(p Product, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle)
}
