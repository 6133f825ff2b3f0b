// Package category partitions line items into named product categories and
// orders the categories for display.
package category

import "strings"

// Uncategorized is the bucket for items without a category.
const Uncategorized = "UNCATEGORIZED"

// PreferredOrder lists the categories printed first, in this order.
// Any other category follows them in first-encountered order.
var PreferredOrder = []string{
	"SOUND SYSTEM",
	"ELECTRONICS",
	"DISPLAY SYSTEM",
	"ACCESSORIES",
}

// Group is one category bucket with its items in input order.
type Group[T any] struct {
	Name  string
	Items []T
}

// Normalize maps an empty or blank category to Uncategorized.
func Normalize(name string) string {
	if strings.TrimSpace(name) == "" {
		return Uncategorized
	}
	return name
}

// GroupAndOrder partitions items by the category returned by key. Every item
// lands in exactly one group; within a group the input order is kept.
func GroupAndOrder[T any](items []T, key func(T) string) []Group[T] {
	index := make(map[string]int)
	groups := make([]Group[T], 0)
	for _, item := range items {
		name := Normalize(key(item))
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, Group[T]{Name: name})
		}
		groups[i].Items = append(groups[i].Items, item)
	}

	ordered := make([]Group[T], 0, len(groups))
	for _, name := range PreferredOrder {
		if i, ok := index[name]; ok {
			ordered = append(ordered, groups[i])
		}
	}
	for _, g := range groups {
		if !isPreferred(g.Name) {
			ordered = append(ordered, g)
		}
	}
	return ordered
}

// Names returns the group names in order.
func Names[T any](groups []Group[T]) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Name
	}
	return out
}

func isPreferred(name string) bool {
	for _, p := range PreferredOrder {
		if p == name {
			return true
		}
	}
	return false
}
