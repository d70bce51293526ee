// Package search ranks catalog products against a free-text query.
package search

import (
	"sort"
	"strings"
	"unicode"
)

// Item is a searchable catalog entry
type Item struct {
	ID          int32
	Name        string
	Description string
}

// Index holds pre-tokenized product names
type Index struct {
	items      []Item
	nameTokens [][]string
	descTokens [][]string
}

const (
	exactWeight  = 5
	prefixWeight = 2
	descWeight   = 1
)

// New creates an Index over items
func New(items []Item) *Index {
	idx := &Index{
		items:      items,
		nameTokens: make([][]string, len(items)),
		descTokens: make([][]string, len(items)),
	}
	for i, item := range items {
		idx.nameTokens[i] = tokenize(normalize(item.Name))
		idx.descTokens[i] = tokenize(normalize(item.Description))
	}
	return idx
}

// Search returns the items matching every query token, best match first.
// A query token matches a name token by equality or prefix, or a
// description token by equality. An empty query returns all items in their
// original order.
func (idx *Index) Search(query string) []Item {
	queryTokens := tokenize(normalize(query))
	if len(queryTokens) == 0 {
		out := make([]Item, len(idx.items))
		copy(out, idx.items)
		return out
	}

	type scoredItem struct {
		item  Item
		score int
	}
	var scored []scoredItem

	for i, item := range idx.items {
		score := 0
		matchedAll := true
		for _, q := range queryTokens {
			s := tokenScore(q, idx.nameTokens[i], idx.descTokens[i])
			if s == 0 {
				matchedAll = false
				break
			}
			score += s
		}
		// Hard filter: every query token must match something
		if matchedAll {
			scored = append(scored, scoredItem{item: item, score: score})
		}
	}

	sort.SliceStable(scored, func(a, b int) bool {
		if scored[a].score != scored[b].score {
			return scored[a].score > scored[b].score
		}
		return strings.ToLower(scored[a].item.Name) < strings.ToLower(scored[b].item.Name)
	})

	out := make([]Item, len(scored))
	for i, s := range scored {
		out[i] = s.item
	}
	return out
}

// tokenScore returns the best weight for q against one item's tokens
func tokenScore(q string, name, desc []string) int {
	best := 0
	for _, tok := range name {
		switch {
		case tok == q:
			return exactWeight
		case strings.HasPrefix(tok, q):
			best = prefixWeight
		}
	}
	if best > 0 {
		return best
	}
	for _, tok := range desc {
		if tok == q {
			return descWeight
		}
	}
	return 0
}

// normalize converts a string to lowercase and replaces non-alphanumeric chars with spaces
func normalize(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(' ')
		}
	}

	// Collapse multiple spaces
	return strings.Join(strings.Fields(sb.String()), " ")
}

// tokenize splits a string on whitespace
func tokenize(s string) []string {
	return strings.Fields(s)
}
