package thread

import (
	"sort"

	"alcove/internal/models"
)

// SortKey selects the ordering applied to every sibling list in a tree.
type SortKey string

const (
	// SortBest orders by vote count descending.
	SortBest SortKey = "best"
	// SortNewest orders by creation time descending.
	SortNewest SortKey = "newest"
	// SortOldest orders by creation time ascending.
	SortOldest SortKey = "oldest"
)

// ParseSortKey maps a request parameter to a SortKey, falling back to
// SortBest for anything unrecognized.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortNewest:
		return SortNewest
	case SortOldest:
		return SortOldest
	default:
		return SortBest
	}
}

// Rank sorts every sibling list in the tree in place. Pinned comments always
// come first regardless of key. Within each group the key ordering applies,
// and exact ties fall back to ID ascending so the result is deterministic
// across rebuilds.
func Rank(nodes []*models.Comment, key SortKey) {
	if len(nodes) == 0 {
		return
	}
	sort.Slice(nodes, func(i, j int) bool {
		return less(nodes[i], nodes[j], key)
	})
	for _, n := range nodes {
		Rank(n.Replies, key)
	}
}

func less(a, b *models.Comment, key SortKey) bool {
	if a.IsPinned != b.IsPinned {
		return a.IsPinned
	}
	switch key {
	case SortNewest:
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
	case SortOldest:
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
	default:
		if a.VoteCount != b.VoteCount {
			return a.VoteCount > b.VoteCount
		}
	}
	return a.ID < b.ID
}
