// Package thread assembles and ranks discussion trees. It is pure in-memory
// data shaping: no I/O beyond a consistency warning log.
package thread

import (
	"log/slog"

	"alcove/internal/models"
	"alcove/internal/observability"
)

// Build converts a flat comment list, ordered by creation time ascending,
// into a list of root nodes with populated reply subtrees. It runs in O(n):
// one pass to index nodes, one pass to link them.
//
// A comment whose parent is not in the set (for example a purged parent) is
// promoted to a root with its original depth preserved, and a consistency
// warning is logged. Build never fails on malformed references.
//
// Build mutates the passed records: each node's Replies slice is reset and
// repopulated. Sibling order is input order; ranking is a separate step.
func Build(flat []*models.Comment) []*models.Comment {
	nodes := make(map[uint]*models.Comment, len(flat))
	for _, c := range flat {
		c.Replies = nil
		nodes[c.ID] = c
	}

	roots := make([]*models.Comment, 0, len(flat))
	for _, c := range flat {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		parent, ok := nodes[*c.ParentID]
		if !ok {
			observability.GlobalLogger.Warn("comment references missing parent, promoting to root",
				slog.Any("comment_id", c.ID),
				slog.Any("parent_id", *c.ParentID),
				slog.Any("post_id", c.PostID),
			)
			roots = append(roots, c)
			continue
		}
		parent.Replies = append(parent.Replies, c)
	}

	return roots
}

// Count returns the total number of nodes in the tree.
func Count(roots []*models.Comment) int {
	total := 0
	for _, r := range roots {
		total += 1 + Count(r.Replies)
	}
	return total
}
