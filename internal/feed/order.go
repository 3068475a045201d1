package feed

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/MichaelLiu22/gallery-gathering/internal/models"
)

// SortOrder selects the feed ranking
type SortOrder string

// Supported sort orders
const (
	SortLatest   SortOrder = "latest"
	SortLikes    SortOrder = "likes"
	SortComments SortOrder = "comments"
	SortViews    SortOrder = "views"
	SortHot      SortOrder = "hot"
)

// ValidSort reports whether s is a known sort order
func ValidSort(s SortOrder) bool {
	switch s {
	case SortLatest, SortLikes, SortComments, SortViews, SortHot:
		return true
	}
	return false
}

// Filter selects the feed candidate set
type Filter string

// Supported filters
const (
	FilterAll       Filter = "all"
	FilterFriends   Filter = "friends"
	FilterMine      Filter = "mine"
	FilterFollowing Filter = "following"
)

// ValidFilter reports whether f is a known filter
func ValidFilter(f Filter) bool {
	switch f {
	case FilterAll, FilterFriends, FilterMine, FilterFollowing:
		return true
	}
	return false
}

// candidate pairs a photo row with its freshly computed comment count
type candidate struct {
	photo    *models.Photo
	comments int64
}

// orderCandidates sorts candidates under the requested order. cands must
// arrive in created_at-descending, id-descending order (the base order), so
// every secondary sort is stable against it and ties break deterministically
// by recency then id.
func orderCandidates(cands []candidate, sortOrder SortOrder, scorer Scorer, now time.Time) {
	switch sortOrder {
	case SortLikes:
		sort.SliceStable(cands, func(i, j int) bool {
			return cands[i].photo.LikesCount > cands[j].photo.LikesCount
		})
	case SortComments:
		sort.SliceStable(cands, func(i, j int) bool {
			return cands[i].comments > cands[j].comments
		})
	case SortViews:
		sort.SliceStable(cands, func(i, j int) bool {
			return cands[i].photo.ViewsCount > cands[j].photo.ViewsCount
		})
	case SortHot:
		scores := make([]float64, len(cands))
		for i, c := range cands {
			scores[i] = scorer.Score(Stats{
				Likes:    c.photo.LikesCount,
				Views:    c.photo.ViewsCount,
				Comments: c.comments,
				Age:      now.Sub(c.photo.CreatedAt),
			})
		}
		indexed := make([]int, len(cands))
		for i := range indexed {
			indexed[i] = i
		}
		sort.SliceStable(indexed, func(i, j int) bool {
			return scores[indexed[i]] > scores[indexed[j]]
		})
		ordered := make([]candidate, len(cands))
		for pos, idx := range indexed {
			ordered[pos] = cands[idx]
		}
		copy(cands, ordered)
	case SortLatest:
		// Base order already is created_at descending
	}
}

// prioritizeBuckets reorders candidates for the all filter: the viewer's own
// photos first, then photos by friends or followed users, then everyone
// else's. A stable three-bucket split, not a score blend; ties within a
// bucket keep the underlying sort order.
func prioritizeBuckets(cands []candidate, viewer uuid.UUID, priority map[uuid.UUID]bool) []candidate {
	mine := make([]candidate, 0, len(cands))
	near := make([]candidate, 0, len(cands))
	rest := make([]candidate, 0, len(cands))
	for _, c := range cands {
		switch {
		case c.photo.OwnerID == viewer:
			mine = append(mine, c)
		case priority[c.photo.OwnerID]:
			near = append(near, c)
		default:
			rest = append(rest, c)
		}
	}
	out := mine
	out = append(out, near...)
	return append(out, rest...)
}

// pageSlice cuts one page out of ordered candidates. Page indexes are
// 1-based; a page past the end is empty, not an error.
func pageSlice(cands []candidate, pageIndex, pageSize int) []candidate {
	if pageSize <= 0 {
		return cands
	}
	if pageIndex < 1 {
		pageIndex = 1
	}
	start := (pageIndex - 1) * pageSize
	if start >= len(cands) {
		return nil
	}
	end := start + pageSize
	if end > len(cands) {
		end = len(cands)
	}
	return cands[start:end]
}
