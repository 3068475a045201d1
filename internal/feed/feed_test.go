package feed

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/MichaelLiu22/gallery-gathering/internal/models"
)

type candSpec struct {
	id       int64
	likes    int64
	views    int64
	comments int64
}

func makeCandidates(specs []candSpec) []candidate {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cands := make([]candidate, len(specs))
	for i, s := range specs {
		cands[i] = candidate{
			photo: &models.Photo{
				ID:         s.id,
				LikesCount: s.likes,
				ViewsCount: s.views,
				// Base order is newest first, so earlier slice positions
				// get later timestamps.
				CreatedAt: base.Add(-time.Duration(i) * time.Minute),
			},
			comments: s.comments,
		}
	}
	return cands
}

func ids(cands []candidate) []int64 {
	out := make([]int64, len(cands))
	for i, c := range cands {
		out[i] = c.photo.ID
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestOrderCandidates(t *testing.T) {
	tests := []struct {
		name  string
		sort  SortOrder
		specs []candSpec
		want []int64
	}{
		{
			name: "latest keeps base order",
			sort: SortLatest,
			specs: []candSpec{
				{id: 3, likes: 0}, {id: 2, likes: 99}, {id: 1, likes: 5},
			},
			want: []int64{3, 2, 1},
		},
		{
			name: "likes descending",
			sort: SortLikes,
			specs: []candSpec{
				{id: 3, likes: 1}, {id: 2, likes: 9}, {id: 1, likes: 5},
			},
			want: []int64{2, 1, 3},
		},
		{
			name: "likes tie breaks by recency",
			sort: SortLikes,
			specs: []candSpec{
				{id: 3, likes: 5}, {id: 2, likes: 5}, {id: 1, likes: 9},
			},
			want: []int64{1, 3, 2},
		},
		{
			name: "comments descending",
			sort: SortComments,
			specs: []candSpec{
				{id: 3, comments: 0}, {id: 2, comments: 4}, {id: 1, comments: 2},
			},
			want: []int64{2, 1, 3},
		},
		{
			name: "views descending",
			sort: SortViews,
			specs: []candSpec{
				{id: 3, views: 10}, {id: 2, views: 100}, {id: 1, views: 10},
			},
			want: []int64{2, 3, 1},
		},
		{
			name: "hot weighs likes over views",
			sort: SortHot,
			specs: []candSpec{
				// id 3: 2*2 + 0.1*0 = 4, id 2: 0 + 0.1*30 = 3, id 1: 2*3 = 6
				{id: 3, likes: 2}, {id: 2, views: 30}, {id: 1, likes: 3},
			},
			want: []int64{1, 3, 2},
		},
		{
			name: "hot tie breaks by recency",
			sort: SortHot,
			specs: []candSpec{
				{id: 3, likes: 1}, {id: 2, likes: 1}, {id: 1},
			},
			want: []int64{3, 2, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cands := makeCandidates(tt.specs)
			orderCandidates(cands, tt.sort, EngagementScorer{}, time.Now().UTC())
			if got := ids(cands); !equalIDs(got, tt.want) {
				t.Errorf("orderCandidates(%s) = %v, want %v", tt.sort, got, tt.want)
			}
		})
	}
}

func TestEngagementScorerMonotonic(t *testing.T) {
	base := EngagementScorer{}.Score(Stats{Likes: 10, Views: 100})
	moreLikes := EngagementScorer{}.Score(Stats{Likes: 11, Views: 100})
	moreViews := EngagementScorer{}.Score(Stats{Likes: 10, Views: 101})

	if moreLikes <= base {
		t.Errorf("score must grow with likes: %v <= %v", moreLikes, base)
	}
	if moreViews <= base {
		t.Errorf("score must grow with views: %v <= %v", moreViews, base)
	}
}

func TestPrioritizeBuckets(t *testing.T) {
	viewer := uuid.New()
	friend := uuid.New()
	stranger := uuid.New()

	owners := []uuid.UUID{stranger, friend, viewer, stranger, friend}
	cands := make([]candidate, len(owners))
	for i, owner := range owners {
		cands[i] = candidate{photo: &models.Photo{ID: int64(i + 1), OwnerID: owner}}
	}

	got := ids(prioritizeBuckets(cands, viewer, map[uuid.UUID]bool{friend: true}))
	// Own photo first, then friend photos in their original relative order,
	// then the rest.
	want := []int64{3, 2, 5, 1, 4}
	if !equalIDs(got, want) {
		t.Errorf("prioritizeBuckets = %v, want %v", got, want)
	}
}

func TestPageSlice(t *testing.T) {
	cands := makeCandidates([]candSpec{
		{id: 5}, {id: 4}, {id: 3}, {id: 2}, {id: 1},
	})

	tests := []struct {
		name     string
		page     int
		pageSize int
		want     []int64
	}{
		{name: "first page", page: 1, pageSize: 2, want: []int64{5, 4}},
		{name: "middle page", page: 2, pageSize: 2, want: []int64{3, 2}},
		{name: "short last page", page: 3, pageSize: 2, want: []int64{1}},
		{name: "page past end is empty", page: 4, pageSize: 2, want: []int64{}},
		{name: "zero page clamps to first", page: 0, pageSize: 3, want: []int64{5, 4, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ids(pageSlice(cands, tt.page, tt.pageSize)); !equalIDs(got, tt.want) {
				t.Errorf("pageSlice(page=%d, size=%d) = %v, want %v", tt.page, tt.pageSize, got, tt.want)
			}
		})
	}
}

func TestValidSortAndFilter(t *testing.T) {
	for _, s := range []SortOrder{SortLatest, SortLikes, SortComments, SortViews, SortHot} {
		if !ValidSort(s) {
			t.Errorf("ValidSort(%q) = false, want true", s)
		}
	}
	if ValidSort("trending") {
		t.Error("ValidSort(trending) = true, want false")
	}

	for _, f := range []Filter{FilterAll, FilterFriends, FilterMine, FilterFollowing} {
		if !ValidFilter(f) {
			t.Errorf("ValidFilter(%q) = false, want true", f)
		}
	}
	if ValidFilter("everyone") {
		t.Error("ValidFilter(everyone) = true, want false")
	}
}

func TestCacheKeyDistinct(t *testing.T) {
	viewer := uuid.New()
	a := cacheKey(Request{Viewer: &viewer, Sort: SortLatest, Filter: FilterAll, Page: 1, PageSize: 20})
	b := cacheKey(Request{Viewer: &viewer, Sort: SortHot, Filter: FilterAll, Page: 1, PageSize: 20})
	c := cacheKey(Request{Sort: SortLatest, Filter: FilterAll, Page: 1, PageSize: 20})

	if a == b {
		t.Error("cache keys for different sorts must differ")
	}
	if a == c {
		t.Error("cache keys for signed-in and anonymous viewers must differ")
	}
}
