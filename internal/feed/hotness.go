package feed

import "time"

// Stats carries the denormalized counters a scorer may weigh
type Stats struct {
	Likes    int64
	Views    int64
	Comments int64
	Age      time.Duration
}

// Scorer ranks a photo under the hot sort. Implementations must be
// monotonically non-decreasing in likes and views.
type Scorer interface {
	Score(stats Stats) float64
}

// EngagementScorer is the default scorer: a linear combination of likes and
// views with no time decay.
// TODO: replace with the finalized ranking curve once one is chosen
type EngagementScorer struct{}

// Score implements Scorer
func (EngagementScorer) Score(stats Stats) float64 {
	return float64(stats.Likes)*2 + float64(stats.Views)*0.1
}
