package pulse

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"
)

// Category pairs a display name with the profile used to score it.
type Category struct {
	Name    string
	Profile Profile
}

// DefaultCategories returns the fixed eight-category layout. The order is the
// chart axis order and must be preserved through collection and normalization.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Sports", Profile: HighIntensity(SportsKeywords())},
		{Name: "Politics", Profile: Standard()},
		{Name: "Tech/Science", Profile: Standard()},
		{Name: "Economy", Profile: Standard()},
		{Name: "Trends", Profile: Standard()},
		{Name: "Entertainment", Profile: Standard()},
		{Name: "Health", Profile: Standard()},
		{Name: "Environment", Profile: Standard()},
	}
}

// Window is the date range a pulse run analyzes.
type Window struct {
	From time.Time
	To   time.Time
}

// LastDays returns a window covering the past n days ending at now.
func LastDays(n int, now time.Time) Window {
	if n <= 0 {
		n = 7
	}
	return Window{From: now.AddDate(0, 0, -n), To: now}
}

// Days returns the window length in whole days, minimum 1.
func (w Window) Days() int {
	d := int(w.To.Sub(w.From).Hours() / 24)
	if d < 1 {
		return 1
	}
	return d
}

// Fetcher supplies articles for one category over a date window.
// Implementations live in pkg/source.
type Fetcher interface {
	FetchArticles(ctx context.Context, category string, from, to time.Time) (ArticleSet, error)
}

// Aggregator scores every configured category over one window.
type Aggregator struct {
	fetcher    Fetcher
	categories []Category
	window     Window
	now        func() time.Time
	logf       func(format string, args ...any)
}

// NewAggregator creates an aggregator over the given categories, scored in the
// order given.
func NewAggregator(fetcher Fetcher, categories []Category, window Window) *Aggregator {
	return &Aggregator{
		fetcher:    fetcher,
		categories: categories,
		window:     window,
		now:        time.Now,
		logf: func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format, args...)
		},
	}
}

// SetClock overrides the wall clock. Used by tests.
func (a *Aggregator) SetClock(now func() time.Time) { a.now = now }

// SetLogf overrides where per-category failures are reported.
func (a *Aggregator) SetLogf(logf func(format string, args ...any)) { a.logf = logf }

// Collection is an ordered set of per-category scores from one run. It is the
// only input NormalizeRelative accepts, so scores cannot be normalized without
// being collected first.
type Collection struct {
	scores []PulseScore
}

// Scores returns a copy of the collected scores in category order.
func (c Collection) Scores() []PulseScore {
	out := make([]PulseScore, len(c.scores))
	copy(out, c.scores)
	return out
}

// Collect scores every category in the configured order. A category whose
// fetch fails is reported and replaced by a zero-valued placeholder, so the
// collection always has one entry per category.
func (a *Aggregator) Collect(ctx context.Context) Collection {
	now := a.now()
	timestamp := now.Format(time.RFC3339)
	days := a.window.Days()

	scores := make([]PulseScore, 0, len(a.categories))
	for _, cat := range a.categories {
		set, err := a.fetcher.FetchArticles(ctx, cat.Name, a.window.From, a.window.To)
		if err != nil {
			a.logf("  %s: %v\n", cat.Name, err)
			scores = append(scores, PulseScore{
				Category:     cat.Name,
				Timestamp:    timestamp,
				DaysAnalyzed: days,
			})
			continue
		}

		scores = append(scores, PulseScore{
			Category:     cat.Name,
			PulseScore:   Score(set, cat.Profile, now),
			ArticleCount: len(set.Articles),
			TotalResults: set.TotalResults,
			Timestamp:    timestamp,
			DaysAnalyzed: days,
		})
	}
	return Collection{scores: scores}
}

// NormalizeRelative applies the dramatization transform: scores at or above
// the collection average are boosted, scores below it are suppressed. The
// pre-transform value is preserved in OriginalScore. When every category
// scored zero the scores pass through unchanged.
func (c Collection) NormalizeRelative() []NormalizedPulseScore {
	out := make([]NormalizedPulseScore, 0, len(c.scores))
	if len(c.scores) == 0 {
		return out
	}

	var sum float64
	for _, s := range c.scores {
		sum += s.PulseScore
	}
	avg := sum / float64(len(c.scores))

	for _, s := range c.scores {
		n := NormalizedPulseScore{PulseScore: s, OriginalScore: s.PulseScore}
		if avg > 0 {
			if s.PulseScore >= avg {
				boost := 1 + 2*(s.PulseScore-avg)/avg
				n.PulseScore.PulseScore = Round2(math.Min(100, s.PulseScore*boost))
			} else {
				suppress := s.PulseScore / avg
				n.PulseScore.PulseScore = Round2(s.PulseScore * suppress * 0.8)
			}
		}
		out = append(out, n)
	}
	return out
}
