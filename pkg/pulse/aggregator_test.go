package pulse

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeFetcher returns canned sets per category and errors for categories
// listed in fail.
type fakeFetcher struct {
	sets map[string]ArticleSet
	fail map[string]bool
}

func (f *fakeFetcher) FetchArticles(ctx context.Context, category string, from, to time.Time) (ArticleSet, error) {
	if f.fail[category] {
		return ArticleSet{}, errors.New("provider unavailable")
	}
	return f.sets[category], nil
}

func newTestAggregator(f Fetcher) *Aggregator {
	agg := NewAggregator(f, DefaultCategories(), LastDays(7, testNow))
	agg.SetClock(func() time.Time { return testNow })
	agg.SetLogf(func(string, ...any) {})
	return agg
}

func TestCollectKeepsCategoryOrder(t *testing.T) {
	agg := newTestAggregator(&fakeFetcher{})
	scores := agg.Collect(context.Background()).Scores()

	want := []string{
		"Sports", "Politics", "Tech/Science", "Economy",
		"Trends", "Entertainment", "Health", "Environment",
	}
	if len(scores) != len(want) {
		t.Fatalf("got %d scores, want %d", len(scores), len(want))
	}
	for i, s := range scores {
		if s.Category != want[i] {
			t.Errorf("scores[%d].Category = %q, want %q", i, s.Category, want[i])
		}
		if s.DaysAnalyzed != 7 {
			t.Errorf("scores[%d].DaysAnalyzed = %d, want 7", i, s.DaysAnalyzed)
		}
	}
}

func TestCollectIsolatesCategoryFailure(t *testing.T) {
	f := &fakeFetcher{
		sets: map[string]ArticleSet{},
		fail: map[string]bool{"Economy": true},
	}
	for _, cat := range DefaultCategories() {
		f.sets[cat.Name] = buildSet(50, 10, 15)
	}

	scores := newTestAggregator(f).Collect(context.Background()).Scores()
	if len(scores) != 8 {
		t.Fatalf("got %d scores, want 8", len(scores))
	}
	for _, s := range scores {
		if s.Category == "Economy" {
			if s.PulseScore != 0 || s.ArticleCount != 0 || s.TotalResults != 0 {
				t.Errorf("failed category not zero-valued: %+v", s)
			}
			continue
		}
		if s.PulseScore == 0 {
			t.Errorf("%s scored 0, expected nonzero", s.Category)
		}
	}
}

func TestNormalizeRelativeBoostAndSuppress(t *testing.T) {
	c := Collection{scores: []PulseScore{
		{Category: "Sports", PulseScore: 80},
		{Category: "Politics", PulseScore: 40},
		{Category: "Health", PulseScore: 30},
		{Category: "Trends", PulseScore: 10},
	}}
	// avg = 40

	got := c.NormalizeRelative()
	if len(got) != 4 {
		t.Fatalf("got %d entries, want 4", len(got))
	}

	want := []float64{100, 40, 18, 2}
	for i, n := range got {
		if n.PulseScore.PulseScore != want[i] {
			t.Errorf("%s: normalized = %v, want %v", n.Category, n.PulseScore.PulseScore, want[i])
		}
		if n.OriginalScore != c.scores[i].PulseScore {
			t.Errorf("%s: OriginalScore = %v, want %v", n.Category, n.OriginalScore, c.scores[i].PulseScore)
		}
	}
}

func TestNormalizeRelativeProperties(t *testing.T) {
	c := Collection{scores: []PulseScore{
		{PulseScore: 72.5}, {PulseScore: 55}, {PulseScore: 31.25}, {PulseScore: 12.5}, {PulseScore: 5},
	}}
	var sum float64
	for _, s := range c.scores {
		sum += s.PulseScore
	}
	avg := sum / float64(len(c.scores))

	for i, n := range c.NormalizeRelative() {
		raw := c.scores[i].PulseScore
		norm := n.PulseScore.PulseScore
		if norm < 0 || norm > 100 {
			t.Errorf("normalized %v out of [0,100]", norm)
		}
		if raw >= avg && norm < raw {
			t.Errorf("above-average score %v suppressed to %v", raw, norm)
		}
		if raw < avg && norm > raw {
			t.Errorf("below-average score %v boosted to %v", raw, norm)
		}
	}
}

func TestNormalizeRelativeAllZero(t *testing.T) {
	c := Collection{scores: []PulseScore{
		{Category: "Sports"}, {Category: "Politics"}, {Category: "Health"},
	}}

	got := c.NormalizeRelative()
	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3", len(got))
	}
	for _, n := range got {
		if n.PulseScore.PulseScore != 0 || n.OriginalScore != 0 {
			t.Errorf("%s: zero collection changed: %+v", n.Category, n)
		}
	}
}

func TestNormalizeRelativeEmpty(t *testing.T) {
	if got := (Collection{}).NormalizeRelative(); len(got) != 0 {
		t.Errorf("empty collection normalized to %d entries", len(got))
	}
}

func TestCollectThenNormalizeEndToEnd(t *testing.T) {
	f := &fakeFetcher{
		sets: map[string]ArticleSet{},
		fail: map[string]bool{"Trends": true},
	}
	for i, cat := range DefaultCategories() {
		f.sets[cat.Name] = buildSet(10*(i+1), 5, 5)
	}

	normalized := newTestAggregator(f).Collect(context.Background()).NormalizeRelative()
	if len(normalized) != 8 {
		t.Fatalf("got %d entries, want 8", len(normalized))
	}
	for _, n := range normalized {
		if n.Category == "Trends" && (n.PulseScore.PulseScore != 0 || n.OriginalScore != 0) {
			t.Errorf("failed category survived normalization nonzero: %+v", n)
		}
	}
}

func TestWindowDays(t *testing.T) {
	tests := []struct {
		name string
		w    Window
		want int
	}{
		{"seven days", LastDays(7, testNow), 7},
		{"default on zero", LastDays(0, testNow), 7},
		{"sub-day clamps to one", Window{From: testNow.Add(-2 * time.Hour), To: testNow}, 1},
		{"explicit range", Window{From: testNow.AddDate(0, 0, -30), To: testNow}, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.w.Days(); got != tt.want {
				t.Errorf("Days() = %d, want %d", got, tt.want)
			}
		})
	}
}
