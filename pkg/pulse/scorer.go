package pulse

import (
	"math"
	"strings"
	"time"
)

// recencyWindow is how far back a publication timestamp still counts as recent.
const recencyWindow = 24 * time.Hour

// Score maps one category's article set to a pulse score in [0,100] using the
// given profile. now anchors the recency window; pass time.Now() outside tests.
// An empty article set scores exactly 0.
func Score(set ArticleSet, p Profile, now time.Time) float64 {
	if len(set.Articles) == 0 {
		return 0
	}

	total := component(float64(len(set.Articles)), p.VolumeDiv, p.VolumeExp, p.VolumeMax) +
		component(float64(uniqueSources(set.Articles)), p.DiversityDiv, 1, p.DiversityMax) +
		component(float64(recentCount(set.Articles, now)), p.RecencyDiv, 1, p.RecencyMax)

	if len(p.Keywords) > 0 {
		total += component(float64(keywordHits(set.Articles, p.Keywords)), p.KeywordDiv, 1, p.KeywordMax)
	}

	if total > 100 {
		total = 100
	}
	return Round2(total)
}

// component scales n against its saturation point div, applies the optional
// exponent, and caps the result at max.
func component(n, div, exp, max float64) float64 {
	ratio := n / div
	if exp != 1 {
		ratio = math.Pow(ratio, exp)
	}
	if v := ratio * max; v < max {
		return v
	}
	return max
}

// uniqueSources counts distinct non-empty source names.
func uniqueSources(articles []ArticleRecord) int {
	seen := make(map[string]bool)
	for _, a := range articles {
		if a.SourceName != "" {
			seen[a.SourceName] = true
		}
	}
	return len(seen)
}

// recentCount counts articles published inside the recency window.
func recentCount(articles []ArticleRecord, now time.Time) int {
	n := 0
	for _, a := range articles {
		if isRecent(a.PublishedAt, now) {
			n++
		}
	}
	return n
}

// parseTimestamp reports whether ts is a valid RFC 3339 timestamp. The bool is
// the contract: an unparsable timestamp means "not recent", never an error.
func parseTimestamp(ts string) (time.Time, bool) {
	if ts == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func isRecent(ts string, now time.Time) bool {
	t, ok := parseTimestamp(ts)
	if !ok {
		return false
	}
	return now.Sub(t) < recencyWindow
}

// keywordHits counts, per title, each keyword that appears in it.
// Matching is case-insensitive substring.
func keywordHits(articles []ArticleRecord, keywords []string) int {
	hits := 0
	for _, a := range articles {
		title := strings.ToLower(a.Title)
		for _, kw := range keywords {
			if strings.Contains(title, strings.ToLower(kw)) {
				hits++
			}
		}
	}
	return hits
}

// Round2 rounds to two decimal places, half to even.
func Round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
