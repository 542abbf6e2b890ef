package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"culturepulse/pkg/pulse"
)

const googleNewsFeedURL = "https://news.google.com/rss/search"

// GoogleNews fetches category articles from Google News search feeds. It needs
// no API key, which makes it a drop-in fallback when no NewsAPI credential is
// configured.
type GoogleNews struct {
	client  *http.Client
	parser  *gofeed.Parser
	feedURL string
	queries map[string]string
}

// NewGoogleNews creates a Google News source. feedURL is overridable for
// tests; pass "" for the public endpoint.
func NewGoogleNews(feedURL string, queries map[string]string) *GoogleNews {
	if feedURL == "" {
		feedURL = googleNewsFeedURL
	}
	return &GoogleNews{
		client:  &http.Client{Timeout: 30 * time.Second},
		parser:  gofeed.NewParser(),
		feedURL: feedURL,
		queries: queries,
	}
}

func (g *GoogleNews) Name() string { return "googlenews" }

func (g *GoogleNews) FetchArticles(ctx context.Context, category string, from, to time.Time) (pulse.ArticleSet, error) {
	query, ok := g.queries[category]
	if !ok || query == "" {
		return pulse.ArticleSet{}, fmt.Errorf("no query configured for category %q", category)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("hl", "en-US")
	params.Set("gl", "US")
	params.Set("ceid", "US:en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		g.feedURL+"?"+params.Encode(), nil)
	if err != nil {
		return pulse.ArticleSet{}, fmt.Errorf("create google news request: %w", err)
	}
	req.Header.Set("User-Agent", "culturepulse/1.0")

	resp, err := g.client.Do(req)
	if err != nil {
		return pulse.ArticleSet{}, fmt.Errorf("fetch %s feed: %w", category, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return pulse.ArticleSet{}, fmt.Errorf("google news %s status %d", category, resp.StatusCode)
	}

	parsed, err := g.parser.Parse(resp.Body)
	if err != nil {
		return pulse.ArticleSet{}, fmt.Errorf("parse %s feed: %w", category, err)
	}

	var set pulse.ArticleSet
	for _, entry := range parsed.Items {
		var published string
		if entry.PublishedParsed != nil {
			t := entry.PublishedParsed.UTC()
			// The feed is not window-aware, so filter here. Items without a
			// parsable date stay in; the scorer treats them as not recent.
			if t.Before(from) || t.After(to) {
				continue
			}
			published = t.Format(time.RFC3339)
		}

		title, publisher := splitPublisher(entry.Title)
		set.Articles = append(set.Articles, pulse.ArticleRecord{
			Title:       title,
			SourceName:  publisher,
			PublishedAt: published,
		})
	}
	set.TotalResults = len(set.Articles)
	return set, nil
}

// splitPublisher separates a Google News item title from its trailing
// publisher name ("Headline - Publisher").
func splitPublisher(title string) (string, string) {
	i := strings.LastIndex(title, " - ")
	if i < 0 {
		return title, ""
	}
	return strings.TrimSpace(title[:i]), strings.TrimSpace(title[i+3:])
}
