package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"culturepulse/pkg/pulse"
)

const newsAPIBaseURL = "https://newsapi.org/v2"

// NewsAPI fetches category articles from the NewsAPI /v2/everything endpoint.
type NewsAPI struct {
	client   *http.Client
	baseURL  string
	apiKey   string
	language string
	pageSize int
	queries  map[string]string // category -> search query
}

// NewNewsAPI creates a NewsAPI client. baseURL is overridable for tests; pass
// "" for the public endpoint.
func NewNewsAPI(apiKey, baseURL, language string, pageSize int, queries map[string]string) *NewsAPI {
	if baseURL == "" {
		baseURL = newsAPIBaseURL
	}
	if language == "" {
		language = "en"
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 100
	}
	return &NewsAPI{
		client:   &http.Client{Timeout: 30 * time.Second},
		baseURL:  baseURL,
		apiKey:   apiKey,
		language: language,
		pageSize: pageSize,
		queries:  queries,
	}
}

func (n *NewsAPI) Name() string { return "newsapi" }

func (n *NewsAPI) FetchArticles(ctx context.Context, category string, from, to time.Time) (pulse.ArticleSet, error) {
	query, ok := n.queries[category]
	if !ok || query == "" {
		return pulse.ArticleSet{}, fmt.Errorf("no query configured for category %q", category)
	}

	params := url.Values{}
	params.Set("apiKey", n.apiKey)
	params.Set("q", query)
	params.Set("language", n.language)
	params.Set("from", from.Format("2006-01-02"))
	params.Set("to", to.Format("2006-01-02"))
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", strconv.Itoa(n.pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		n.baseURL+"/everything?"+params.Encode(), nil)
	if err != nil {
		return pulse.ArticleSet{}, fmt.Errorf("create newsapi request: %w", err)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return pulse.ArticleSet{}, fmt.Errorf("fetch %s articles: %w", category, err)
	}
	defer resp.Body.Close()

	var body newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return pulse.ArticleSet{}, fmt.Errorf("decode newsapi response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || body.Status != "ok" {
		return pulse.ArticleSet{}, fmt.Errorf("newsapi %s: %s (status %d)",
			body.Code, body.Message, resp.StatusCode)
	}

	set := pulse.ArticleSet{
		Articles:     make([]pulse.ArticleRecord, 0, len(body.Articles)),
		TotalResults: body.TotalResults,
	}
	for _, a := range body.Articles {
		set.Articles = append(set.Articles, pulse.ArticleRecord{
			Title:       a.Title,
			SourceName:  a.Source.Name,
			PublishedAt: a.PublishedAt,
		})
	}
	return set, nil
}

type newsAPIResponse struct {
	Status       string `json:"status"`
	Code         string `json:"code"`
	Message      string `json:"message"`
	TotalResults int    `json:"totalResults"`
	Articles     []struct {
		Title  string `json:"title"`
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// DefaultQueries returns the per-category search queries.
func DefaultQueries() map[string]string {
	return map[string]string{
		"Sports":        "sports OR football OR basketball OR baseball OR soccer",
		"Politics":      "politics OR government OR election OR policy OR legislation",
		"Tech/Science":  "technology OR science OR AI OR innovation OR research OR tech",
		"Economy":       "economy OR inflation OR markets OR trade OR employment OR finance",
		"Trends":        "viral OR trending OR social media OR influencer OR meme",
		"Entertainment": "movie OR music OR celebrity OR streaming OR television OR concert",
		"Health":        "health OR medicine OR wellness OR vaccine OR hospital OR fitness",
		"Environment":   "climate OR environment OR sustainability OR renewable OR carbon OR green energy",
	}
}
