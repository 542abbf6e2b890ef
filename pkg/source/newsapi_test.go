package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewsAPIFetchArticles(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/everything" {
			t.Errorf("path = %q, want /everything", r.URL.Path)
		}
		q := r.URL.Query()
		gotQuery = map[string]string{
			"apiKey":   q.Get("apiKey"),
			"q":        q.Get("q"),
			"language": q.Get("language"),
			"from":     q.Get("from"),
			"to":       q.Get("to"),
			"sortBy":   q.Get("sortBy"),
			"pageSize": q.Get("pageSize"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "ok",
			"totalResults": 2543,
			"articles": [
				{"title": "Cup final tonight", "source": {"name": "The Guardian"}, "publishedAt": "2025-06-15T09:00:00Z"},
				{"title": "Transfer window opens", "source": {"name": "ESPN"}, "publishedAt": "2025-06-14T18:30:00Z"},
				{"title": "Untitled", "source": {}, "publishedAt": ""}
			]
		}`))
	}))
	defer srv.Close()

	api := NewNewsAPI("test-key", srv.URL, "en", 100, DefaultQueries())
	from := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	set, err := api.FetchArticles(context.Background(), "Sports", from, to)
	if err != nil {
		t.Fatalf("FetchArticles: %v", err)
	}

	if set.TotalResults != 2543 {
		t.Errorf("TotalResults = %d, want 2543", set.TotalResults)
	}
	if len(set.Articles) != 3 {
		t.Fatalf("got %d articles, want 3", len(set.Articles))
	}
	if set.Articles[0].Title != "Cup final tonight" {
		t.Errorf("Articles[0].Title = %q", set.Articles[0].Title)
	}
	if set.Articles[0].SourceName != "The Guardian" {
		t.Errorf("Articles[0].SourceName = %q", set.Articles[0].SourceName)
	}
	if set.Articles[2].SourceName != "" {
		t.Errorf("Articles[2].SourceName = %q, want empty", set.Articles[2].SourceName)
	}

	want := map[string]string{
		"apiKey":   "test-key",
		"q":        "sports OR football OR basketball OR baseball OR soccer",
		"language": "en",
		"from":     "2025-06-08",
		"to":       "2025-06-15",
		"sortBy":   "publishedAt",
		"pageSize": "100",
	}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Errorf("query %s = %q, want %q", k, gotQuery[k], v)
		}
	}
}

func TestNewsAPIFetchArticlesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status": "error", "code": "apiKeyInvalid", "message": "Your API key is invalid"}`))
	}))
	defer srv.Close()

	api := NewNewsAPI("bad-key", srv.URL, "", 0, DefaultQueries())
	_, err := api.FetchArticles(context.Background(), "Politics", time.Now().AddDate(0, 0, -7), time.Now())
	if err == nil {
		t.Fatal("expected error for apiKeyInvalid response")
	}
}

func TestNewsAPIFetchArticlesUnknownCategory(t *testing.T) {
	api := NewNewsAPI("key", "http://unused.invalid", "", 0, DefaultQueries())
	_, err := api.FetchArticles(context.Background(), "Gardening", time.Now(), time.Now())
	if err == nil {
		t.Fatal("expected error for unconfigured category")
	}
}

func TestDefaultQueriesCoverAllCategories(t *testing.T) {
	queries := DefaultQueries()
	for _, name := range []string{
		"Sports", "Politics", "Tech/Science", "Economy",
		"Trends", "Entertainment", "Health", "Environment",
	} {
		if queries[name] == "" {
			t.Errorf("no query for %s", name)
		}
	}
}
