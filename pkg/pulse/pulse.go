package pulse

// ArticleRecord is one article as reported by an Article Source. Any field may
// be empty: an empty source name is excluded from the diversity count and an
// empty or unparsable timestamp counts as not recent.
type ArticleRecord struct {
	Title       string `json:"title"`
	SourceName  string `json:"source_name"`
	PublishedAt string `json:"published_at"` // RFC 3339
}

// ArticleSet is the result of one category query.
type ArticleSet struct {
	Articles     []ArticleRecord `json:"articles"`
	TotalResults int             `json:"total_results"` // provider-reported, may exceed len(Articles)
}

// PulseScore is the engagement estimate for one category.
type PulseScore struct {
	Category     string  `json:"category"`
	PulseScore   float64 `json:"pulse_score"`
	ArticleCount int     `json:"article_count"`
	TotalResults int     `json:"total_results"`
	Timestamp    string  `json:"timestamp"`
	DaysAnalyzed int     `json:"days_analyzed"`
}

// NormalizedPulseScore is a PulseScore after the relative transform.
// OriginalScore always holds the value the scorer produced.
type NormalizedPulseScore struct {
	PulseScore
	OriginalScore float64 `json:"original_score"`
}
