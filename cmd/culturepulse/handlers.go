package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"culturepulse/internal/config"
	"culturepulse/internal/scheduler"
	"culturepulse/internal/store"
	"culturepulse/pkg/alert"
	"culturepulse/pkg/chart"
	"culturepulse/pkg/pulse"
	"culturepulse/pkg/server"
	"culturepulse/pkg/source"
)

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// buildSource creates the configured article source, wrapped in the SQLite
// response cache unless disabled. The returned closer is a no-op when no
// cache is open.
func buildSource(cfg *config.Config, noCache bool) (source.Source, func() error, error) {
	var base source.Source
	switch cfg.Provider.Kind {
	case "newsapi":
		base = source.NewNewsAPI(cfg.Provider.APIKey, cfg.Provider.BaseURL,
			cfg.Provider.Language, cfg.Provider.PageSize, cfg.Queries())
	case "googlenews":
		base = source.NewGoogleNews(cfg.Provider.BaseURL, cfg.Queries())
	default:
		return nil, nil, fmt.Errorf("unknown provider %q", cfg.Provider.Kind)
	}

	if noCache || !cfg.Cache.Enabled {
		return base, func() error { return nil }, nil
	}

	db, err := store.New(cfg.Cache.Path, cfg.Cache.ParseTTL())
	if err != nil {
		return nil, nil, fmt.Errorf("open cache: %w", err)
	}
	return source.NewCached(base, db), db.Close, nil
}

func buildCategories(cfg *config.Config) []pulse.Category {
	cats := make([]pulse.Category, 0, len(cfg.Pulse.Categories))
	for _, c := range cfg.Pulse.Categories {
		var p pulse.Profile
		if c.Profile == "high-intensity" {
			keywords := c.Keywords
			if len(keywords) == 0 {
				keywords = pulse.SportsKeywords()
			}
			p = pulse.HighIntensity(keywords)
		} else {
			p = pulse.Standard()
		}
		cats = append(cats, pulse.Category{Name: c.Name, Profile: p})
	}
	return cats
}

func buildAlertManager(cfg *config.Config) *alert.Manager {
	var notifiers []alert.Notifier

	if cfg.Alerts.Slack.Enabled && cfg.Alerts.Slack.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewSlack(cfg.Alerts.Slack.WebhookURL))
	}
	if cfg.Alerts.Discord.Enabled && cfg.Alerts.Discord.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewDiscord(cfg.Alerts.Discord.WebhookURL))
	}
	if cfg.Alerts.Webhook.Enabled && cfg.Alerts.Webhook.URL != "" {
		notifiers = append(notifiers, alert.NewWebhook(cfg.Alerts.Webhook.URL, cfg.Alerts.Webhook.Secret))
	}

	return alert.NewManager(notifiers)
}

func parseWindow(f windowFlags, defaultDays int, now time.Time) (pulse.Window, error) {
	if f.from != "" || f.to != "" {
		if f.from == "" || f.to == "" {
			return pulse.Window{}, fmt.Errorf("--from and --to must be given together")
		}
		from, err := time.Parse("2006-01-02", f.from)
		if err != nil {
			return pulse.Window{}, fmt.Errorf("parse --from: %w", err)
		}
		to, err := time.Parse("2006-01-02", f.to)
		if err != nil {
			return pulse.Window{}, fmt.Errorf("parse --to: %w", err)
		}
		if to.Before(from) {
			return pulse.Window{}, fmt.Errorf("--to is before --from")
		}
		return pulse.Window{From: from, To: to}, nil
	}

	days := f.days
	if days <= 0 {
		days = defaultDays
	}
	return pulse.LastDays(days, now), nil
}

func runPulse(window windowFlags, jsonOutput, raw bool, chartPath string, noCache bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	src, closeSource, err := buildSource(cfg, noCache)
	if err != nil {
		return err
	}
	defer closeSource()

	w, err := parseWindow(window, cfg.Pulse.DaysBack, time.Now())
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "collecting %d categories over %d days...\n",
		len(cfg.Pulse.Categories), w.Days())

	agg := pulse.NewAggregator(src, buildCategories(cfg), w)
	collection := agg.Collect(context.Background())

	if raw {
		scores := collection.Scores()
		if chartPath != "" {
			if err := writeChart(chartPath, rawEntries(scores)); err != nil {
				return err
			}
		}
		if jsonOutput {
			return printJSON(scores)
		}
		printRawTable(scores)
		return nil
	}

	normalized := collection.NormalizeRelative()
	if chartPath != "" {
		if err := writeChart(chartPath, normalizedEntries(normalized)); err != nil {
			return err
		}
	}
	if jsonOutput {
		return printJSON(normalized)
	}
	printNormalizedTable(normalized)
	return nil
}

func runChart(window windowFlags, out string, raw, noCache bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	src, closeSource, err := buildSource(cfg, noCache)
	if err != nil {
		return err
	}
	defer closeSource()

	w, err := parseWindow(window, cfg.Pulse.DaysBack, time.Now())
	if err != nil {
		return err
	}

	agg := pulse.NewAggregator(src, buildCategories(cfg), w)
	collection := agg.Collect(context.Background())

	var entries []chart.Entry
	if raw {
		entries = rawEntries(collection.Scores())
	} else {
		entries = normalizedEntries(collection.NormalizeRelative())
	}

	if err := writeChart(out, entries); err != nil {
		return err
	}
	chart.Terminal(os.Stdout, entries)
	fmt.Printf("\nchart written to %s\n", out)
	return nil
}

// buildRunner produces the pipeline closure shared by serve and run. The
// window is re-anchored to the wall clock on every invocation.
func buildRunner(cfg *config.Config, src source.Source) server.Runner {
	categories := buildCategories(cfg)
	return func(ctx context.Context) server.Result {
		now := time.Now()
		agg := pulse.NewAggregator(src, categories, pulse.LastDays(cfg.Pulse.DaysBack, now))
		collection := agg.Collect(ctx)
		return server.Result{
			CollectedAt: now,
			Raw:         collection.Scores(),
			Normalized:  collection.NormalizeRelative(),
		}
	}
}

func runServe(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port == 0 {
		port = cfg.Server.Port
	}

	src, closeSource, err := buildSource(cfg, false)
	if err != nil {
		return err
	}
	defer closeSource()

	srv := server.New(buildRunner(cfg, src), port)
	return srv.ListenAndServe()
}

func runDaemon(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port == 0 {
		port = cfg.Server.Port
	}

	src, closeSource, err := buildSource(cfg, false)
	if err != nil {
		return err
	}
	defer closeSource()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := server.New(buildRunner(cfg, src), port)
	sched := scheduler.New(srv, buildAlertManager(cfg), cfg.Schedule.Refresh, cfg.Alerts.Threshold)

	// Scheduler in background; server in the foreground.
	go func() {
		if err := sched.Run(ctx); err != nil && ctx.Err() == nil {
			fmt.Fprintf(os.Stderr, "scheduler error: %v\n", err)
		}
	}()

	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nshutting down...")
	}()

	return srv.ListenAndServe()
}

func rawEntries(scores []pulse.PulseScore) []chart.Entry {
	entries := make([]chart.Entry, 0, len(scores))
	for _, s := range scores {
		entries = append(entries, chart.Entry{Label: s.Category, Score: s.PulseScore})
	}
	return entries
}

func normalizedEntries(normalized []pulse.NormalizedPulseScore) []chart.Entry {
	entries := make([]chart.Entry, 0, len(normalized))
	for _, n := range normalized {
		entries = append(entries, chart.Entry{Label: n.Category, Score: n.PulseScore.PulseScore})
	}
	return entries
}

func writeChart(path string, entries []chart.Entry) error {
	svg := chart.SVG(entries, "Culture Pulse Radar Chart")
	if err := os.WriteFile(path, []byte(svg), 0o644); err != nil {
		return fmt.Errorf("write chart %s: %w", path, err)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printRawTable(scores []pulse.PulseScore) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tPULSE\tARTICLES\tTOTAL RESULTS")
	for _, s := range scores {
		fmt.Fprintf(w, "%s\t%.2f\t%d\t%d\n", s.Category, s.PulseScore, s.ArticleCount, s.TotalResults)
	}
	w.Flush()
}

func printNormalizedTable(normalized []pulse.NormalizedPulseScore) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tPULSE\tRAW\tARTICLES\tTOTAL RESULTS")
	for _, n := range normalized {
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%d\t%d\n",
			n.Category, n.PulseScore.PulseScore, n.OriginalScore, n.ArticleCount, n.TotalResults)
	}
	w.Flush()
}
