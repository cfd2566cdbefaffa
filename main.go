package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"discourse-feed/config"
	"discourse-feed/filter"
	"discourse-feed/ingest"
	"discourse-feed/publisher"
	"discourse-feed/scraper"
	"discourse-feed/stats"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var configFile string

func initSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	initSlog(cfg.Log.Verbose)
	return cfg, nil
}

var rootCmd = &cobra.Command{
	Use:           "discourse-feed",
	Short:         "Scrapes a Discourse course forum into a JSON file of posts.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runScrape,
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--start YYYY-MM-DD] [--end YYYY-MM-DD] [--output posts.json]",
	Short: "Scrapes topics and posts within the date range.",
	RunE:  runScrape,
}

var filterCmd = &cobra.Command{
	Use:   "filter --input posts.json [--output filtered.json] [--start YYYY-MM-DD] [--end YYYY-MM-DD]",
	Short: "Re-filters an existing posts file by date.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		input, _ := cmd.Flags().GetString("input")
		if input == "" {
			input = cfg.Output.JSON
		}

		r, err := cfg.DateRange()
		if err != nil {
			return err
		}

		kept, err := filter.RunFilter(input, cfg.Output.JSON, r)
		if err != nil {
			return err
		}
		fmt.Printf("Filter finished. %d posts saved to %s\n", kept, cfg.Output.JSON)
		return nil
	},
}

var samplesCmd = &cobra.Command{
	Use:   "samples [--output posts.json]",
	Short: "Writes the built-in sample posts.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return publisher.WriteJSON(cfg.Output.JSON, ingest.SampleData())
	},
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	r, err := cfg.DateRange()
	if err != nil {
		return err
	}

	client := ingest.NewDiscourseClient(cfg.BaseURL, cfg.Browser.UserAgent, cfg.HTTP.RequestTimeout)

	collectors := []ingest.Collector{
		&ingest.JSONCollector{Client: client, CategoryURL: cfg.CourseURL},
	}
	if cfg.Fetcher.StaticHTML {
		collectors = append(collectors, &scraper.StaticCollector{
			PageURL:   cfg.CourseURL,
			UserAgent: cfg.Browser.UserAgent,
			Timeout:   cfg.HTTP.RequestTimeout,
		})
	}
	collectors = append(collectors, scraper.NewBrowserCollector(cfg.CourseURL, cfg.Fetcher.CandidateURLs, scraper.SessionOptions{
		UserAgent:     cfg.Browser.UserAgent,
		RenderTimeout: cfg.Browser.RenderTimeout,
		PageTimeout:   cfg.Browser.Timeout,
		ExecPath:      cfg.Browser.ExecPath,
	}))

	fetcher := ingest.NewFetcher(collectors...)
	defer func() {
		if err := fetcher.Close(); err != nil {
			slog.Warn("failed to close browser", "err", err)
		}
	}()

	report := stats.NewReport()
	result, err := ingest.Run(ctx, fetcher, client, ingest.Options{
		Range:      r,
		MaxTopics:  cfg.Fetcher.MaxTopics,
		TopicDelay: cfg.Fetcher.TopicDelay,
	}, report)
	if err != nil {
		return fmt.Errorf("scrape interrupted: %w", err)
	}

	if err := publisher.WriteJSON(cfg.Output.JSON, result.Posts); err != nil {
		return err
	}
	if cfg.Output.CSV != "" {
		if err := publisher.WriteCSV(cfg.Output.CSV, result.Posts); err != nil {
			return err
		}
	}
	if cfg.Output.Report != "" {
		if err := report.WriteSummary(cfg.Output.Report); err != nil {
			return err
		}
	}

	report.RenderTable(os.Stdout)
	fmt.Printf("Scrape finished. %d posts from %s saved to %s\n", len(result.Posts), result.Source, cfg.Output.JSON)
	return nil
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default ./config.yaml)")
	flags.String("start", "", "first day to keep, YYYY-MM-DD")
	flags.String("end", "", "last day to keep, YYYY-MM-DD")
	flags.String("output", "", "JSON output file")
	flags.String("csv", "", "optional CSV export file")
	flags.String("report", "", "markdown run report file")
	flags.Bool("static-html", false, "try the non-JavaScript page before launching a browser")
	flags.BoolP("verbose", "v", false, "debug logging")

	filterCmd.Flags().String("input", "", "posts file to filter (default: the configured output)")

	rootCmd.AddCommand(scrapeCmd, filterCmd, samplesCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
