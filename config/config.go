package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"discourse-feed/filter"
	"discourse-feed/scraper"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. DISCOURSE_FEED_START_DATE
const EnvPrefix = "DISCOURSE_FEED"

// Config holds everything a scrape run needs
type Config struct {
	BaseURL   string `mapstructure:"base_url"`
	CourseURL string `mapstructure:"course_url"`
	StartDate string `mapstructure:"start_date"`
	EndDate   string `mapstructure:"end_date"`

	Fetcher FetcherConfig `mapstructure:"fetcher"`
	Browser BrowserConfig `mapstructure:"browser"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Output  OutputConfig  `mapstructure:"output"`
	Log     LogConfig     `mapstructure:"log"`
}

type FetcherConfig struct {
	MaxTopics     int           `mapstructure:"max_topics"`
	TopicDelay    time.Duration `mapstructure:"topic_delay"`
	StaticHTML    bool          `mapstructure:"static_html"`
	CandidateURLs []string      `mapstructure:"candidate_urls"`
}

type BrowserConfig struct {
	UserAgent     string        `mapstructure:"user_agent"`
	RenderTimeout time.Duration `mapstructure:"render_timeout"`
	Timeout       time.Duration `mapstructure:"timeout"`
	ExecPath      string        `mapstructure:"exec_path"`
}

type HTTPConfig struct {
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type OutputConfig struct {
	JSON   string `mapstructure:"json"`
	CSV    string `mapstructure:"csv"`
	Report string `mapstructure:"report"`
}

type LogConfig struct {
	Verbose bool `mapstructure:"verbose"`
}

// SetDefaults registers the default value of every key
func SetDefaults(v *viper.Viper) {
	v.SetDefault("base_url", "https://discourse.onlinedegree.iitm.ac.in")
	v.SetDefault("course_url", "https://discourse.onlinedegree.iitm.ac.in/c/courses/tds-kb/34")
	v.SetDefault("start_date", "2025-01-01")
	v.SetDefault("end_date", "2025-04-14")

	v.SetDefault("fetcher.max_topics", 10)
	v.SetDefault("fetcher.topic_delay", time.Second)
	v.SetDefault("fetcher.static_html", false)
	v.SetDefault("fetcher.candidate_urls", scraper.DefaultCandidateURLs)

	v.SetDefault("browser.user_agent", scraper.DefaultUserAgent)
	v.SetDefault("browser.render_timeout", 5*time.Second)
	v.SetDefault("browser.timeout", 3*time.Minute)
	v.SetDefault("browser.exec_path", "")

	v.SetDefault("http.request_timeout", 30*time.Second)

	v.SetDefault("output.json", "data/discourse_posts.json")
	v.SetDefault("output.csv", "")
	v.SetDefault("output.report", "data/run_report.md")

	v.SetDefault("log.verbose", false)
}

// FlagBindings maps config keys to the CLI flags overriding them
var FlagBindings = map[string]string{
	"start_date":          "start",
	"end_date":            "end",
	"output.json":         "output",
	"output.csv":          "csv",
	"output.report":       "report",
	"fetcher.static_html": "static-html",
	"log.verbose":         "verbose",
}

// Load reads configuration from, in increasing priority: defaults, the config
// file (configFile, or config.yaml in the working directory), .env and the
// process environment, and the flags listed in FlagBindings that were set.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "err", err)
	}

	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		slog.Debug("no config file found, using defaults and environment")
	}

	if flags != nil {
		for key, name := range FlagBindings {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the URLs and the date range
func (c *Config) Validate() error {
	if err := absoluteURL("base_url", c.BaseURL); err != nil {
		return err
	}
	if err := absoluteURL("course_url", c.CourseURL); err != nil {
		return err
	}
	if _, err := c.DateRange(); err != nil {
		return err
	}
	if c.Output.JSON == "" {
		return errors.New("output.json must be set")
	}
	return nil
}

// DateRange parses start_date and end_date
func (c *Config) DateRange() (filter.DateRange, error) {
	return filter.ParseRange(c.StartDate, c.EndDate)
}

func absoluteURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", key, raw)
	}
	return nil
}
