package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv    = "NEWS_AGENT_CONFIG"
	databasePathEnv  = "NEWS_AGENT_DB"
	openAIAPIKeyEnv  = "OPENAI_API_KEY"
	openAIModelEnv   = "OPENAI_MODEL"
	webhookURLEnv    = "NEWS_AGENT_WEBHOOK_URL"
	taggerURLEnv     = "NEWS_AGENT_TAGGER_URL"
	maxResultsEnv    = "MAX_RESULTS"
	maxTotalEnv      = "MAX_TOTAL_PER_SOURCE"
	backfillPagesEnv = "RSS_BACKFILL_PAGES"
	workersEnv       = "PARALLEL_MAX_WORKERS"
	skipIfExistsEnv  = "SKIP_UPDATE_IF_EXISTS"
	strictTechEnv    = "STRICT_TECH_KEYWORDS"
	skipNonTechEnv   = "SKIP_NON_TECH"
	enableSummaryEnv = "ENABLE_SUMMARY"
)

// Config holds high-level settings required across the application.
type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	HTTP       HTTPConfig       `yaml:"http"`
	Tokenizer  TokenizerConfig  `yaml:"tokenizer"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Notifier   NotifierConfig   `yaml:"notifier"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Logging    LoggingConfig    `yaml:"logging"`
	Feeds      []FeedConfig     `yaml:"feeds"`
}

// DatabaseConfig describes the SQLite file location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// PipelineConfig carries the ingestion knobs.
type PipelineConfig struct {
	MaxResults         int    `yaml:"maxResults"`
	MaxTotalPerSource  int    `yaml:"maxTotalPerSource"`
	BackfillPages      int    `yaml:"backfillPages"`
	Workers            int    `yaml:"workers"`
	FeedWorkers        int    `yaml:"feedWorkers"`
	SkipIfExists       bool   `yaml:"skipIfExists"`
	StrictTechKeywords bool   `yaml:"strictTechKeywords"`
	SkipNonTech        bool   `yaml:"skipNonTech"`
	FetchBody          bool   `yaml:"fetchBody"`
	MatchMode          string `yaml:"matchMode"`
}

// HTTPConfig tunes the outbound fetch client.
type HTTPConfig struct {
	ConnectTimeout time.Duration `yaml:"connectTimeout"`
	ReadTimeout    time.Duration `yaml:"readTimeout"`
	HostInterval   time.Duration `yaml:"hostInterval"`
	MaxRetries     int           `yaml:"maxRetries"`
}

// TokenizerConfig selects the tagging backend. Backend "rule" needs no
// remote service; "remote" posts text to a morphological analyzer.
type TokenizerConfig struct {
	Backend  string        `yaml:"backend"`
	Endpoint string        `yaml:"endpoint"`
	APIKey   string        `yaml:"apiKey"`
	Timeout  time.Duration `yaml:"timeout"`
}

// SummarizerConfig defines how to contact the chat-completions API.
type SummarizerConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Endpoint string        `yaml:"endpoint"`
	Model    string        `yaml:"model"`
	APIKey   string        `yaml:"apiKey"`
	Timeout  time.Duration `yaml:"timeout"`
}

// NotifierConfig wires the run-report webhook.
type NotifierConfig struct {
	WebhookURL string `yaml:"webhookUrl"`
}

// SchedulerConfig defines how often recurring ingestion runs.
type SchedulerConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// LoggingConfig selects the log level (debug, info, warn, error).
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// FeedConfig describes a single feed endpoint.
type FeedConfig struct {
	Source  string `yaml:"source"`
	URL     string `yaml:"url"`
	Scanner string `yaml:"scanner"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				var toggles fileToggles
				_ = yaml.Unmarshal(raw, &toggles)
				cfg = mergeConfig(cfg, fileCfg, toggles)
			}
		}
	}

	cfg.applyEnvOverrides()

	if len(cfg.Feeds) == 0 {
		cfg.Feeds = defaultConfig().Feeds
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databasePathEnv); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(webhookURLEnv); v != "" {
		c.Notifier.WebhookURL = v
	}
	if v := os.Getenv(taggerURLEnv); v != "" {
		c.Tokenizer.Backend = "remote"
		c.Tokenizer.Endpoint = v
	}
	if v := os.Getenv(openAIAPIKeyEnv); v != "" {
		c.Summarizer.APIKey = v
	}
	if v := os.Getenv(openAIModelEnv); v != "" {
		c.Summarizer.Model = v
	}
	if v, ok := getenvInt(maxResultsEnv); ok {
		c.Pipeline.MaxResults = v
	}
	if v, ok := getenvInt(maxTotalEnv); ok {
		c.Pipeline.MaxTotalPerSource = v
	}
	if v, ok := getenvInt(backfillPagesEnv); ok {
		c.Pipeline.BackfillPages = v
	}
	if v, ok := getenvInt(workersEnv); ok {
		c.Pipeline.Workers = v
	}
	if v, ok := getenvBool(skipIfExistsEnv); ok {
		c.Pipeline.SkipIfExists = v
	}
	if v, ok := getenvBool(strictTechEnv); ok {
		c.Pipeline.StrictTechKeywords = v
	}
	if v, ok := getenvBool(skipNonTechEnv); ok {
		c.Pipeline.SkipNonTech = v
	}
	if v, ok := getenvBool(enableSummaryEnv); ok {
		c.Summarizer.Enabled = v
	}
}

func getenvInt(key string) (int, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("config: %s=%q is not an integer, ignoring", key, raw)
		return 0, false
	}
	return v, true
}

func getenvBool(key string) (bool, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "TRUE", "yes":
		return true, true
	case "0", "false", "FALSE", "no":
		return false, true
	}
	log.Printf("config: %s=%q is not a boolean, ignoring", key, raw)
	return false, false
}

// fileToggles re-reads the boolean settings as pointers so that an
// explicit `false` in the file is distinguishable from an absent key.
// Several of these default to true, so plain zero-value merging would
// make them impossible to disable via YAML.
type fileToggles struct {
	Pipeline struct {
		SkipIfExists       *bool `yaml:"skipIfExists"`
		StrictTechKeywords *bool `yaml:"strictTechKeywords"`
		SkipNonTech        *bool `yaml:"skipNonTech"`
		FetchBody          *bool `yaml:"fetchBody"`
	} `yaml:"pipeline"`
	Summarizer struct {
		Enabled *bool `yaml:"enabled"`
	} `yaml:"summarizer"`
}

func mergeConfig(base, override Config, toggles fileToggles) Config {
	if override.Database.Path != "" {
		base.Database = override.Database
	}

	if override.Pipeline.MaxResults > 0 {
		base.Pipeline.MaxResults = override.Pipeline.MaxResults
	}
	if override.Pipeline.MaxTotalPerSource > 0 {
		base.Pipeline.MaxTotalPerSource = override.Pipeline.MaxTotalPerSource
	}
	if override.Pipeline.BackfillPages > 0 {
		base.Pipeline.BackfillPages = override.Pipeline.BackfillPages
	}
	if override.Pipeline.Workers > 0 {
		base.Pipeline.Workers = override.Pipeline.Workers
	}
	if override.Pipeline.FeedWorkers > 0 {
		base.Pipeline.FeedWorkers = override.Pipeline.FeedWorkers
	}
	if override.Pipeline.MatchMode != "" {
		base.Pipeline.MatchMode = override.Pipeline.MatchMode
	}
	if v := toggles.Pipeline.SkipIfExists; v != nil {
		base.Pipeline.SkipIfExists = *v
	}
	if v := toggles.Pipeline.StrictTechKeywords; v != nil {
		base.Pipeline.StrictTechKeywords = *v
	}
	if v := toggles.Pipeline.SkipNonTech; v != nil {
		base.Pipeline.SkipNonTech = *v
	}
	if v := toggles.Pipeline.FetchBody; v != nil {
		base.Pipeline.FetchBody = *v
	}

	if override.HTTP.ConnectTimeout > 0 {
		base.HTTP.ConnectTimeout = override.HTTP.ConnectTimeout
	}
	if override.HTTP.ReadTimeout > 0 {
		base.HTTP.ReadTimeout = override.HTTP.ReadTimeout
	}
	if override.HTTP.HostInterval > 0 {
		base.HTTP.HostInterval = override.HTTP.HostInterval
	}
	if override.HTTP.MaxRetries > 0 {
		base.HTTP.MaxRetries = override.HTTP.MaxRetries
	}

	if override.Tokenizer.Backend != "" {
		base.Tokenizer.Backend = override.Tokenizer.Backend
	}
	if override.Tokenizer.Endpoint != "" {
		base.Tokenizer.Endpoint = override.Tokenizer.Endpoint
	}
	if override.Tokenizer.APIKey != "" {
		base.Tokenizer.APIKey = override.Tokenizer.APIKey
	}
	if override.Tokenizer.Timeout > 0 {
		base.Tokenizer.Timeout = override.Tokenizer.Timeout
	}

	if v := toggles.Summarizer.Enabled; v != nil {
		base.Summarizer.Enabled = *v
	}
	if override.Summarizer.Endpoint != "" {
		base.Summarizer.Endpoint = override.Summarizer.Endpoint
	}
	if override.Summarizer.Model != "" {
		base.Summarizer.Model = override.Summarizer.Model
	}
	if override.Summarizer.APIKey != "" {
		base.Summarizer.APIKey = override.Summarizer.APIKey
	}
	if override.Summarizer.Timeout > 0 {
		base.Summarizer.Timeout = override.Summarizer.Timeout
	}

	if override.Notifier.WebhookURL != "" {
		base.Notifier.WebhookURL = override.Notifier.WebhookURL
	}
	if override.Scheduler.Interval > 0 {
		base.Scheduler.Interval = override.Scheduler.Interval
	}
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if len(override.Feeds) > 0 {
		base.Feeds = override.Feeds
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Database: DatabaseConfig{Path: "news.db"},
		Pipeline: PipelineConfig{
			MaxResults:         10,
			MaxTotalPerSource:  200,
			BackfillPages:      3,
			Workers:            8,
			FeedWorkers:        4,
			SkipIfExists:       true,
			StrictTechKeywords: true,
			SkipNonTech:        false,
			FetchBody:          true,
			MatchMode:          "substring",
		},
		HTTP: HTTPConfig{
			ConnectTimeout: 6 * time.Second,
			ReadTimeout:    10 * time.Second,
			HostInterval:   500 * time.Millisecond,
			MaxRetries:     2,
		},
		Tokenizer: TokenizerConfig{
			Backend: "rule",
			Timeout: 5 * time.Second,
		},
		Summarizer: SummarizerConfig{
			Enabled:  false,
			Endpoint: "https://api.openai.com/v1/chat/completions",
			Model:    "gpt-4o-mini",
			Timeout:  20 * time.Second,
		},
		Scheduler: SchedulerConfig{Interval: time.Hour},
		Logging:   LoggingConfig{Level: "info"},
		Feeds: []FeedConfig{
			{Source: "IT동아", URL: "https://it.donga.com/feeds/rss/", Scanner: "rss"},
			{Source: "전자신문_속보", URL: "https://rss.etnews.com/Section902.xml", Scanner: "rss"},
			{Source: "전자신문_오늘의뉴스", URL: "https://rss.etnews.com/Section901.xml", Scanner: "rss"},
			{Source: "ZDNet Korea", URL: "https://zdnet.co.kr/news/news_xml.asp", Scanner: "rss"},
			{Source: "ITWorld Korea", URL: "https://www.itworld.co.kr/rss/all.xml", Scanner: "rss"},
			{Source: "CIO Korea", URL: "https://www.ciokorea.com/rss/all.xml", Scanner: "rss"},
			{Source: "Bloter", URL: "https://www.bloter.net/feed", Scanner: "rss"},
			{Source: "Byline Network", URL: "https://byline.network/feed/", Scanner: "rss"},
			{Source: "Platum", URL: "https://platum.kr/feed", Scanner: "rss"},
			{Source: "보안뉴스", URL: "https://www.boannews.com/media/news_rss.xml", Scanner: "rss"},
			{Source: "IT조선", URL: "https://it.chosun.com/rss.xml", Scanner: "rss"},
			{Source: "디지털데일리", URL: "https://www.ddaily.co.kr/news_rss.php", Scanner: "rss"},
			{Source: "TechCrunch", URL: "https://techcrunch.com/feed/", Scanner: "rss"},
			{Source: "EE Times", URL: "https://www.eetimes.com/feed/", Scanner: "rss"},
			{Source: "IEEE Spectrum", URL: "https://spectrum.ieee.org/rss/fulltext", Scanner: "rss"},
			{Source: "MIT Tech Review", URL: "https://www.technologyreview.com/feed/", Scanner: "rss"},
			{Source: "The Verge", URL: "https://www.theverge.com/rss/index.xml", Scanner: "rss"},
			{Source: "VentureBeat AI", URL: "https://venturebeat.com/category/ai/feed/", Scanner: "rss"},
		},
	}
}
