package model

import "time"

// Config holds all runtime settings for gamelore
type Config struct {
	Annotator AnnotatorConfig `yaml:"annotator" mapstructure:"annotator"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Session   SessionConfig   `yaml:"session" mapstructure:"session"`
	Ingest    IngestConfig    `yaml:"ingest" mapstructure:"ingest"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// AnnotatorConfig describes how to reach the CoreNLP-compatible annotation server
type AnnotatorConfig struct {
	URL               string        `yaml:"url" mapstructure:"url"`
	Annotators        string        `yaml:"annotators" mapstructure:"annotators"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent         string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	MaxRetries        int           `yaml:"max_retries" mapstructure:"max_retries"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int           `yaml:"burst_size" mapstructure:"burst_size"`
	HTTPProxy         string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy        string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy           string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// CacheConfig controls the annotation response cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// StoreConfig locates the SQLite fact store
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// SessionConfig holds interactive session defaults
type SessionConfig struct {
	DefaultUser string `yaml:"default_user" mapstructure:"default_user"`
}

// IngestConfig tunes batch ingestion of catalog text
type IngestConfig struct {
	// LongSentence is the length above which a sentence containing newlines
	// is split into lines before annotation.
	LongSentence int `yaml:"long_sentence" mapstructure:"long_sentence"`
}

// LogConfig controls the zap logger
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json or console
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Annotator: AnnotatorConfig{
			URL:               "http://localhost:9000",
			Annotators:        "tokenize,ssplit,pos,lemma,ner,parse",
			Timeout:           30 * time.Second,
			UserAgent:         "gamelore/0.1",
			MaxBodyBytes:      4 << 20,
			MaxRetries:        2,
			RequestsPerSecond: 5,
			BurstSize:         5,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "~/.gamelore/cache",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Store: StoreConfig{
			Path: "games.sqlite",
		},
		Session: SessionConfig{
			DefaultUser: "user",
		},
		Ingest: IngestConfig{
			LongSentence: 100,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}
