package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
	Gemini      GeminiConfig    `toml:"gemini"`
	Claude      ClaudeConfig    `toml:"claude"`
	LLM         LLMConfig       `toml:"llm"`
	Chat        ChatConfig      `toml:"chat"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
	Legacy      LegacyConfig    `toml:"legacy"`
	Workers     WorkersConfig   `toml:"workers"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"min=1,max=65535"`
	Host string `toml:"host" validate:"required"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path" validate:"required"` // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"`         // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Format     string   `toml:"format"`      // "json" or "text"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05")
}

// GeminiConfig contains Google Gemini API configuration for chat and embeddings
type GeminiConfig struct {
	APIKey         string  `toml:"api_key"`         // Google Gemini API key
	Model          string  `toml:"model"`           // Primary chat model (default: "gemini-3-flash-preview")
	FallbackModel  string  `toml:"fallback_model"`  // Fallback chat model used on rate limit exhaustion
	EmbeddingModel string  `toml:"embedding_model"` // Embedding model (default: "gemini-embedding-001")
	Timeout        string  `toml:"timeout"`         // Operation timeout as duration string (default: "5m")
	RateLimit      string  `toml:"rate_limit"`      // Rate limit duration string (default: "4s" for 15 RPM)
	Temperature    float32 `toml:"temperature"`     // Chat completion temperature (default: 0.7)
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // Anthropic API key
	Model       string  `toml:"model"`       // Chat model (default: "claude-haiku-3-5-20241022")
	MaxTokens   int     `toml:"max_tokens"`  // Maximum tokens in response (default: 8192)
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "5m")
	RateLimit   string  `toml:"rate_limit"`  // Rate limit duration string (default: "1s")
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0.7)
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig contains unified configuration for all AI providers
type LLMConfig struct {
	DefaultProvider    LLMProvider `toml:"default_provider"`    // Default provider: "gemini" or "claude" (default: "gemini")
	EmbeddingDimension int         `toml:"embedding_dimension"` // Output dimensionality for embeddings (default: 768)
}

// ChatConfig contains retrieval-augmented chat behavior configuration
type ChatConfig struct {
	MaxContextEntries int  `toml:"max_context_entries"` // Max retrieved chunks injected into a prompt (default: 5)
	RAGEnabled        bool `toml:"rag_enabled"`         // Enable retrieval-augmented context (default: true)
	HistoryLimit      int  `toml:"history_limit"`       // Max prior turns sent to the model (default: 20)
}

// SchedulerConfig contains background job scheduling configuration
type SchedulerConfig struct {
	Enabled          bool   `toml:"enabled"`           // Enable the background scheduler (default: true)
	ReminderSchedule string `toml:"reminder_schedule"` // Cron schedule for the task reminder sweep (default: every minute)
	EmbedSchedule    string `toml:"embed_schedule"`    // Cron schedule for the embedding backfill job
	EmbedBatchLimit  int    `toml:"embed_batch_limit"` // Max entries to embed per backfill run
}

// LegacyConfig contains configuration for importing the prior journal data set
type LegacyConfig struct {
	DataDir      string `toml:"data_dir"`      // Directory holding legacy JSONL exports and requirements.txt
	ManifestFile string `toml:"manifest_file"` // Legacy dependency manifest filename (default: "requirements.txt")
}

// WorkersConfig contains configuration for worker pool behavior
type WorkersConfig struct {
	Concurrency int `toml:"concurrency"` // Number of concurrent embedding workers (default: 4)
}

// NewDefaultConfig creates a configuration with default values
// Technical parameters are hardcoded here for production stability.
// Only user-facing settings should be exposed in mymind.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: []string{"stdout", "file"},
		},
		Gemini: GeminiConfig{
			APIKey:         "", // User must provide API key (no fallback)
			Model:          "gemini-3-flash-preview",
			FallbackModel:  "gemini-2.5-flash",
			EmbeddingModel: "gemini-embedding-001",
			Timeout:        "5m",
			RateLimit:      "4s", // Default to 4s (15 RPM) for free tier
			Temperature:    0.7,
		},
		Claude: ClaudeConfig{
			APIKey:      "", // User must provide API key (ANTHROPIC_API_KEY or config)
			Model:       "claude-haiku-3-5-20241022",
			MaxTokens:   8192,
			Timeout:     "5m",
			RateLimit:   "1s",
			Temperature: 0.7,
		},
		LLM: LLMConfig{
			DefaultProvider:    LLMProviderGemini,
			EmbeddingDimension: 768,
		},
		Chat: ChatConfig{
			MaxContextEntries: 5,
			RAGEnabled:        true,
			HistoryLimit:      20,
		},
		Scheduler: SchedulerConfig{
			Enabled:          true,
			ReminderSchedule: "* * * * *", // Every minute
			EmbedSchedule:    "*/10 * * * *",
			EmbedBatchLimit:  100,
		},
		Legacy: LegacyConfig{
			DataDir:      "./legacy",
			ManifestFile: "requirements.txt",
		},
		Workers: WorkersConfig{
			Concurrency: 4,
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env -> CLI
// Priority system: CLI flags > Environment variables > Config file > Defaults
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files.
// Later files override earlier files; environment variables override all files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		// Unmarshal into config (merges with existing values, later values override)
		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.LLM.DefaultProvider != LLMProviderGemini && c.LLM.DefaultProvider != LLMProviderClaude {
		return fmt.Errorf("invalid configuration: unknown llm provider %q", c.LLM.DefaultProvider)
	}

	if c.Scheduler.Enabled {
		if err := ValidateCronSchedule(c.Scheduler.ReminderSchedule); err != nil {
			return fmt.Errorf("invalid reminder schedule: %w", err)
		}
		if err := ValidateCronSchedule(c.Scheduler.EmbedSchedule); err != nil {
			return fmt.Errorf("invalid embed schedule: %w", err)
		}
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	// Environment configuration (highest priority: MYMIND_ENV, fallback: GO_ENV)
	if env := os.Getenv("MYMIND_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("MYMIND_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("MYMIND_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage configuration
	if badgerPath := os.Getenv("MYMIND_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Logging configuration
	if level := os.Getenv("MYMIND_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("MYMIND_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
	if output := os.Getenv("MYMIND_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			trimmed := strings.TrimSpace(o)
			if trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Gemini configuration
	if apiKey := os.Getenv("MYMIND_GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	} else if apiKey := os.Getenv("GOOGLE_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("MYMIND_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}
	if model := os.Getenv("MYMIND_GEMINI_FALLBACK_MODEL"); model != "" {
		config.Gemini.FallbackModel = model
	}
	if model := os.Getenv("MYMIND_GEMINI_EMBEDDING_MODEL"); model != "" {
		config.Gemini.EmbeddingModel = model
	}
	if timeout := os.Getenv("MYMIND_GEMINI_TIMEOUT"); timeout != "" {
		config.Gemini.Timeout = timeout
	}
	if rateLimit := os.Getenv("MYMIND_GEMINI_RATE_LIMIT"); rateLimit != "" {
		config.Gemini.RateLimit = rateLimit
	}
	if temperature := os.Getenv("MYMIND_GEMINI_TEMPERATURE"); temperature != "" {
		if t, err := strconv.ParseFloat(temperature, 32); err == nil {
			config.Gemini.Temperature = float32(t)
		}
	}

	// Claude configuration
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if apiKey := os.Getenv("MYMIND_CLAUDE_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey // MYMIND_ prefix takes priority
	}
	if model := os.Getenv("MYMIND_CLAUDE_MODEL"); model != "" {
		config.Claude.Model = model
	}
	if maxTokens := os.Getenv("MYMIND_CLAUDE_MAX_TOKENS"); maxTokens != "" {
		if mt, err := strconv.Atoi(maxTokens); err == nil {
			config.Claude.MaxTokens = mt
		}
	}
	if timeout := os.Getenv("MYMIND_CLAUDE_TIMEOUT"); timeout != "" {
		config.Claude.Timeout = timeout
	}
	if rateLimit := os.Getenv("MYMIND_CLAUDE_RATE_LIMIT"); rateLimit != "" {
		config.Claude.RateLimit = rateLimit
	}
	if temperature := os.Getenv("MYMIND_CLAUDE_TEMPERATURE"); temperature != "" {
		if t, err := strconv.ParseFloat(temperature, 32); err == nil {
			config.Claude.Temperature = float32(t)
		}
	}

	// LLM provider configuration
	if provider := os.Getenv("MYMIND_LLM_DEFAULT_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(provider)
	}
	if dim := os.Getenv("MYMIND_LLM_EMBEDDING_DIMENSION"); dim != "" {
		if d, err := strconv.Atoi(dim); err == nil && d > 0 {
			config.LLM.EmbeddingDimension = d
		}
	}

	// Chat configuration
	if maxEntries := os.Getenv("MYMIND_CHAT_MAX_CONTEXT_ENTRIES"); maxEntries != "" {
		if me, err := strconv.Atoi(maxEntries); err == nil && me > 0 {
			config.Chat.MaxContextEntries = me
		}
	}
	if ragEnabled := os.Getenv("MYMIND_CHAT_RAG_ENABLED"); ragEnabled != "" {
		if re, err := strconv.ParseBool(ragEnabled); err == nil {
			config.Chat.RAGEnabled = re
		}
	}
	if historyLimit := os.Getenv("MYMIND_CHAT_HISTORY_LIMIT"); historyLimit != "" {
		if hl, err := strconv.Atoi(historyLimit); err == nil && hl > 0 {
			config.Chat.HistoryLimit = hl
		}
	}

	// Scheduler configuration
	if enabled := os.Getenv("MYMIND_SCHEDULER_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.Scheduler.Enabled = e
		}
	}
	if schedule := os.Getenv("MYMIND_SCHEDULER_REMINDER_SCHEDULE"); schedule != "" {
		config.Scheduler.ReminderSchedule = schedule
	}
	if schedule := os.Getenv("MYMIND_SCHEDULER_EMBED_SCHEDULE"); schedule != "" {
		config.Scheduler.EmbedSchedule = schedule
	}
	if limit := os.Getenv("MYMIND_SCHEDULER_EMBED_BATCH_LIMIT"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil && l > 0 {
			config.Scheduler.EmbedBatchLimit = l
		}
	}

	// Legacy data configuration
	if dataDir := os.Getenv("MYMIND_LEGACY_DATA_DIR"); dataDir != "" {
		config.Legacy.DataDir = dataDir
	}

	// Workers configuration
	if concurrency := os.Getenv("MYMIND_WORKERS_CONCURRENCY"); concurrency != "" {
		if c, err := strconv.Atoi(concurrency); err == nil && c > 0 {
			config.Workers.Concurrency = c
		}
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	// Command-line flags have highest priority
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// GeminiTimeout returns the parsed Gemini operation timeout
func (c *Config) GeminiTimeout() time.Duration {
	if d, err := time.ParseDuration(c.Gemini.Timeout); err == nil {
		return d
	}
	return 5 * time.Minute
}

// GeminiRateLimit returns the parsed minimum interval between Gemini requests
func (c *Config) GeminiRateLimit() time.Duration {
	if d, err := time.ParseDuration(c.Gemini.RateLimit); err == nil {
		return d
	}
	return 4 * time.Second
}

// ClaudeRateLimit returns the parsed minimum interval between Claude requests
func (c *Config) ClaudeRateLimit() time.Duration {
	if d, err := time.ParseDuration(c.Claude.RateLimit); err == nil {
		return d
	}
	return time.Second
}

// ValidateCronSchedule validates a standard 5-field cron expression
func ValidateCronSchedule(schedule string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	return nil
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
