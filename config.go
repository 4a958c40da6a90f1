package surveygen

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	defaults "github.com/jkettner/surveygen/default"
)

// Config holds the effective parameters for one generation run.
// Values are layered: built-in defaults < TOML config file < environment
// variables < command-line flags.
type Config struct {
	// QuestionsPath is the questions file (one per line). Empty means the
	// bundled example questions.
	QuestionsPath string `toml:"questions_path"`
	// PersonaPath is the persona definition JSON file. Empty means the
	// bundled example persona.
	PersonaPath string `toml:"persona_path"`
	// PromptPath is an optional custom prompt template. Empty uses the
	// built-in template.
	PromptPath string `toml:"prompt_path"`

	Model   string `toml:"model"`
	BaseURL string `toml:"base_url"`
	// APIType selects the request shape: "generate" (Ollama-style, BaseURL is
	// the full endpoint) or "chat_completions" (OpenAI-compatible).
	APIType string `toml:"api_type"`
	APIKey  string `toml:"api_key"`

	NumResponses int      `toml:"num_responses"`
	Temperature  *float64 `toml:"temperature"`
	// TimeoutSeconds bounds each inference request. 0 uses the default.
	TimeoutSeconds int `toml:"timeout_seconds"`
	// Seed makes persona sampling reproducible. 0 seeds from the clock.
	Seed int64 `toml:"seed"`
	// OnError is the mid-run inference failure policy: "abort" stops the run,
	// "sentinel" records the unparsed sentinel for the failed question and
	// continues. Abort is the default; sentinel substitution is lossy and must
	// be chosen explicitly.
	OnError string `toml:"on_error"`

	// ResponseOptions is the closed set of allowed answers, in scale order.
	ResponseOptions []string `toml:"response_options"`

	// CacheTTLMinutes enables an in-memory prompt-response cache when > 0.
	// Only useful against deterministic (temperature 0) endpoints.
	CacheTTLMinutes int `toml:"cache_ttl_minutes"`

	Embedding EmbeddingConfig `toml:"embedding"`
}

// EmbeddingConfig holds settings for the optional semantic answer matcher.
// When BaseURL and Model are set, replies the lexical matcher cannot place
// are resolved against option-label embeddings instead of the sentinel.
type EmbeddingConfig struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
}

// OnError policy values.
const (
	OnErrorAbort    = "abort"
	OnErrorSentinel = "sentinel"
)

// APIType values.
const (
	APITypeGenerate        = "generate"
	APITypeChatCompletions = "chat_completions"
)

// DefaultConfig returns the configuration from the embedded default_config.toml.
func DefaultConfig() *Config {
	var cfg Config
	if err := toml.Unmarshal(defaults.DefaultConfigTOML, &cfg); err != nil {
		panic("surveygen: invalid embedded default_config.toml: " + err.Error())
	}
	return &cfg
}

// LoadConfig loads config from a TOML file, filling missing fields from
// defaults. An empty path returns the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	// Apply defaults for missing fields
	def := DefaultConfig()
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.APIType == "" {
		cfg.APIType = def.APIType
	}
	if cfg.NumResponses == 0 {
		cfg.NumResponses = def.NumResponses
	}
	if cfg.Temperature == nil {
		cfg.Temperature = def.Temperature
	}
	if cfg.TimeoutSeconds == 0 {
		cfg.TimeoutSeconds = def.TimeoutSeconds
	}
	if cfg.OnError == "" {
		cfg.OnError = def.OnError
	}
	if len(cfg.ResponseOptions) == 0 {
		cfg.ResponseOptions = def.ResponseOptions
	}

	return &cfg, nil
}

// EffectiveTemperature returns the configured temperature or the default.
func (c *Config) EffectiveTemperature() float64 {
	if c.Temperature != nil {
		return *c.Temperature
	}
	def := DefaultConfig()
	return *def.Temperature
}

// Validate checks the configuration before any network call is made.
func (c *Config) Validate() error {
	if c.NumResponses < 1 {
		return fmt.Errorf("num_responses must be at least 1, got %d", c.NumResponses)
	}
	if c.BaseURL == "" && ResolveBaseURL(c) == "" {
		return fmt.Errorf("base_url is not configured")
	}
	if c.APIType != APITypeGenerate && c.APIType != APITypeChatCompletions {
		return fmt.Errorf("api_type must be %q or %q, got %q", APITypeGenerate, APITypeChatCompletions, c.APIType)
	}
	if c.OnError != OnErrorAbort && c.OnError != OnErrorSentinel {
		return fmt.Errorf("on_error must be %q or %q, got %q", OnErrorAbort, OnErrorSentinel, c.OnError)
	}
	if t := c.EffectiveTemperature(); t < 0 {
		return fmt.Errorf("temperature must be non-negative, got %v", t)
	}
	if len(c.ResponseOptions) == 0 {
		return fmt.Errorf("response_options must not be empty")
	}
	seen := make(map[string]bool, len(c.ResponseOptions))
	for _, opt := range c.ResponseOptions {
		if strings.TrimSpace(opt) == "" {
			return fmt.Errorf("response_options must not contain blank entries")
		}
		key := strings.ToLower(opt)
		if seen[key] {
			return fmt.Errorf("duplicate response option %q", opt)
		}
		seen[key] = true
	}
	return nil
}

// ResolveBaseURL returns the inference endpoint URL.
// Priority: $SURVEYGEN_BASE_URL env > config value.
func ResolveBaseURL(cfg *Config) string {
	if url := os.Getenv("SURVEYGEN_BASE_URL"); url != "" {
		return url
	}
	if cfg != nil {
		return cfg.BaseURL
	}
	return ""
}

// ResolveAPIKey returns the inference API key.
// Priority: $SURVEYGEN_API_KEY env > config value.
func ResolveAPIKey(cfg *Config) string {
	if key := os.Getenv("SURVEYGEN_API_KEY"); key != "" {
		return key
	}
	if cfg != nil {
		return cfg.APIKey
	}
	return ""
}

// ResolveModel returns the inference model name.
// Priority: $SURVEYGEN_MODEL env > config value.
func ResolveModel(cfg *Config) string {
	if model := os.Getenv("SURVEYGEN_MODEL"); model != "" {
		return model
	}
	if cfg != nil {
		return cfg.Model
	}
	return ""
}

// ResolveEmbeddingBaseURL returns the embedding API base URL.
// Priority: $SURVEYGEN_EMBEDDING_BASE_URL env > config value.
func ResolveEmbeddingBaseURL(cfg *Config) string {
	if url := os.Getenv("SURVEYGEN_EMBEDDING_BASE_URL"); url != "" {
		return url
	}
	if cfg != nil {
		return cfg.Embedding.BaseURL
	}
	return ""
}

// ResolveEmbeddingAPIKey returns the embedding API key.
// Priority: $SURVEYGEN_EMBEDDING_API_KEY env > config value.
func ResolveEmbeddingAPIKey(cfg *Config) string {
	if key := os.Getenv("SURVEYGEN_EMBEDDING_API_KEY"); key != "" {
		return key
	}
	if cfg != nil {
		return cfg.Embedding.APIKey
	}
	return ""
}

// ResolveEmbeddingModel returns the embedding model name.
// Priority: $SURVEYGEN_EMBEDDING_MODEL env > config value.
func ResolveEmbeddingModel(cfg *Config) string {
	if model := os.Getenv("SURVEYGEN_EMBEDDING_MODEL"); model != "" {
		return model
	}
	if cfg != nil {
		return cfg.Embedding.Model
	}
	return ""
}

// ApplyEnvOverrides folds environment overrides into the configuration.
// Called once after loading the config file and before any command-line
// overlay, so the layering stays defaults < file < env < flags.
func ApplyEnvOverrides(cfg *Config) {
	cfg.BaseURL = ResolveBaseURL(cfg)
	cfg.APIKey = ResolveAPIKey(cfg)
	cfg.Model = ResolveModel(cfg)
	cfg.Embedding.BaseURL = ResolveEmbeddingBaseURL(cfg)
	cfg.Embedding.APIKey = ResolveEmbeddingAPIKey(cfg)
	cfg.Embedding.Model = ResolveEmbeddingModel(cfg)
}

// SemanticEnabled returns true when the embedding endpoint and model are
// configured, enabling semantic answer matching.
func SemanticEnabled(cfg *Config) bool {
	if cfg == nil {
		return false
	}
	return cfg.Embedding.BaseURL != "" && cfg.Embedding.Model != ""
}
