package surveygen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Model == "" {
		t.Error("expected default model to be set")
	}
	if cfg.BaseURL == "" {
		t.Error("expected default base_url to be set")
	}
	if cfg.APIType != APITypeGenerate {
		t.Errorf("expected default api_type %q, got %q", APITypeGenerate, cfg.APIType)
	}
	if cfg.OnError != OnErrorAbort {
		t.Errorf("expected default on_error %q, got %q", OnErrorAbort, cfg.OnError)
	}
	if len(cfg.ResponseOptions) != 5 {
		t.Errorf("expected default 5-point Likert scale, got %d options", len(cfg.ResponseOptions))
	}
	if cfg.ResponseOptions[0] != "Strongly Disagree" || cfg.ResponseOptions[4] != "Strongly Agree" {
		t.Errorf("unexpected default response options: %v", cfg.ResponseOptions)
	}
	if cfg.EffectiveTemperature() != 1.0 {
		t.Errorf("expected default temperature 1.0, got %v", cfg.EffectiveTemperature())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadConfigMissingPathUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	def := DefaultConfig()
	if cfg.Model != def.Model || cfg.BaseURL != def.BaseURL {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadConfigMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.toml")
	content := `
model = "phi3:mini"
num_responses = 25
temperature = 0.0
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Model != "phi3:mini" {
		t.Errorf("expected file value for model, got %q", cfg.Model)
	}
	if cfg.NumResponses != 25 {
		t.Errorf("expected file value for num_responses, got %d", cfg.NumResponses)
	}
	// Explicit zero temperature must survive the defaults merge.
	if cfg.EffectiveTemperature() != 0.0 {
		t.Errorf("expected temperature 0.0, got %v", cfg.EffectiveTemperature())
	}
	if cfg.BaseURL == "" || cfg.APIType == "" || len(cfg.ResponseOptions) == 0 {
		t.Errorf("expected missing fields filled from defaults, got %+v", cfg)
	}
}

func TestLoadConfigBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.toml")
	if err := os.WriteFile(path, []byte("model = [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidateRejectsEmptyResponseOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ResponseOptions = nil
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error for empty response options")
	}
	if !strings.Contains(err.Error(), "response_options") {
		t.Errorf("expected response_options in error, got %v", err)
	}
}

func TestValidateRejectsDuplicateOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ResponseOptions = []string{"Yes", "No", "yes"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for duplicate options")
	}
}

func TestValidateRejectsBadNumResponses(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumResponses = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for zero num_responses")
	}
}

func TestValidateRejectsUnknownAPIType(t *testing.T) {
	cfg := DefaultConfig()
	cfg.APIType = "grpc"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for unknown api_type")
	}
}

func TestValidateRejectsUnknownOnError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OnError = "retry"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for unknown on_error policy")
	}
}

func TestValidateRejectsNegativeTemperature(t *testing.T) {
	cfg := DefaultConfig()
	temp := -0.5
	cfg.Temperature = &temp
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for negative temperature")
	}
}

func TestResolveBaseURLEnvOverride(t *testing.T) {
	cfg := DefaultConfig()
	t.Setenv("SURVEYGEN_BASE_URL", "http://example.test/api/generate")
	if got := ResolveBaseURL(cfg); got != "http://example.test/api/generate" {
		t.Errorf("expected env override, got %q", got)
	}
}

func TestResolveModelFallsBackToConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model = "llama3.1:latest"
	if got := ResolveModel(cfg); got != "llama3.1:latest" {
		t.Errorf("expected config value, got %q", got)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("SURVEYGEN_MODEL", "env-model")
	t.Setenv("SURVEYGEN_EMBEDDING_BASE_URL", "http://env.test/v1")
	t.Setenv("SURVEYGEN_EMBEDDING_MODEL", "env-embed")

	cfg := DefaultConfig()
	fileBaseURL := cfg.BaseURL
	ApplyEnvOverrides(cfg)

	if cfg.Model != "env-model" {
		t.Errorf("expected env model folded in, got %q", cfg.Model)
	}
	if cfg.BaseURL != fileBaseURL {
		t.Errorf("expected base_url untouched without env, got %q", cfg.BaseURL)
	}
	if cfg.Embedding.BaseURL != "http://env.test/v1" || cfg.Embedding.Model != "env-embed" {
		t.Errorf("expected embedding env overrides, got %+v", cfg.Embedding)
	}
	if !SemanticEnabled(cfg) {
		t.Error("expected semantic matching enabled after env overrides")
	}
}

func TestSemanticEnabled(t *testing.T) {
	cfg := DefaultConfig()
	if SemanticEnabled(cfg) {
		t.Error("expected semantic matching disabled by default")
	}
	cfg.Embedding.BaseURL = "http://localhost:11434/v1"
	cfg.Embedding.Model = "nomic-embed-text"
	if !SemanticEnabled(cfg) {
		t.Error("expected semantic matching enabled with base_url and model")
	}
}
