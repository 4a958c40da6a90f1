package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"

	surveygen "github.com/jkettner/surveygen"
	"github.com/jkettner/surveygen/persona"
)

// Params is the sidecar record written next to each output table: the
// effective value of every configurable parameter (API keys excluded), for
// reproducibility.
type Params struct {
	RunID           string                 `json:"run_id"`
	QuestionsPath   string                 `json:"questions_path"`
	PersonaPath     string                 `json:"persona_path"`
	PromptPath      string                 `json:"prompt_path"`
	ModelName       string                 `json:"model_name"`
	BaseURL         string                 `json:"base_url"`
	APIType         string                 `json:"api_type"`
	NumResponses    int                    `json:"num_responses"`
	Temperature     float64                `json:"temperature"`
	TimeoutSeconds  int                    `json:"timeout_seconds"`
	Seed            int64                  `json:"seed,omitempty"`
	OnError         string                 `json:"on_error"`
	ResponseOptions []string               `json:"response_options"`
	CacheTTLMinutes int                    `json:"cache_ttl_minutes"`
	Embedding       EmbeddingParams        `json:"embedding"`
	RunDate         string                 `json:"run_date"`
	NumQuestions    int                    `json:"num_questions"`
	Questions       []string               `json:"questions"`
	Persona         map[string][][2]string `json:"persona_dictionary"`
	HostOS          string                 `json:"host_os"`
	GoVersion       string                 `json:"go_version"`
}

// EmbeddingParams records the semantic-matcher settings. Empty when the
// lexical matcher ran alone.
type EmbeddingParams struct {
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`
}

// NewParams captures the effective (not merely user-supplied) configuration,
// including the computed question count and an RFC 3339 invocation timestamp.
func NewParams(cfg *surveygen.Config, questions []string, def *persona.Definition) Params {
	personaDict := make(map[string][][2]string, len(def.Traits))
	for _, t := range def.Traits {
		pairs := make([][2]string, len(t.Options))
		for i, o := range t.Options {
			pairs[i] = [2]string{o.Value, o.Phrase}
		}
		personaDict[t.Name] = pairs
	}

	return Params{
		RunID:           uuid.NewString(),
		QuestionsPath:   cfg.QuestionsPath,
		PersonaPath:     cfg.PersonaPath,
		PromptPath:      cfg.PromptPath,
		ModelName:       cfg.Model,
		BaseURL:         cfg.BaseURL,
		APIType:         cfg.APIType,
		NumResponses:    cfg.NumResponses,
		Temperature:     cfg.EffectiveTemperature(),
		TimeoutSeconds:  cfg.TimeoutSeconds,
		Seed:            cfg.Seed,
		OnError:         cfg.OnError,
		ResponseOptions: cfg.ResponseOptions,
		CacheTTLMinutes: cfg.CacheTTLMinutes,
		Embedding: EmbeddingParams{
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
		},
		RunDate:      time.Now().Format(time.RFC3339),
		NumQuestions: len(questions),
		Questions:    questions,
		Persona:      personaDict,
		HostOS:       runtime.GOOS + "/" + runtime.GOARCH,
		GoVersion:    runtime.Version(),
	}
}

// Write serializes the params as indented JSON.
func (p Params) Write(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write run params: %w", err)
	}
	return nil
}

// LoadParams reads a previously written sidecar back.
func LoadParams(path string) (Params, error) {
	var p Params
	data, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse run params: %w", err)
	}
	return p, nil
}

// ParamsPath derives the sidecar filename from the output path
// (results.csv -> results_params.json).
func ParamsPath(outputPath string) string {
	ext := filepath.Ext(outputPath)
	return strings.TrimSuffix(outputPath, ext) + "_params.json"
}
