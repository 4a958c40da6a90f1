// Command surveygen generates synthetic survey responses: it samples persona
// profiles, asks each one every question through an LLM inference endpoint,
// and records the normalized answers to a CSV file with a JSON sidecar
// describing the run.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"

	surveygen "github.com/jkettner/surveygen"
	"github.com/jkettner/surveygen/session"
)

// Version is set at build time via -ldflags.
var Version = "dev"

type options struct {
	Config string `short:"c" long:"config" description:"run configuration TOML file"`
	Output string `short:"o" long:"output" default:"results.csv" description:"output CSV path"`

	Questions string `long:"questions" description:"questions file, one per line (default: bundled examples)"`
	Persona   string `long:"persona" description:"persona definition JSON file (default: bundled example)"`
	Prompt    string `long:"prompt" description:"custom prompt template file"`

	Model        string   `short:"m" long:"model" description:"model identifier"`
	BaseURL      string   `long:"base-url" description:"inference endpoint URL"`
	NumResponses int      `short:"n" long:"num-responses" description:"number of synthetic respondents"`
	Temperature  *float64 `short:"t" long:"temperature" description:"sampling temperature"`
	Seed         int64    `long:"seed" description:"random seed for persona sampling (0 seeds from the clock)"`
	OnError      string   `long:"on-error" choice:"abort" choice:"sentinel" description:"mid-run inference failure policy"`

	PreviewPersonas int  `long:"preview-personas" description:"print K sampled personas and exit (no inference)"`
	PreviewPrompt   bool `long:"preview-prompt" description:"print an example prompt and exit (no inference)"`

	Verbose bool `short:"v" long:"verbose" description:"enable debug logging"`
	Version bool `long:"version" description:"print version and exit"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if opts.Version {
		fmt.Println("surveygen", Version)
		os.Exit(0)
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// Environment overrides may live in a .env file.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg, err := surveygen.LoadConfig(opts.Config)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	// Layering: defaults < config file < environment < flags.
	surveygen.ApplyEnvOverrides(cfg)
	applyFlags(cfg, &opts)

	runner, err := session.New(cfg)
	if err != nil {
		slog.Error("invalid run configuration", "error", err)
		os.Exit(1)
	}
	defer runner.Close()

	if opts.PreviewPersonas > 0 {
		for _, desc := range runner.PreviewPersonas(opts.PreviewPersonas) {
			fmt.Println(desc)
		}
		return
	}

	if opts.PreviewPrompt {
		p, err := runner.ExamplePrompt("")
		if err != nil {
			slog.Error("failed to render example prompt", "error", err)
			os.Exit(1)
		}
		fmt.Println(p)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting run",
		"respondents", cfg.NumResponses,
		"questions", len(runner.Questions()),
		"model", cfg.Model,
	)

	records, outPath, err := runner.RunWrite(ctx, opts.Output)
	if err != nil {
		// Completed rows stay on disk; the sidecar records the attempt.
		slog.Error("run failed", "error", err, "rows_written", len(records), "output", outPath)
		os.Exit(1)
	}

	slog.Info("run complete", "rows", len(records), "output", outPath)
}

// applyFlags overlays command-line values onto the loaded configuration.
func applyFlags(cfg *surveygen.Config, opts *options) {
	if opts.Questions != "" {
		cfg.QuestionsPath = opts.Questions
	}
	if opts.Persona != "" {
		cfg.PersonaPath = opts.Persona
	}
	if opts.Prompt != "" {
		cfg.PromptPath = opts.Prompt
	}
	if opts.Model != "" {
		cfg.Model = opts.Model
	}
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if opts.NumResponses > 0 {
		cfg.NumResponses = opts.NumResponses
	}
	if opts.Temperature != nil {
		cfg.Temperature = opts.Temperature
	}
	if opts.Seed != 0 {
		cfg.Seed = opts.Seed
	}
	if opts.OnError != "" {
		cfg.OnError = opts.OnError
	}
}
