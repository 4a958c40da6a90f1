// Package session drives a full generation run: sampling personas, asking
// every question through the inference endpoint, normalizing replies, and
// persisting rows as they complete.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	surveygen "github.com/jkettner/surveygen"
	"github.com/jkettner/surveygen/infer"
	"github.com/jkettner/surveygen/normalize"
	"github.com/jkettner/surveygen/persona"
	"github.com/jkettner/surveygen/prompt"
)

// Runner executes one run: for each respondent, sample a persona and answer
// all questions in declared order, strictly sequentially.
type Runner struct {
	cfg       *surveygen.Config
	def       *persona.Definition
	questions []string
	sampler   *persona.Sampler
	builder   *prompt.Builder
	gen       infer.Generator
	matcher   normalize.Matcher
	cache     *infer.Cache // nil when caching is disabled
}

// New validates the configuration, loads questions and persona, and wires
// the inference client, optional cache, and answer matcher. Configuration
// errors surface here, before any inference call.
func New(cfg *surveygen.Config) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	questions, err := surveygen.LoadQuestions(cfg.QuestionsPath)
	if err != nil {
		return nil, err
	}

	def, err := persona.Load(cfg.PersonaPath)
	if err != nil {
		return nil, err
	}

	builder, err := prompt.NewBuilderFromFile(cfg.PromptPath)
	if err != nil {
		return nil, err
	}

	client := infer.NewClient(
		cfg.BaseURL,
		cfg.APIKey,
		cfg.Model,
		cfg.APIType,
		cfg.EffectiveTemperature(),
		time.Duration(cfg.TimeoutSeconds)*time.Second,
	)

	r := &Runner{
		cfg:       cfg,
		def:       def,
		questions: questions,
		sampler:   persona.NewSampler(def, cfg.Seed),
		builder:   builder,
		gen:       client,
		matcher:   normalize.Lexical{},
	}

	if cfg.CacheTTLMinutes > 0 {
		r.cache = infer.NewCache(client, time.Duration(cfg.CacheTTLMinutes)*time.Minute)
		r.gen = r.cache
	}

	return r, nil
}

// initMatcher swaps in the semantic matcher when embedding is configured.
// Building it embeds the option labels over the network, so construction is
// deferred until a run actually starts; the preview paths never trigger it.
// Idempotent across Run/RunWrite calls.
func (r *Runner) initMatcher() error {
	if !surveygen.SemanticEnabled(r.cfg) {
		return nil
	}
	if _, ok := r.matcher.(*normalize.Semantic); ok {
		return nil
	}

	embedder := normalize.NewEmbedder(
		r.cfg.Embedding.BaseURL,
		r.cfg.Embedding.APIKey,
		r.cfg.Embedding.Model,
	)
	sem, err := normalize.NewSemantic(embedder, r.cfg.ResponseOptions)
	if err != nil {
		return err
	}
	r.matcher = sem
	return nil
}

// Close releases resources held by the runner.
func (r *Runner) Close() {
	if r.cache != nil {
		r.cache.Close()
	}
}

// Questions returns the loaded questions in declared order.
func (r *Runner) Questions() []string { return r.questions }

// PreviewPersonas returns k sampled persona descriptions without touching
// the inference endpoint.
func (r *Runner) PreviewPersonas(k int) []string {
	return r.sampler.Preview(k)
}

// ExamplePrompt renders the prompt that would be sent for a freshly sampled
// persona. An empty question uses the first loaded question.
func (r *Runner) ExamplePrompt(question string) (string, error) {
	if question == "" {
		question = r.questions[0]
	}
	inst := r.sampler.Sample()
	return r.builder.Build(inst.Phrases, question, r.cfg.ResponseOptions)
}

// Run generates all records in memory and returns the complete table.
func (r *Runner) Run(ctx context.Context) ([]surveygen.Record, error) {
	return r.run(ctx, nil)
}

// RunWrite streams each completed row to a CSV file and writes the params
// sidecar next to it. Returns the records and the actual output path (which
// may carry a collision suffix).
func (r *Runner) RunWrite(ctx context.Context, outputPath string) ([]surveygen.Record, string, error) {
	if err := r.initMatcher(); err != nil {
		return nil, "", err
	}

	w, err := NewWriter(outputPath, surveygen.Columns(r.def.TraitNames(), len(r.questions)))
	if err != nil {
		return nil, "", err
	}
	defer w.Close()

	params := NewParams(r.cfg, r.questions, r.def)
	if err := params.Write(ParamsPath(w.Path())); err != nil {
		return nil, w.Path(), err
	}

	records, err := r.run(ctx, w)
	return records, w.Path(), err
}

// run is the core loop. When w is non-nil, every completed row is appended
// and flushed before the next respondent starts.
func (r *Runner) run(ctx context.Context, w *Writer) ([]surveygen.Record, error) {
	if err := r.initMatcher(); err != nil {
		return nil, err
	}

	records := make([]surveygen.Record, 0, r.cfg.NumResponses)

	for n := 1; n <= r.cfg.NumResponses; n++ {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		inst := r.sampler.Sample()
		rec := surveygen.Record{
			ID:      n,
			Traits:  inst.Values,
			Answers: make([]string, 0, len(r.questions)),
		}

		for qi, question := range r.questions {
			p, err := r.builder.Build(inst.Phrases, question, r.cfg.ResponseOptions)
			if err != nil {
				return records, fmt.Errorf("respondent %d question %d: %w", n, qi+1, err)
			}

			raw, err := r.gen.Generate(ctx, p)
			if err != nil {
				if r.cfg.OnError == surveygen.OnErrorSentinel {
					slog.Warn("inference failed, recording sentinel",
						"respondent", n, "question", qi+1, "error", err)
					rec.Answers = append(rec.Answers, normalize.Unparsed)
					continue
				}
				return records, fmt.Errorf("respondent %d question %d: %w", n, qi+1, err)
			}

			answer := r.matcher.Match(raw, r.cfg.ResponseOptions)
			if answer == normalize.Unparsed {
				slog.Debug("reply did not match any option", "respondent", n, "question", qi+1, "raw", raw)
			}
			rec.Answers = append(rec.Answers, answer)
		}

		records = append(records, rec)
		if w != nil {
			if err := w.Append(rec.Row()); err != nil {
				return records, fmt.Errorf("write row %d: %w", n, err)
			}
		}
		slog.Info("respondent complete", "respondent", n, "total", r.cfg.NumResponses)
	}

	return records, nil
}
