package persona

import (
	"math/rand"
	"strings"
	"time"
)

// Instance is one sampled respondent profile: one value and phrase per trait,
// both in declaration order. Immutable once drawn.
type Instance struct {
	Values  []string
	Phrases []string
}

// Description joins the instance's phrases into a sentence fragment, e.g.
// "is 35 years old, works in retail, lives in the suburbs".
func (i Instance) Description() string {
	return strings.Join(i.Phrases, ", ")
}

// Sampler draws persona instances from a definition. Each trait is sampled
// independently and uniformly; there are no cross-trait constraints.
type Sampler struct {
	def *Definition
	rng *rand.Rand
}

// NewSampler creates a sampler with an explicit seed so runs are
// reproducible. Seed 0 seeds from the clock.
func NewSampler(def *Definition, seed int64) *Sampler {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Sampler{def: def, rng: rand.New(rand.NewSource(seed))}
}

// Sample draws one instance: one option per trait, uniformly at random.
func (s *Sampler) Sample() Instance {
	inst := Instance{
		Values:  make([]string, 0, len(s.def.Traits)),
		Phrases: make([]string, 0, len(s.def.Traits)),
	}
	for _, trait := range s.def.Traits {
		opt := trait.Options[s.rng.Intn(len(trait.Options))]
		inst.Values = append(inst.Values, opt.Value)
		inst.Phrases = append(inst.Phrases, opt.Phrase)
	}
	return inst
}

// Preview returns k independently sampled persona descriptions, for
// inspecting what kinds of respondents a run would produce.
func (s *Sampler) Preview(k int) []string {
	out := make([]string, 0, k)
	for i := 0; i < k; i++ {
		out = append(out, s.Sample().Description())
	}
	return out
}
