// Package persona defines survey respondent profiles: named traits with
// enumerated (value, phrase) options, and a seeded sampler that draws one
// concrete instance per synthetic respondent.
package persona

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	defaults "github.com/jkettner/surveygen/default"
)

// Option is one possible value for a trait: the value recorded in the output
// table and the descriptive phrase used in prompts.
type Option struct {
	Value  string
	Phrase string
}

// Trait is a named attribute with its ordered option list.
type Trait struct {
	Name    string
	Options []Option
}

// Definition is the full persona specification. Trait order follows the
// declaration order in the source JSON and determines both the output column
// order and the phrase order in prompts.
type Definition struct {
	Traits []Trait
}

// TraitNames returns the trait names in declaration order.
func (d *Definition) TraitNames() []string {
	names := make([]string, len(d.Traits))
	for i, t := range d.Traits {
		names[i] = t.Name
	}
	return names
}

// Load reads a persona definition from a JSON file. An empty path loads the
// bundled example persona.
func Load(path string) (*Definition, error) {
	var data []byte
	if path == "" {
		data = defaults.DefaultPersona
	} else {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load persona: %w", err)
		}
	}
	return Parse(data)
}

// Parse decodes a persona definition from JSON: an object whose keys are
// trait names and whose values are arrays of [value, phrase] pairs. Key order
// is preserved. A trait with an empty option list is rejected here, before
// any sampling happens.
func Parse(data []byte) (*Definition, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parse persona: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("parse persona: definition must be a JSON object")
	}

	def := &Definition{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse persona: %w", err)
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("parse persona: unexpected key token %v", keyTok)
		}

		var rawOptions []json.RawMessage
		if err := dec.Decode(&rawOptions); err != nil {
			return nil, fmt.Errorf("parse persona: trait %q: options must be an array: %w", name, err)
		}
		if len(rawOptions) == 0 {
			return nil, fmt.Errorf("parse persona: trait %q has no options", name)
		}

		trait := Trait{Name: name, Options: make([]Option, 0, len(rawOptions))}
		for i, raw := range rawOptions {
			var pair []json.RawMessage
			if err := json.Unmarshal(raw, &pair); err != nil || len(pair) != 2 {
				return nil, fmt.Errorf("parse persona: trait %q option %d: expected a [value, phrase] pair", name, i)
			}

			var phrase string
			if err := json.Unmarshal(pair[1], &phrase); err != nil {
				return nil, fmt.Errorf("parse persona: trait %q option %d: phrase must be a string", name, i)
			}

			trait.Options = append(trait.Options, Option{
				Value:  decodeValue(pair[0]),
				Phrase: phrase,
			})
		}
		def.Traits = append(def.Traits, trait)
	}

	if len(def.Traits) == 0 {
		return nil, fmt.Errorf("parse persona: definition has no traits")
	}
	return def, nil
}

// decodeValue renders a recorded value as a string. JSON strings are used
// as-is; numbers and other scalars keep their literal form (18 -> "18").
func decodeValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}
