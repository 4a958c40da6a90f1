// Package prompt renders the natural-language instruction sent to the
// inference endpoint for each (respondent, question) pair.
package prompt

import (
	"fmt"
	"os"
	"strings"
	"text/template"

	defaults "github.com/jkettner/surveygen/default"
)

// Data is the input to the prompt template.
type Data struct {
	// Phrases describes the respondent, in trait declaration order.
	Phrases []string
	// Question is the survey question being asked.
	Question string
	// Options lists the permitted answers in scale order.
	Options []string
}

var promptFuncs = template.FuncMap{
	"join": func(items []string, sep string) string {
		return strings.Join(items, sep)
	},
	"first": func(items []string) string {
		if len(items) == 0 {
			return ""
		}
		return items[0]
	},
	"last": func(items []string) string {
		if len(items) == 0 {
			return ""
		}
		return items[len(items)-1]
	},
}

// Builder renders prompts from a parsed template. Rendering is deterministic:
// identical inputs produce byte-identical prompts.
type Builder struct {
	tmpl *template.Template
}

// NewBuilder parses the given template source. An empty source uses the
// built-in default template.
func NewBuilder(src string) (*Builder, error) {
	if src == "" {
		src = defaults.DefaultPrompt
	}
	t, err := template.New("prompt").Funcs(promptFuncs).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse prompt template: %w", err)
	}
	return &Builder{tmpl: t}, nil
}

// NewBuilderFromFile loads a custom prompt template from disk. An empty path
// uses the built-in default template.
func NewBuilderFromFile(path string) (*Builder, error) {
	if path == "" {
		return NewBuilder("")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load prompt template: %w", err)
	}
	return NewBuilder(string(data))
}

// Build renders one prompt framing the respondent as the described persona,
// stating the question, and listing the permitted answers.
func (b *Builder) Build(phrases []string, question string, options []string) (string, error) {
	data := Data{
		Phrases:  phrases,
		Question: question,
		Options:  options,
	}

	var buf strings.Builder
	if err := b.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute prompt template: %w", err)
	}
	return strings.TrimRight(buf.String(), " \t\n"), nil
}
