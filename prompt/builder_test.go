package prompt

import (
	"strings"
	"testing"
)

var (
	testPhrases = []string{"is 35 years old", "works as a nurse"}
	testOptions = []string{"Strongly Disagree", "Disagree", "Neutral", "Agree", "Strongly Agree"}
)

func TestBuildContainsAllParts(t *testing.T) {
	b, err := NewBuilder("")
	if err != nil {
		t.Fatal(err)
	}

	p, err := b.Build(testPhrases, "I like tests.", testOptions)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(p, "is 35 years old, works as a nurse") {
		t.Errorf("expected persona phrases joined in declaration order, got:\n%s", p)
	}
	if !strings.Contains(p, "Question: I like tests.") {
		t.Errorf("expected question line, got:\n%s", p)
	}
	for _, opt := range testOptions {
		if !strings.Contains(p, opt) {
			t.Errorf("expected option %q listed in prompt", opt)
		}
	}
	// The scale endpoints are called out explicitly.
	if !strings.Contains(p, "'Strongly Disagree'") || !strings.Contains(p, "'Strongly Agree'") {
		t.Errorf("expected first and last options called out, got:\n%s", p)
	}
}

func TestBuildDeterministic(t *testing.T) {
	b, err := NewBuilder("")
	if err != nil {
		t.Fatal(err)
	}

	first, err := b.Build(testPhrases, "I like tests.", testOptions)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := b.Build(testPhrases, "I like tests.", testOptions)
		if err != nil {
			t.Fatal(err)
		}
		if again != first {
			t.Fatalf("expected byte-identical prompts, got:\n%s\n---\n%s", first, again)
		}
	}
}

func TestBuildNoTrailingWhitespace(t *testing.T) {
	b, err := NewBuilder("")
	if err != nil {
		t.Fatal(err)
	}
	p, err := b.Build(testPhrases, "Q", testOptions)
	if err != nil {
		t.Fatal(err)
	}
	if p != strings.TrimRight(p, " \t\n") {
		t.Error("expected trailing whitespace trimmed")
	}
}

func TestCustomTemplate(t *testing.T) {
	b, err := NewBuilder(`{{.Question}} [{{join .Options "/"}}]`)
	if err != nil {
		t.Fatal(err)
	}
	p, err := b.Build(nil, "Ready?", []string{"No", "Yes"})
	if err != nil {
		t.Fatal(err)
	}
	if p != "Ready? [No/Yes]" {
		t.Errorf("unexpected render: %q", p)
	}
}

func TestNewBuilderRejectsBadTemplate(t *testing.T) {
	if _, err := NewBuilder("{{.Question"); err == nil {
		t.Fatal("expected parse error for unclosed action")
	}
}
