package persona

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const samplePersona = `{
  "age": [[18, "is 18 years old"], [45, "is 45 years old"]],
  "gender": [["f", "identifies as a woman"], ["m", "identifies as a man"]],
  "occupation": [["nurse", "works as a nurse"]]
}`

func TestParsePreservesDeclarationOrder(t *testing.T) {
	def, err := Parse([]byte(samplePersona))
	if err != nil {
		t.Fatal(err)
	}
	names := def.TraitNames()
	want := []string{"age", "gender", "occupation"}
	if len(names) != len(want) {
		t.Fatalf("expected %d traits, got %d", len(want), len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("trait %d: expected %q, got %q", i, want[i], names[i])
		}
	}
}

func TestParseNumericValuesKeepLiteralForm(t *testing.T) {
	def, err := Parse([]byte(samplePersona))
	if err != nil {
		t.Fatal(err)
	}
	if def.Traits[0].Options[0].Value != "18" {
		t.Errorf("expected numeric value recorded as \"18\", got %q", def.Traits[0].Options[0].Value)
	}
	if def.Traits[0].Options[0].Phrase != "is 18 years old" {
		t.Errorf("unexpected phrase %q", def.Traits[0].Options[0].Phrase)
	}
}

func TestParseStringValues(t *testing.T) {
	def, err := Parse([]byte(samplePersona))
	if err != nil {
		t.Fatal(err)
	}
	if def.Traits[1].Options[0].Value != "f" {
		t.Errorf("expected string value %q, got %q", "f", def.Traits[1].Options[0].Value)
	}
}

func TestParseRejectsEmptyOptionList(t *testing.T) {
	_, err := Parse([]byte(`{"age": []}`))
	if err == nil {
		t.Fatal("expected error for trait with no options")
	}
	if !strings.Contains(err.Error(), "age") {
		t.Errorf("expected trait name in error, got %v", err)
	}
}

func TestParseRejectsNonPairOption(t *testing.T) {
	_, err := Parse([]byte(`{"age": [[18, "is 18 years old", "extra"]]}`))
	if err == nil {
		t.Fatal("expected error for 3-element option")
	}
}

func TestParseRejectsNonStringPhrase(t *testing.T) {
	_, err := Parse([]byte(`{"age": [[18, 42]]}`))
	if err == nil {
		t.Fatal("expected error for numeric phrase")
	}
}

func TestParseRejectsNonObject(t *testing.T) {
	_, err := Parse([]byte(`["age"]`))
	if err == nil {
		t.Fatal("expected error for non-object definition")
	}
}

func TestParseRejectsEmptyDefinition(t *testing.T) {
	_, err := Parse([]byte(`{}`))
	if err == nil {
		t.Fatal("expected error for definition with no traits")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persona.json")
	if err := os.WriteFile(path, []byte(samplePersona), 0644); err != nil {
		t.Fatal(err)
	}
	def, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(def.Traits) != 3 {
		t.Errorf("expected 3 traits, got %d", len(def.Traits))
	}
}

func TestLoadDefaults(t *testing.T) {
	def, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if len(def.Traits) == 0 {
		t.Fatal("expected bundled default persona to have traits")
	}
	for _, trait := range def.Traits {
		if len(trait.Options) == 0 {
			t.Errorf("default trait %q has no options", trait.Name)
		}
	}
}
