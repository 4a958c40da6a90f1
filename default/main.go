// Package defaults provides embedded default assets: the prompt template,
// run configuration, and example question/persona files.
package defaults

import _ "embed"

//go:embed default_prompt.md
var DefaultPrompt string

//go:embed default_config.toml
var DefaultConfigTOML []byte

//go:embed default_questions.txt
var DefaultQuestions []byte

//go:embed default_persona.json
var DefaultPersona []byte
