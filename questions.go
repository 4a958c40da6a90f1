package surveygen

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	defaults "github.com/jkettner/surveygen/default"
)

// LoadQuestions reads one question per line from the given file. Blank and
// whitespace-only lines are skipped. An empty path loads the bundled example
// questions.
func LoadQuestions(path string) ([]string, error) {
	var data []byte
	if path == "" {
		data = defaults.DefaultQuestions
	} else {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load questions: %w", err)
		}
	}

	questions := ParseQuestions(string(data))
	if len(questions) == 0 {
		return nil, fmt.Errorf("no questions found in %s", displayPath(path))
	}
	return questions, nil
}

// ParseQuestions splits text into trimmed, non-blank lines. Line order
// defines the output column order (Q1..Qn).
func ParseQuestions(text string) []string {
	var questions []string
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		questions = append(questions, line)
	}
	return questions
}

// displayPath names the source for error messages, covering the embedded
// defaults case.
func displayPath(path string) string {
	if path == "" {
		return "bundled default questions"
	}
	return path
}
