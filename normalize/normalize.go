// Package normalize maps free-text model replies onto a closed set of
// permitted response options. The matching is a lossy, best-effort heuristic:
// it keeps generation robust against verbose model output but is not
// guaranteed to be semantically correct.
package normalize

import (
	"strings"
	"unicode"
)

// Unparsed is the sentinel recorded when a reply matches no option.
// Unmatched text never aborts a run.
const Unparsed = "UNPARSED"

// Matcher selects the best-matching option for a raw reply, or Unparsed.
// The policy lives behind this interface so it can be swapped and tested
// independently of any I/O.
type Matcher interface {
	Match(raw string, options []string) string
}

// Lexical is the default matching policy, implemented by Match.
type Lexical struct{}

// Match implements Matcher.
func (Lexical) Match(raw string, options []string) string {
	return Match(raw, options)
}

// Match applies the lexical policy, case-insensitively:
//
//  1. exact match after trimming whitespace and surrounding punctuation
//  2. earliest option occurring anywhere in the reply; ties (one label being
//     a substring of another at the same position, e.g. "Agree" inside
//     "Strongly Agree") go to the longer label
//  3. an option label containing the trimmed reply
//
// If nothing matches, Unparsed is returned.
func Match(raw string, options []string) string {
	trimmed := strings.TrimFunc(raw, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r) || r == '`'
	})
	lowerReply := strings.ToLower(trimmed)

	for _, opt := range options {
		if lowerReply == strings.ToLower(opt) {
			return opt
		}
	}

	// Free text may wrap the answer in commentary ("I would say Strongly
	// Agree because..."), so scan for option occurrences.
	best := ""
	bestPos := -1
	lowerFull := strings.ToLower(raw)
	for _, opt := range options {
		pos := strings.Index(lowerFull, strings.ToLower(opt))
		if pos < 0 {
			continue
		}
		if bestPos == -1 || pos < bestPos || (pos == bestPos && len(opt) > len(best)) {
			best = opt
			bestPos = pos
		}
	}
	if best != "" {
		return best
	}

	if lowerReply != "" {
		for _, opt := range options {
			if strings.Contains(strings.ToLower(opt), lowerReply) {
				return opt
			}
		}
	}

	return Unparsed
}
