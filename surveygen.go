// Package surveygen defines the data model and configuration for synthetic
// survey-response generation. One run samples N persona instances, asks each
// of them every question through an LLM inference endpoint, and records the
// normalized answers as one CSV row per respondent.
package surveygen

import "fmt"

// Record is one output row: a sequential respondent id, the recorded value of
// each persona trait in declaration order, and one normalized answer per
// question in question order.
type Record struct {
	// ID is the 1-based respondent id, unique and sequential within a run.
	ID int
	// Traits holds the recorded trait values in persona declaration order.
	Traits []string
	// Answers holds one entry per question, each a member of the run's
	// response options or the unparsed sentinel.
	Answers []string
}

// Row flattens the record into CSV fields in column order.
func (r *Record) Row() []string {
	row := make([]string, 0, 1+len(r.Traits)+len(r.Answers))
	row = append(row, fmt.Sprintf("%d", r.ID))
	row = append(row, r.Traits...)
	row = append(row, r.Answers...)
	return row
}

// Columns returns the CSV header for a run: "resid", one column per persona
// trait, then "Q1".."Qn".
func Columns(traitNames []string, numQuestions int) []string {
	cols := make([]string, 0, 1+len(traitNames)+numQuestions)
	cols = append(cols, "resid")
	cols = append(cols, traitNames...)
	for i := 1; i <= numQuestions; i++ {
		cols = append(cols, fmt.Sprintf("Q%d", i))
	}
	return cols
}
