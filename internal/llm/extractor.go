// Package llm wraps the external language model that turns a doctor's
// free-text note into an actionable, scheduled task.
package llm

import "context"

// Actions is the structured result of parsing one doctor's note.
type Actions struct {
	// Checklist lists one-time tasks ("Buy Amoxicillin 500mg").
	Checklist string
	// Plan describes the recurring schedule ("Take Amoxicillin daily for 7 days").
	Plan string
	// NumberOfDays is the total prescribed duration; zero when unspecified.
	NumberOfDays int
	// IntervalDays is the gap between treatment days; zero means daily.
	IntervalDays int
}

type Extractor interface {
	Extract(ctx context.Context, doctorNote string) (Actions, error)
}
