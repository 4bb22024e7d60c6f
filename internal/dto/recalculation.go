package dto

import "time"

// RecalculationSummary reports the outcome of a grade repair run.
type RecalculationSummary struct {
	TotalResults    int       `json:"totalResults"`
	UpdatedResults  int       `json:"updatedResults"`
	UseSubjectScale bool      `json:"useSubjectScale"`
	StartedAt       time.Time `json:"startedAt"`
	DurationMillis  int64     `json:"durationMs"`
}
