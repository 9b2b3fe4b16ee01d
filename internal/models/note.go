package models

import "time"

// Assignment links one patient to the doctor they selected.
type Assignment struct {
	DoctorID  string
	PatientID string
	CreatedAt time.Time
}

// Note is a doctor's care instruction after LLM extraction: the original
// text plus the parsed checklist/plan and its day schedule. DaysLeft counts
// down daily; RemindToday is recomputed by the scheduler from IntervalDays.
type Note struct {
	ID           string
	DoctorID     string
	PatientID    string
	OriginalNote string
	Checklist    string
	Plan         string
	NumberOfDays int
	IntervalDays int
	DaysLeft     int
	Done         bool
	RemindToday  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
