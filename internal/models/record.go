package models

import (
	"strings"
	"time"
)

// TimestampLayout is the fixed layout of the first field of a monitoring line
const TimestampLayout = "2006-01-02 15:04:05"

// DateLayout is the layout used for query dates at the reporting boundary
const DateLayout = "2006-01-02"

// Record is one monitoring entry, parsed from the log file or recorded live
type Record struct {
	ID        string    `json:"id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Module    string    `json:"module"`
	Submodule string    `json:"submodule"`
	Function  string    `json:"function"`
	Message   string    `json:"message"`
	Latency   int       `json:"latency_ms"`
	Status    int       `json:"status"`
}

// Line serializes the record back into the pipe-delimited monitoring format
func (r Record) Line() string {
	return strings.Join([]string{
		r.Timestamp.Format(TimestampLayout),
		r.Module,
		r.Submodule,
		r.Function,
		r.Message,
	}, "|")
}

// Query narrows a record set. Empty fields mean no constraint.
type Query struct {
	Module    string `json:"module,omitempty"`
	Function  string `json:"function,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}
