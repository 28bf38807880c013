package query

import (
	"errors"
	"fmt"
	"time"

	"github.com/your-username/poke-search-api/internal/models"
)

// ErrParse marks a query date that does not match YYYY-MM-DD
var ErrParse = errors.New("invalid date")

// DateError identifies the offending date input
type DateError struct {
	Field string
	Input string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("invalid %s %q: expected YYYY-MM-DD", e.Field, e.Input)
}

// Is reports DateError as ErrParse
func (e *DateError) Is(target error) bool {
	return target == ErrParse
}

// ParseDate parses a YYYY-MM-DD date at local midnight
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(models.DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, &DateError{Field: "date", Input: s}
	}
	return t, nil
}

// RecordFilter narrows a record sequence, preserving order
type RecordFilter interface {
	Apply([]models.Record) []models.Record
}

// ModuleFilter keeps records of one module
type ModuleFilter struct {
	Module string
}

// Apply applies the module filter
func (f ModuleFilter) Apply(records []models.Record) []models.Record {
	return keep(records, func(r models.Record) bool { return r.Module == f.Module })
}

// FunctionFilter keeps records of one function
type FunctionFilter struct {
	Function string
}

// Apply applies the function filter
func (f FunctionFilter) Apply(records []models.Record) []models.Record {
	return keep(records, func(r models.Record) bool { return r.Function == f.Function })
}

// SinceFilter keeps records at or after Start
type SinceFilter struct {
	Start time.Time
}

// Apply applies the lower time bound
func (f SinceFilter) Apply(records []models.Record) []models.Record {
	return keep(records, func(r models.Record) bool { return !r.Timestamp.Before(f.Start) })
}

// BeforeFilter keeps records strictly before End
type BeforeFilter struct {
	End time.Time
}

// Apply applies the upper time bound
func (f BeforeFilter) Apply(records []models.Record) []models.Record {
	return keep(records, func(r models.Record) bool { return r.Timestamp.Before(f.End) })
}

// Filter is a conjunction of record filters
type Filter []RecordFilter

// Build turns a query into a filter. The end date covers its whole day.
func Build(q models.Query) (Filter, error) {
	var f Filter
	if q.Module != "" {
		f = append(f, ModuleFilter{Module: q.Module})
	}
	if q.Function != "" {
		f = append(f, FunctionFilter{Function: q.Function})
	}
	if q.StartDate != "" {
		start, err := ParseDate(q.StartDate)
		if err != nil {
			return nil, &DateError{Field: "start_date", Input: q.StartDate}
		}
		f = append(f, SinceFilter{Start: start})
	}
	if q.EndDate != "" {
		end, err := ParseDate(q.EndDate)
		if err != nil {
			return nil, &DateError{Field: "end_date", Input: q.EndDate}
		}
		f = append(f, BeforeFilter{End: end.AddDate(0, 0, 1)})
	}
	return f, nil
}

// Apply runs every filter in turn
func (f Filter) Apply(records []models.Record) []models.Record {
	for _, rf := range f {
		records = rf.Apply(records)
	}
	return records
}

// Records filters records by q
func Records(records []models.Record, q models.Query) ([]models.Record, error) {
	f, err := Build(q)
	if err != nil {
		return nil, err
	}
	return f.Apply(records), nil
}

// Window returns the query covering the last days days up to and including
// the calendar day of now.
func Window(module, function string, days int, now time.Time) models.Query {
	return models.Query{
		Module:    module,
		Function:  function,
		StartDate: now.AddDate(0, 0, -days).Format(models.DateLayout),
		EndDate:   now.Format(models.DateLayout),
	}
}

func keep(records []models.Record, pred func(models.Record) bool) []models.Record {
	filtered := []models.Record{}
	for _, r := range records {
		if pred(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
