package analytics

import (
	"errors"
	"fmt"

	"github.com/your-username/poke-search-api/internal/graph"
	"github.com/your-username/poke-search-api/internal/parsing"
	"github.com/your-username/poke-search-api/internal/query"
)

// Kind classifies reporting failures
type Kind int

const (
	KindNone Kind = iota
	KindIO
	KindParse
	KindInvalidMetric
	KindNoData
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindIO:
		return "io"
	case KindParse:
		return "parse"
	case KindInvalidMetric:
		return "invalid_metric"
	case KindNoData:
		return "no_data"
	default:
		return "unknown"
	}
}

// ErrNoData is returned when no record survives the filters
var ErrNoData = errors.New("no data for the specified criteria")

// ErrInvalidMetric is matched by every InvalidMetricError
var ErrInvalidMetric = errors.New("invalid metric")

// InvalidMetricError names an unrecognized metric selector
type InvalidMetricError struct {
	Metric string
}

func (e *InvalidMetricError) Error() string {
	return fmt.Sprintf("invalid metric %q: use 'latency' or 'availability'", e.Metric)
}

// Is reports InvalidMetricError as ErrInvalidMetric
func (e *InvalidMetricError) Is(target error) bool {
	return target == ErrInvalidMetric
}

// User-facing messages for outcomes that are reported rather than failed
const (
	NoDataMessage        = "No data for the specified criteria"
	NoGraphDataMessage   = "No data to display the graph"
	InvalidMetricMessage = "Invalid metric. Use 'latency' or 'availability'"
)

// KindOf classifies err
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, parsing.ErrIO):
		return KindIO
	case errors.Is(err, query.ErrParse):
		return KindParse
	case errors.Is(err, ErrInvalidMetric):
		return KindInvalidMetric
	case errors.Is(err, ErrNoData), errors.Is(err, graph.ErrNoData):
		return KindNoData
	default:
		return KindUnknown
	}
}

// Describe turns a reporting error into the text shown to the user
func Describe(err error) string {
	switch KindOf(err) {
	case KindNoData:
		if errors.Is(err, graph.ErrNoData) {
			return NoGraphDataMessage
		}
		return NoDataMessage
	case KindInvalidMetric:
		return InvalidMetricMessage
	case KindNone:
		return ""
	default:
		return "Error: " + err.Error()
	}
}
