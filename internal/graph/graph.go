// Package graph renders per-day series as bar-style ASCII charts.
package graph

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoData is returned for a series without any day
var ErrNoData = errors.New("no data to display")

const (
	// DefaultHeight is the number of levels above the baseline row
	DefaultHeight = 10

	filled    = "***"
	blank     = "   "
	columnSep = " "
	daySep    = "  "
)

// Series is a per-day numeric series ready to be drawn
type Series struct {
	Title  string
	Unit   string
	Days   []string
	Values []float64
}

// Options controls chart rendering
type Options struct {
	Height int
	// Precise scales before truncating. The default truncates the
	// normalized value first, which leaves only the extremes distinguishable.
	Precise bool
}

// Levels maps every value to an integer level in [0, height]
func Levels(values []float64, height int, precise bool) (levels []int, minVal, maxVal float64) {
	if len(values) == 0 {
		return nil, 0, 0
	}

	minVal, maxVal = values[0], values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	rangeVal := maxVal - minVal
	if maxVal == minVal {
		rangeVal = 1
	}

	levels = make([]int, len(values))
	for i, v := range values {
		if precise {
			levels[i] = int((v - minVal) / rangeVal * float64(height))
		} else {
			levels[i] = int((v-minVal)/rangeVal) * height
		}
	}
	return levels, minVal, maxVal
}

// Render draws the series, one column per day, from the top level down to 0
func Render(s Series, opts Options) (string, error) {
	if len(s.Days) == 0 {
		return "", ErrNoData
	}
	if len(s.Days) != len(s.Values) {
		return "", fmt.Errorf("series has %d days but %d values", len(s.Days), len(s.Values))
	}

	height := opts.Height
	if height <= 0 {
		height = DefaultHeight
	}

	levels, minVal, maxVal := Levels(s.Values, height, opts.Precise)

	lines := make([]string, 0, height+4)
	lines = append(lines, s.Title)

	row := make([]string, len(levels))
	for level := height; level >= 0; level-- {
		for i, l := range levels {
			if l >= level {
				row[i] = filled
			} else {
				row[i] = blank
			}
		}
		lines = append(lines, strings.Join(row, columnSep))
	}

	lines = append(lines,
		strings.Join(s.Days, daySep),
		fmt.Sprintf("Min: %.1f%s  Max: %.1f%s", minVal, s.Unit, maxVal, s.Unit),
	)
	return strings.Join(lines, "\n"), nil
}
