package graph

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestLevelsTruncatesBeforeScaling(t *testing.T) {
	levels, minVal, maxVal := Levels([]float64{10, 15, 19, 20}, 10, false)
	if minVal != 10 || maxVal != 20 {
		t.Errorf("expected min 10 max 20, got %v %v", minVal, maxVal)
	}
	want := []int{0, 0, 0, 10}
	if !reflect.DeepEqual(levels, want) {
		t.Errorf("expected %v, got %v", want, levels)
	}
}

func TestLevelsPrecise(t *testing.T) {
	levels, _, _ := Levels([]float64{10, 15, 19, 20}, 10, true)
	want := []int{0, 5, 9, 10}
	if !reflect.DeepEqual(levels, want) {
		t.Errorf("expected %v, got %v", want, levels)
	}
}

func TestLevelsConstantSeries(t *testing.T) {
	levels, minVal, maxVal := Levels([]float64{66.7, 66.7}, 10, false)
	if minVal != maxVal {
		t.Errorf("expected min == max, got %v %v", minVal, maxVal)
	}
	if !reflect.DeepEqual(levels, []int{0, 0}) {
		t.Errorf("expected flat levels, got %v", levels)
	}
}

func TestRender(t *testing.T) {
	out, err := Render(Series{
		Title:  "Latency Trend for X",
		Unit:   "ms",
		Days:   []string{"01/01", "01/02"},
		Values: []float64{100, 200},
	}, Options{Height: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := strings.Join([]string{
		"Latency Trend for X",
		"    ***",
		"    ***",
		"*** ***",
		"01/01  01/02",
		"Min: 100.0ms  Max: 200.0ms",
	}, "\n")
	if out != want {
		t.Errorf("unexpected chart:\n%s\nwant:\n%s", out, want)
	}
}

func TestRenderSingleColumn(t *testing.T) {
	out, err := Render(Series{
		Title:  "Availability Trend for X",
		Unit:   "%",
		Days:   []string{"01/01"},
		Values: []float64{200.0 / 3},
	}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(out, "\n")
	// title + levels 10..0 + axis + summary
	if len(lines) != 1+DefaultHeight+1+2 {
		t.Fatalf("expected %d lines, got %d:\n%s", DefaultHeight+4, len(lines), out)
	}
	for _, l := range lines[1 : DefaultHeight+1] {
		if l != blank {
			t.Errorf("expected blank row above baseline, got %q", l)
		}
	}
	if lines[DefaultHeight+1] != filled {
		t.Errorf("expected filled baseline, got %q", lines[DefaultHeight+1])
	}
	if lines[len(lines)-1] != "Min: 66.7%  Max: 66.7%" {
		t.Errorf("unexpected summary %q", lines[len(lines)-1])
	}
}

func TestRenderEmpty(t *testing.T) {
	_, err := Render(Series{Title: "empty"}, Options{})
	if !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}
