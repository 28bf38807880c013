// Package logger writes the pipe-delimited request log that the analyzer
// reads back:
//
//	2024-01-01 10:00:00|PokeAPI|pokeapi|get_pokemon|Data fetched | Latency: 42ms
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/your-username/poke-search-api/internal/models"
)

const (
	fieldTime     = "ts"
	fieldModule   = "module"
	fieldAPI      = "api"
	fieldFunction = "function"

	// DefaultFile is the log file name inside the log directory
	DefaultFile = "monitoring.log"
)

type pipeEvent struct {
	Time     string `json:"ts"`
	Module   string `json:"module"`
	API      string `json:"api"`
	Function string `json:"function"`
	Message  string `json:"message"`
}

// PipeWriter turns zerolog JSON events into monitoring lines
type PipeWriter struct {
	mu  sync.Mutex
	out io.Writer
}

// NewPipeWriter creates a PipeWriter writing to out
func NewPipeWriter(out io.Writer) *PipeWriter {
	return &PipeWriter{out: out}
}

// Write implements io.Writer. Events without the request-log fields are dropped.
func (w *PipeWriter) Write(p []byte) (int, error) {
	var evt pipeEvent
	if err := json.Unmarshal(p, &evt); err != nil {
		return 0, fmt.Errorf("decode log event: %w", err)
	}
	if evt.Time == "" || evt.Module == "" {
		return len(p), nil
	}

	line := strings.Join([]string{
		evt.Time,
		clean(evt.Module),
		clean(evt.API),
		clean(evt.Function),
		strings.ReplaceAll(evt.Message, "\n", " "),
	}, "|") + "\n"

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := io.WriteString(w.out, line); err != nil {
		return 0, err
	}
	return len(p), nil
}

// the three label fields cannot hold the separator
func clean(s string) string {
	s = strings.ReplaceAll(s, "|", "/")
	return strings.ReplaceAll(s, "\n", " ")
}

// Sink owns the destinations shared by every module logger
type Sink struct {
	writer *PipeWriter
	file   *os.File
}

// OpenSink creates the parent directory of path if needed and appends to path.
// When console is set every line is echoed to stderr as well.
func OpenSink(path string, console bool) (*Sink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	var out io.Writer = f
	if console {
		out = io.MultiWriter(os.Stderr, f)
	}
	return &Sink{writer: NewPipeWriter(out), file: f}, nil
}

// NewSink wraps an arbitrary writer, mostly for tests
func NewSink(out io.Writer) *Sink {
	return &Sink{writer: NewPipeWriter(out)}
}

// Path returns the backing file, empty for writer sinks
func (s *Sink) Path() string {
	if s.file == nil {
		return ""
	}
	return s.file.Name()
}

// Logger returns a logger stamping lines with module
func (s *Sink) Logger(module string) *Logger {
	return &Logger{
		zl:  zerolog.New(s.writer).With().Str(fieldModule, module).Logger(),
		now: time.Now,
	}
}

// Close closes the log file
func (s *Sink) Close() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}

// Logger writes request-log lines for one module
type Logger struct {
	zl  zerolog.Logger
	now func() time.Time
}

// Nop returns a logger that writes nothing
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop(), now: time.Now}
}

// Log writes one line and returns the time it was written. A non-zero start
// appends the elapsed milliseconds as "| Latency: Nms". Lines carry no level
// so the global zerolog level never filters them.
func (l *Logger) Log(api, function, message string, start time.Time) time.Time {
	now := l.now()
	if !start.IsZero() {
		message = fmt.Sprintf("%s | Latency: %dms", message, now.Sub(start).Milliseconds())
	}

	l.zl.Log().
		Str(fieldTime, now.Format(models.TimestampLayout)).
		Str(fieldAPI, api).
		Str(fieldFunction, function).
		Msg(message)
	return now
}
