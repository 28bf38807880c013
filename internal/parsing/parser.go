package parsing

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/your-username/poke-search-api/internal/models"
)

// ErrIO is returned when the monitoring log cannot be read
var ErrIO = errors.New("cannot read log file")

const (
	defaultLatency = 0
	defaultStatus  = 200

	maxLineSize = 1024 * 1024
)

var (
	// timestamp|module|submodule|function|message, message keeps any further pipes
	linePattern = regexp.MustCompile(
		`^(?P<timestamp>\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})\|` +
			`(?P<module>[^|]+)\|` +
			`(?P<submodule>[^|]+)\|` +
			`(?P<function>[^|]+)\|` +
			`(?P<message>.*)`,
	)
	latencyPattern = regexp.MustCompile(`Latency: (\d+)ms`)
	statusPattern  = regexp.MustCompile(`Status: (\d+)`)
)

// ParseStats tracks parsing statistics
type ParseStats struct {
	TotalLines    int64     `json:"total_lines"`
	ParsedCount   int64     `json:"parsed_count"`
	SkippedCount  int64     `json:"skipped_count"`
	LastParseTime time.Time `json:"last_parse_time"`
}

// Parser turns monitoring log lines into records
type Parser struct {
	pattern  *regexp.Regexp
	location *time.Location

	mu    sync.Mutex
	stats ParseStats
}

// NewParser creates a parser that reads timestamps in local time
func NewParser() *Parser {
	return &Parser{
		pattern:  linePattern,
		location: time.Local,
	}
}

// WithLocation sets the clock the log timestamps were written in
func (p *Parser) WithLocation(loc *time.Location) *Parser {
	p.location = loc
	return p
}

// Decode decomposes one line into a record. The boolean is false when the
// line does not have the five-field shape or its timestamp is not valid.
func (p *Parser) Decode(line string) (models.Record, bool) {
	matches := p.pattern.FindStringSubmatch(strings.TrimSpace(line))
	if matches == nil {
		return models.Record{}, false
	}

	fields := make(map[string]string, 5)
	for i, name := range p.pattern.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		fields[name] = matches[i]
	}

	ts, err := time.ParseInLocation(models.TimestampLayout, fields["timestamp"], p.location)
	if err != nil {
		return models.Record{}, false
	}

	message := fields["message"]
	return models.Record{
		Timestamp: ts,
		Module:    fields["module"],
		Submodule: fields["submodule"],
		Function:  fields["function"],
		Message:   message,
		Latency:   extractInt(latencyPattern, message, defaultLatency),
		Status:    extractInt(statusPattern, message, defaultStatus),
	}, true
}

// ParseReader decodes every line of r in order. Malformed lines are skipped,
// and so are lines longer than maxLineSize.
func (p *Parser) ParseReader(r io.Reader) ([]models.Record, error) {
	reader := bufio.NewReaderSize(r, 64*1024)

	var records []models.Record
	var total, skipped int64
	var readErr error
	for {
		line, oversized, err := readLine(reader)
		if err != nil {
			if err != io.EOF {
				readErr = err
			}
			break
		}

		total++
		if oversized {
			skipped++
			log.Debug().Int64("line", total).Msg("Skipping oversized monitoring line")
			continue
		}
		record, ok := p.Decode(line)
		if !ok {
			skipped++
			log.Debug().Int64("line", total).Msg("Skipping malformed monitoring line")
			continue
		}
		records = append(records, record)
	}

	p.mu.Lock()
	p.stats.TotalLines += total
	p.stats.ParsedCount += total - skipped
	p.stats.SkippedCount += skipped
	p.stats.LastParseTime = time.Now()
	p.mu.Unlock()

	if readErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, readErr)
	}
	return records, nil
}

// readLine returns the next line without its terminator. A line longer than
// maxLineSize is consumed up to its newline and reported as oversized. io.EOF
// is only returned once no bytes are left.
func readLine(r *bufio.Reader) (string, bool, error) {
	var buf []byte
	oversized := false
	read := false
	for {
		chunk, isPrefix, err := r.ReadLine()
		if err != nil {
			if err == io.EOF && read {
				return string(buf), oversized, nil
			}
			return "", false, err
		}
		read = true
		if !oversized {
			if len(buf)+len(chunk) > maxLineSize {
				oversized = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !isPrefix {
			return string(buf), oversized, nil
		}
	}
}

// ParseFile reads the log at path and returns its records in file order
func (p *Parser) ParseFile(path string) ([]models.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrIO, path, err)
	}
	defer f.Close()

	records, err := p.ParseReader(f)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("path", path).Int("records", len(records)).Msg("Parsed monitoring log")
	return records, nil
}

// GetStats returns current parsing statistics
func (p *Parser) GetStats() ParseStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

var defaultParser = NewParser()

// DecodeLine decodes a single line with the default parser
func DecodeLine(line string) (models.Record, bool) {
	return defaultParser.Decode(line)
}

// ParseFile reads path with the default parser
func ParseFile(path string) ([]models.Record, error) {
	return defaultParser.ParseFile(path)
}

func extractInt(re *regexp.Regexp, message string, fallback int) int {
	m := re.FindStringSubmatch(message)
	if m == nil {
		return fallback
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return fallback
	}
	return v
}
