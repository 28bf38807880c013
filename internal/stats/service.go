// Package stats serves the local pokemon stats table.
package stats

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/your-username/poke-search-api/internal/logger"
	"github.com/your-username/poke-search-api/internal/models"
	"github.com/your-username/poke-search-api/internal/monitoring"
)

// Module labels the service's request-log lines and monitor records
const Module = "PokeStats"

// ErrNotFound is returned when no row matches a lookup
var ErrNotFound = errors.New("pokemon stats not found")

// alternate forms share a row name with their base pokemon once stripped
var formPattern = regexp.MustCompile(`Mega\s.*|Primal\s.*|.*Forme|.*Mode`)

var columns = []string{"#", "Name", "Type 1", "Type 2", "Total", "HP", "Attack", "Defense", "Sp. Atk", "Sp. Def", "Speed", "Generation", "Legendary"}

// CleanName strips alternate-form suffixes from a CSV name
func CleanName(name string) string {
	return strings.TrimSpace(formPattern.ReplaceAllString(name, ""))
}

// Service looks up rows loaded from the stats CSV
type Service struct {
	rows     []models.PokemonStats
	recorder monitoring.Recorder
	log      *logger.Logger
}

// NewService wraps already loaded rows
func NewService(rows []models.PokemonStats, recorder monitoring.Recorder, l *logger.Logger) *Service {
	if l == nil {
		l = logger.Nop()
	}
	return &Service{rows: rows, recorder: recorder, log: l}
}

// Load reads the CSV at path
func Load(path string, recorder monitoring.Recorder, l *logger.Logger) (*Service, error) {
	svc := NewService(nil, recorder, l)
	start := svc.log.Log("stats", "load_data", "Loading CSV data", time.Time{})

	f, err := os.Open(path)
	if err != nil {
		svc.log.Log("stats", "load_data", "Error loading CSV: "+err.Error(), time.Time{})
		return nil, fmt.Errorf("open stats csv: %w", err)
	}
	defer f.Close()

	rows, err := ReadCSV(f)
	if err != nil {
		svc.log.Log("stats", "load_data", "Error loading CSV: "+err.Error(), time.Time{})
		return nil, fmt.Errorf("read stats csv %q: %w", path, err)
	}
	svc.rows = rows

	svc.log.Log("stats", "load_data", "CSV data loaded", start)
	log.Info().Str("path", path).Int("rows", len(rows)).Msg("Stats loaded")
	return svc, nil
}

// ReadCSV decodes every row of a stats table with a header line
func ReadCSV(r io.Reader) ([]models.PokemonStats, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, col := range columns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var rows []models.PokemonStats
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row, err := decodeRow(record, index)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func decodeRow(record []string, index map[string]int) (models.PokemonStats, error) {
	field := func(col string) string {
		return strings.TrimSpace(record[index[col]])
	}

	var ints [10]int
	for i, col := range []string{"#", "Total", "HP", "Attack", "Defense", "Sp. Atk", "Sp. Def", "Speed", "Generation"} {
		v, err := strconv.Atoi(field(col))
		if err != nil {
			return models.PokemonStats{}, fmt.Errorf("column %q: %w", col, err)
		}
		ints[i] = v
	}

	return models.PokemonStats{
		ID:         ints[0],
		Name:       CleanName(field("Name")),
		Type1:      field("Type 1"),
		Type2:      field("Type 2"),
		Total:      ints[1],
		HP:         ints[2],
		Attack:     ints[3],
		Defense:    ints[4],
		SpAtk:      ints[5],
		SpDef:      ints[6],
		Speed:      ints[7],
		Generation: ints[8],
		Legendary:  strings.EqualFold(field("Legendary"), "true"),
	}, nil
}

// Len returns the number of loaded rows
func (s *Service) Len() int {
	return len(s.rows)
}

// Get finds the first row whose id (for a numeric identifier) or name
// matches, ignoring case
func (s *Service) Get(identifier string) (*models.PokemonStats, error) {
	identifier = strings.TrimSpace(identifier)
	start := s.log.Log("stats", "get_stats", "Fetching Pokemon stats", time.Time{})

	match := func(row models.PokemonStats) bool {
		return strings.EqualFold(row.Name, identifier)
	}
	if id, err := strconv.Atoi(identifier); err == nil {
		match = func(row models.PokemonStats) bool { return row.ID == id }
	}

	for i := range s.rows {
		if match(s.rows[i]) {
			end := s.log.Log("stats", "get_stats", "Stats fetched", start)
			s.record(http.StatusOK, int(end.Sub(start).Milliseconds()))
			row := s.rows[i]
			return &row, nil
		}
	}

	s.record(http.StatusNotFound, 0)
	s.log.Log("stats", "get_stats", "Stats not found for "+identifier, time.Time{})
	return nil, ErrNotFound
}

func (s *Service) record(status, latencyMs int) {
	if s.recorder != nil {
		s.recorder.Record(Module, "get_stats", status, latencyMs)
	}
}
