package search

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/your-username/poke-search-api/internal/models"
	"github.com/your-username/poke-search-api/internal/monitoring"
	"github.com/your-username/poke-search-api/internal/pokeapi"
	"github.com/your-username/poke-search-api/internal/stats"
)

type fakePokemon map[string]*models.Pokemon

func (f fakePokemon) GetPokemon(ctx context.Context, name string) (*models.Pokemon, error) {
	if p, ok := f[name]; ok {
		return p, nil
	}
	return nil, &pokeapi.StatusError{StatusCode: http.StatusNotFound, Name: name}
}

type fakeStats map[string]*models.PokemonStats

func (f fakeStats) Get(id string) (*models.PokemonStats, error) {
	if s, ok := f[id]; ok {
		return s, nil
	}
	return nil, stats.ErrNotFound
}

type fakeImages []string

func (f fakeImages) List(name string) []string { return f }

func newService(m monitoring.Recorder) *Service {
	return NewService(
		fakePokemon{
			"pikachu": {Name: "pikachu", Types: []string{"electric"}, Height: 4},
			"mew":     {Name: "mew"},
		},
		fakeStats{"pikachu": {ID: 25, Name: "Pikachu", Total: 320}},
		fakeImages{"/static/images/pikachu/0.jpg"},
		m, nil,
	)
}

func TestSearch(t *testing.T) {
	m := monitoring.NewMonitor(nil)
	resp, err := newService(m).Search(context.Background(), " pikachu ")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Name != "pikachu" || resp.Stats.Total != 320 || len(resp.Images) != 1 {
		t.Errorf("unexpected response %+v", resp)
	}

	records, _ := m.Records()
	if len(records) != 1 || records[0].Module != Module || records[0].Status != http.StatusOK {
		t.Errorf("unexpected records %+v", records)
	}
}

func TestSearchFailures(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"empty", "  ", http.StatusBadRequest},
		{"unknown upstream", "missingno", http.StatusNotFound},
		{"no stats", "mew", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := monitoring.NewMonitor(nil)
			_, err := newService(m).Search(context.Background(), tt.query)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := StatusOf(err); got != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, got)
			}
			records, _ := m.Records()
			if len(records) != 1 || records[0].Status != tt.status {
				t.Errorf("unexpected records %+v", records)
			}
		})
	}
}

func TestPokemon(t *testing.T) {
	resp, err := newService(nil).Pokemon(context.Background(), "pikachu")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Height != 4 || resp.Types[0] != "electric" || resp.Stats.ID != 25 {
		t.Errorf("unexpected response %+v", resp)
	}

	if _, err := newService(nil).Pokemon(context.Background(), "mew"); !errors.Is(err, stats.ErrNotFound) {
		t.Errorf("expected stats.ErrNotFound, got %v", err)
	}
}

func TestStatusOf(t *testing.T) {
	if StatusOf(errors.New("boom")) != http.StatusInternalServerError {
		t.Error("expected 500 for unknown errors")
	}
	if StatusOf(nil) != http.StatusOK {
		t.Error("expected 200 for nil")
	}
}
