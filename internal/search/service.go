// Package search joins PokeAPI data with the local stats and images.
package search

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/your-username/poke-search-api/internal/logger"
	"github.com/your-username/poke-search-api/internal/models"
	"github.com/your-username/poke-search-api/internal/monitoring"
	"github.com/your-username/poke-search-api/internal/pokeapi"
	"github.com/your-username/poke-search-api/internal/stats"
)

// Module labels the service's request-log lines and monitor records
const Module = "PokeSearch"

var ErrEmptyName = errors.New("pokemon name is required")

// PokemonSource fetches upstream pokemon data
type PokemonSource interface {
	GetPokemon(ctx context.Context, name string) (*models.Pokemon, error)
}

// StatsSource looks up local stats
type StatsSource interface {
	Get(identifier string) (*models.PokemonStats, error)
}

// ImageSource lists local image URLs
type ImageSource interface {
	List(name string) []string
}

// Service combines the three sources
type Service struct {
	pokemon  PokemonSource
	stats    StatsSource
	images   ImageSource
	recorder monitoring.Recorder
	log      *logger.Logger
}

// NewService creates a search service
func NewService(p PokemonSource, s StatsSource, i ImageSource, recorder monitoring.Recorder, l *logger.Logger) *Service {
	if l == nil {
		l = logger.Nop()
	}
	return &Service{pokemon: p, stats: s, images: i, recorder: recorder, log: l}
}

// Pokemon builds the unified response: upstream data, local stats, image URLs
func (s *Service) Pokemon(ctx context.Context, name string) (*models.PokemonResponse, error) {
	p, st, err := s.lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	return &models.PokemonResponse{
		Name:      p.Name,
		Types:     p.Types,
		Abilities: p.Abilities,
		Height:    p.Height,
		Weight:    p.Weight,
		Stats:     st,
		Images:    s.images.List(name),
	}, nil
}

// Search resolves a pokemon by name and records the outcome
func (s *Service) Search(ctx context.Context, name string) (*models.SearchResponse, error) {
	name = strings.TrimSpace(name)
	start := s.log.Log("search", "search_pokemon", "Searching for "+name, time.Time{})

	if name == "" {
		s.record(http.StatusBadRequest, 0)
		return nil, ErrEmptyName
	}

	p, st, err := s.lookup(ctx, name)
	if err != nil {
		s.record(StatusOf(err), 0)
		s.log.Log("search", "search_pokemon", "Error: "+err.Error(), time.Time{})
		return nil, err
	}

	resp := &models.SearchResponse{
		Name:   p.Name,
		Stats:  st,
		Images: s.images.List(name),
	}

	end := s.log.Log("search", "search_pokemon", "Search completed", start)
	s.record(http.StatusOK, int(end.Sub(start).Milliseconds()))
	return resp, nil
}

func (s *Service) lookup(ctx context.Context, name string) (*models.Pokemon, *models.PokemonStats, error) {
	p, err := s.pokemon.GetPokemon(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	st, err := s.stats.Get(name)
	if err != nil {
		return nil, nil, err
	}
	return p, st, nil
}

// StatusOf maps a lookup failure to the HTTP status reported for it
func StatusOf(err error) int {
	var se *pokeapi.StatusError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrEmptyName):
		return http.StatusBadRequest
	case errors.Is(err, stats.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &se):
		return se.StatusCode
	default:
		return http.StatusInternalServerError
	}
}

func (s *Service) record(status, latencyMs int) {
	if s.recorder != nil {
		s.recorder.Record(Module, "search_pokemon", status, latencyMs)
	}
}
