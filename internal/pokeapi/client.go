// Package pokeapi fetches pokemon resources from PokeAPI.
package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/your-username/poke-search-api/internal/cache"
	"github.com/your-username/poke-search-api/internal/logger"
	"github.com/your-username/poke-search-api/internal/models"
	"github.com/your-username/poke-search-api/internal/monitoring"
)

const (
	// Module labels the client's request-log lines and monitor records
	Module = "PokeAPI"

	DefaultBaseURL = "https://pokeapi.co/api/v2/pokemon/"
)

// ErrNotFound is matched by a StatusError carrying 404
var ErrNotFound = errors.New("pokemon not found")

// StatusError is a non-200 answer from PokeAPI
type StatusError struct {
	StatusCode int
	Name       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("pokeapi returned %d for %q", e.StatusCode, e.Name)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Client is a cached PokeAPI client
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      cache.Cache
	ttl        time.Duration
	recorder   monitoring.Recorder
	log        *logger.Logger
}

// Option configures a Client
type Option func(*Client)

// WithCache caches decoded pokemon for ttl
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(cl *Client) {
		cl.cache = c
		cl.ttl = ttl
	}
}

// WithRecorder records every lookup
func WithRecorder(r monitoring.Recorder) Option {
	return func(cl *Client) { cl.recorder = r }
}

// WithLogger writes request-log lines to l
func WithLogger(l *logger.Logger) Option {
	return func(cl *Client) { cl.log = l }
}

// NewClient creates a client for baseURL; the name is appended verbatim
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the resource prefix
func (c *Client) BaseURL() string {
	return c.baseURL
}

type apiPokemon struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	BaseExperience int    `json:"base_experience"`
	Height         int    `json:"height"`
	Weight         int    `json:"weight"`
	Types          []struct {
		Type struct {
			Name string `json:"name"`
		} `json:"type"`
	} `json:"types"`
	Abilities []struct {
		Ability struct {
			Name string `json:"name"`
		} `json:"ability"`
	} `json:"abilities"`
	Sprites models.Sprites `json:"sprites"`
}

func (p apiPokemon) toModel() *models.Pokemon {
	out := &models.Pokemon{
		ID:             p.ID,
		Name:           p.Name,
		BaseExperience: p.BaseExperience,
		Height:         p.Height,
		Weight:         p.Weight,
		Types:          make([]string, 0, len(p.Types)),
		Abilities:      make([]string, 0, len(p.Abilities)),
		Sprites:        p.Sprites,
	}
	for _, t := range p.Types {
		out.Types = append(out.Types, t.Type.Name)
	}
	for _, a := range p.Abilities {
		out.Abilities = append(out.Abilities, a.Ability.Name)
	}
	return out
}

// GetPokemon fetches one pokemon by name or id
func (c *Client) GetPokemon(ctx context.Context, name string) (*models.Pokemon, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	start := c.log.Log("pokeapi", "get_pokemon", "Fetching Pokemon data", time.Time{})

	key := cache.Key("pokemon", name)
	if c.cache != nil {
		if v, ok := c.cache.Get(key); ok {
			end := c.log.Log("pokeapi", "get_pokemon", "Data served from cache", start)
			c.record(http.StatusOK, end.Sub(start))
			return v.(*models.Pokemon), nil
		}
	}

	pokemon, err := c.fetch(ctx, name)
	if err != nil {
		status := http.StatusInternalServerError
		var se *StatusError
		if errors.As(err, &se) {
			status = se.StatusCode
		}
		c.record(status, 0)
		c.log.Log("pokeapi", "get_pokemon", "Error: "+err.Error(), time.Time{})
		log.Warn().Err(err).Str("pokemon", name).Msg("PokeAPI lookup failed")
		return nil, err
	}

	if c.cache != nil {
		c.cache.Set(key, pokemon, c.ttl)
	}
	end := c.log.Log("pokeapi", "get_pokemon", "Data fetched", start)
	c.record(http.StatusOK, end.Sub(start))
	return pokemon, nil
}

func (c *Client) fetch(ctx context.Context, name string) (*models.Pokemon, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+name, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request pokeapi: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Name: name}
	}

	var raw apiPokemon
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode pokemon %q: %w", name, err)
	}
	return raw.toModel(), nil
}

func (c *Client) record(status int, elapsed time.Duration) {
	if c.recorder == nil {
		return
	}
	c.recorder.Record(Module, "get_pokemon", status, int(elapsed.Milliseconds()))
}
