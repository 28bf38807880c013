package models

// Pokemon is the subset of a PokeAPI pokemon resource the service uses
type Pokemon struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	BaseExperience int      `json:"base_experience"`
	Height         int      `json:"height"`
	Weight         int      `json:"weight"`
	Types          []string `json:"types"`
	Abilities      []string `json:"abilities"`
	Sprites        Sprites  `json:"sprites"`
}

// Sprites holds the default artwork URLs
type Sprites struct {
	FrontDefault string `json:"front_default,omitempty"`
	FrontShiny   string `json:"front_shiny,omitempty"`
}

// PokemonStats is one row of the local stats CSV
type PokemonStats struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Type1      string `json:"type1"`
	Type2      string `json:"type2,omitempty"`
	Total      int    `json:"total"`
	HP         int    `json:"hp"`
	Attack     int    `json:"attack"`
	Defense    int    `json:"defense"`
	SpAtk      int    `json:"sp_atk"`
	SpDef      int    `json:"sp_def"`
	Speed      int    `json:"speed"`
	Generation int    `json:"generation"`
	Legendary  bool   `json:"legendary"`
}

// PokemonResponse is the unified payload of the pokemon endpoint
type PokemonResponse struct {
	Name      string        `json:"name"`
	Types     []string      `json:"types"`
	Abilities []string      `json:"abilities"`
	Height    int           `json:"height"`
	Weight    int           `json:"weight"`
	Stats     *PokemonStats `json:"stats"`
	Images    []string      `json:"images"`
}

// SearchRequest is the body of a search call
type SearchRequest struct {
	PokemonName string `json:"pokemon_name"`
}

// SearchResponse is the payload of a search call
type SearchResponse struct {
	Name   string        `json:"name"`
	Stats  *PokemonStats `json:"stats"`
	Images []string      `json:"images"`
}
