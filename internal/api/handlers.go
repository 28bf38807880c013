package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/your-username/poke-search-api/internal/images"
	"github.com/your-username/poke-search-api/internal/models"
	"github.com/your-username/poke-search-api/internal/search"
	"github.com/your-username/poke-search-api/internal/stats"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// GetPokemon returns the unified pokemon payload
func GetPokemon(svc *search.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		resp, err := svc.Pokemon(r.Context(), name)
		if err != nil {
			status := search.StatusOf(err)
			if status >= http.StatusInternalServerError {
				log.Error().Err(err).Str("pokemon", name).Msg("Failed to build pokemon response")
			}
			writeError(w, status, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// GetStats returns the stats row for a name or numeric id
func GetStats(svc *stats.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		row, err := svc.Get(chi.URLParam(r, "name"))
		if errors.Is(err, stats.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Pokemon stats not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, row)
	}
}

// ListImages returns the static URLs of a pokemon's images
func ListImages(svc *images.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		urls := svc.List(name)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"name":   strings.ToLower(name),
			"images": urls,
			"count":  len(urls),
		})
	}
}

// GetImage serves <index>.jpg of a pokemon
func GetImage(svc *images.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "image index must be a number")
			return
		}
		path, err := svc.Path(chi.URLParam(r, "name"), index)
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		http.ServeFile(w, r, path)
	}
}

// Search resolves the pokemon named in the request body
func Search(svc *search.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		resp, err := svc.Search(r.Context(), req.PokemonName)
		if err != nil {
			writeError(w, search.StatusOf(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
