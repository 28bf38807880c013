package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/your-username/poke-search-api/internal/analytics"
	"github.com/your-username/poke-search-api/internal/graph"
	"github.com/your-username/poke-search-api/internal/logger"
)

type Config struct {
	Server    ServerConfig
	Logging   LoggingConfig
	Data      DataConfig
	PokeAPI   PokeAPIConfig
	Analytics AnalyticsConfig
}

type ServerConfig struct {
	Port        string
	CORSOrigins []string
}

type LoggingConfig struct {
	Level string
	Dir   string
	File  string
}

type DataConfig struct {
	StatsCSV  string
	ImagesDir string
}

type PokeAPIConfig struct {
	BaseURL   string
	Timeout   time.Duration
	CacheSize int
	CacheTTL  time.Duration
}

type AnalyticsConfig struct {
	GraphHeight    int
	PreciseScaling bool
	DayKeyWithYear bool
}

func Load() *Config {
	logDir := getEnv("LOG_DIR", "logs")

	return &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8000"),
			CORSOrigins: getEnvList("CORS_ORIGINS", []string{"*"}),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			Dir:   logDir,
			File:  getEnv("LOG_FILE", filepath.Join(logDir, logger.DefaultFile)),
		},
		Data: DataConfig{
			StatsCSV:  getEnv("STATS_CSV", "data/pokemon_stats.csv"),
			ImagesDir: getEnv("IMAGES_DIR", "images"),
		},
		PokeAPI: PokeAPIConfig{
			BaseURL:   getEnv("POKEAPI_URL", "https://pokeapi.co/api/v2/pokemon/"),
			Timeout:   getEnvDuration("POKEAPI_TIMEOUT", 10*time.Second),
			CacheSize: getEnvInt("CACHE_SIZE", 256),
			CacheTTL:  getEnvDuration("CACHE_TTL", 10*time.Minute),
		},
		Analytics: AnalyticsConfig{
			GraphHeight:    getEnvInt("GRAPH_HEIGHT", graph.DefaultHeight),
			PreciseScaling: getEnvBool("GRAPH_PRECISE_SCALING", false),
			DayKeyWithYear: getEnvBool("DAY_KEY_WITH_YEAR", false),
		},
	}
}

// AnalyzerOptions converts the analytics section for analytics.New
func (c AnalyticsConfig) AnalyzerOptions() analytics.Options {
	return analytics.Options{
		DayKeyWithYear: c.DayKeyWithYear,
		GraphHeight:    c.GraphHeight,
		PreciseScaling: c.PreciseScaling,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

// accepts Go durations ("30s") or plain seconds
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
