package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/your-username/poke-search-api/internal/analytics"
	"github.com/your-username/poke-search-api/internal/api"
	"github.com/your-username/poke-search-api/internal/cache"
	"github.com/your-username/poke-search-api/internal/config"
	"github.com/your-username/poke-search-api/internal/images"
	"github.com/your-username/poke-search-api/internal/logger"
	"github.com/your-username/poke-search-api/internal/monitoring"
	"github.com/your-username/poke-search-api/internal/parsing"
	"github.com/your-username/poke-search-api/internal/pokeapi"
	"github.com/your-username/poke-search-api/internal/search"
	"github.com/your-username/poke-search-api/internal/stats"
)

var version = "dev"

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file found")
	}

	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("LOG_LEVEL") == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	log.Info().Str("version", version).Msg("Starting Poke/Search API")

	cfg := config.Load()

	// Request log shared by every service
	sink, err := logger.OpenSink(cfg.Logging.File, true)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open request log")
	}
	defer sink.Close()

	monitor := monitoring.NewMonitor(sink)
	metrics := monitoring.NewMetricsCollector()

	statsSvc, err := stats.Load(cfg.Data.StatsCSV, monitor, sink.Logger(stats.Module))
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Data.StatsCSV).Msg("Failed to load stats data")
	}
	imageSvc := images.NewService(cfg.Data.ImagesDir, monitor, sink.Logger(images.Module))

	memCache := cache.NewMemoryCache(cfg.PokeAPI.CacheSize, time.Minute)
	defer memCache.Close()
	pokemonCache := cache.NewStatsCache(memCache, cfg.PokeAPI.CacheSize)
	metrics.TrackCache("pokeapi", pokemonCache)
	client := pokeapi.NewClient(cfg.PokeAPI.BaseURL, cfg.PokeAPI.Timeout,
		pokeapi.WithCache(pokemonCache, cfg.PokeAPI.CacheTTL),
		pokeapi.WithRecorder(monitor),
		pokeapi.WithLogger(sink.Logger(pokeapi.Module)),
	)
	searchSvc := search.NewService(client, statsSvc, imageSvc, monitor, sink.Logger(search.Module))

	logParser := parsing.NewParser()
	analyzer := analytics.New(parsing.NewFileSource(cfg.Logging.File, logParser), cfg.Analytics.AnalyzerOptions())

	health := monitoring.NewHealthMonitor(version)
	health.RegisterChecker(monitoring.NewLogFileChecker(cfg.Logging.File, logParser))
	health.RegisterChecker(monitoring.NewPathChecker("stats_csv", cfg.Data.StatsCSV, false))
	health.RegisterChecker(monitoring.NewPathChecker("images", cfg.Data.ImagesDir, true))
	health.RegisterChecker(monitoring.NewUpstreamChecker("pokeapi", client.BaseURL(), cfg.PokeAPI.Timeout))
	health.RegisterChecker(monitoring.NewMonitorChecker(monitor))

	// Setup routes
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "X-Export-Rows"},
		MaxAge:         300,
	}))

	api.Mount(r, api.Services{
		Search:   searchSvc,
		Stats:    statsSvc,
		Images:   imageSvc,
		Monitor:  monitor,
		Analyzer: analyzer,
		Metrics:  metrics,
		Health:   health,
	})

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	// Graceful shutdown
	done := make(chan bool, 1)
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Server shutdown failed")
		}
		close(done)
	}()

	log.Info().Str("port", cfg.Server.Port).Str("log_file", cfg.Logging.File).Msg("Server started")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("Server failed to start")
	}

	<-done
	log.Info().Msg("Server stopped")
}
