package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/your-username/poke-search-api/internal/analytics"
	"github.com/your-username/poke-search-api/internal/export"
	"github.com/your-username/poke-search-api/internal/images"
	"github.com/your-username/poke-search-api/internal/monitoring"
	"github.com/your-username/poke-search-api/internal/search"
	"github.com/your-username/poke-search-api/internal/stats"
)

// Services are the dependencies of the HTTP surface
type Services struct {
	Search   *search.Service
	Stats    *stats.Service
	Images   *images.Service
	Monitor  *monitoring.Monitor
	Analyzer *analytics.Analyzer
	Metrics  *monitoring.MetricsCollector
	Health   *monitoring.HealthMonitor
}

// Mount registers every route on r and counts every request in s.Metrics.
// Global middleware must be added to r before calling Mount.
func Mount(r chi.Router, s Services) {
	reports := NewReportHandler(s.Analyzer, s.Metrics)
	exports := NewExportHandler(export.NewExporter(s.Analyzer))
	prom := monitoring.NewPrometheusExporter(s.Metrics, s.Monitor)

	r.Use(Metrics(s.Metrics))

	r.Get("/metrics", PrometheusMetrics(prom))
	r.Post("/poke/search", Search(s.Search))

	if s.Images != nil {
		r.Handle("/static/images/*", http.StripPrefix("/static/images/", http.FileServer(http.Dir(s.Images.Dir()))))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.Health.HTTPHandler())
		r.Get("/health/live", s.Health.LivenessHandler())
		r.Get("/health/ready", s.Health.ReadinessHandler())
		r.Get("/metrics", GetMetrics(s.Metrics))

		r.Get("/pokemon/{name}", GetPokemon(s.Search))
		r.Get("/stats/{name}", GetStats(s.Stats))
		r.Get("/images/{name}", ListImages(s.Images))
		r.Get("/images/{name}/{index}", GetImage(s.Images))
		r.Post("/search", Search(s.Search))

		r.Route("/monitor", func(r chi.Router) {
			r.Get("/latency", MonitorLatency(s.Monitor))
			r.Get("/availability", MonitorAvailability(s.Monitor))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/latency", reports.Latency)
			r.Get("/latency/value", reports.LatencyValue)
			r.Get("/availability", reports.Availability)
			r.Get("/availability/value", reports.AvailabilityValue)
			r.Get("/graph", reports.Graph)
			r.Get("/export", exports.ExportReport)
		})
	})
}
