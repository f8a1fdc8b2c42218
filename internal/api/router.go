package api

import (
	"net/http"
	"time"

	"github.com/Harshitk-cp/arbiter/internal/api/handlers"
	mw "github.com/Harshitk-cp/arbiter/internal/api/middleware"
	"github.com/Harshitk-cp/arbiter/internal/config"
	"github.com/Harshitk-cp/arbiter/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the analysis API router.
type App struct {
	Router    *chi.Mux
	startTime time.Time
}

// NewApp wires the snapshot reader into the read-only analysis API.
func NewApp(reader domain.SnapshotReader, logger *zap.Logger) *App {
	app := &App{startTime: time.Now()}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(mw.RequestID)
	r.Use(mw.Logging(logger))
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", app.health)

	// The file store cannot answer similarity queries; the handler
	// reports 501 when the assertion fails.
	searcher, _ := reader.(domain.SimilarAgentSearcher)

	snapshots := handlers.NewSnapshotHandler(reader, searcher)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/snapshots", snapshots.List)
		r.Get("/snapshots/{name}", snapshots.Get)
		r.Get("/snapshots/{name}/summary", snapshots.Summary)
		r.Get("/snapshots/{name}/agents/{index}/similar", snapshots.SimilarAgents)
	})

	app.Router = r
	return app
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok","uptime":"` + time.Since(a.startTime).Round(time.Second).String() + `"}`))
}
