package httpapi

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/byStayo/AI-Computer-Controller/internal/auth"
	"github.com/byStayo/AI-Computer-Controller/internal/executor"
	"github.com/byStayo/AI-Computer-Controller/internal/gate"
	"github.com/byStayo/AI-Computer-Controller/internal/infrastructure/config"
	obs "github.com/byStayo/AI-Computer-Controller/internal/infrastructure/observability"
	"github.com/byStayo/AI-Computer-Controller/internal/stream"
	"github.com/byStayo/AI-Computer-Controller/internal/usecase"
)

type Deps struct {
	Cfg      config.Config
	Logger   *zerolog.Logger
	Metrics  *obs.Metrics
	Issuer   *auth.Issuer
	Svc      *usecase.SessionService
	Monitor  *MonitorHub
	Gate     *gate.Gate
	Executor executor.Executor
	Streams  *stream.Controller

	pairLimiter *rate.Limiter
	// guards the runtime-tunable stream defaults in Cfg
	settingsMu sync.RWMutex
}

func NewRouterWithDeps(d *Deps) http.Handler {
	per := d.Cfg.PairRatePerMin
	if per <= 0 {
		per = 30
	}
	d.pairLimiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(per)), per)

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	mux.Handle("/metrics", promhttp.HandlerFor(d.Metrics.Registry(), promhttp.HandlerOpts{}))

	mux.HandleFunc("/api/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"name":    "remote-gateway",
			"version": obs.Version,
			"time":    time.Now().UTC(),
		})
	})

	// Pairing entry point: unauthenticated, guarded by the rate limiter and
	// short token expiry.
	mux.HandleFunc("/pair/url", d.handlePairURL)

	// Session transport and the decoupled stream route.
	mux.HandleFunc("/ws", d.handleSessionWS)
	mux.HandleFunc("/stream", d.handleStream)

	// Read-only session registry.
	mux.HandleFunc("/api/sessions", d.handleListSessions)
	mux.HandleFunc("/api/sessions/", d.handleSessionByID)

	// Runtime stream tuning.
	mux.HandleFunc("/api/settings", d.handleSettings)

	// Ops monitor WS.
	mux.HandleFunc("/api/monitor/ws", d.Monitor.HandleWS)

	return withCORS(d.Cfg, mux)
}

func withCORS(cfg config.Config, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", cfg.CORSAllowOrigin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// streamConfig snapshots the current defaults for a newly started producer.
func (d *Deps) streamConfig() stream.Config {
	d.settingsMu.RLock()
	defer d.settingsMu.RUnlock()
	return stream.Config{
		FPS:     d.Cfg.StreamFPS,
		Quality: d.Cfg.StreamQuality,
		Width:   d.Cfg.StreamWidth,
		Height:  d.Cfg.StreamHeight,
	}
}
