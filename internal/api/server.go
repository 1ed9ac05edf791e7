package api

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewServer creates an HTTP server with all routes configured.
// A nil gatherer serves the default Prometheus registry.
func NewServer(port string, handler *Handler, gatherer prometheus.Gatherer, adminAPIKey string) *http.Server {
	return &http.Server{
		Addr:         ":" + port,
		Handler:      NewRouter(handler, gatherer, adminAPIKey),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewRouter registers all routes. Every response is marked no-store.
func NewRouter(handler *Handler, gatherer prometheus.Gatherer, adminAPIKey string) http.Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/depositors", handler.GetDepositors)
	mux.HandleFunc("GET /api/vault", handler.GetVaultAccount)
	mux.HandleFunc("GET /api/vaults", handler.GetVaults)
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	refreshHandler := http.HandlerFunc(handler.RefreshVaults)
	if adminAPIKey != "" {
		mux.Handle("POST /api/vaults/refresh", requireAuth(adminAPIKey, refreshHandler))
	} else {
		slog.Warn("ADMIN_API_KEY not set, vault refresh endpoint is unprotected")
		mux.Handle("POST /api/vaults/refresh", refreshHandler)
	}

	return noStore(mux)
}

func noStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

func requireAuth(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if !strings.HasPrefix(auth, "Bearer ") || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
