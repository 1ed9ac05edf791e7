package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/mtlprog/vaultstat/internal/domain"
	"github.com/mtlprog/vaultstat/internal/hyperliquid"
	"github.com/mtlprog/vaultstat/internal/worker"
)

// DepositorAggregator returns a vault's depositor table.
type DepositorAggregator interface {
	Aggregate(ctx context.Context, vaultAddress string) (domain.DepositorAggregationResult, error)
}

// AccountSnapshotter returns the current state of an account.
type AccountSnapshotter interface {
	Snapshot(ctx context.Context, address string) (domain.AccountSnapshot, error)
}

// VaultPoller exposes the refreshed vault set.
type VaultPoller interface {
	State() worker.State
	Refresh(ctx context.Context) (worker.State, error)
}

// Handler provides HTTP endpoints for the vault statistics API.
type Handler struct {
	depositors DepositorAggregator
	accounts   AccountSnapshotter
	poller     VaultPoller
}

// NewHandler creates a new API handler.
func NewHandler(depositors DepositorAggregator, accounts AccountSnapshotter, poller VaultPoller) *Handler {
	return &Handler{depositors: depositors, accounts: accounts, poller: poller}
}

// GetDepositors handles GET /api/depositors?vault=ADDR.
func (h *Handler) GetDepositors(w http.ResponseWriter, r *http.Request) {
	addr := strings.TrimSpace(r.URL.Query().Get("vault"))
	if addr == "" {
		writeError(w, http.StatusBadRequest, "Missing vault address")
		return
	}

	result, err := h.depositors.Aggregate(r.Context(), addr)
	if err != nil {
		writeServiceError(w, "aggregate depositors", addr, err)
		return
	}
	if !result.Found {
		writeJSON(w, http.StatusOK, map[string][]domain.DepositorRecord{"followers": {}})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetVaultAccount handles GET /api/vault?vault=ADDR.
func (h *Handler) GetVaultAccount(w http.ResponseWriter, r *http.Request) {
	addr := strings.TrimSpace(r.URL.Query().Get("vault"))
	if addr == "" {
		writeError(w, http.StatusBadRequest, "Missing vault address")
		return
	}

	snap, err := h.accounts.Snapshot(r.Context(), addr)
	if err != nil {
		writeServiceError(w, "snapshot account", addr, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// GetVaults handles GET /api/vaults.
func (h *Handler) GetVaults(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.poller.State())
}

// RefreshVaults handles POST /api/vaults/refresh.
func (h *Handler) RefreshVaults(w http.ResponseWriter, r *http.Request) {
	state, err := h.poller.Refresh(r.Context())
	if err != nil {
		if errors.Is(err, worker.ErrDisposed) {
			writeError(w, http.StatusServiceUnavailable, "poller stopped")
			return
		}
		slog.Error("failed to refresh vaults", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to refresh vaults")
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeServiceError maps service errors: invalid input is 400, upstream failures proxy
// the upstream status and everything else is 500.
func writeServiceError(w http.ResponseWriter, op, addr string, err error) {
	var upErr *hyperliquid.UpstreamError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "Missing vault address")
	case errors.As(err, &upErr):
		slog.Warn("upstream request failed", "op", op, "vault", addr, "status", upErr.StatusCode, "error", err)
		writeError(w, upErr.StatusCode, fmt.Sprintf("Hyperliquid API error: %d", upErr.StatusCode))
	default:
		slog.Error("request failed", "op", op, "vault", addr, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Warn("failed to write HTTP response body", "error", err)
		return
	}
	_, _ = w.Write([]byte("\n"))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
