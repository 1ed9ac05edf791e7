package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mtlprog/vaultstat/internal/worker"
)

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCalled bool
	}{
		{"valid token", "Bearer secret-key", http.StatusOK, true},
		{"missing header", "", http.StatusUnauthorized, false},
		{"wrong token", "Bearer wrong-key", http.StatusUnauthorized, false},
		{"malformed header", "Basic secret-key", http.StatusUnauthorized, false},
		{"bare token", "secret-key", http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			requireAuth("secret-key", next).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if called != tt.wantCalled {
				t.Errorf("next called = %v, want %v", called, tt.wantCalled)
			}
		})
	}
}

func TestRouterRefreshRequiresKey(t *testing.T) {
	poller := &mockPoller{}
	router := NewRouter(NewHandler(&mockDepositors{}, &mockAccounts{}, poller), prometheus.NewRegistry(), "secret-key")

	req := httptest.NewRequest(http.MethodPost, "/api/vaults/refresh", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status without token = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/vaults/refresh", nil)
	req.Header.Set("Authorization", "Bearer secret-key")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("status with token = %d, want 200", w.Code)
	}
	if poller.refreshes != 1 {
		t.Errorf("refreshes = %d, want 1", poller.refreshes)
	}
}

func TestRouterNoStoreOnEveryRoute(t *testing.T) {
	router := NewRouter(NewHandler(&mockDepositors{}, &mockAccounts{}, &mockPoller{}), prometheus.NewRegistry(), "")

	for _, path := range []string{"/api/depositors", "/api/vault", "/api/vaults", "/healthz", "/metrics", "/missing"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if got := w.Header().Get("Cache-Control"); got != "no-store" {
			t.Errorf("%s: Cache-Control = %q, want no-store", path, got)
		}
	}
}

func TestRouterMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "vaultstat_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	router := NewRouter(NewHandler(&mockDepositors{}, &mockAccounts{}, &mockPoller{}), reg, "")
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "vaultstat_test_total 1") {
		t.Errorf("metrics body missing counter: %s", w.Body.String())
	}
}

func TestRouterRejectsWrongMethod(t *testing.T) {
	router := NewRouter(NewHandler(&mockDepositors{}, &mockAccounts{}, &mockPoller{}), prometheus.NewRegistry(), "")

	req := httptest.NewRequest(http.MethodGet, "/api/vaults/refresh", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}

var _ VaultPoller = (*worker.VaultPoller)(nil)

func TestRouterServesPollerState(t *testing.T) {
	p := worker.NewVaultPoller(&stubCollector{}, nil, 0)
	router := NewRouter(NewHandler(&mockDepositors{}, &mockAccounts{}, p), prometheus.NewRegistry(), "")

	req := httptest.NewRequest(http.MethodGet, "/api/vaults", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	want := `{"vaults":[],"loading":true,"error":null,"updatedAt":null}`
	if got := strings.TrimSpace(w.Body.String()); got != want {
		t.Errorf("body = %s, want %s", got, want)
	}
	_ = p.Stop(context.Background())
}
