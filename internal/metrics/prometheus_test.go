package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorderCycles(t *testing.T) {
	r := New(prometheus.NewRegistry())

	r.ObserveCycle("success", 200*time.Millisecond)
	r.ObserveCycle("success", 300*time.Millisecond)
	r.ObserveCycle("failure", time.Second)

	if got := testutil.ToFloat64(r.cycles.WithLabelValues("success")); got != 2 {
		t.Errorf("success cycles = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.cycles.WithLabelValues("failure")); got != 1 {
		t.Errorf("failure cycles = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(r.cycleDuration); got != 1 {
		t.Errorf("duration series = %d, want 1", got)
	}
}

func TestRecorderVaultFailures(t *testing.T) {
	r := New(prometheus.NewRegistry())

	r.VaultFailed("alpha", "follower")
	r.VaultFailed("alpha", "follower")
	r.VaultFailed("beta", "depositors")

	expected := `
# HELP vaultstat_vault_fetch_failures_total Failed per-vault upstream fetches
# TYPE vaultstat_vault_fetch_failures_total counter
vaultstat_vault_fetch_failures_total{stage="depositors",vault="beta"} 1
vaultstat_vault_fetch_failures_total{stage="follower",vault="alpha"} 2
`
	if err := testutil.CollectAndCompare(r.vaultFailures, strings.NewReader(expected)); err != nil {
		t.Error(err)
	}
}

func TestRecorderUpstreamLatency(t *testing.T) {
	r := New(prometheus.NewRegistry())

	r.ObserveUpstream("vaultDetails", 200, 50*time.Millisecond)
	r.ObserveUpstream("vaultDetails", 503, 10*time.Millisecond)
	r.ObserveUpstream("portfolio", 0, time.Second)

	if got := testutil.CollectAndCount(r.upstreamLatency); got != 3 {
		t.Errorf("upstream series = %d, want 3", got)
	}
}

func TestNewRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)
	r.ObserveCycle("success", time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{"vaultstat_refresh_cycles_total", "vaultstat_refresh_cycle_duration_seconds"} {
		if !names[want] {
			t.Errorf("metric %s not registered", want)
		}
	}
}
