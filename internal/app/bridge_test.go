package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/five82/slumber/internal/capability"
	"github.com/five82/slumber/internal/config"
	"github.com/five82/slumber/internal/device"
)

// fakeBridge serves the health bridge endpoints with switchable availability.
type fakeBridge struct {
	server *httptest.Server

	mu        sync.Mutex
	available bool
	granted   bool

	statusCalls  atomic.Int32
	recordsCalls atomic.Int32
}

func newFakeBridge(t *testing.T, available, granted bool) *fakeBridge {
	t.Helper()
	b := &fakeBridge{available: available, granted: granted}
	b.server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.server.Close)
	return b
}

func (b *fakeBridge) set(available, granted bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.available = available
	b.granted = granted
}

func (b *fakeBridge) serve(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	available, granted := b.available, b.granted
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/api/sdk/status":
		b.statusCalls.Add(1)
		status := "unavailable"
		if available {
			status = "available"
		}
		_ = json.NewEncoder(w).Encode(device.StatusResponse{Status: status})
	case "/api/sdk/initialize":
		_ = json.NewEncoder(w).Encode(device.InitializeResponse{Initialized: available})
	case "/api/permissions":
		resp := device.PermissionsResponse{}
		if granted {
			resp.Granted = []capability.Grant{{RecordType: capability.RecordSleepSession, AccessType: "read"}}
		}
		_ = json.NewEncoder(w).Encode(resp)
	case "/api/records/SleepSession":
		b.recordsCalls.Add(1)
		end := time.Now().Add(-time.Hour).UTC()
		_ = json.NewEncoder(w).Encode(device.RecordsResponse{Records: []device.SleepRecord{{
			StartTime: end.Add(-7 * time.Hour).Format(time.RFC3339),
			EndTime:   end.Format(time.RFC3339),
			Title:     "night",
		}}})
	default:
		http.NotFound(w, r)
	}
}

func newTestRuntime(t *testing.T, b *fakeBridge) *Runtime {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	cfg := config.Default()
	cfg.DeviceBind = b.server.URL
	cfg.StoragePath = filepath.Join(t.TempDir(), "state.toml")
	cfg.DeviceTimeout = time.Second
	cfg.FetchAttempts = 1
	cfg.Appearance = "dark"

	rt, err := New(context.Background(), cfg, zaptest.NewLogger(t, zaptest.Level(zap.InfoLevel)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })
	return rt
}
