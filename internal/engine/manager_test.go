package engine

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestManager(baseURL string, autostart bool) *Manager {
	// "true" exits immediately, so spawns succeed without leaving a
	// process behind.
	m := NewManager(NewClient(baseURL), "true", autostart)
	m.pollInterval = time.Millisecond
	m.pollAttempts = 3
	return m
}

func TestEnsure_AlreadyHealthy(t *testing.T) {
	var probes atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		probes.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	m := newTestManager(server.URL, false)
	if err := m.Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure returned error: %v", err)
	}
	if got := probes.Load(); got != 1 {
		t.Errorf("probes = %d, want 1", got)
	}
}

func TestEnsure_DownWithoutAutostart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	m := newTestManager(server.URL, false)
	if err := m.Ensure(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestEnsure_SpawnThenHealthy(t *testing.T) {
	var probes atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Down on the pre-spawn probe, up from the first poll on.
		if probes.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	m := newTestManager(server.URL, true)
	if err := m.Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure returned error: %v", err)
	}
}

func TestEnsure_GivesUpAfterPolls(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	m := newTestManager(server.URL, true)
	err := m.Ensure(context.Background())
	if err == nil {
		t.Fatal("Ensure should fail when the engine never comes up")
	}
}

func TestEnsure_SpawnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	m := NewManager(NewClient(server.URL), "/nonexistent-binary-for-test", true)
	m.pollInterval = time.Millisecond
	m.pollAttempts = 1

	if err := m.Ensure(context.Background()); err == nil {
		t.Fatal("Ensure should surface the spawn failure")
	}
}

func TestEnsure_LatchesResult(t *testing.T) {
	var probes atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		probes.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	m := newTestManager(server.URL, false)

	first := m.Ensure(context.Background())
	probesAfterFirst := probes.Load()

	// Concurrent and repeated calls must not re-run the start sequence.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := m.Ensure(context.Background()); !errors.Is(err, first) {
				t.Errorf("latched err = %v, want %v", err, first)
			}
		}()
	}
	wg.Wait()

	if got := probes.Load(); got != probesAfterFirst {
		t.Errorf("probes after repeat calls = %d, want %d", got, probesAfterFirst)
	}
}
