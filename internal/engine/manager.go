package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// ErrUnavailable is returned when the engine is down and autostart is
// disabled.
var ErrUnavailable = errors.New("engine: not running and autostart disabled")

// Manager lazily starts the engine process. The spawn happens at most
// once per process lifetime: the first Ensure call latches its result
// and every later call returns it.
type Manager struct {
	client    *Client
	command   string
	autostart bool

	pollInterval time.Duration
	pollAttempts int

	once sync.Once
	err  error
}

// NewManager builds a manager for the engine behind client. command is
// the spawn command line; empty means re-exec the current binary with
// the "engine" argument.
func NewManager(client *Client, command string, autostart bool) *Manager {
	return &Manager{
		client:       client,
		command:      command,
		autostart:    autostart,
		pollInterval: time.Second,
		pollAttempts: 10,
	}
}

// Ensure makes sure an engine is reachable, spawning one if allowed.
// Only the first call does work; the outcome is latched for the life of
// the process so a flapping engine is never respawned per request.
func (m *Manager) Ensure(ctx context.Context) error {
	m.once.Do(func() {
		m.err = m.start(ctx)
	})
	return m.err
}

func (m *Manager) start(ctx context.Context) error {
	if m.client.Healthy(ctx) {
		log.Println("engine-manager: engine already running")
		return nil
	}
	if !m.autostart {
		return ErrUnavailable
	}

	name, args := m.commandLine()
	log.Printf("engine-manager: spawning %s %s", name, strings.Join(args, " "))

	// The engine must outlive any request context, so the spawn is not
	// context-bound.
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawn engine: %w", err)
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			log.Printf("engine-manager: engine exited: %v", err)
		}
	}()

	for attempt := 1; attempt <= m.pollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.pollInterval):
		}
		if m.client.Healthy(ctx) {
			log.Printf("engine-manager: engine up after %d poll(s)", attempt)
			return nil
		}
	}
	return fmt.Errorf("engine not healthy after %d polls", m.pollAttempts)
}

func (m *Manager) commandLine() (string, []string) {
	if m.command != "" {
		parts := strings.Fields(m.command)
		return parts[0], parts[1:]
	}
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}
	return exe, []string{"engine"}
}
