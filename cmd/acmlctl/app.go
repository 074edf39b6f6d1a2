package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/acml/acmlctl/internal/auth"
	"github.com/acml/acmlctl/internal/communications"
	"github.com/acml/acmlctl/internal/config"
	"github.com/acml/acmlctl/internal/console"
	"github.com/acml/acmlctl/internal/education"
	"github.com/acml/acmlctl/internal/events"
	"github.com/acml/acmlctl/internal/finance"
	"github.com/acml/acmlctl/internal/gateway"
	"github.com/acml/acmlctl/internal/members"
	"github.com/acml/acmlctl/internal/metrics"
	"github.com/acml/acmlctl/internal/resources"
	"github.com/acml/acmlctl/internal/session"
	"github.com/joho/godotenv"
)

// app wires the configuration, session store, gateway, and services for
// one command invocation.
type app struct {
	cfg      *config.Config
	sessions *session.Manager
	guard    *console.Guard

	auth           *auth.Service
	members        *members.Service
	communications *communications.Service
	events         *events.Service
	finance        *finance.Service
	education      *education.Service
	resources      *resources.Service

	closers []func() error
}

// newApp builds the full environment. Callers must Close it.
func newApp() (*app, error) {
	// A local .env is optional.
	_ = godotenv.Load()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(cfg.Log.Level)}))
	slog.SetDefault(logger)

	a := &app{cfg: cfg}

	var backend session.Backend
	switch cfg.Session.Driver {
	case "memory":
		backend = session.NewMemoryBackend()
	default:
		sq, err := session.OpenSQLite(cfg.Session.Path)
		if err != nil {
			return nil, fmt.Errorf("opening session store: %w", err)
		}
		a.closers = append(a.closers, sq.Close)
		backend = sq
	}

	mgr, err := session.NewManager(backend)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.sessions = mgr
	a.guard = console.NewGuard(mgr)

	gw := gateway.New(cfg.API.BaseURL, mgr, cfg.API.Timeout)
	gw.SetMetrics(metrics.New())

	a.auth = auth.NewService(gw, mgr)
	a.members = members.NewService(gw)
	a.communications = communications.NewService(gw)
	a.events = events.NewService(gw)
	a.finance = finance.NewService(gw)
	a.education = education.NewService(gw)
	a.resources = resources.NewService(gw)

	return a, nil
}

// Close releases the session store.
func (a *app) Close() {
	for _, closer := range a.closers {
		if err := closer(); err != nil {
			slog.Warn("closing resource", "error", err)
		}
	}
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// confirm asks before a destructive action unless --yes was given.
func confirm(prompt string) bool {
	if skipConfirm {
		return true
	}
	return console.Confirm(os.Stdin, os.Stdout, prompt)
}
