// Package app wires the tracker CLI runtime: config, logging, credential
// storage, the API gateway, and the session service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"tracker/cmd/internal/apiclient"
	"tracker/cmd/internal/credstore"
	"tracker/cmd/internal/session"
	"tracker/cmd/security/vault"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// App owns every long-lived dependency of a CLI invocation.
type App struct {
	cfg Config
	log Logger

	sqlite *credstore.SQLiteStore
	store  credstore.Store
	sealed bool

	registry *prometheus.Registry
	client   *apiclient.Client
	session  *session.Service
}

// New constructs a fully wired App instance from config and logger.
func New(cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel, cfg.LogFormat)
	}

	if err := ValidateSecurityConfig(cfg); err != nil {
		return nil, err
	}

	sqlite, err := openState(cfg.StatePath)
	if err != nil {
		return nil, err
	}

	store, sealed, err := wrapSealed(context.Background(), sqlite, log)
	if err != nil {
		_ = sqlite.Close()
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := apiclient.NewMetrics(registry)

	client, err := apiclient.New(apiclient.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.APITimeout,
	}, store, log, metrics)
	if err != nil {
		_ = sqlite.Close()
		return nil, err
	}

	return &App{
		cfg:      cfg,
		log:      log,
		sqlite:   sqlite,
		store:    store,
		sealed:   sealed,
		registry: registry,
		client:   client,
		session:  session.NewService(client, store, log),
	}, nil
}

// Session exposes the session service to command handlers.
func (a *App) Session() *session.Service { return a.session }

// Client exposes the API gateway to command handlers.
func (a *App) Client() *apiclient.Client { return a.client }

// Close releases the state database.
func (a *App) Close() error {
	return a.sqlite.Close()
}

func openState(path string) (*credstore.SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("state dir: %w", err)
		}
	}
	return credstore.OpenSQLite(path)
}

// wrapSealed layers at-rest encryption over the store when a vault
// passphrase is configured. The salt is minted on first use and kept in
// the same database so every later run derives the same key.
func wrapSealed(ctx context.Context, sqlite *credstore.SQLiteStore, log Logger) (credstore.Store, bool, error) {
	pass, err := vault.PassphraseFromEnv()
	if err != nil {
		if errors.Is(err, vault.ErrPassphraseMissing) {
			return sqlite, false, nil
		}
		return nil, false, err
	}

	vcfg, err := vault.FromEnv()
	if err != nil {
		return nil, false, err
	}

	salt, err := sqlite.VaultSalt(ctx)
	if err != nil {
		return nil, false, err
	}
	if salt == nil {
		salt, err = vault.NewSalt(vcfg)
		if err != nil {
			return nil, false, err
		}
		if err := sqlite.SetVaultSalt(ctx, salt); err != nil {
			return nil, false, err
		}
	}

	v, err := vault.New(vcfg, pass, salt)
	if err != nil {
		return nil, false, err
	}

	log.Debug("credential store sealed")
	return credstore.NewSealed(sqlite, v), true, nil
}

// ServeDebug runs the local debug listener until the context is canceled.
// It exposes Prometheus metrics and a liveness probe for long-running
// invocations such as watch mode.
func (a *App) ServeDebug(ctx context.Context) error {
	if a.cfg.MetricsAddr == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	srv := &http.Server{
		Addr:              a.cfg.MetricsAddr,
		Handler:           WithRequestLogging(mux, a.log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	a.log.Info("debug listener start", "addr", a.cfg.MetricsAddr)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		a.log.Error("debug listener failed", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
