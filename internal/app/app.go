// Package app wires configuration, storage and the bridge client together
// for the CLI commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/huectl/internal/bridge"
	"github.com/dokzlo13/huectl/internal/config"
	"github.com/dokzlo13/huectl/internal/db"
	v2 "github.com/dokzlo13/huectl/internal/hue/v2"
	"github.com/dokzlo13/huectl/internal/kv"
)

// ScriptBucket is the kv bucket exposed to scripts as the store module.
const ScriptBucket = "scripts"

// ErrNoBridge is returned when no bridge is configured or paired.
var ErrNoBridge = errors.New("no bridge configured: run `huectl pair` or set hue.bridge and hue.token")

// App is the container shared by CLI commands.
type App struct {
	cfg     *config.Config
	db      *db.DB
	Bridges *bridge.Store
}

// New opens the database and creates the credential store.
func New(cfg *config.Config) (*App, error) {
	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	// Script values may carry a TTL; drop the stale ones up front.
	if n, err := kv.CleanupExpired(database.DB); err != nil {
		log.Warn().Err(err).Msg("Failed to clean up expired store entries")
	} else if n > 0 {
		log.Debug().Int64("removed", n).Msg("Expired store entries removed")
	}

	return &App{
		cfg:     cfg,
		db:      database,
		Bridges: bridge.NewStore(kv.NewSQLiteBucket(database.DB, bridge.BucketName)),
	}, nil
}

// Config returns the loaded configuration.
func (a *App) Config() *config.Config {
	return a.cfg
}

// ScriptStore returns the bucket backing the Lua store module.
func (a *App) ScriptStore() kv.Bucket {
	return kv.NewSQLiteBucket(a.db.DB, ScriptBucket)
}

// Credentials resolves the bridge to talk to. An explicit token in the
// config wins; otherwise the stored pairing for hue.bridge is used, or the
// only stored pairing when hue.bridge is empty.
func (a *App) Credentials() (*bridge.Bridge, error) {
	hc := a.cfg.Hue
	if hc.Bridge != "" && hc.Token != "" {
		return &bridge.Bridge{Address: hc.Bridge, Username: hc.Token, ClientKey: hc.ClientKey}, nil
	}

	var (
		b   *bridge.Bridge
		err error
	)
	if hc.Bridge != "" {
		b, err = a.Bridges.Load(hc.Bridge)
	} else {
		b, err = a.Bridges.Default()
	}
	if errors.Is(err, bridge.ErrBridgeNotFound) {
		return nil, ErrNoBridge
	}
	return b, err
}

// Pair creates an application key on the bridge at address and stores it.
func (a *App) Pair(ctx context.Context, address string) (*bridge.Bridge, error) {
	httpClient := v2.NewHTTPClient(a.cfg.Hue.Timeout.Duration())
	creds, err := v2.Authenticate(ctx, httpClient, address, a.cfg.Hue.AppName, a.cfg.Hue.InstanceName)
	if err != nil {
		return nil, err
	}

	b := bridge.Bridge{Address: address, Username: creds.Username, ClientKey: creds.ClientKey}
	if err := a.Bridges.Save(b); err != nil {
		return nil, fmt.Errorf("paired, but failed to save credentials: %w", err)
	}

	log.Info().Str("address", address).Msg("Bridge paired")
	return a.Bridges.Load(address)
}

// Hue connects to the resolved bridge and loads its lights.
func (a *App) Hue(ctx context.Context) (*HueService, error) {
	creds, err := a.Credentials()
	if err != nil {
		return nil, err
	}

	svc, err := NewHueService(a.cfg, creds)
	if err != nil {
		return nil, err
	}
	if err := svc.Start(ctx); err != nil {
		svc.Close()
		return nil, err
	}
	return svc, nil
}

// Close releases the database.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// SignalContext creates a context that is cancelled when SIGINT or SIGTERM is received.
func SignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Warn().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	return ctx
}
