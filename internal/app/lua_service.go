package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/huectl/internal/config"
	v2 "github.com/dokzlo13/huectl/internal/hue/v2"
	"github.com/dokzlo13/huectl/internal/kv"
	luart "github.com/dokzlo13/huectl/internal/lua"
)

// LuaService runs a user script, optionally bound to a bridge.
type LuaService struct {
	hue     *HueService
	Runtime *luart.Runtime
}

// NewLuaService creates a runtime. hue and store may be nil; the modules
// that need them are then unavailable to scripts.
func NewLuaService(cfg *config.Config, hue *HueService, store kv.Bucket) (*LuaService, error) {
	fallback, err := cfg.Hue.FallbackGamut()
	if err != nil {
		return nil, err
	}

	deps := luart.RuntimeDeps{
		Store:        store,
		DefaultGamut: fallback,
	}
	if hue != nil {
		deps.Network = hue.Network
		deps.Controller = hue.Controller
	}

	return &LuaService{
		hue:     hue,
		Runtime: luart.NewRuntime(deps),
	}, nil
}

// RunScript executes the script at path. When the script registered light
// event handlers, it keeps running and feeds them from the event stream
// until ctx is cancelled.
func (s *LuaService) RunScript(ctx context.Context, path string) error {
	if err := s.Runtime.LoadScript(ctx, path); err != nil {
		return err
	}
	return s.serveEvents(ctx)
}

// RunString executes inline Lua source the same way RunScript runs a file.
func (s *LuaService) RunString(ctx context.Context, src string) error {
	if err := s.Runtime.LoadString(ctx, src); err != nil {
		return err
	}
	return s.serveEvents(ctx)
}

// serveEvents feeds light events to the loaded script's handlers until ctx
// is cancelled. It returns at once when there are none.
func (s *LuaService) serveEvents(ctx context.Context) error {
	if !s.Runtime.HasEventHandlers() || s.hue == nil {
		return nil
	}

	log.Info().Msg("Script subscribed to light events, watching until interrupted")

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		s.Runtime.Run(runCtx)
		close(done)
	}()

	err := s.hue.EventStream.Run(runCtx, func(ev v2.LightEvent) {
		if err := s.Runtime.DispatchLightEvent(runCtx, ev); err != nil && !errors.Is(err, context.Canceled) {
			log.Warn().Err(err).Msg("Dropping light event")
		}
	})

	cancel()
	<-done
	return err
}

// Close closes the Lua runtime.
func (s *LuaService) Close() {
	if s.Runtime != nil {
		s.Runtime.Close()
	}
}
