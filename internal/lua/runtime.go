// Package lua runs user scripts against the bridge.
package lua

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"

	v2 "github.com/dokzlo13/huectl/internal/hue/v2"
	"github.com/dokzlo13/huectl/internal/lua/modules"
)

// ErrRuntimeClosed is returned when the Lua runtime is closed
var ErrRuntimeClosed = errors.New("lua runtime closed")

// LuaWork represents work to be executed on the Lua VM
// All Lua execution after the script is loaded goes through this.
type LuaWork func(ctx context.Context)

// Runtime manages the Lua VM with single-threaded execution
type Runtime struct {
	L    *lua.LState
	deps RuntimeDeps

	events *modules.EventsModule

	workQueue chan LuaWork
	closing   chan struct{}
	closeOnce sync.Once
}

// NewRuntime creates a new Lua runtime
func NewRuntime(deps RuntimeDeps) *Runtime {
	r := &Runtime{
		L:         lua.NewState(),
		deps:      deps,
		workQueue: make(chan LuaWork, 100),
		closing:   make(chan struct{}),
	}

	r.registerModules()

	return r
}

// registerModules registers all Lua modules
func (r *Runtime) registerModules() {
	r.L.PreloadModule("log", modules.NewLogModule().Loader)
	r.L.PreloadModule("utils", modules.NewUtilsModule().Loader)
	r.L.PreloadModule("color", modules.NewColorModule(r.deps.DefaultGamut, r.deps.Rand).Loader)

	if r.deps.Network != nil && r.deps.Controller != nil {
		r.L.PreloadModule("hue", modules.NewHueModule(r.deps.Network, r.deps.Controller).Loader)
		r.events = modules.NewEventsModule(r.deps.Network)
		r.L.PreloadModule("events", r.events.Loader)
	} else {
		r.L.PreloadModule("hue", unavailable("hue", "no bridge configured"))
		r.L.PreloadModule("events", unavailable("events", "no bridge configured"))
	}

	if r.deps.Store != nil {
		r.L.PreloadModule("store", modules.NewStoreModule(r.deps.Store).Loader)
	} else {
		r.L.PreloadModule("store", unavailable("store", "no database configured"))
	}
}

func unavailable(name, reason string) lua.LGFunction {
	return func(L *lua.LState) int {
		L.RaiseError("%s module is unavailable: %s", name, reason)
		return 0
	}
}

// LoadScript executes a Lua script file on the calling goroutine.
// It must be called before Run.
func (r *Runtime) LoadScript(ctx context.Context, path string) error {
	log.Info().Str("path", path).Msg("Loading Lua script")

	r.L.SetContext(ctx)
	if err := r.L.DoFile(path); err != nil {
		return fmt.Errorf("failed to execute Lua script: %w", err)
	}

	log.Debug().Msg("Lua script loaded successfully")
	return nil
}

// LoadString executes Lua source, as LoadScript does for files.
func (r *Runtime) LoadString(ctx context.Context, src string) error {
	r.L.SetContext(ctx)
	if err := r.L.DoString(src); err != nil {
		return fmt.Errorf("failed to execute Lua script: %w", err)
	}
	return nil
}

// HasEventHandlers reports whether the loaded script subscribed to light events.
func (r *Runtime) HasEventHandlers() bool {
	return r.events != nil && r.events.HasHandlers()
}

// DispatchLightEvent queues delivery of ev to the script's handlers.
func (r *Runtime) DispatchLightEvent(ctx context.Context, ev v2.LightEvent) error {
	if r.events == nil {
		return nil
	}
	return r.DoSync(ctx, func(context.Context) {
		r.events.Dispatch(r.L, ev)
	})
}

// Close signals the runtime to stop accepting new work and closes the Lua state.
func (r *Runtime) Close() {
	r.closeOnce.Do(func() {
		close(r.closing)
	})
	r.L.Close()
}

// DoSync queues work and blocks until there's space in the queue.
func (r *Runtime) DoSync(ctx context.Context, work LuaWork) error {
	if r.isClosing() {
		return ErrRuntimeClosed
	}

	select {
	case <-r.closing:
		return ErrRuntimeClosed
	case <-ctx.Done():
		return ctx.Err()
	case r.workQueue <- work:
		return nil
	}
}

// isClosing is checked first so a closed runtime never accepts work,
// even when the queue has room.
func (r *Runtime) isClosing() bool {
	select {
	case <-r.closing:
		return true
	default:
		return false
	}
}

// Run executes queued work until ctx is cancelled or the runtime is closed.
// It is the only goroutine that touches the VM after LoadScript.
func (r *Runtime) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			r.drainQueue(ctx)
			return
		case <-r.closing:
			return
		case work := <-r.workQueue:
			r.executeWork(ctx, work)
		}
	}
}

// drainQueue processes any remaining work in the queue before exiting
func (r *Runtime) drainQueue(ctx context.Context) {
	for {
		select {
		case work := <-r.workQueue:
			r.executeWork(ctx, work)
		default:
			return
		}
	}
}

// executeWork runs a single work item with panic recovery
func (r *Runtime) executeWork(ctx context.Context, work LuaWork) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().
				Interface("panic", rec).
				Msg("Lua work panicked - worker continuing")
		}
	}()
	r.L.SetContext(ctx)
	work(ctx)
}
