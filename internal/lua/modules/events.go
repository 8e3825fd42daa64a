package modules

import (
	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"

	v2 "github.com/dokzlo13/huectl/internal/hue/v2"
	"github.com/dokzlo13/huectl/internal/lights"
)

// lightHandler is a script callback for changes to one light, or all
// lights when target is empty.
type lightHandler struct {
	target string
	fn     *lua.LFunction
}

// EventsModule lets scripts react to event stream updates.
type EventsModule struct {
	network  *lights.Network
	handlers []lightHandler
}

// NewEventsModule creates an events module over network.
func NewEventsModule(network *lights.Network) *EventsModule {
	return &EventsModule{network: network}
}

// Loader is the module loader for Lua
func (m *EventsModule) Loader(L *lua.LState) int {
	mod := L.NewTable()
	L.SetField(mod, "on_light", L.NewFunction(m.onLight))
	L.Push(mod)
	return 1
}

// on_light([target,] fn) registers fn for changes of target (id or name),
// or of any light when target is omitted.
func (m *EventsModule) onLight(L *lua.LState) int {
	h := lightHandler{}
	if fn, ok := L.Get(1).(*lua.LFunction); ok {
		h.fn = fn
	} else {
		target := L.CheckString(1)
		l, err := m.network.Find(target)
		if err != nil {
			L.ArgError(1, err.Error())
		}
		h.target = l.ID
		h.fn = L.CheckFunction(2)
	}

	m.handlers = append(m.handlers, h)
	return 0
}

// HasHandlers reports whether the script registered any handler.
func (m *EventsModule) HasHandlers() bool {
	return len(m.handlers) > 0
}

// Dispatch applies ev to the network and calls matching handlers with
// the updated light. Must run on the goroutine that owns L.
func (m *EventsModule) Dispatch(L *lua.LState, ev v2.LightEvent) {
	l, ok := m.network.Apply(ev)
	if !ok {
		return
	}

	for _, h := range m.handlers {
		if h.target != "" && h.target != l.ID {
			continue
		}
		err := L.CallByParam(lua.P{Fn: h.fn, NRet: 0, Protect: true}, lightTable(L, l))
		if err != nil {
			log.Error().Err(err).Str("light", l.Name).Msg("Light event handler failed")
		}
	}
}
