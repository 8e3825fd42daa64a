package modules

import (
	"time"

	lua "github.com/yuin/gopher-lua"
)

// UtilsModule provides utility functions to Lua
type UtilsModule struct{}

// NewUtilsModule creates a new utils module
func NewUtilsModule() *UtilsModule {
	return &UtilsModule{}
}

// Loader is the module loader for Lua
func (m *UtilsModule) Loader(L *lua.LState) int {
	mod := L.NewTable()

	L.SetField(mod, "sleep", L.NewFunction(m.sleep))

	L.Push(mod)
	return 1
}

// sleep(ms) -> bool
// Returns false when the run was interrupted before the delay elapsed.
func (m *UtilsModule) sleep(L *lua.LState) int {
	ms := L.CheckInt(1)
	if ms < 0 {
		L.ArgError(1, "delay must not be negative")
	}

	timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
	defer timer.Stop()

	select {
	case <-stateContext(L).Done():
		L.Push(lua.LFalse)
	case <-timer.C:
		L.Push(lua.LTrue)
	}
	return 1
}
