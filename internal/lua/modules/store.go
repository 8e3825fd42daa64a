package modules

import (
	"time"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/dokzlo13/huectl/internal/kv"
)

// StoreModule gives scripts a persistent key-value bucket.
type StoreModule struct {
	bucket kv.Bucket
}

// NewStoreModule creates a store module backed by bucket.
func NewStoreModule(bucket kv.Bucket) *StoreModule {
	return &StoreModule{bucket: bucket}
}

// Loader is the module loader for Lua
func (m *StoreModule) Loader(L *lua.LState) int {
	mod := L.NewTable()

	L.SetField(mod, "get", L.NewFunction(m.get))
	L.SetField(mod, "set", L.NewFunction(m.set))
	L.SetField(mod, "exists", L.NewFunction(m.exists))
	L.SetField(mod, "delete", L.NewFunction(m.delete))
	L.SetField(mod, "keys", L.NewFunction(m.keys))

	L.Push(mod)
	return 1
}

// get(key) -> value | nil
func (m *StoreModule) get(L *lua.LState) int {
	key := L.CheckString(1)

	value, err := m.bucket.Get(key)
	if err != nil {
		log.Warn().Err(err).Str("bucket", m.bucket.Name()).Str("key", key).Msg("Failed to get value")
		L.Push(lua.LNil)
		return 1
	}

	L.Push(GoToLuaValue(L, value))
	return 1
}

// set(key, value, ttl_seconds?) -> true | nil, err
func (m *StoreModule) set(L *lua.LState) int {
	key := L.CheckString(1)
	value := LuaToGo(L.CheckAny(2))

	var opts *kv.StoreOptions
	if ttl := L.OptNumber(3, 0); ttl > 0 {
		opts = &kv.StoreOptions{TTL: time.Duration(float64(ttl) * float64(time.Second))}
	}

	if err := m.bucket.Store(key, value, opts); err != nil {
		return pushError(L, err)
	}
	L.Push(lua.LTrue)
	return 1
}

// exists(key) -> bool
func (m *StoreModule) exists(L *lua.LState) int {
	key := L.CheckString(1)

	ok, err := m.bucket.Exists(key)
	if err != nil {
		log.Warn().Err(err).Str("bucket", m.bucket.Name()).Str("key", key).Msg("Failed to check key")
	}
	L.Push(lua.LBool(ok))
	return 1
}

// delete(key) -> bool
func (m *StoreModule) delete(L *lua.LState) int {
	key := L.CheckString(1)

	deleted, err := m.bucket.Delete(key)
	if err != nil {
		log.Warn().Err(err).Str("bucket", m.bucket.Name()).Str("key", key).Msg("Failed to delete key")
	}
	L.Push(lua.LBool(deleted))
	return 1
}

// keys() -> {key...}
func (m *StoreModule) keys(L *lua.LState) int {
	keys, err := m.bucket.Keys()
	if err != nil {
		log.Warn().Err(err).Str("bucket", m.bucket.Name()).Msg("Failed to list keys")
	}
	L.Push(GoToLuaValue(L, keys))
	return 1
}
