package lua

import (
	"math/rand/v2"

	"github.com/dokzlo13/huectl/internal/color"
	"github.com/dokzlo13/huectl/internal/kv"
	"github.com/dokzlo13/huectl/internal/lights"
)

// RuntimeDeps groups the dependencies of the Lua runtime.
// Network and Controller are nil when no bridge is configured; the hue and
// events modules then raise an error on require. A nil Store does the same
// for the store module.
type RuntimeDeps struct {
	Network      *lights.Network
	Controller   *lights.Controller
	Store        kv.Bucket
	DefaultGamut color.Gamut
	Rand         *rand.Rand
}
