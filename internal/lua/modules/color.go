package modules

import (
	"math/rand/v2"

	lua "github.com/yuin/gopher-lua"

	"github.com/dokzlo13/huectl/internal/color"
)

// ColorModule exposes the color converter to Lua. Every function takes an
// optional trailing gamut (code "A"/"B"/"C" or a model id).
type ColorModule struct {
	fallback color.Gamut
	rng      *rand.Rand
}

// NewColorModule creates a color module. fallback is used when a script
// omits the gamut; rng may be nil.
func NewColorModule(fallback color.Gamut, rng *rand.Rand) *ColorModule {
	return &ColorModule{fallback: fallback, rng: rng}
}

// Loader is the module loader for Lua
func (m *ColorModule) Loader(L *lua.LState) int {
	mod := L.NewTable()

	L.SetField(mod, "rgb_to_xy", L.NewFunction(m.rgbToXY))
	L.SetField(mod, "hex_to_xy", L.NewFunction(m.hexToXY))
	L.SetField(mod, "xy_to_rgb", L.NewFunction(m.xyToRGB))
	L.SetField(mod, "xy_to_hex", L.NewFunction(m.xyToHex))
	L.SetField(mod, "random_xy", L.NewFunction(m.randomXY))
	L.SetField(mod, "in_gamut", L.NewFunction(m.inGamut))

	L.Push(mod)
	return 1
}

func checkChannel(L *lua.LState, idx int) uint8 {
	v := L.CheckInt(idx)
	if v < 0 || v > 255 {
		L.ArgError(idx, "channel must be in 0..255")
	}
	return uint8(v)
}

// rgb_to_xy(r, g, b, gamut?) -> x, y
func (m *ColorModule) rgbToXY(L *lua.LState) int {
	rgb := color.RGB{R: checkChannel(L, 1), G: checkChannel(L, 2), B: checkChannel(L, 3)}
	p := color.NewConverter(checkGamut(L, 4, m.fallback)).RGBToXY(rgb)

	L.Push(lua.LNumber(p.X))
	L.Push(lua.LNumber(p.Y))
	return 2
}

// hex_to_xy(hex, gamut?) -> x, y | nil, err
func (m *ColorModule) hexToXY(L *lua.LState) int {
	hex := L.CheckString(1)
	p, err := color.NewConverter(checkGamut(L, 2, m.fallback)).HexToXY(hex)
	if err != nil {
		return pushError(L, err)
	}

	L.Push(lua.LNumber(p.X))
	L.Push(lua.LNumber(p.Y))
	return 2
}

// xy_to_rgb(x, y, bri?, gamut?) -> r, g, b
func (m *ColorModule) xyToRGB(L *lua.LState) int {
	x := float64(L.CheckNumber(1))
	y := float64(L.CheckNumber(2))
	bri := float64(L.OptNumber(3, 1))

	rgb := color.NewConverter(checkGamut(L, 4, m.fallback)).XYToRGB(x, y, bri)

	L.Push(lua.LNumber(rgb.R))
	L.Push(lua.LNumber(rgb.G))
	L.Push(lua.LNumber(rgb.B))
	return 3
}

// xy_to_hex(x, y, bri?, gamut?) -> hex
func (m *ColorModule) xyToHex(L *lua.LState) int {
	x := float64(L.CheckNumber(1))
	y := float64(L.CheckNumber(2))
	bri := float64(L.OptNumber(3, 1))

	L.Push(lua.LString(color.NewConverter(checkGamut(L, 4, m.fallback)).XYToHex(x, y, bri)))
	return 1
}

// random_xy(gamut?) -> x, y
func (m *ColorModule) randomXY(L *lua.LState) int {
	p := color.NewConverter(checkGamut(L, 1, m.fallback)).RandomXY(m.rng)

	L.Push(lua.LNumber(p.X))
	L.Push(lua.LNumber(p.Y))
	return 2
}

// in_gamut(x, y, gamut?) -> bool
func (m *ColorModule) inGamut(L *lua.LState) int {
	p := color.XYPoint{X: float64(L.CheckNumber(1)), Y: float64(L.CheckNumber(2))}
	L.Push(lua.LBool(color.PointInTriangle(checkGamut(L, 3, m.fallback), p)))
	return 1
}
