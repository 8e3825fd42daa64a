package modules

import (
	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/dokzlo13/huectl/internal/color"
	"github.com/dokzlo13/huectl/internal/lights"
)

// HueModule provides light control to Lua.
type HueModule struct {
	network    *lights.Network
	controller *lights.Controller
}

// NewHueModule creates a new Hue module.
func NewHueModule(network *lights.Network, controller *lights.Controller) *HueModule {
	return &HueModule{network: network, controller: controller}
}

// Loader is the module loader for Lua
func (m *HueModule) Loader(L *lua.LState) int {
	registerLightType(L)

	mod := L.NewTable()

	L.SetField(mod, "lights", L.NewFunction(m.lights))
	L.SetField(mod, "light", L.NewFunction(m.light))
	L.SetField(mod, "on", L.NewFunction(m.on))
	L.SetField(mod, "off", L.NewFunction(m.off))
	L.SetField(mod, "brightness", L.NewFunction(m.brightness))
	L.SetField(mod, "color", L.NewFunction(m.color))
	L.SetField(mod, "rgb", L.NewFunction(m.rgb))
	L.SetField(mod, "all_on", L.NewFunction(m.allOn))
	L.SetField(mod, "all_off", L.NewFunction(m.allOff))

	L.Push(mod)
	return 1
}

// lightTable renders a light as a plain Lua table.
func lightTable(L *lua.LState, l *lights.Light) *lua.LTable {
	fields := map[string]any{
		"id":         l.ID,
		"name":       l.Name,
		"on":         l.On,
		"brightness": l.Brightness,
	}
	if l.Color != nil {
		fields["x"] = l.Color.XY.X
		fields["y"] = l.Color.XY.Y
		fields["hex"] = l.DisplayHex()
		fields["gamut"] = l.Color.GamutType
	}
	return MapToLuaTable(L, fields)
}

// lights() -> {light...} sorted by name
func (m *HueModule) lights(L *lua.LState) int {
	tbl := L.NewTable()
	for i, l := range m.network.All() {
		tbl.RawSetInt(i+1, lightTable(L, l))
	}
	L.Push(tbl)
	return 1
}

func (m *HueModule) find(L *lua.LState) (*lights.Light, error) {
	return m.network.Find(L.CheckString(1))
}

// light(target) -> hue.light | nil, err
func (m *HueModule) light(L *lua.LState) int {
	l, err := m.find(L)
	if err != nil {
		return pushError(L, err)
	}
	pushLight(L, &lightUserdata{light: l, controller: m.controller})
	return 1
}

// on(target) -> true | nil, err
func (m *HueModule) on(L *lua.LState) int {
	l, err := m.find(L)
	if err == nil {
		err = m.controller.TurnOn(stateContext(L), l)
	}
	if err != nil {
		return pushError(L, err)
	}
	L.Push(lua.LTrue)
	return 1
}

// off(target) -> true | nil, err
func (m *HueModule) off(L *lua.LState) int {
	l, err := m.find(L)
	if err == nil {
		err = m.controller.TurnOff(stateContext(L), l)
	}
	if err != nil {
		return pushError(L, err)
	}
	L.Push(lua.LTrue)
	return 1
}

// brightness(target, pct) -> true | nil, err
func (m *HueModule) brightness(L *lua.LState) int {
	pct := float64(L.CheckNumber(2))
	l, err := m.find(L)
	if err == nil {
		err = m.controller.SetBrightness(stateContext(L), l, pct)
	}
	if err != nil {
		return pushError(L, err)
	}
	L.Push(lua.LTrue)
	return 1
}

// color(target, hex) -> x, y | nil, err
func (m *HueModule) color(L *lua.LState) int {
	hex := L.CheckString(2)
	l, err := m.find(L)
	if err != nil {
		return pushError(L, err)
	}
	p, err := m.controller.SetHex(stateContext(L), l, hex)
	if err != nil {
		return pushError(L, err)
	}
	L.Push(lua.LNumber(p.X))
	L.Push(lua.LNumber(p.Y))
	return 2
}

// rgb(target, r, g, b) -> x, y | nil, err
func (m *HueModule) rgb(L *lua.LState) int {
	rgb := color.RGB{R: checkChannel(L, 2), G: checkChannel(L, 3), B: checkChannel(L, 4)}
	l, err := m.find(L)
	if err != nil {
		return pushError(L, err)
	}
	p, err := m.controller.SetRGB(stateContext(L), l, rgb)
	if err != nil {
		return pushError(L, err)
	}
	L.Push(lua.LNumber(p.X))
	L.Push(lua.LNumber(p.Y))
	return 2
}

// all_on() -> true | nil, err
func (m *HueModule) allOn(L *lua.LState) int {
	if err := m.controller.TurnOnAll(stateContext(L), m.network.All()); err != nil {
		return pushError(L, err)
	}
	L.Push(lua.LTrue)
	return 1
}

// all_off() -> true | nil, err
func (m *HueModule) allOff(L *lua.LState) int {
	if err := m.controller.TurnOffAll(stateContext(L), m.network.All()); err != nil {
		return pushError(L, err)
	}
	L.Push(lua.LTrue)
	return 1
}

// =============================================================================
// hue.light userdata
// =============================================================================

const lightTypeName = "hue.light"

type lightUserdata struct {
	light      *lights.Light
	controller *lights.Controller
}

var lightMethods = map[string]lua.LGFunction{
	// Getters
	"id":         lightGetID,
	"name":       lightGetName,
	"is_on":      lightIsOn,
	"brightness": lightGetBri,
	"hex":        lightGetHex,
	"xy":         lightGetXY,

	// Chainable setters (return self for chaining)
	"on":      lightOn,
	"off":     lightOff,
	"set_bri": lightSetBri,
	"set_hex": lightSetHex,
	"set_rgb": lightSetRGB,
	"set_xy":  lightSetXY,
}

func registerLightType(L *lua.LState) {
	mt := L.NewTypeMetatable(lightTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), lightMethods))
}

func pushLight(L *lua.LState, l *lightUserdata) {
	ud := L.NewUserData()
	ud.Value = l
	L.SetMetatable(ud, L.GetTypeMetatable(lightTypeName))
	L.Push(ud)
}

func checkLight(L *lua.LState) (*lightUserdata, *lua.LUserData) {
	ud := L.CheckUserData(1)
	if v, ok := ud.Value.(*lightUserdata); ok {
		return v, ud
	}
	L.ArgError(1, "hue.light expected")
	return nil, nil
}

// light:id() -> string
func lightGetID(L *lua.LState) int {
	l, _ := checkLight(L)
	L.Push(lua.LString(l.light.ID))
	return 1
}

// light:name() -> string
func lightGetName(L *lua.LState) int {
	l, _ := checkLight(L)
	L.Push(lua.LString(l.light.Name))
	return 1
}

// light:is_on() -> bool
func lightIsOn(L *lua.LState) int {
	l, _ := checkLight(L)
	L.Push(lua.LBool(l.light.On))
	return 1
}

// light:brightness() -> number
func lightGetBri(L *lua.LState) int {
	l, _ := checkLight(L)
	L.Push(lua.LNumber(l.light.Brightness))
	return 1
}

// light:hex() -> string | nil
func lightGetHex(L *lua.LState) int {
	l, _ := checkLight(L)
	if hex := l.light.DisplayHex(); hex != "" {
		L.Push(lua.LString(hex))
	} else {
		L.Push(lua.LNil)
	}
	return 1
}

// light:xy() -> x, y | nil
func lightGetXY(L *lua.LState) int {
	l, _ := checkLight(L)
	if l.light.Color == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(l.light.Color.XY.X))
	L.Push(lua.LNumber(l.light.Color.XY.Y))
	return 2
}

// chain runs op and logs its error; the light itself is returned either way.
func chain(L *lua.LState, op string, fn func(*lightUserdata) error) int {
	l, ud := checkLight(L)
	if err := fn(l); err != nil {
		log.Error().Err(err).Str("light", l.light.Name).Str("op", op).Msg("Light command failed")
	}
	L.Push(ud)
	return 1
}

// light:on() -> self
func lightOn(L *lua.LState) int {
	return chain(L, "on", func(l *lightUserdata) error {
		return l.controller.TurnOn(stateContext(L), l.light)
	})
}

// light:off() -> self
func lightOff(L *lua.LState) int {
	return chain(L, "off", func(l *lightUserdata) error {
		return l.controller.TurnOff(stateContext(L), l.light)
	})
}

// light:set_bri(pct) -> self
func lightSetBri(L *lua.LState) int {
	pct := float64(L.CheckNumber(2))
	return chain(L, "set_bri", func(l *lightUserdata) error {
		return l.controller.SetBrightness(stateContext(L), l.light, pct)
	})
}

// light:set_hex(hex) -> self
func lightSetHex(L *lua.LState) int {
	hex := L.CheckString(2)
	return chain(L, "set_hex", func(l *lightUserdata) error {
		_, err := l.controller.SetHex(stateContext(L), l.light, hex)
		return err
	})
}

// light:set_rgb(r, g, b) -> self
func lightSetRGB(L *lua.LState) int {
	rgb := color.RGB{R: checkChannel(L, 2), G: checkChannel(L, 3), B: checkChannel(L, 4)}
	return chain(L, "set_rgb", func(l *lightUserdata) error {
		_, err := l.controller.SetRGB(stateContext(L), l.light, rgb)
		return err
	})
}

// light:set_xy(x, y) -> self
func lightSetXY(L *lua.LState) int {
	p := color.XYPoint{X: float64(L.CheckNumber(2)), Y: float64(L.CheckNumber(3))}
	return chain(L, "set_xy", func(l *lightUserdata) error {
		_, err := l.controller.SetXY(stateContext(L), l.light, p)
		return err
	})
}
