package color

import (
	"math"
	"math/rand/v2"
)

// WhitePoint is the D65 white point. Black has no chromaticity and converts
// to this point (clamped into the gamut).
var WhitePoint = XYPoint{0.3127, 0.3290}

// RGB is an 8-bit per channel color.
type RGB struct {
	R, G, B uint8
}

// Converter converts colors for one gamut. It holds no mutable state and
// is safe for concurrent use.
type Converter struct {
	gamut Gamut
}

// NewConverter returns a converter bound to g.
func NewConverter(g Gamut) *Converter {
	return &Converter{gamut: g}
}

// Gamut returns the gamut the converter clamps into.
func (c *Converter) Gamut() Gamut {
	return c.gamut
}

// RGBToXY returns the closest xy point the gamut can reproduce.
func (c *Converter) RGBToXY(rgb RGB) XYPoint {
	r := linearize(float64(rgb.R) / 255.0)
	g := linearize(float64(rgb.G) / 255.0)
	b := linearize(float64(rgb.B) / 255.0)

	// Wide RGB D65
	X := r*0.664511 + g*0.154324 + b*0.162028
	Y := r*0.283881 + g*0.668433 + b*0.047685
	Z := r*0.000088 + g*0.072310 + b*0.986039

	sum := X + Y + Z
	if sum == 0 {
		return clampToGamut(c.gamut, WhitePoint)
	}

	return clampToGamut(c.gamut, XYPoint{X / sum, Y / sum})
}

// HexToXY parses a hex color and converts it to xy.
func (c *Converter) HexToXY(hex string) (XYPoint, error) {
	rgb, err := HexToRGB(hex)
	if err != nil {
		return XYPoint{}, err
	}
	return c.RGBToXY(rgb), nil
}

// XYToRGB converts a chromaticity and brightness (usually 0..1) back to RGB.
// Channels are rescaled so the brightest one fits into 255, which keeps the
// hue at the expense of absolute brightness. A point with no luminance
// denominator (y <= 0 after clamping) or a non-finite bri converts to black.
func (c *Converter) XYToRGB(x, y, bri float64) RGB {
	p := clampToGamut(c.gamut, XYPoint{x, y})
	if p.Y <= 0 || math.IsNaN(bri) || math.IsInf(bri, 0) {
		return RGB{}
	}

	Y := bri
	X := (Y / p.Y) * p.X
	Z := (Y / p.Y) * (1 - p.X - p.Y)

	ch := [3]float64{
		X*1.656492 - Y*0.354851 - Z*0.255038,
		-X*0.707196 + Y*1.655397 + Z*0.036152,
		X*0.051713 - Y*0.121364 + Z*1.011530,
	}

	maxComponent := 0.0
	for i, v := range ch {
		v = math.Max(0, encode(v))
		ch[i] = v
		maxComponent = math.Max(maxComponent, v)
	}
	if maxComponent > 1 {
		for i := range ch {
			ch[i] /= maxComponent
		}
	}

	return RGB{
		R: uint8(ch[0] * 255),
		G: uint8(ch[1] * 255),
		B: uint8(ch[2] * 255),
	}
}

// XYToHex converts a chromaticity and brightness to a lowercase hex string.
func (c *Converter) XYToHex(x, y, bri float64) string {
	return RGBToHex(c.XYToRGB(x, y, bri))
}

// RandomXY returns the xy point of a random RGB color.
func (c *Converter) RandomXY(rng *rand.Rand) XYPoint {
	n := rand.IntN
	if rng != nil {
		n = rng.IntN
	}
	return c.RGBToXY(RGB{R: uint8(n(256)), G: uint8(n(256)), B: uint8(n(256))})
}

// linearize removes sRGB gamma from a channel in [0,1].
func linearize(v float64) float64 {
	if v > 0.04045 {
		return math.Pow((v+0.055)/(1.0+0.055), 2.4)
	}
	return v / 12.92
}

// encode applies sRGB gamma to a linear channel.
func encode(v float64) float64 {
	if v <= 0.0031308 {
		return 12.92 * v
	}
	return (1.0+0.055)*math.Pow(v, 1.0/2.4) - 0.055
}
