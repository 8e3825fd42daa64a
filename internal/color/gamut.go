// Package color converts between RGB and the CIE 1931 xy chromaticity
// coordinates used by Hue lights.
//
// Every light can only reproduce the colors inside its gamut, a triangle in
// xy space. Conversions to xy clamp into that triangle; conversions back to
// RGB clamp first and then normalize into the displayable range.
package color

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownGamutCode is returned for gamut codes other than "A", "B" and "C".
	ErrUnknownGamutCode = errors.New("unknown gamut code")

	// ErrUnknownModelID is returned when a model id is not in the device catalogue.
	ErrUnknownModelID = errors.New("unknown model id")

	// ErrDegenerateGamut is returned when gamut vertices do not form a triangle.
	ErrDegenerateGamut = errors.New("degenerate gamut")
)

// XYPoint is a CIE 1931 chromaticity coordinate.
type XYPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Gamut is the triangle of colors a light can reproduce.
type Gamut struct {
	Red  XYPoint `json:"red"`
	Lime XYPoint `json:"green"`
	Blue XYPoint `json:"blue"`
}

// Predefined gamuts.
var (
	// GamutA covers LivingColors Iris, Bloom, Aura and the first LightStrips.
	GamutA = Gamut{
		Red:  XYPoint{0.704, 0.296},
		Lime: XYPoint{0.2151, 0.7106},
		Blue: XYPoint{0.138, 0.08},
	}

	// GamutB covers the first generation A19 bulbs.
	GamutB = Gamut{
		Red:  XYPoint{0.675, 0.322},
		Lime: XYPoint{0.4091, 0.518},
		Blue: XYPoint{0.167, 0.04},
	}

	// GamutC covers BR30, A19 (Gen 3), Hue Go and LightStrips plus.
	GamutC = Gamut{
		Red:  XYPoint{0.692, 0.308},
		Lime: XYPoint{0.17, 0.7},
		Blue: XYPoint{0.153, 0.048},
	}
)

// gamutCodes maps one-letter gamut codes to gamuts.
var gamutCodes = map[string]Gamut{
	"A": GamutA,
	"B": GamutB,
	"C": GamutC,
}

// modelGamuts maps device model ids to their gamut code.
// See https://developers.meethue.com/develop/hue-api/supported-devices/
var modelGamuts = map[string]string{
	// Gamut A
	"LST001": "A",
	"LLC005": "A",
	"LLC006": "A",
	"LLC007": "A",
	"LLC010": "A",
	"LLC011": "A",
	"LLC012": "A",
	"LLC013": "A",
	"LLC014": "A",

	// Gamut B
	"LCT001": "B",
	"LCT002": "B",
	"LCT003": "B",
	"LCT007": "B",
	"LLM001": "B",

	// Gamut C
	"LCT010": "C",
	"LCT011": "C",
	"LCT012": "C",
	"LCT014": "C",
	"LCT015": "C",
	"LCT016": "C",
	"LLC020": "C",
	"LST002": "C",
}

// GamutFromCode returns the predefined gamut for "A", "B" or "C".
func GamutFromCode(code string) (Gamut, error) {
	g, ok := gamutCodes[code]
	if !ok {
		return Gamut{}, fmt.Errorf("%w: %q", ErrUnknownGamutCode, code)
	}
	return g, nil
}

// GamutFromModelID returns the gamut of a known device model.
func GamutFromModelID(modelID string) (Gamut, error) {
	code, ok := modelGamuts[modelID]
	if !ok {
		return Gamut{}, fmt.Errorf("%w: %q", ErrUnknownModelID, modelID)
	}
	return gamutCodes[code], nil
}

// SelectGamut accepts either a gamut code or a device model id.
func SelectGamut(modelIDOrCode string) (Gamut, error) {
	if g, err := GamutFromCode(modelIDOrCode); err == nil {
		return g, nil
	}
	return GamutFromModelID(modelIDOrCode)
}

// NewGamut builds a gamut from device-reported vertices.
func NewGamut(red, lime, blue XYPoint) (Gamut, error) {
	g := Gamut{Red: red, Lime: lime, Blue: blue}
	if g.degenerate() {
		return Gamut{}, ErrDegenerateGamut
	}
	return g, nil
}

// Vertices returns the triangle corners in red, lime, blue order.
func (g Gamut) Vertices() [3]XYPoint {
	return [3]XYPoint{g.Red, g.Lime, g.Blue}
}

func (g Gamut) degenerate() bool {
	v1 := XYPoint{g.Lime.X - g.Red.X, g.Lime.Y - g.Red.Y}
	v2 := XYPoint{g.Blue.X - g.Red.X, g.Blue.Y - g.Red.Y}
	return cross(v1, v2) == 0
}
