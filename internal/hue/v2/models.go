package v2

import (
	"encoding/json"

	"github.com/dokzlo13/huectl/internal/color"
)

// =============================================================================
// V2 API Types (CLIP API)
// =============================================================================

// Resource types used by this client.
const (
	ResourceTypeLight  = "light"
	ResourceTypeDevice = "device"
)

// Resource is one element of the CLIP v2 "data" array.
// Raw keeps the full JSON so callers can decode the concrete type.
type Resource struct {
	ID   string          `json:"id"`
	IDV1 string          `json:"id_v1,omitempty"`
	Type string          `json:"type"`
	Raw  json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the common fields and keeps the raw payload.
func (r *Resource) UnmarshalJSON(data []byte) error {
	type plain Resource
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Resource(p)
	r.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// Decode unmarshals the raw payload into v.
func (r *Resource) Decode(v any) error {
	return json.Unmarshal(r.Raw, v)
}

// ResourceRef identifies a resource, as returned by PUT requests.
type ResourceRef struct {
	RID   string `json:"rid"`
	RType string `json:"rtype"`
}

// XY is the wire form of a chromaticity point.
type XY struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Point converts to a color.XYPoint.
func (p XY) Point() color.XYPoint {
	return color.XYPoint{X: p.X, Y: p.Y}
}

// LightColor is the color block of a light.
type LightColor struct {
	XY    XY `json:"xy"`
	Gamut *struct {
		Red   XY `json:"red"`
		Green XY `json:"green"`
		Blue  XY `json:"blue"`
	} `json:"gamut,omitempty"`
	GamutType string `json:"gamut_type,omitempty"`
}

// Light represents a Hue light (V2 API / CLIP)
type Light struct {
	ID       string       `json:"id"`
	IDV1     string       `json:"id_v1,omitempty"`
	Owner    *ResourceRef `json:"owner,omitempty"`
	Metadata struct {
		Name       string `json:"name"`
		Archetype  string `json:"archetype"`
		FixedMired int    `json:"fixed_mired,omitempty"`
	} `json:"metadata"`
	On *struct {
		On bool `json:"on"`
	} `json:"on,omitempty"`
	Dimming *struct {
		Brightness  float64 `json:"brightness"`
		MinDimLevel float64 `json:"min_dim_level,omitempty"`
	} `json:"dimming,omitempty"`
	ColorTemperature *struct {
		Mirek      *int `json:"mirek"`
		MirekValid bool `json:"mirek_valid"`
	} `json:"color_temperature,omitempty"`
	Color *LightColor `json:"color,omitempty"`
}

// Device represents the physical device that owns one or more lights.
type Device struct {
	ID          string `json:"id"`
	ProductData struct {
		ModelID     string `json:"model_id"`
		ProductName string `json:"product_name"`
	} `json:"product_data"`
	Metadata struct {
		Name string `json:"name"`
	} `json:"metadata"`
	Services []ResourceRef `json:"services"`
}

// LightUpdate is a partial light update. Nil fields are not sent.
type LightUpdate struct {
	On      *OnUpdate      `json:"on,omitempty"`
	Dimming *DimmingUpdate `json:"dimming,omitempty"`
	Color   *ColorUpdate   `json:"color,omitempty"`
}

// OnUpdate switches a light on or off.
type OnUpdate struct {
	On bool `json:"on"`
}

// DimmingUpdate sets brightness in percent.
type DimmingUpdate struct {
	Brightness float64 `json:"brightness"`
}

// ColorUpdate sets the xy color.
type ColorUpdate struct {
	XY XY `json:"xy"`
}

// Credentials are returned by a successful pairing.
type Credentials struct {
	Username  string `json:"username"`
	ClientKey string `json:"clientkey"`
}
