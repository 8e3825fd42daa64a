// Package lights turns bridge resources into typed lights and issues
// state changes for them.
package lights

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/huectl/internal/color"
	v2 "github.com/dokzlo13/huectl/internal/hue/v2"
)

// ErrLightNotFound is returned when no light matches an id or name.
var ErrLightNotFound = errors.New("light not found")

// Light is a light resource with its color state resolved.
type Light struct {
	ID         string
	IDV1       string
	Name       string
	Archetype  string
	ModelID    string
	On         bool
	Brightness float64
	Mirek      *int

	// Color is nil when the light does not support color.
	Color *color.Color
}

// SupportsColor reports whether the light accepts xy color commands.
func (l *Light) SupportsColor() bool {
	return l.Color != nil
}

// Converter returns a converter bound to the light's gamut.
func (l *Light) Converter() (*color.Converter, error) {
	if l.Color == nil {
		return nil, fmt.Errorf("%w: %s", ErrColorUnsupported, l.Name)
	}
	return color.NewConverter(l.Color.Gamut), nil
}

// DisplayRGB returns the current color as RGB at full brightness.
func (l *Light) DisplayRGB() (color.RGB, bool) {
	if l.Color == nil {
		return color.RGB{}, false
	}
	return l.Color.RGB(), true
}

// DisplayHex returns the current color as hex, or "" for lights without color.
func (l *Light) DisplayHex() string {
	rgb, ok := l.DisplayRGB()
	if !ok {
		return ""
	}
	return color.RGBToHex(rgb)
}

// ResourceFetcher lists bridge resources.
type ResourceFetcher interface {
	FetchResources(ctx context.Context) ([]v2.Resource, error)
}

// LightGetter reads a single light from the bridge.
type LightGetter interface {
	GetLight(ctx context.Context, lightID string) (*v2.Light, error)
}

// Network indexes the lights known to a bridge.
type Network struct {
	lights   []*Light
	byID     map[string]*Light
	fallback color.Gamut
}

// Load fetches all resources and builds a network from them.
func Load(ctx context.Context, fetcher ResourceFetcher, fallback color.Gamut) (*Network, error) {
	resources, err := fetcher.FetchResources(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch resources: %w", err)
	}
	return NewNetwork(resources, fallback)
}

// NewNetwork parses lights (and their owning devices) out of resources.
// fallback is used for color lights whose gamut cannot be determined.
func NewNetwork(resources []v2.Resource, fallback color.Gamut) (*Network, error) {
	devices := make(map[string]v2.Device)
	var rawLights []v2.Light

	for i := range resources {
		switch resources[i].Type {
		case v2.ResourceTypeDevice:
			var d v2.Device
			if err := resources[i].Decode(&d); err != nil {
				return nil, fmt.Errorf("failed to decode device %s: %w", resources[i].ID, err)
			}
			devices[d.ID] = d
		case v2.ResourceTypeLight:
			var l v2.Light
			if err := resources[i].Decode(&l); err != nil {
				return nil, fmt.Errorf("failed to decode light %s: %w", resources[i].ID, err)
			}
			rawLights = append(rawLights, l)
		}
	}

	n := &Network{
		lights:   make([]*Light, 0, len(rawLights)),
		byID:     make(map[string]*Light, len(rawLights)),
		fallback: fallback,
	}

	for _, raw := range rawLights {
		var modelID string
		if raw.Owner != nil {
			modelID = devices[raw.Owner.RID].ProductData.ModelID
		}

		light := newLight(raw, modelID, fallback)
		n.lights = append(n.lights, light)
		n.byID[light.ID] = light
	}

	n.sort()

	log.Debug().
		Int("lights", len(n.lights)).
		Int("devices", len(devices)).
		Msg("Network parsed")

	return n, nil
}

func (n *Network) sort() {
	sort.SliceStable(n.lights, func(i, j int) bool {
		return strings.ToLower(n.lights[i].Name) < strings.ToLower(n.lights[j].Name)
	})
}

func newLight(raw v2.Light, modelID string, fallback color.Gamut) *Light {
	l := &Light{
		ID:        raw.ID,
		IDV1:      raw.IDV1,
		Name:      raw.Metadata.Name,
		Archetype: raw.Metadata.Archetype,
		ModelID:   modelID,
	}
	if raw.On != nil {
		l.On = raw.On.On
	}
	if raw.Dimming != nil {
		l.Brightness = raw.Dimming.Brightness
	}
	if raw.ColorTemperature != nil && raw.ColorTemperature.MirekValid {
		l.Mirek = raw.ColorTemperature.Mirek
	}
	if raw.Color != nil {
		l.Color = &color.Color{
			XY:        raw.Color.XY.Point(),
			Gamut:     resolveGamut(raw.Color, modelID, fallback),
			GamutType: raw.Color.GamutType,
		}
	}
	return l
}

// resolveGamut picks the gamut for a color light: the reported gamut class,
// then the device catalogue, then the reported triangle, then fallback.
func resolveGamut(c *v2.LightColor, modelID string, fallback color.Gamut) color.Gamut {
	if g, err := color.GamutFromCode(c.GamutType); err == nil {
		return g
	}
	if g, err := color.GamutFromModelID(modelID); err == nil {
		return g
	}
	if c.Gamut != nil {
		g, err := color.NewGamut(c.Gamut.Red.Point(), c.Gamut.Green.Point(), c.Gamut.Blue.Point())
		if err == nil {
			return g
		}
		log.Warn().Err(err).Str("model", modelID).Msg("Ignoring reported gamut")
	}
	return fallback
}

// All returns the lights sorted by name.
func (n *Network) All() []*Light {
	result := make([]*Light, len(n.lights))
	copy(result, n.lights)
	return result
}

// Len returns the number of lights.
func (n *Network) Len() int {
	return len(n.lights)
}

// LightByID returns the light with the given resource id.
func (n *Network) LightByID(id string) (*Light, bool) {
	l, ok := n.byID[id]
	return l, ok
}

// LightByName returns the first light whose name matches, ignoring case.
func (n *Network) LightByName(name string) (*Light, bool) {
	for _, l := range n.lights {
		if strings.EqualFold(l.Name, name) {
			return l, true
		}
	}
	return nil, false
}

// Find looks a light up by id when target is a UUID, by name otherwise.
func (n *Network) Find(target string) (*Light, error) {
	if _, err := uuid.Parse(target); err == nil {
		if l, ok := n.LightByID(target); ok {
			return l, nil
		}
	} else if l, ok := n.LightByName(target); ok {
		return l, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrLightNotFound, target)
}

// Apply folds an event stream update into the matching light.
// It returns false for lights the network does not know.
func (n *Network) Apply(ev v2.LightEvent) (*Light, bool) {
	l, ok := n.byID[ev.ResourceID]
	if !ok {
		return nil, false
	}
	if ev.On != nil {
		l.On = *ev.On
	}
	if ev.Brightness != nil {
		l.Brightness = *ev.Brightness
	}
	if ev.XY != nil && l.Color != nil {
		l.Color.XY = ev.XY.Point()
	}
	if ev.Mirek != nil {
		mirek := *ev.Mirek
		l.Mirek = &mirek
	}
	return l, true
}

// Refresh re-reads l from the bridge and updates it in place. The device
// model id is not part of the light resource and is kept.
func (n *Network) Refresh(ctx context.Context, getter LightGetter, l *Light) error {
	raw, err := getter.GetLight(ctx, l.ID)
	if err != nil {
		return fmt.Errorf("failed to refresh %s: %w", l.Name, err)
	}

	renamed := raw.Metadata.Name != l.Name
	*l = *newLight(*raw, l.ModelID, n.fallback)
	if renamed {
		n.sort()
	}
	return nil
}
