package lights

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/huectl/internal/color"
	v2 "github.com/dokzlo13/huectl/internal/hue/v2"
)

// ErrColorUnsupported is returned when a color command targets a light without color.
var ErrColorUnsupported = errors.New("light does not support color")

// Updater applies partial light updates.
type Updater interface {
	UpdateLight(ctx context.Context, lightID string, update v2.LightUpdate) error
}

// Controller issues state changes and mirrors them onto the local Light.
type Controller struct {
	client Updater
}

// NewController creates a controller that sends updates through client.
func NewController(client Updater) *Controller {
	return &Controller{client: client}
}

// TurnOn switches a light on.
func (c *Controller) TurnOn(ctx context.Context, l *Light) error {
	if err := c.client.UpdateLight(ctx, l.ID, v2.LightUpdate{On: &v2.OnUpdate{On: true}}); err != nil {
		return fmt.Errorf("failed to turn on %s: %w", l.Name, err)
	}
	l.On = true
	return nil
}

// TurnOff switches a light off.
func (c *Controller) TurnOff(ctx context.Context, l *Light) error {
	if err := c.client.UpdateLight(ctx, l.ID, v2.LightUpdate{On: &v2.OnUpdate{On: false}}); err != nil {
		return fmt.Errorf("failed to turn off %s: %w", l.Name, err)
	}
	l.On = false
	return nil
}

// SetBrightness sets brightness in percent, clamped to [0, 100]. The bridge
// maps 0 to the lowest level the light can dim to.
func (c *Controller) SetBrightness(ctx context.Context, l *Light, brightness float64) error {
	brightness = max(0, min(100, brightness))

	update := v2.LightUpdate{Dimming: &v2.DimmingUpdate{Brightness: brightness}}
	if err := c.client.UpdateLight(ctx, l.ID, update); err != nil {
		return fmt.Errorf("failed to set brightness of %s: %w", l.Name, err)
	}
	l.Brightness = brightness
	return nil
}

// SetXY sends a chromaticity, clamped into the light's gamut.
func (c *Controller) SetXY(ctx context.Context, l *Light, p color.XYPoint) (color.XYPoint, error) {
	conv, err := l.Converter()
	if err != nil {
		return color.XYPoint{}, err
	}
	if !color.PointInTriangle(conv.Gamut(), p) {
		p = color.ClosestPointOnTriangleBoundary(conv.Gamut(), p)
	}
	return p, c.sendXY(ctx, l, p)
}

// SetRGB converts rgb with the light's gamut and sends it.
func (c *Controller) SetRGB(ctx context.Context, l *Light, rgb color.RGB) (color.XYPoint, error) {
	conv, err := l.Converter()
	if err != nil {
		return color.XYPoint{}, err
	}
	p := conv.RGBToXY(rgb)
	return p, c.sendXY(ctx, l, p)
}

// SetHex parses a hex color and sends it.
func (c *Controller) SetHex(ctx context.Context, l *Light, hex string) (color.XYPoint, error) {
	rgb, err := color.HexToRGB(hex)
	if err != nil {
		return color.XYPoint{}, err
	}
	return c.SetRGB(ctx, l, rgb)
}

func (c *Controller) sendXY(ctx context.Context, l *Light, p color.XYPoint) error {
	update := v2.LightUpdate{Color: &v2.ColorUpdate{XY: v2.XY{X: p.X, Y: p.Y}}}
	if err := c.client.UpdateLight(ctx, l.ID, update); err != nil {
		return fmt.Errorf("failed to set color of %s: %w", l.Name, err)
	}
	l.Color.XY = p

	log.Debug().
		Str("light", l.Name).
		Float64("x", p.X).
		Float64("y", p.Y).
		Msg("Color set")
	return nil
}

// TurnOnAll switches every light on, continuing past failures.
func (c *Controller) TurnOnAll(ctx context.Context, lights []*Light) error {
	var errs []error
	for _, l := range lights {
		if err := c.TurnOn(ctx, l); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// TurnOffAll switches every light off, continuing past failures.
func (c *Controller) TurnOffAll(ctx context.Context, lights []*Light) error {
	var errs []error
	for _, l := range lights {
		if err := c.TurnOff(ctx, l); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
