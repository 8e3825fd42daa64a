package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/huectl/internal/bridge"
	"github.com/dokzlo13/huectl/internal/color"
	"github.com/dokzlo13/huectl/internal/config"
	v2 "github.com/dokzlo13/huectl/internal/hue/v2"
	"github.com/dokzlo13/huectl/internal/lights"
)

// HueService wraps the bridge client, the light network and the event stream.
type HueService struct {
	cfg      *config.Config
	fallback color.Gamut

	Client      *v2.Client
	EventStream *v2.EventStream
	Network     *lights.Network
	Controller  *lights.Controller
}

// NewHueService creates a HueService for creds without connecting.
func NewHueService(cfg *config.Config, creds *bridge.Bridge) (*HueService, error) {
	fallback, err := cfg.Hue.FallbackGamut()
	if err != nil {
		return nil, err
	}

	client := v2.NewClient(
		creds.Address,
		creds.Username,
		v2.NewHTTPClient(cfg.Hue.Timeout.Duration()),
		cfg.Hue.RateLimitRPS,
	)

	eventStream := v2.NewEventStreamWithConfig(client, v2.EventStreamConfig{
		MinBackoff:    cfg.Hue.MinRetryBackoff.Duration(),
		MaxBackoff:    cfg.Hue.MaxRetryBackoff.Duration(),
		Multiplier:    cfg.Hue.RetryMultiplier,
		MaxReconnects: cfg.Hue.MaxReconnects,
	})

	return &HueService{
		cfg:         cfg,
		fallback:    fallback,
		Client:      client,
		EventStream: eventStream,
		Controller:  lights.NewController(client),
	}, nil
}

// Start loads the bridge's lights.
func (s *HueService) Start(ctx context.Context) error {
	network, err := lights.Load(ctx, s.Client, s.fallback)
	if err != nil {
		return err
	}
	s.Network = network

	log.Debug().
		Str("bridge", s.Client.Address()).
		Int("lights", network.Len()).
		Msg("Connected to Hue bridge")
	return nil
}

// Watch streams light changes into the network and on to handler until ctx
// is cancelled. handler sees the light after the change was applied.
func (s *HueService) Watch(ctx context.Context, handler func(*lights.Light, v2.LightEvent)) error {
	err := s.EventStream.Run(ctx, func(ev v2.LightEvent) {
		l, ok := s.Network.Apply(ev)
		if !ok {
			log.Debug().Str("id", ev.ResourceID).Msg("Event for unknown light")
			return
		}
		handler(l, ev)
	})
	if errors.Is(err, v2.ErrMaxReconnectsExceeded) {
		log.Error().Msg("Event stream: max reconnects exceeded")
	}
	return err
}

// Close releases the client.
func (s *HueService) Close() {
	if s.Client != nil {
		s.Client.Close()
	}
}
