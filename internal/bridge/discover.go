package bridge

import (
	"context"
	"fmt"

	"github.com/amimof/huego"
	"github.com/rs/zerolog/log"
)

// Discovered is a bridge found on the local network.
type Discovered struct {
	ID      string `json:"id"`
	Address string `json:"address"`
}

// discoverAll is swapped in tests.
var discoverAll = huego.DiscoverAllContext

// Discover lists the bridges reported by the Hue discovery service.
func Discover(ctx context.Context) ([]Discovered, error) {
	found, err := discoverAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("bridge discovery failed: %w", err)
	}

	result := make([]Discovered, 0, len(found))
	for _, b := range found {
		if b.Host == "" {
			continue
		}
		result = append(result, Discovered{ID: b.ID, Address: b.Host})
	}

	log.Debug().Int("count", len(result)).Msg("Bridges discovered")
	return result, nil
}
