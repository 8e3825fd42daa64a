package v2

import (
	"bufio"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// EventStreamConfig contains configuration for event stream reconnection.
type EventStreamConfig struct {
	MinBackoff    time.Duration // Minimum backoff between reconnects
	MaxBackoff    time.Duration // Maximum backoff between reconnects
	Multiplier    float64       // Backoff multiplier
	MaxReconnects int           // Max reconnect attempts, 0 = infinite
}

// LightEvent is a change to a light reported on the event stream.
// Only the fields present in the update are set.
type LightEvent struct {
	ResourceID string
	OwnerID    string
	On         *bool
	Brightness *float64
	XY         *XY
	Mirek      *int
}

// LightEventHandler receives light events in stream order.
type LightEventHandler func(LightEvent)

// EventStream listens to the Hue event stream (SSE) via V2 API.
type EventStream struct {
	v2Client   *Client
	httpClient *http.Client
	config     EventStreamConfig
}

// NewEventStreamWithConfig creates a new event stream listener with custom configuration
func NewEventStreamWithConfig(v2Client *Client, config EventStreamConfig) *EventStream {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}

	return &EventStream{
		v2Client: v2Client,
		httpClient: &http.Client{
			Transport: transport,
			// No timeout for SSE - it's a long-lived connection
		},
		config: config,
	}
}

// Run starts listening to the event stream with automatic reconnection.
// Every disconnect, including the bridge closing the stream, is followed by
// a backoff. The retry count resets once a connection is established.
// Returns ErrMaxReconnectsExceeded if max reconnects is exceeded.
func (e *EventStream) Run(ctx context.Context, handler LightEventHandler) error {
	retryCount := 0
	currentBackoff := e.config.MinBackoff

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		connected, err := e.connect(ctx, handler)
		if ctx.Err() != nil {
			return nil
		}

		if connected {
			retryCount = 0
			currentBackoff = e.config.MinBackoff
		}
		retryCount++

		if e.config.MaxReconnects > 0 && retryCount > e.config.MaxReconnects {
			log.Error().
				Int("max_reconnects", e.config.MaxReconnects).
				Msg("Event stream: max reconnects exceeded, terminating")
			return ErrMaxReconnectsExceeded
		}

		log.Warn().
			Err(err).
			Dur("backoff", currentBackoff).
			Int("retry", retryCount).
			Int("max_reconnects", e.config.MaxReconnects).
			Msg("Event stream disconnected, reconnecting")

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(currentBackoff):
		}

		nextBackoff := time.Duration(float64(currentBackoff) * e.config.Multiplier)
		if nextBackoff > e.config.MaxBackoff {
			nextBackoff = e.config.MaxBackoff
		}
		currentBackoff = nextBackoff
	}
}

// connect reads one stream session. connected reports whether the bridge
// accepted the request; err describes why the session ended.
func (e *EventStream) connect(ctx context.Context, handler LightEventHandler) (connected bool, err error) {
	url := fmt.Sprintf("https://%s/eventstream/clip/v2", e.v2Client.Address())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}

	req.Header.Set("hue-application-key", e.v2Client.Token())
	req.Header.Set("Accept", "text/event-stream")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	log.Info().Msg("Connected to Hue event stream")

	if err := ReadEvents(resp.Body, handler); err != nil {
		return true, err
	}
	return true, ErrStreamClosed
}

// ReadEvents parses a server-sent event stream and delivers light events
// until the reader is exhausted.
func ReadEvents(r io.Reader, handler LightEventHandler) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var dataBuffer strings.Builder

	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, ":") {
			continue
		}

		// Empty line marks end of event
		if line == "" {
			if dataBuffer.Len() > 0 {
				processEvent(dataBuffer.String(), handler)
				dataBuffer.Reset()
			}
			continue
		}

		if strings.HasPrefix(line, "data: ") {
			dataBuffer.WriteString(strings.TrimPrefix(line, "data: "))
		}
	}

	if dataBuffer.Len() > 0 {
		processEvent(dataBuffer.String(), handler)
	}

	return scanner.Err()
}

type streamEvent struct {
	Type string `json:"type"`
	Data []struct {
		ID    string       `json:"id"`
		Type  string       `json:"type"`
		Owner *ResourceRef `json:"owner"`
		On    *struct {
			On bool `json:"on"`
		} `json:"on"`
		Dimming *struct {
			Brightness float64 `json:"brightness"`
		} `json:"dimming"`
		Color *struct {
			XY XY `json:"xy"`
		} `json:"color"`
		ColorTemperature *struct {
			Mirek *int `json:"mirek"`
		} `json:"color_temperature"`
	} `json:"data"`
}

func processEvent(data string, handler LightEventHandler) {
	var events []streamEvent
	if err := json.Unmarshal([]byte(data), &events); err != nil {
		log.Warn().Err(err).Str("data", data).Msg("Failed to parse event")
		return
	}

	for _, event := range events {
		for _, item := range event.Data {
			if item.Type != ResourceTypeLight {
				log.Trace().
					Str("event_type", event.Type).
					Str("item_type", item.Type).
					Str("id", item.ID).
					Msg("Unhandled event type")
				continue
			}

			le := LightEvent{ResourceID: item.ID}
			if item.Owner != nil {
				le.OwnerID = item.Owner.RID
			}
			if item.On != nil {
				on := item.On.On
				le.On = &on
			}
			if item.Dimming != nil {
				bri := item.Dimming.Brightness
				le.Brightness = &bri
			}
			if item.Color != nil {
				xy := item.Color.XY
				le.XY = &xy
			}
			if item.ColorTemperature != nil && item.ColorTemperature.Mirek != nil {
				mirek := *item.ColorTemperature.Mirek
				le.Mirek = &mirek
			}

			log.Debug().
				Str("id", le.ResourceID).
				Msg("Light change event")

			handler(le)
		}
	}
}
