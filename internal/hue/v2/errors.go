package v2

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrLinkButtonNotPressed is returned by Authenticate until the bridge link button is pressed.
	ErrLinkButtonNotPressed = errors.New("link button not pressed")

	// ErrInvalidResourceID is returned when a resource id is not a UUID.
	ErrInvalidResourceID = errors.New("invalid resource id")

	// ErrMaxReconnectsExceeded is returned when the maximum number of reconnect attempts is exceeded.
	ErrMaxReconnectsExceeded = errors.New("max reconnects exceeded")

	// ErrStreamClosed is reported when the bridge ends an event stream session.
	ErrStreamClosed = errors.New("event stream closed by bridge")
)

// ErrorTypeLinkButtonNotPressed is the v1 pairing error type for an unpressed link button.
const ErrorTypeLinkButtonNotPressed = 101

// APIError is an error reported by the bridge.
type APIError struct {
	StatusCode   int
	Type         int
	Address      string
	Descriptions []string
}

func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString("hue api error")
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Type != 0 {
		fmt.Fprintf(&b, " type %d", e.Type)
	}
	if e.Address != "" {
		fmt.Fprintf(&b, " at %s", e.Address)
	}
	if len(e.Descriptions) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Descriptions, "; "))
	}
	return b.String()
}
