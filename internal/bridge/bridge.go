// Package bridge stores paired bridge credentials and discovers bridges on
// the local network.
package bridge

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/huectl/internal/kv"
)

// BucketName is the kv bucket holding paired bridges.
const BucketName = "bridges"

// ErrBridgeNotFound is returned when no credentials are stored for an address.
var ErrBridgeNotFound = errors.New("bridge not paired")

// Bridge holds what is needed to talk to a paired bridge.
type Bridge struct {
	Address   string    `json:"address"`
	Username  string    `json:"username"`
	ClientKey string    `json:"client_key,omitempty"`
	ID        string    `json:"id,omitempty"`
	PairedAt  time.Time `json:"paired_at"`
}

// Store persists bridges keyed by address.
type Store struct {
	bucket kv.Bucket
}

// NewStore creates a store on top of bucket.
func NewStore(bucket kv.Bucket) *Store {
	return &Store{bucket: bucket}
}

// Save stores or replaces the credentials for b.Address.
func (s *Store) Save(b Bridge) error {
	if b.Address == "" {
		return fmt.Errorf("bridge address is required")
	}
	if b.Username == "" {
		return fmt.Errorf("bridge username is required")
	}
	if b.PairedAt.IsZero() {
		b.PairedAt = time.Now().UTC()
	}

	if err := s.bucket.Store(b.Address, b, nil); err != nil {
		return err
	}

	log.Debug().Str("address", b.Address).Msg("Bridge credentials saved")
	return nil
}

// Load returns the credentials stored for address.
func (s *Store) Load(address string) (*Bridge, error) {
	var b Bridge
	ok, err := s.bucket.Load(address, &b)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBridgeNotFound, address)
	}
	return &b, nil
}

// List returns all stored bridges ordered by address.
func (s *Store) List() ([]Bridge, error) {
	keys, err := s.bucket.Keys()
	if err != nil {
		return nil, err
	}

	bridges := make([]Bridge, 0, len(keys))
	for _, key := range keys {
		b, err := s.Load(key)
		if errors.Is(err, ErrBridgeNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		bridges = append(bridges, *b)
	}
	return bridges, nil
}

// Delete forgets the credentials for address.
func (s *Store) Delete(address string) error {
	deleted, err := s.bucket.Delete(address)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: %s", ErrBridgeNotFound, address)
	}
	return nil
}

// Default returns the only stored bridge. It fails when none or several are stored.
func (s *Store) Default() (*Bridge, error) {
	bridges, err := s.List()
	if err != nil {
		return nil, err
	}
	switch len(bridges) {
	case 0:
		return nil, ErrBridgeNotFound
	case 1:
		return &bridges[0], nil
	default:
		return nil, fmt.Errorf("%d bridges paired, select one with hue.bridge", len(bridges))
	}
}
