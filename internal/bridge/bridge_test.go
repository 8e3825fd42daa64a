package bridge

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/amimof/huego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dokzlo13/huectl/internal/db"
	"github.com/dokzlo13/huectl/internal/kv"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "bridges.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return NewStore(kv.NewSQLiteBucket(database.DB, BucketName))
}

func TestStore_SaveLoad(t *testing.T) {
	s := newTestStore(t)
	paired := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.Save(Bridge{
		Address:   "192.168.1.10",
		Username:  "user",
		ClientKey: "KEY",
		ID:        "001788fffe000001",
		PairedAt:  paired,
	}))

	b, err := s.Load("192.168.1.10")
	require.NoError(t, err)
	assert.Equal(t, "user", b.Username)
	assert.Equal(t, "KEY", b.ClientKey)
	assert.Equal(t, "001788fffe000001", b.ID)
	assert.True(t, paired.Equal(b.PairedAt))
}

func TestStore_SaveSetsPairedAt(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(Bridge{Address: "a", Username: "u"}))

	b, err := s.Load("a")
	require.NoError(t, err)
	assert.False(t, b.PairedAt.IsZero())
}

func TestStore_SaveValidates(t *testing.T) {
	s := newTestStore(t)
	assert.Error(t, s.Save(Bridge{Username: "u"}))
	assert.Error(t, s.Save(Bridge{Address: "a"}))
}

func TestStore_LoadMissing(t *testing.T) {
	_, err := newTestStore(t).Load("10.0.0.1")
	assert.ErrorIs(t, err, ErrBridgeNotFound)
}

func TestStore_ListDeleteDefault(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Default()
	assert.ErrorIs(t, err, ErrBridgeNotFound)

	require.NoError(t, s.Save(Bridge{Address: "10.0.0.2", Username: "b"}))
	d, err := s.Default()
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.2", d.Address)

	require.NoError(t, s.Save(Bridge{Address: "10.0.0.1", Username: "a"}))
	_, err = s.Default()
	assert.Error(t, err)

	all, err := s.List()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "10.0.0.1", all[0].Address)
	assert.Equal(t, "10.0.0.2", all[1].Address)

	require.NoError(t, s.Delete("10.0.0.1"))
	assert.ErrorIs(t, s.Delete("10.0.0.1"), ErrBridgeNotFound)

	all, err = s.List()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDiscover(t *testing.T) {
	orig := discoverAll
	t.Cleanup(func() { discoverAll = orig })

	discoverAll = func(context.Context) ([]huego.Bridge, error) {
		return []huego.Bridge{
			{Host: "192.168.1.10", ID: "001788fffe000001"},
			{Host: "", ID: "no-address"},
		}, nil
	}

	found, err := Discover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Discovered{{ID: "001788fffe000001", Address: "192.168.1.10"}}, found)

	boom := errors.New("offline")
	discoverAll = func(context.Context) ([]huego.Bridge, error) { return nil, boom }
	_, err = Discover(context.Background())
	assert.ErrorIs(t, err, boom)
}
