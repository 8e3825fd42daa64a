package lights

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dokzlo13/huectl/internal/color"
	v2 "github.com/dokzlo13/huectl/internal/hue/v2"
)

type sentUpdate struct {
	id     string
	update v2.LightUpdate
}

// recordingUpdater captures updates and fails for ids listed in fail.
type recordingUpdater struct {
	mu   sync.Mutex
	sent []sentUpdate
	fail map[string]error
}

func (r *recordingUpdater) UpdateLight(_ context.Context, id string, update v2.LightUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail[id]; err != nil {
		return err
	}
	r.sent = append(r.sent, sentUpdate{id: id, update: update})
	return nil
}

func colorLight(g color.Gamut) *Light {
	return &Light{
		ID:    deskID,
		Name:  "Desk",
		Color: &color.Color{XY: color.WhitePoint, Gamut: g},
	}
}

func TestController_OnOff(t *testing.T) {
	rec := &recordingUpdater{}
	c := NewController(rec)
	l := colorLight(color.GamutB)
	ctx := context.Background()

	require.NoError(t, c.TurnOn(ctx, l))
	assert.True(t, l.On)
	require.NoError(t, c.TurnOff(ctx, l))
	assert.False(t, l.On)

	require.Len(t, rec.sent, 2)
	assert.Equal(t, v2.LightUpdate{On: &v2.OnUpdate{On: true}}, rec.sent[0].update)
	assert.Equal(t, v2.LightUpdate{On: &v2.OnUpdate{On: false}}, rec.sent[1].update)
	assert.Equal(t, deskID, rec.sent[0].id)
}

func TestController_SetBrightnessClamps(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{50, 50},
		{-10, 0},
		{250, 100},
		{0, 0},
		{100, 100},
	}

	for _, tt := range tests {
		rec := &recordingUpdater{}
		l := colorLight(color.GamutB)
		require.NoError(t, NewController(rec).SetBrightness(context.Background(), l, tt.in))
		require.Len(t, rec.sent, 1)
		assert.Equal(t, tt.want, rec.sent[0].update.Dimming.Brightness)
		assert.Equal(t, tt.want, l.Brightness)
	}
}

func TestController_SetRGB(t *testing.T) {
	rec := &recordingUpdater{}
	l := colorLight(color.GamutB)

	rgb := color.RGB{R: 255, G: 200, B: 150}
	p, err := NewController(rec).SetRGB(context.Background(), l, rgb)
	require.NoError(t, err)

	want := color.NewConverter(color.GamutB).RGBToXY(rgb)
	assert.Equal(t, want, p)
	assert.Equal(t, want, l.Color.XY)
	require.Len(t, rec.sent, 1)
	assert.Equal(t, &v2.ColorUpdate{XY: v2.XY{X: want.X, Y: want.Y}}, rec.sent[0].update.Color)
	assert.Nil(t, rec.sent[0].update.On)
}

func TestController_SetHex(t *testing.T) {
	rec := &recordingUpdater{}
	l := colorLight(color.GamutC)
	c := NewController(rec)

	p, err := c.SetHex(context.Background(), l, "#ff8000")
	require.NoError(t, err)
	assert.Equal(t, color.NewConverter(color.GamutC).RGBToXY(color.RGB{R: 255, G: 128}), p)

	_, err = c.SetHex(context.Background(), l, "zz")
	assert.ErrorIs(t, err, color.ErrHexParse)
	assert.Len(t, rec.sent, 1)
}

func TestController_SetXYClamps(t *testing.T) {
	rec := &recordingUpdater{}
	l := colorLight(color.GamutB)
	c := NewController(rec)

	inside := color.XYPoint{X: 0.4, Y: 0.4}
	p, err := c.SetXY(context.Background(), l, inside)
	require.NoError(t, err)
	assert.Equal(t, inside, p)

	outside := color.XYPoint{X: 0.8, Y: 0.3}
	p, err = c.SetXY(context.Background(), l, outside)
	require.NoError(t, err)
	assert.Equal(t, color.ClosestPointOnTriangleBoundary(color.GamutB, outside), p)
	assert.NotEqual(t, outside, p)
}

func TestController_ColorUnsupported(t *testing.T) {
	rec := &recordingUpdater{}
	c := NewController(rec)
	l := &Light{ID: bulbID, Name: "bulb"}
	ctx := context.Background()

	_, err := c.SetRGB(ctx, l, color.RGB{R: 1})
	assert.ErrorIs(t, err, ErrColorUnsupported)
	_, err = c.SetHex(ctx, l, "ffffff")
	assert.ErrorIs(t, err, ErrColorUnsupported)
	_, err = c.SetXY(ctx, l, color.WhitePoint)
	assert.ErrorIs(t, err, ErrColorUnsupported)
	assert.Empty(t, rec.sent)
}

func TestController_UpdateErrorKeepsState(t *testing.T) {
	boom := errors.New("boom")
	rec := &recordingUpdater{fail: map[string]error{deskID: boom}}
	c := NewController(rec)
	l := colorLight(color.GamutB)

	err := c.TurnOn(context.Background(), l)
	assert.ErrorIs(t, err, boom)
	assert.False(t, l.On)

	_, err = c.SetRGB(context.Background(), l, color.RGB{R: 255, G: 200, B: 150})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, color.WhitePoint, l.Color.XY)
}

func TestController_Bulk(t *testing.T) {
	boom := errors.New("boom")
	rec := &recordingUpdater{fail: map[string]error{stripID: boom}}
	c := NewController(rec)

	all := []*Light{
		{ID: deskID, Name: "Desk"},
		{ID: stripID, Name: "Strip"},
		{ID: bulbID, Name: "bulb"},
	}

	err := c.TurnOnAll(context.Background(), all)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "Strip")
	assert.True(t, all[0].On)
	assert.False(t, all[1].On)
	assert.True(t, all[2].On)

	rec.fail = nil
	require.NoError(t, c.TurnOffAll(context.Background(), all))
	for _, l := range all {
		assert.False(t, l.On)
	}
}

func TestController_AgainstBridge(t *testing.T) {
	var got map[string]any
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/clip/v2/resource/light/"+deskID, r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		io.WriteString(w, `{"errors":[],"data":[{"rid":"`+deskID+`","rtype":"light"}]}`)
	}))
	defer srv.Close()

	client := v2.NewClient(strings.TrimPrefix(srv.URL, "https://"), "key", srv.Client(), 0)
	l := colorLight(color.GamutC)

	p, err := NewController(client).SetXY(context.Background(), l, color.XYPoint{X: 0.25, Y: 0.5})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"color": map[string]any{"xy": map[string]any{"x": p.X, "y": p.Y}},
	}, got)
}
