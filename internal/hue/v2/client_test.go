package v2

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testToken   = "test-app-key"
	testLightID = "3f8c2a1e-6d7b-4c5a-9e0f-1b2c3d4e5f60"
	testDevice  = "8a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d"
)

const resourcesFixture = `{
	"errors": [],
	"data": [
		{
			"id": "3f8c2a1e-6d7b-4c5a-9e0f-1b2c3d4e5f60",
			"id_v1": "/lights/1",
			"type": "light",
			"owner": {"rid": "8a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d", "rtype": "device"},
			"metadata": {"name": "Desk", "archetype": "sultan_bulb"},
			"on": {"on": true},
			"dimming": {"brightness": 80.5, "min_dim_level": 0.2},
			"color": {
				"xy": {"x": 0.4573, "y": 0.41},
				"gamut": {
					"red": {"x": 0.6915, "y": 0.3083},
					"green": {"x": 0.17, "y": 0.7},
					"blue": {"x": 0.1532, "y": 0.0475}
				},
				"gamut_type": "C"
			}
		},
		{
			"id": "8a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d",
			"type": "device",
			"product_data": {"model_id": "LCT015", "product_name": "Hue color lamp"},
			"metadata": {"name": "Desk lamp"},
			"services": [{"rid": "3f8c2a1e-6d7b-4c5a-9e0f-1b2c3d4e5f60", "rtype": "light"}]
		}
	]
}`

// newTestBridge starts a TLS server and a client pointed at it.
func newTestBridge(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewTLSServer(handler)
	t.Cleanup(srv.Close)

	addr := strings.TrimPrefix(srv.URL, "https://")
	return NewClient(addr, testToken, srv.Client(), 0), srv
}

func TestFetchResources(t *testing.T) {
	client, _ := newTestBridge(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/clip/v2/resource", r.URL.Path)
		assert.Equal(t, testToken, r.Header.Get("hue-application-key"))
		io.WriteString(w, resourcesFixture)
	})

	resources, err := client.FetchResources(context.Background())
	require.NoError(t, err)
	require.Len(t, resources, 2)

	assert.Equal(t, testLightID, resources[0].ID)
	assert.Equal(t, "/lights/1", resources[0].IDV1)
	assert.Equal(t, ResourceTypeLight, resources[0].Type)
	assert.Equal(t, ResourceTypeDevice, resources[1].Type)

	var light Light
	require.NoError(t, resources[0].Decode(&light))
	assert.Equal(t, "Desk", light.Metadata.Name)
	require.NotNil(t, light.On)
	assert.True(t, light.On.On)
	require.NotNil(t, light.Dimming)
	assert.Equal(t, 80.5, light.Dimming.Brightness)
	require.NotNil(t, light.Color)
	assert.Equal(t, "C", light.Color.GamutType)
	assert.Equal(t, XY{X: 0.4573, Y: 0.41}, light.Color.XY)
	require.NotNil(t, light.Color.Gamut)
	assert.Equal(t, 0.6915, light.Color.Gamut.Red.X)
	require.NotNil(t, light.Owner)
	assert.Equal(t, testDevice, light.Owner.RID)

	var device Device
	require.NoError(t, resources[1].Decode(&device))
	assert.Equal(t, "LCT015", device.ProductData.ModelID)
}

func TestFetchResources_APIError(t *testing.T) {
	client, _ := newTestBridge(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"errors":[{"description":"unauthorized user"}],"data":[]}`)
	})

	_, err := client.FetchResources(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, []string{"unauthorized user"}, apiErr.Descriptions)
	assert.Contains(t, err.Error(), "unauthorized user")
}

func TestFetchResources_NonJSONError(t *testing.T) {
	client, _ := newTestBridge(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.FetchResources(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}

func TestUpdateLight(t *testing.T) {
	var got map[string]any
	client, _ := newTestBridge(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/clip/v2/resource/light/"+testLightID, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		io.WriteString(w, `{"errors":[],"data":[{"rid":"`+testLightID+`","rtype":"light"}]}`)
	})

	update := LightUpdate{
		On:    &OnUpdate{On: true},
		Color: &ColorUpdate{XY: XY{X: 0.3, Y: 0.4}},
	}
	require.NoError(t, client.UpdateLight(context.Background(), testLightID, update))

	assert.Equal(t, map[string]any{
		"on":    map[string]any{"on": true},
		"color": map[string]any{"xy": map[string]any{"x": 0.3, "y": 0.4}},
	}, got)
}

func TestApplyChange_ReturnsRefs(t *testing.T) {
	client, _ := newTestBridge(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"errors":[],"data":[{"rid":"`+testLightID+`","rtype":"light"}]}`)
	})

	refs, err := client.ApplyChange(context.Background(), ResourceTypeLight, testLightID, LightUpdate{
		Dimming: &DimmingUpdate{Brightness: 50},
	})
	require.NoError(t, err)
	assert.Equal(t, []ResourceRef{{RID: testLightID, RType: "light"}}, refs)
}

func TestApplyChange_InvalidID(t *testing.T) {
	called := false
	client, _ := newTestBridge(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := client.ApplyChange(context.Background(), ResourceTypeLight, "1", LightUpdate{})
	assert.ErrorIs(t, err, ErrInvalidResourceID)
	assert.False(t, called)
}

func TestApplyChange_BridgeRejects(t *testing.T) {
	client, _ := newTestBridge(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"errors":[{"description":"invalid value for brightness"}],"data":[]}`)
	})

	err := client.UpdateLight(context.Background(), testLightID, LightUpdate{Dimming: &DimmingUpdate{Brightness: 500}})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestApplyChange_RateLimitHonoursContext(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"errors":[],"data":[]}`)
	}))
	defer srv.Close()

	client := NewClient(strings.TrimPrefix(srv.URL, "https://"), testToken, srv.Client(), 0.001)

	// The first write consumes the burst token.
	require.NoError(t, client.UpdateLight(context.Background(), testLightID, LightUpdate{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := client.UpdateLight(ctx, testLightID, LightUpdate{})
	assert.Error(t, err)
}

func TestGetLight(t *testing.T) {
	client, _ := newTestBridge(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/clip/v2/resource/light/" + testLightID:
			io.WriteString(w, `{"errors":[],"data":[{"id":"`+testLightID+`","type":"light","metadata":{"name":"Desk"}}]}`)
		default:
			io.WriteString(w, `{"errors":[],"data":[]}`)
		}
	})

	ctx := context.Background()
	light, err := client.GetLight(ctx, testLightID)
	require.NoError(t, err)
	assert.Equal(t, "Desk", light.Metadata.Name)
	assert.Nil(t, light.Color)

	_, err = client.GetLight(ctx, "00000000-0000-4000-8000-000000000000")
	assert.Error(t, err)

	_, err = client.GetLight(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrInvalidResourceID)
}
