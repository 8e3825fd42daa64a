package v2

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Authenticate pairs with the bridge and returns a new application key.
// The bridge link button must be pressed shortly before calling; until then
// ErrLinkButtonNotPressed is returned.
//
// appName and instanceName only identify the client in the bridge's
// whitelist.
func Authenticate(ctx context.Context, httpClient *http.Client, address, appName, instanceName string) (*Credentials, error) {
	body, err := json.Marshal(map[string]any{
		"devicetype":        fmt.Sprintf("%s#%s", appName, instanceName),
		"generateclientkey": true,
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("https://%s/api", address)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode}
	}

	var result []struct {
		Success *Credentials `json:"success"`
		Error   *struct {
			Type        int    `json:"type"`
			Address     string `json:"address"`
			Description string `json:"description"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode pairing response: %w", err)
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("empty pairing response")
	}

	if e := result[0].Error; e != nil {
		if e.Type == ErrorTypeLinkButtonNotPressed {
			return nil, ErrLinkButtonNotPressed
		}
		return nil, &APIError{
			Type:         e.Type,
			Address:      e.Address,
			Descriptions: []string{e.Description},
		}
	}
	if result[0].Success == nil {
		return nil, fmt.Errorf("pairing response has neither success nor error")
	}

	log.Debug().Str("address", address).Str("devicetype", appName+"#"+instanceName).Msg("Paired with bridge")
	return result[0].Success, nil
}
