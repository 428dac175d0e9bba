// Package vin is a thin front-end over the NHTSA vPIC decoder. It carries no
// call-reporting semantics; it exists so the console can answer "what vehicle
// is this VIN" next to the fitment Q&A surface.
package vin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// DecodeResult is the subset of vPIC fields the console surfaces
type DecodeResult struct {
	VIN         string `json:"vin"`
	Make        string `json:"make"`
	Model       string `json:"model"`
	ModelYear   string `json:"model_year"`
	Trim        string `json:"trim,omitempty"`
	VehicleType string `json:"vehicle_type,omitempty"`
	ErrorText   string `json:"error_text,omitempty"`
}

// Client calls the vPIC DecodeVinValues endpoint
type Client struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewClient creates a vPIC client
func NewClient(baseURL string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
		logger:  logger.With().Str("component", "vin_client").Logger(),
	}
}

type vpicResponse struct {
	Results []struct {
		Make        string `json:"Make"`
		Model       string `json:"Model"`
		ModelYear   string `json:"ModelYear"`
		Trim        string `json:"Trim"`
		VehicleType string `json:"VehicleType"`
		ErrorText   string `json:"ErrorText"`
	} `json:"Results"`
}

// Decode resolves a VIN. Transient upstream failures are retried with
// exponential backoff for a few seconds before giving up.
func (c *Client) Decode(ctx context.Context, vin string) (*DecodeResult, error) {
	vin = strings.ToUpper(strings.TrimSpace(vin))
	if vin == "" {
		return nil, fmt.Errorf("vin required")
	}

	endpoint := fmt.Sprintf("%s/api/vehicles/DecodeVinValues/%s?format=json", c.baseURL, url.PathEscape(vin))

	var decoded vpicResponse
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("vpic returned %s", resp.Status)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("vpic returned %s", resp.Status))
		}
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return fmt.Errorf("decode vpic response: %w", err)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 10 * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		c.logger.Warn().Err(err).Str("vin", vin).Msg("vin decode failed")
		return nil, err
	}

	if len(decoded.Results) == 0 {
		return nil, fmt.Errorf("vpic returned no results for %s", vin)
	}

	r := decoded.Results[0]
	return &DecodeResult{
		VIN:         vin,
		Make:        r.Make,
		Model:       r.Model,
		ModelYear:   r.ModelYear,
		Trim:        r.Trim,
		VehicleType: r.VehicleType,
		ErrorText:   r.ErrorText,
	}, nil
}
