package geocoding_adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"landmark-service/internal/contextkeys"
	"landmark-service/internal/core/domain"
	"landmark-service/internal/core/port"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultEndpoint = "https://maps.googleapis.com/maps/api/geocode/json"

	defaultRateLimit = 10 // requests per second
	defaultBurst     = 5
)

// Config configures the Google geocoding client.
type Config struct {
	APIKey    string
	Endpoint  string
	RateLimit float64
	Timeout   time.Duration
}

// GoogleGeocoder resolves addresses with the Google Geocoding JSON API.
type GoogleGeocoder struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewGoogleGeocoder(cfg Config) (*GoogleGeocoder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("geocoding API key cannot be empty")
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = defaultRateLimit
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &GoogleGeocoder{
		apiKey:     cfg.APIKey,
		endpoint:   cfg.Endpoint,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), defaultBurst),
	}, nil
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (domain.Geolocation, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "GoogleGeocoder",
		"method":    "Geocode",
	})

	address = strings.TrimSpace(address)
	if address == "" {
		return domain.Geolocation{}, domain.ErrAddressNotFound
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return domain.Geolocation{}, fmt.Errorf("rate limiter error: %w", err)
	}

	query := url.Values{}
	query.Set("address", address)
	query.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return domain.Geolocation{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set("X-Trace-ID", traceID)
	}

	logger.Debug("Sending geocoding request", port.Fields{"address": address})
	resp, err := g.httpClient.Do(req)
	if err != nil {
		logger.Error("Geocoding request failed", err, nil)
		return domain.Geolocation{}, fmt.Errorf("geocoding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		err := fmt.Errorf("geocoder returned status %d: %s", resp.StatusCode, string(body))
		logger.Error("Received error response from geocoder", err, port.Fields{"status_code": resp.StatusCode})
		return domain.Geolocation{}, err
	}

	var payload geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		logger.Error("Failed to decode geocoder response", err, nil)
		return domain.Geolocation{}, fmt.Errorf("decode geocoder response: %w", err)
	}

	switch payload.Status {
	case "OK":
	case "ZERO_RESULTS":
		logger.Info("Address not found", port.Fields{"address": address})
		return domain.Geolocation{}, domain.ErrAddressNotFound
	default:
		err := fmt.Errorf("geocoder status %s: %s", payload.Status, payload.ErrorMessage)
		logger.Error("Geocoder rejected the request", err, nil)
		return domain.Geolocation{}, err
	}
	if len(payload.Results) == 0 {
		return domain.Geolocation{}, domain.ErrAddressNotFound
	}

	loc := payload.Results[0].Geometry.Location
	return domain.Geolocation{Lat: loc.Lat, Lng: loc.Lng}, nil
}
