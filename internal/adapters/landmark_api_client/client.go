package landmark_api_client

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
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client reads landmarks from a running landmark-service. It satisfies
// port.LandmarkPageFetcherPort so listing sessions can page through the API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) doRequest(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set("X-Trace-ID", traceID)
	}
	req.Header.Set("Accept", "application/json")
	return c.httpClient.Do(req)
}

// FetchPage requests one page of the newest landmarks.
func (c *Client) FetchPage(ctx context.Context, req domain.PageRequest) (*domain.LandmarkPage, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "LandmarkApiClient",
		"method":    "FetchPage",
	})

	req = req.Normalize()
	query := url.Values{}
	query.Set("limit", strconv.Itoa(req.Limit))
	if req.Size != nil {
		query.Set("size", string(*req.Size))
	}
	if req.Cursor != nil {
		query.Set("cursor", req.Cursor.Encode())
	}
	endpoint := c.baseURL + "/api/v1/landmarks?" + query.Encode()
	logger.Debug("Sending request to landmark-service", port.Fields{"url": endpoint})

	var page pageDTO
	if err := c.getJSON(ctx, endpoint, &page); err != nil {
		logger.Error("Failed to fetch page", err, nil)
		return nil, err
	}

	records := make([]domain.Landmark, len(page.Landmarks))
	for i, d := range page.Landmarks {
		records[i] = d.toDomain()
	}
	result := domain.NewLandmarkPage(records, req.Limit)
	result.HasMore = page.HasMore
	return result, nil
}

// GetLandmark requests a single landmark.
func (c *Client) GetLandmark(ctx context.Context, id uuid.UUID) (*domain.Landmark, error) {
	var dto landmarkDTO
	if err := c.getJSON(ctx, c.baseURL+"/api/v1/landmarks/"+id.String(), &dto); err != nil {
		return nil, err
	}
	l := dto.toDomain()
	return &l, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, dst interface{}) error {
	resp, err := c.doRequest(ctx, http.MethodGet, endpoint)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// statusError turns an error response back into the matching domain error.
func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	message := strings.TrimSpace(string(body))
	var payload errorDTO
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		message = payload.Error
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", domain.ErrValidation, message)
	case http.StatusNotFound:
		return domain.ErrLandmarkNotFound
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %s", domain.ErrStoreUnavailable, message)
	default:
		return fmt.Errorf("landmark-service returned status %d: %s", resp.StatusCode, message)
	}
}
