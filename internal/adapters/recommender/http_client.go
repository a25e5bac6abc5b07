package recommender

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fleetmatch/loadrec-eval/internal/domain/entities"
	"github.com/fleetmatch/loadrec-eval/internal/domain/providers"
	apperrors "github.com/fleetmatch/loadrec-eval/pkg/errors"
)

// HTTPProvider calls a remote recommendation engine over HTTP.
type HTTPProvider struct {
	baseURL    string
	httpClient *http.Client
}

type recommendationsResponse struct {
	Data []entities.RecommendedLoad `json:"data"`
}

// NewHTTPProvider creates a recommendation provider backed by a remote engine
func NewHTTPProvider(baseURL string) *HTTPProvider {
	trimmed := strings.TrimRight(baseURL, "/")
	return &HTTPProvider{
		baseURL: trimmed,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GetRecommendations returns ranked candidate loads for a user
func (c *HTTPProvider) GetRecommendations(ctx context.Context, userID int64, filter providers.RecommendationFilter) ([]entities.RecommendedLoad, error) {
	parsed, err := url.Parse(fmt.Sprintf("%s/recommendations", c.baseURL))
	if err != nil {
		return nil, err
	}

	query := parsed.Query()
	query.Set("user_id", strconv.FormatInt(userID, 10))
	if filter.CurrentLocation != nil {
		query.Set("lat", strconv.FormatFloat(filter.CurrentLocation.Latitude, 'f', -1, 64))
		query.Set("lon", strconv.FormatFloat(filter.CurrentLocation.Longitude, 'f', -1, 64))
	}
	if filter.DistanceRange != nil {
		query.Set("distance_range", strconv.FormatFloat(*filter.DistanceRange, 'f', -1, 64))
	}
	if filter.DesiredDate != "" {
		query.Set("desired_date", filter.DesiredDate)
	}
	if filter.DesiredTime != "" {
		query.Set("desired_time", filter.DesiredTime)
	}
	parsed.RawQuery = query.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, apperrors.NewExternalError("recommendation engine request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.NewExternalError(fmt.Sprintf("recommendation engine returned status %d", resp.StatusCode), nil)
	}

	var out recommendationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, apperrors.NewExternalError("failed to decode engine response", err)
	}
	return out.Data, nil
}
