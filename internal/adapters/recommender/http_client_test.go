package recommender

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetmatch/loadrec-eval/internal/domain/entities"
	"github.com/fleetmatch/loadrec-eval/internal/domain/providers"
	apperrors "github.com/fleetmatch/loadrec-eval/pkg/errors"
)

func TestHTTPProviderForwardsFilterParams(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recommendations", r.URL.Path)
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"load_id":11,"recommendation_score":0.92},{"load_id":12,"recommendation_score":0.51}]}`))
	}))
	defer server.Close()

	provider := NewHTTPProvider(server.URL + "/")
	rangeMiles := 250.0
	recs, err := provider.GetRecommendations(context.Background(), 42, providers.RecommendationFilter{
		CurrentLocation: &entities.Location{Latitude: 39.7392, Longitude: -104.9903},
		DistanceRange:   &rangeMiles,
		DesiredDate:     "Mar 10 2026",
		DesiredTime:     "9:00 AM",
	})
	require.NoError(t, err)

	require.Len(t, recs, 2)
	assert.Equal(t, int64(11), recs[0].LoadID)
	assert.Equal(t, 0.92, recs[0].Score)

	assert.Equal(t, "42", gotQuery["user_id"])
	assert.Equal(t, "39.7392", gotQuery["lat"])
	assert.Equal(t, "-104.9903", gotQuery["lon"])
	assert.Equal(t, "250", gotQuery["distance_range"])
	assert.Equal(t, "Mar 10 2026", gotQuery["desired_date"])
	assert.Equal(t, "9:00 AM", gotQuery["desired_time"])
}

func TestHTTPProviderOmitsUnsetParams(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	provider := NewHTTPProvider(server.URL)
	recs, err := provider.GetRecommendations(context.Background(), 7, providers.RecommendationFilter{})
	require.NoError(t, err)
	assert.Empty(t, recs)
	assert.Equal(t, "user_id=7", gotQuery)
}

func TestHTTPProviderNon2xxIsExternalError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "engine down", http.StatusBadGateway)
	}))
	defer server.Close()

	provider := NewHTTPProvider(server.URL)
	_, err := provider.GetRecommendations(context.Background(), 7, providers.RecommendationFilter{})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeExternal, appErr.Type)
}

func TestHTTPProviderMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	provider := NewHTTPProvider(server.URL)
	_, err := provider.GetRecommendations(context.Background(), 7, providers.RecommendationFilter{})
	assert.Error(t, err)
}

func TestHTTPProviderUnreachableEngine(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	provider := NewHTTPProvider(server.URL)
	_, err := provider.GetRecommendations(context.Background(), 7, providers.RecommendationFilter{})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeExternal, appErr.Type)
}
