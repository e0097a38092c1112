package catalog_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alex-user-go/packages/internal/catalog"
)

func TestHTTPClient_Hotels(t *testing.T) {
	var gotPath, gotCountry, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotCountry = r.URL.Query().Get("country")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"title":"Hotel A","price":100,"country":"FR","city":"Paris",
			"starRating":4,"totalRooms":4,"availableFrom":"2024-06-01","availableTo":"2024-06-20"}]`))
	}))
	defer srv.Close()

	c := catalog.NewHTTPClient(srv.URL+"/", "secret", time.Second)
	hotels, err := c.Hotels(context.Background(), "FR")

	require.NoError(t, err)
	assert.Equal(t, "/listings/hotels", gotPath)
	assert.Equal(t, "FR", gotCountry)
	assert.Equal(t, "Bearer secret", gotAuth)
	require.Len(t, hotels, 1)
	assert.Equal(t, int64(1), hotels[0].ID)
	assert.Equal(t, 4, hotels[0].StarRating)
	assert.Equal(t, "2024-06-20", hotels[0].AvailableTo)
}

func TestHTTPClient_NoCountryNoToken(t *testing.T) {
	var rawQuery, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[{"id":5,"airline":"Iberia","country":"ES","price":120,"seatCapacity":180,
			"departureTime":"2024-06-05T10:00:00","arrivalTime":"2024-06-05T12:00:00"}]`))
	}))
	defer srv.Close()

	c := catalog.NewHTTPClient(srv.URL, "", time.Second)
	flights, err := c.Flights(context.Background(), "")

	require.NoError(t, err)
	assert.Empty(t, rawQuery)
	assert.Empty(t, gotAuth)
	require.Len(t, flights, 1)
	assert.Equal(t, "Iberia", flights[0].Airline)
}

func TestHTTPClient_Errors(t *testing.T) {
	tests := []struct {
		name            string
		status          int
		body            string
		wantStatus      int
		wantUnavailable bool
	}{
		{name: "server error", status: http.StatusServiceUnavailable, body: "down", wantStatus: 503, wantUnavailable: true},
		{name: "forbidden", status: http.StatusForbidden, body: "no token", wantStatus: 403},
		{name: "bad json", status: http.StatusOK, body: `{"not":"an array"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := catalog.NewHTTPClient(srv.URL, "", time.Second)
			_, err := c.Events(context.Background(), "FR")
			require.Error(t, err)

			var se *catalog.StatusError
			if tt.wantStatus != 0 {
				require.True(t, errors.As(err, &se))
				assert.Equal(t, tt.wantStatus, se.Status)
				assert.Equal(t, "events", se.Kind)
			} else {
				assert.False(t, errors.As(err, &se))
			}
			assert.Equal(t, tt.wantUnavailable, errors.Is(err, catalog.ErrUnavailable))
		})
	}
}

func TestHTTPClient_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := catalog.NewHTTPClient(srv.URL, "", 5*time.Second)
	_, err := c.Hotels(ctx, "FR")
	assert.ErrorIs(t, err, context.Canceled)
}
