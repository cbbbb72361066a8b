package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminalabs/concierge/internal/testutil"
)

func TestClient_Current(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Mumbai", r.URL.Query().Get("q"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"name": "Mumbai",
			"weather": [{"description": "haze"}],
			"main": {"temp": 30.4, "humidity": 74},
			"wind": {"speed": 4.1}
		}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", testutil.DiscardLogger(), WithBaseURL(srv.URL))

	cond, err := c.Current(context.Background(), "Mumbai")
	require.NoError(t, err)

	assert.Equal(t, "Mumbai", cond.Location)
	assert.InDelta(t, 30.4, cond.TempC, 1e-9)
	assert.Equal(t, "haze", cond.Description)
	assert.Equal(t, 74, cond.Humidity)
	assert.InDelta(t, 4.1, cond.WindSpeed, 1e-9)
}

func TestClient_Current_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"cod":"404","message":"city not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient("test-key", testutil.DiscardLogger(), WithBaseURL(srv.URL))

	_, err := c.Current(context.Background(), "Atlantis")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestClient_Current_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient("test-key", testutil.DiscardLogger(), WithBaseURL(srv.URL))

	_, err := c.Current(context.Background(), "Mumbai")
	require.Error(t, err)
}

func TestClient_Current_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", testutil.DiscardLogger(), WithBaseURL(srv.URL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Current(ctx, "Mumbai")
	require.Error(t, err)
}
