package searchapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pricelens/web/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return NewClient(ClientConfig{
		BaseURL:          baseURL,
		SearchPath:       "/search",
		ClearHistoryPath: "/api/clear-history",
		Timeout:          5 * time.Second,
	})
}

func TestNewClient(t *testing.T) {
	client := NewClient(ClientConfig{
		BaseURL:        "http://127.0.0.1:8000/",
		SearchPath:     "/search",
		Timeout:        30 * time.Second,
		RequestsPerMin: 60,
		Burst:          5,
	})

	assert.NotNil(t, client)
	assert.Equal(t, "http://127.0.0.1:8000", client.baseURL)
	assert.Equal(t, "/search", client.searchPath)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
	assert.NotNil(t, client.rateLimiter)
	assert.Equal(t, 5, client.rateLimiter.Burst())
	assert.InDelta(t, 1.0, float64(client.rateLimiter.Limit()), 0.0001)
	assert.False(t, client.debug)
}

func TestSetDebug(t *testing.T) {
	client := newTestClient("http://example.com")

	client.SetDebug(true)
	assert.True(t, client.debug)

	client.SetDebug(false)
	assert.False(t, client.debug)
}

func TestSearch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "iphone 15", body["product_name"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"results": [
				{"name": "iPhone 15", "price": 19990000.0, "store_name": "Shopee", "category_id": 3, "rating": 4.5, "link": "https://shopee.vn/p/1"},
				{"name": "iPhone 15 128GB", "price": 21490000, "store_name": "Cellphones", "rating": null, "link": "https://cellphones.com.vn/p/2", "image_url": "https://img/2.png"}
			],
			"recommendation": {"name": "iPhone 15", "price": 19990000, "store_name": "Shopee", "rating": 4.5, "link": "https://shopee.vn/p/1"},
			"errors": ["Thế Giới Di Động timed out"]
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	result, err := client.Search(context.Background(), domain.NewSearchRequest("  iphone   15 "))

	require.NoError(t, err)
	require.Len(t, result.Results, 2)
	assert.Equal(t, domain.Price(19990000), result.Results[0].Price)
	assert.Equal(t, domain.CategoryID("3"), result.Results[0].CategoryID)
	assert.Nil(t, result.Results[1].Rating)
	assert.Equal(t, "https://img/2.png", result.Results[1].ImageURL)
	require.NotNil(t, result.Recommendation)
	assert.Equal(t, "Shopee", result.Recommendation.StoreName)
	assert.Equal(t, []string{"Thế Giới Di Động timed out"}, result.Errors)
}

func TestSearch_NullCollectionsBecomeEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": null, "recommendation": null, "errors": null}`))
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).Search(context.Background(), domain.NewSearchRequest("tv"))

	require.NoError(t, err)
	assert.NotNil(t, result.Results)
	assert.Empty(t, result.Results)
	assert.NotNil(t, result.Errors)
	assert.Nil(t, result.Recommendation)
}

func TestSearch_ServerError_NoRetry(t *testing.T) {
	var attempts int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"results": [{"name": "ignored"}], "errors": []}`))
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).Search(context.Background(), domain.NewSearchRequest("tv"))

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrSearchAPIFailure)
	assert.Contains(t, err.Error(), "status 500")
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestSearch_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("invalid json"))
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).Search(context.Background(), domain.NewSearchRequest("tv"))

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrInvalidResponse)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestSearch_OutOfRangeRating(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": [{"name": "x", "price": 1, "store_name": "s", "rating": 7, "link": "l"}], "errors": []}`))
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).Search(context.Background(), domain.NewSearchRequest("tv"))

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrInvalidResponse)
}

func TestSearch_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	result, err := newTestClient(url).Search(context.Background(), domain.NewSearchRequest("tv"))

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrSearchAPIFailure)
}

func TestSearch_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	result, err := newTestClient(server.URL).Search(ctx, domain.NewSearchRequest("tv"))

	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearch_RateLimiterWaitsForToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": [], "errors": []}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL:        server.URL,
		SearchPath:     "/search",
		RequestsPerMin: 1,
		Burst:          1,
	})

	_, err := client.Search(context.Background(), domain.NewSearchRequest("tv"))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err = client.Search(ctx, domain.NewSearchRequest("tv"))
	assert.Error(t, err)
}

func TestClearHistory(t *testing.T) {
	t.Run("posts to the clear history path", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/clear-history", r.URL.Path)
			w.Write([]byte(`{"message": "ok"}`))
		}))
		defer server.Close()

		err := newTestClient(server.URL).ClearHistory(context.Background())
		assert.NoError(t, err)
	})

	t.Run("reports failure status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("boom"))
		}))
		defer server.Close()

		err := newTestClient(server.URL).ClearHistory(context.Background())
		assert.ErrorIs(t, err, domain.ErrSearchAPIFailure)
		assert.Contains(t, err.Error(), "boom")
	})
}
