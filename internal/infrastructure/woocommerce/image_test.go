package woocommerce

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/connector/internal/domain/connector"
)

func TestImageFetcher(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/live.jpg":
			_, _ = w.Write([]byte("jpeg-bytes"))
		case "/gone.jpg":
			w.WriteHeader(http.StatusGone)
		case "/throttled.jpg":
			w.WriteHeader(http.StatusTooManyRequests)
		case "/forbidden.jpg":
			w.WriteHeader(http.StatusForbidden)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	fetcher := NewImageFetcher()

	t.Run("downloads image bytes", func(t *testing.T) {
		data, err := fetcher.Fetch(context.Background(), server.URL+"/live.jpg")
		require.NoError(t, err)
		assert.Equal(t, []byte("jpeg-bytes"), data)
	})

	t.Run("404 and 410 map to the missing record sentinel", func(t *testing.T) {
		_, err := fetcher.Fetch(context.Background(), server.URL+"/missing.jpg")
		assert.ErrorIs(t, err, connector.ErrNoSuchRecord)

		_, err = fetcher.Fetch(context.Background(), server.URL+"/gone.jpg")
		assert.ErrorIs(t, err, connector.ErrNoSuchRecord)
	})

	t.Run("429 is retryable", func(t *testing.T) {
		_, err := fetcher.Fetch(context.Background(), server.URL+"/throttled.jpg")
		assert.ErrorIs(t, err, connector.ErrProtocolRetryable)
	})

	t.Run("other client errors are fatal", func(t *testing.T) {
		_, err := fetcher.Fetch(context.Background(), server.URL+"/forbidden.jpg")
		var fatal *connector.FatalCallError
		require.ErrorAs(t, err, &fatal)
		assert.Equal(t, http.StatusForbidden, fatal.Status)
	})
}
