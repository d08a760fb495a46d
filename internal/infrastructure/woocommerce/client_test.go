package woocommerce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/connector/internal/domain/connector"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientConfig{
		Location:       server.URL,
		ConsumerKey:    "ck_test",
		ConsumerSecret: "cs_test",
		VerifySSL:      true,
	})
	require.NoError(t, err)
	return client, server
}

func TestNewClientRejectsBadLocations(t *testing.T) {
	_, err := NewClient(ClientConfig{Location: "ftp://shop.example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be http or https")
}

func TestClientQueryCredentialsOverHTTP(t *testing.T) {
	var gotQuery map[string][]string
	var gotPath string
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode([]map[string]any{})
	}))

	var out []connector.RawRecord
	err := client.do(context.Background(), http.MethodGet, "products",
		connector.Params{"page": "1"}, nil, &out)
	require.NoError(t, err)

	// httptest servers speak plain http, so the credentials travel in the
	// query string as WooCommerce requires
	assert.Equal(t, "/wp-json/wc/v3/products", gotPath)
	assert.Equal(t, []string{"ck_test"}, gotQuery["consumer_key"])
	assert.Equal(t, []string{"cs_test"}, gotQuery["consumer_secret"])
	assert.Equal(t, []string{"1"}, gotQuery["page"])
}

func TestClientStatusTranslation(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "404 is the missing record sentinel",
			status: http.StatusNotFound,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, connector.ErrNoSuchRecord)
			},
		},
		{
			name:   "429 is retryable",
			status: http.StatusTooManyRequests,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, connector.ErrProtocolRetryable)
			},
		},
		{
			name:   "503 is retryable",
			status: http.StatusServiceUnavailable,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, connector.ErrProtocolRetryable)
			},
		},
		{
			name:   "502 is retryable",
			status: http.StatusBadGateway,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, connector.ErrProtocolRetryable)
			},
		},
		{
			name:   "504 is retryable",
			status: http.StatusGatewayTimeout,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, connector.ErrProtocolRetryable)
			},
		},
		{
			name:   "500 is fatal",
			status: http.StatusInternalServerError,
			body:   `{"code":"internal_server_error","message":"boom"}`,
			check: func(t *testing.T, err error) {
				var fatal *connector.FatalCallError
				require.ErrorAs(t, err, &fatal)
				assert.Equal(t, http.StatusInternalServerError, fatal.Status)
				assert.True(t, connector.IsFatal(err))
			},
		},
		{
			name:   "400 with an error envelope is fatal",
			status: http.StatusBadRequest,
			body:   `{"code":"rest_invalid_param","message":"Invalid parameter"}`,
			check: func(t *testing.T, err error) {
				var fatal *connector.FatalCallError
				require.ErrorAs(t, err, &fatal)
				assert.Equal(t, http.StatusBadRequest, fatal.Status)
				assert.Equal(t, "rest_invalid_param", fatal.Code)
				assert.Equal(t, "Invalid parameter", fatal.Message)
				assert.True(t, connector.IsFatal(err))
			},
		},
		{
			name:   "401 without an envelope keeps the raw body",
			status: http.StatusUnauthorized,
			body:   "nope",
			check: func(t *testing.T, err error) {
				var fatal *connector.FatalCallError
				require.ErrorAs(t, err, &fatal)
				assert.Equal(t, "nope", fatal.Message)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))

			err := client.do(context.Background(), http.MethodGet, "products", nil, nil, nil)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestClientConnectionFailureIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	location := server.URL
	server.Close()

	client, err := NewClient(ClientConfig{
		Location:       location,
		ConsumerKey:    "ck_test",
		ConsumerSecret: "cs_test",
	})
	require.NoError(t, err)

	err = client.do(context.Background(), http.MethodGet, "products", nil, nil, nil)
	assert.ErrorIs(t, err, connector.ErrNetworkRetryable)
}

func TestClientDecodesPayload(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(12), body["stock_quantity"])
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 77, "stock_quantity": 12})
	}))

	var out connector.RawRecord
	err := client.do(context.Background(), http.MethodPut, "products/77", nil,
		map[string]any{"stock_quantity": 12}, &out)
	require.NoError(t, err)
	assert.Equal(t, connector.ExternalID("77"), out.ID("id"))
}
