package woocommerce

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/erp/connector/internal/domain/connector"
)

// maxImageSize caps downloaded image payloads (20MB).
const maxImageSize = 20 * 1024 * 1024

// ImageFetcher downloads product images from the shop's media URLs.
// Media files are served by the web host, not the API, so it is a plain
// HTTP client without credentials.
type ImageFetcher struct {
	httpClient *http.Client
}

// NewImageFetcher creates an image fetcher.
func NewImageFetcher() *ImageFetcher {
	return &ImageFetcher{
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// Fetch downloads one image. A 404 maps to the missing-record sentinel so
// the importer can move on to the next candidate image.
func (f *ImageFetcher) Fetch(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("woocommerce: creating image request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, translateTransportError(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusGone:
		return nil, connector.ErrNoSuchRecord
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: HTTP 429", connector.ErrProtocolRetryable)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: HTTP %d", connector.ErrProtocolRetryable, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, &connector.FatalCallError{Status: resp.StatusCode, Message: "image download refused"}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading image: %v", connector.ErrNetworkRetryable, err)
	}
	return data, nil
}

var _ connector.ImageFetcher = (*ImageFetcher)(nil)
