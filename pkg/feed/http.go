package feed

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/cascadelayout/cascade/pkg/board"
	"github.com/cascadelayout/cascade/pkg/cache"
	"github.com/cascadelayout/cascade/pkg/errors"
	"github.com/cascadelayout/cascade/pkg/httputil"
)

// HTTP fetches items from a remote JSON endpoint. The endpoint receives
// page and per_page query parameters and responds with a JSON array of
// items. Responses are cached and transient failures retried through
// pkg/httputil.
type HTTP struct {
	base   string
	client *httputil.Client
}

// NewHTTP creates an HTTP source for the given endpoint URL. Responses are
// cached in c (nil disables caching) with the standard HTTP TTL.
func NewHTTP(endpoint string, c cache.Cache) (*HTTP, error) {
	if err := errors.ValidateURL(endpoint); err != nil {
		return nil, err
	}
	return &HTTP{
		base:   endpoint,
		client: httputil.NewClient(c, nil, cache.TTLHTTP),
	}, nil
}

// Fetch requests one page from the endpoint.
func (h *HTTP) Fetch(ctx context.Context, page, perPage int) ([]board.Item, error) {
	if page < 1 || perPage < 1 {
		return nil, nil
	}

	u, err := url.Parse(h.base)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse endpoint %s", h.base)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	u.RawQuery = q.Encode()

	var items []board.Item
	if err := h.client.GetJSON(ctx, u.String(), &items); err != nil {
		return nil, fmt.Errorf("fetch page %d: %w", page, err)
	}
	return items, nil
}

// Close does nothing for the HTTP source.
func (h *HTTP) Close() error { return nil }

// Ensure HTTP implements Source.
var _ Source = (*HTTP)(nil)
