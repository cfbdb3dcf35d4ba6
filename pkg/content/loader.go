package content

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/lumen-dev/lumen/pkg/fetch"
)

// Fetcher retrieves remote text content. *fetch.Client implements it.
type Fetcher interface {
	Text(ctx context.Context, url string) (string, error)
}

// Loader fetches remote route content, deduplicating concurrent
// requests for the same resource: a second request for a URL already in
// flight awaits the first instead of issuing a duplicate fetch.
type Loader struct {
	fetcher Fetcher
	group   singleflight.Group
}

// NewLoader creates a loader over the given fetcher. A nil fetcher
// defaults to a fetch client with default settings.
func NewLoader(fetcher Fetcher) *Loader {
	if fetcher == nil {
		fetcher = fetch.New()
	}
	return &Loader{fetcher: fetcher}
}

// Load fetches the resource at url, sharing the result with any
// concurrent callers requesting the same url.
func (l *Loader) Load(ctx context.Context, url string) (string, error) {
	v, err, _ := l.group.Do(url, func() (any, error) {
		return l.fetcher.Text(ctx, url)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
