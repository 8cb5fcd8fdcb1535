package zones

import (
	"context"
	"fmt"

	"github.com/matzehuels/zonelink/pkg/httputil"
)

// DefaultURL is the public zone dump the catalog is fetched from.
const DefaultURL = "https://raw.githubusercontent.com/HamzaNa1/data-dump/main/zones.json"

const cacheKeyPrefix = "zones:"

// Fetch downloads the zone dump at url through client. A fresh entry in the
// client's cache is used instead of the network; transient failures are
// retried. An empty url selects [DefaultURL].
func Fetch(ctx context.Context, client *httputil.Client, url string) (*Catalog, error) {
	if url == "" {
		url = DefaultURL
	}
	var zones []Zone
	err := client.Cached(ctx, cacheKeyPrefix+url, false, &zones, func() error {
		return client.GetJSON(ctx, url, &zones)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch zones from %s: %w", url, err)
	}
	return New(zones), nil
}
