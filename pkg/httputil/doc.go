// Package httputil provides the HTTP plumbing used to fetch reference data.
//
// # Overview
//
// The zone catalog is published as a static JSON dump. Fetching it goes
// through three small pieces:
//
//   - [Client]: JSON GET with default headers, retries, and caching
//   - [Cache]: file-based response cache with a TTL
//   - [Retry]: exponential backoff for transient failures
//
// # Caching
//
// [Cache] stores decoded responses under ~/.cache/zonelink/ by default.
// Keys are hashed, so any string is a valid key. Use [Cache.Namespace] to
// keep unrelated sources apart:
//
//	cache, _ := httputil.NewCache("", 24*time.Hour)
//	zonesCache := cache.Namespace("zones:")
//
// The cache can be cleared with `zonelink cache clear`.
//
// # Retry
//
// Only errors wrapped in [RetryableError] are retried. [Client] wraps
// network failures and 5xx responses; 4xx responses fail immediately.
package httputil
