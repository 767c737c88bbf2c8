/*
Copyright 2020 The Flux CD contributors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cache

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gregjones/httpcache"
)

// NewHTTPCacheTransport is a gitprovider.ChainableRoundTripperFunc which adds
// HTTP Conditional Requests caching for the backend, if the server supports it.
// Cached responses are never used without revalidating them with the server first.
func NewHTTPCacheTransport(in http.RoundTripper) http.RoundTripper {
	c := NewRepositoryCache()
	// Configure the httpcache Transport to use in as its underlying Transport.
	// If in is nil, http.DefaultTransport will be used.
	t := httpcache.NewTransport(c)
	t.Transport = in
	return &cacheRoundtripper{Transport: t, cache: c}
}

// cacheRoundtripper is a slight wrapper around *httpcache.Transport that automatically
// invalidates the cache on non-GET/HEAD requests, and non-"200 OK" responses.
type cacheRoundtripper struct {
	Transport *httpcache.Transport
	cache     *RepositoryCache
}

// This function follows the same logic as in github.com/gregjones/httpcache to be able
// to implement our custom roundtripper logic below.
func cacheKey(req *http.Request) string {
	if req.Method == http.MethodGet {
		return req.URL.String()
	}
	return req.Method + " " + req.URL.String()
}

// RoundTrip calls the underlying RoundTrip (using the cache), but invalidates the cache on
// non GET/HEAD requests and non-"200 OK" responses.
func (r *cacheRoundtripper) RoundTrip(req *http.Request) (*http.Response, error) {
	// These two statements are the same as in github.com/gregjones/httpcache Transport.RoundTrip
	// to be able to implement our custom roundtripper below
	cacheKey := cacheKey(req)
	cacheable := (req.Method == http.MethodGet || req.Method == http.MethodHead) && req.Header.Get("range") == ""

	// A write to a file changes the tree and the repository itself, so everything
	// cached for the repository goes, not only the written URL.
	if !cacheable {
		r.cache.DeletePrefix(repositoryKey(req))
	} else {
		// Providers send "max-age=60", which would let httpcache serve a tree that
		// another writer already changed. Always revalidate with the ETag instead.
		req = req.Clone(req.Context())
		req.Header.Set("Cache-Control", "max-age=0")
	}
	// Call the underlying roundtrip
	resp, err := r.Transport.RoundTrip(req)
	// Don't cache anything but "200 OK" requests
	if resp == nil || resp.StatusCode != http.StatusOK {
		r.cache.Delete(cacheKey)
	}
	return resp, err
}

// repositoryKey returns the cache key of the repository req targets, e.g.
// "https://api.github.com/repos/owner/name". Requests outside of /repos/{owner}/{name}
// (e.g. creating a repository) return the key of the host, which invalidates everything.
func repositoryKey(req *http.Request) string {
	base := req.URL.Scheme + "://" + req.URL.Host
	path := req.URL.EscapedPath()
	idx := strings.Index(path, "/repos/")
	if idx < 0 {
		return base
	}
	segments := strings.SplitN(path[idx+len("/repos/"):], "/", 3)
	if len(segments) < 2 {
		return base
	}
	return base + path[:idx] + "/repos/" + segments[0] + "/" + segments[1]
}

// RepositoryCache is an in-memory httpcache.Cache which can drop all entries of
// a repository at once.
type RepositoryCache struct {
	mu    sync.RWMutex
	items map[string][]byte
}

var _ httpcache.Cache = &RepositoryCache{}

// NewRepositoryCache returns an empty RepositoryCache.
func NewRepositoryCache() *RepositoryCache {
	return &RepositoryCache{items: map[string][]byte{}}
}

// Get returns the response stored for key, if any.
func (c *RepositoryCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	resp, ok := c.items[key]
	return resp, ok
}

// Set stores resp under key.
func (c *RepositoryCache) Set(key string, resp []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = resp
}

// Delete removes the response stored under key.
func (c *RepositoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// DeletePrefix removes key itself and every key below it, i.e. starting with key + "/"
// or key + "?".
func (c *RepositoryCache) DeletePrefix(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.items {
		if k == key || strings.HasPrefix(k, key+"/") || strings.HasPrefix(k, key+"?") {
			delete(c.items, k)
		}
	}
}

// Len returns the number of cached responses.
func (c *RepositoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
