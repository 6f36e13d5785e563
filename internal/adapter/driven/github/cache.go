package github

import (
	"net/http"

	"github.com/gregjones/httpcache"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache limits used when Options leaves them at zero.
const (
	defaultCacheCredentials = 128
	defaultCacheEntries     = 256
)

// revalidateTransport marks every upstream response as "no-cache" before
// httpcache sees it. GitHub sends "Cache-Control: private, max-age=60", which
// would otherwise let httpcache answer from memory without contacting GitHub.
// With no-cache a stored response is always revalidated with its ETag.
type revalidateTransport struct {
	next http.RoundTripper
}

func (t *revalidateTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return resp, err
	}
	// 304s are rewritten too: httpcache copies their headers onto the stored response.
	resp.Header.Set("Cache-Control", "no-cache")
	resp.Header.Del("Expires")
	return resp, nil
}

// boundedCache is an httpcache.Cache holding at most a fixed number of
// responses. The least recently used response is evicted first.
type boundedCache struct {
	entries *lru.Cache[string, []byte]
}

var _ httpcache.Cache = (*boundedCache)(nil)

func newBoundedCache(size int) (*boundedCache, error) {
	entries, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, err
	}
	return &boundedCache{entries: entries}, nil
}

func (c *boundedCache) Get(key string) ([]byte, bool) {
	return c.entries.Get(key)
}

func (c *boundedCache) Set(key string, resp []byte) {
	c.entries.Add(key, resp)
}

func (c *boundedCache) Delete(key string) {
	c.entries.Remove(key)
}
