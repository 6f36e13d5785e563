package github

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/oauth2"

	"github.com/ericfisherdev/ghremote/internal/domain/model"
	"github.com/ericfisherdev/ghremote/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ClientFactory = (*Factory)(nil)

// Options configures the clients produced by a Factory.
type Options struct {
	// BaseURL is the REST API root, e.g. "https://ghe.example.com/api/v3/".
	// Empty means api.github.com.
	BaseURL string
	// Timeout bounds each HTTP round trip. Zero means no timeout.
	Timeout time.Duration
	// SecondaryRateLimit routes requests through go-github-ratelimit, which
	// sleeps when GitHub signals a secondary rate limit. Off by default: with
	// it enabled a limited call may be sent more than once.
	SecondaryRateLimit bool
	// HTTPCache revalidates GET responses with ETags through an in-memory
	// cache. Each credential set gets its own cache and every call still
	// reaches GitHub, as a conditional request when an ETag is held.
	HTTPCache bool
	// CacheCredentials caps how many credential sets keep a response cache.
	// The least recently used set is dropped first. Zero means 128.
	CacheCredentials int
	// CacheEntries caps the responses held per credential set. Zero means 256.
	CacheEntries int
	// Transport is the base round tripper. Nil means http.DefaultTransport.
	Transport http.RoundTripper
}

// Factory builds one transient Client per call, authenticated with the
// credentials supplied for that call.
type Factory struct {
	opts    Options
	baseURL *url.URL

	mu     sync.Mutex
	caches *lru.Cache[string, httpcache.Cache]
}

// NewFactory validates opts and returns a Factory.
func NewFactory(opts Options) (*Factory, error) {
	if opts.CacheCredentials <= 0 {
		opts.CacheCredentials = defaultCacheCredentials
	}
	if opts.CacheEntries <= 0 {
		opts.CacheEntries = defaultCacheEntries
	}
	caches, err := lru.New[string, httpcache.Cache](opts.CacheCredentials)
	if err != nil {
		return nil, fmt.Errorf("creating response cache: %w", err)
	}
	f := &Factory{opts: opts, caches: caches}

	if opts.BaseURL != "" {
		raw := opts.BaseURL
		if !strings.HasSuffix(raw, "/") {
			raw += "/"
		}
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing base URL: %w", err)
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("parsing base URL %q: scheme and host are required", opts.BaseURL)
		}
		f.baseURL = u
	}

	return f, nil
}

// NewClient creates a Client for a single call. The transport stack is:
//  1. base transport (http.DefaultTransport unless overridden)
//  2. httpcache ETag revalidation (only when HTTPCache is set)
//  3. authentication (oauth2 bearer or basic auth, when requested)
//  4. go-github-ratelimit (only when SecondaryRateLimit is set)
//  5. go-github, with token auth applied via WithAuthToken for token credentials
func (f *Factory) NewClient(props *model.Properties) (driven.RemoteClient, error) {
	transport := f.opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	if f.opts.HTTPCache {
		cache, err := f.cacheFor(props)
		if err != nil {
			return nil, err
		}
		transport = &httpcache.Transport{
			Transport:           &revalidateTransport{next: transport},
			Cache:               cache,
			MarkCachedResponses: true,
		}
	}

	var token string
	authType := "anonymous"
	if !props.Anonymous() {
		creds := props.Credentials
		authType = string(creds.Type)

		switch creds.Type {
		case model.CredentialToken, "":
			authType = string(model.CredentialToken)
			token = creds.Token
		case model.CredentialOAuth:
			transport = &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: creds.Token}),
				Base:   transport,
			}
		case model.CredentialBasic:
			transport = &gh.BasicAuthTransport{
				Username:  creds.Username,
				Password:  creds.Password,
				Transport: transport,
			}
		default:
			return nil, fmt.Errorf("%w: %q", driven.ErrUnsupportedCredentialType, creds.Type)
		}
	}

	var httpClient *http.Client
	if f.opts.SecondaryRateLimit {
		httpClient = github_ratelimit.NewClient(transport)
	} else {
		httpClient = &http.Client{Transport: transport}
	}
	httpClient.Timeout = f.opts.Timeout

	client := gh.NewClient(httpClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	if f.baseURL != nil {
		u := *f.baseURL
		client.BaseURL = &u
	}

	slog.Debug("github client created", "auth", authType, "base_url", client.BaseURL.String())

	return &Client{gh: client}, nil
}

// cacheFor returns the response cache owned by the credentials in props.
func (f *Factory) cacheFor(props *model.Properties) (httpcache.Cache, error) {
	key := "anonymous"
	if !props.Anonymous() {
		c := props.Credentials
		sum := sha256.Sum256([]byte(string(c.Type) + "\x00" + c.Token + "\x00" + c.Username + "\x00" + c.Password))
		key = hex.EncodeToString(sum[:])
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if cache, ok := f.caches.Get(key); ok {
		return cache, nil
	}
	cache, err := newBoundedCache(f.opts.CacheEntries)
	if err != nil {
		return nil, fmt.Errorf("creating response cache: %w", err)
	}
	f.caches.Add(key, cache)
	return cache, nil
}
