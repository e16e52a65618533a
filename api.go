package offcache

import (
	"context"
	"net/http"
	"time"

	c "github.com/harborvale/offcache/codec"
	gen "github.com/harborvale/offcache/genstore"
	pr "github.com/harborvale/offcache/provider"
)

// Aliases so most call sites only need the root import.
type (
	Provider    = pr.Provider
	GenStore    = gen.GenStore
	HeaderCodec = c.Codec[http.Header]
)

// Fetcher is the upstream ("network") side of the controller. origin.Client
// implements it over net/http; tests substitute in-memory fakes.
type Fetcher interface {
	// Do performs the request and returns a fully buffered response.
	// A non-2xx status is a successful fetch; only transport-level failures
	// return an error.
	Do(ctx context.Context, req *Request) (*Response, error)
}

// DefaultPrecache is the fixed set of essential paths stored at install time.
// Changing the set requires a new Version label so that superseded
// generations are purged on the next activation.
var DefaultPrecache = []string{
	"/",
	"/guided",
	"/map",
	"/privacy",
	"/manifest.json",
	"/static/logo.png",
}

// Controller is the offline cache controller: a single versioned cache
// generation with an explicit install/activate lifecycle and a
// stale-while-revalidate request path.
type Controller interface {
	// State reports the current lifecycle stage. An Active controller whose
	// generation is no longer current reports StateSuperseded.
	State() State

	// Install opens the generation and populates it with every precache
	// path. All-or-nothing: on any failure the generation is not promoted
	// and Install may be retried by the host.
	Install(ctx context.Context) error

	// Activate promotes the generation to current, purges every other
	// registered generation, and claims request handling immediately.
	Activate(ctx context.Context) error

	// Handle intercepts one request. GET requests are served cache-first
	// with a background refresh; all other methods pass through to the
	// origin untouched.
	Handle(ctx context.Context, req *Request) (*Response, error)

	// Close drains in-flight background refreshes and releases resources.
	Close(ctx context.Context) error
}

// Options tune the controller. Version, Provider and Origin are required;
// everything else has a sensible default.
type Options struct {
	// Required
	Version  string // generation label; bump whenever Precache or refresh policy changes
	Provider pr.Provider
	Origin   Fetcher

	Precache       []string             // nil => DefaultPrecache
	HeaderCodec    c.Codec[http.Header] // nil => CBOR
	Logger         Logger               // nil => NopLogger
	Hooks          Hooks                // nil => NopHooks
	GenStore       gen.GenStore         // nil => genstore.NewLocal() (in-process)
	EntryTTL       time.Duration        // per-entry provider TTL; 0 => no expiry
	RefreshTimeout time.Duration        // cap on background refresh fetches; 0 => 30s
}

func New(opts Options) (Controller, error) {
	return newController(opts)
}
