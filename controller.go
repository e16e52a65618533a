package offcache

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/harborvale/offcache/codec"
	"github.com/harborvale/offcache/genstore"
	"github.com/harborvale/offcache/internal/util"
	"github.com/harborvale/offcache/internal/wire"
)

const defaultRefreshTimeout = 30 * time.Second

// State is the controller lifecycle stage.
type State uint8

const (
	StateInstalling State = iota
	StateWaiting
	StateActive
	StateSuperseded
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateInstalling:
		return "installing"
	case StateWaiting:
		return "waiting"
	case StateActive:
		return "active"
	case StateSuperseded:
		return "superseded"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Event enumerates the lifecycle callbacks a host drives. Each corresponds
// to one Controller method the host awaits: Install, Activate, Handle.
type Event uint8

const (
	EventInstall Event = iota
	EventActivate
	EventFetch
)

func (e Event) String() string {
	switch e {
	case EventInstall:
		return "install"
	case EventActivate:
		return "activate"
	case EventFetch:
		return "fetch"
	default:
		return "unknown"
	}
}

type controller struct {
	version  string
	provider Provider
	origin   Fetcher
	codec    HeaderCodec
	gen      GenStore
	log      Logger
	hooks    Hooks

	precache       []string
	entryTTL       time.Duration
	refreshTimeout time.Duration

	mu    sync.Mutex
	state State

	refresh   sync.WaitGroup // in-flight background refreshes
	closeOnce sync.Once
	closeErr  error
}

func newController(opts Options) (*controller, error) {
	if opts.Version == "" {
		return nil, fmt.Errorf("offcache: version is required")
	}
	if opts.Provider == nil {
		return nil, fmt.Errorf("offcache: provider is required")
	}
	if opts.Origin == nil {
		return nil, fmt.Errorf("offcache: origin is required")
	}

	c := &controller{
		version:  opts.Version,
		provider: opts.Provider,
		origin:   opts.Origin,
		state:    StateInstalling,
	}

	// defaults
	c.log = coalesce[Logger](opts.Logger, NopLogger{})
	c.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	c.entryTTL = opts.EntryTTL
	c.refreshTimeout = coalesce(opts.RefreshTimeout, defaultRefreshTimeout)

	if opts.HeaderCodec != nil {
		c.codec = opts.HeaderCodec
	} else {
		hc, err := codec.NewCBOR[http.Header]()
		if err != nil {
			return nil, err
		}
		c.codec = hc
	}
	if opts.Precache != nil {
		c.precache = opts.Precache
	} else {
		c.precache = DefaultPrecache
	}
	if opts.GenStore != nil {
		c.gen = opts.GenStore
	} else {
		c.gen = genstore.NewLocal()
	}

	return c, nil
}

// begin validates that ev is legal in the current lifecycle state.
func (c *controller) begin(ev Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateClosed {
		return ErrClosed
	}
	switch ev {
	case EventInstall:
		if c.state != StateInstalling {
			return ErrInstalled
		}
	case EventActivate:
		if c.state != StateWaiting {
			return ErrNotInstalled
		}
	}
	return nil
}

// beginFetch is the EventFetch gate. Unlike begin it also registers the
// request's background refresh: the WaitGroup increment shares the critical
// section that Close uses to flip StateClosed, so Close either drains this
// refresh or the request observes ErrClosed.
func (c *controller) beginFetch() (done func(), err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateClosed {
		return nil, ErrClosed
	}
	if c.state != StateActive {
		return nil, ErrNotActive
	}
	c.refresh.Add(1)
	return c.refresh.Done, nil
}

func (c *controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *controller) State() State {
	c.mu.Lock()
	s := c.state
	c.mu.Unlock()
	if s == StateActive && c.superseded(context.Background()) {
		return StateSuperseded
	}
	return s
}

// superseded reports whether another generation has activated since ours.
func (c *controller) superseded(ctx context.Context) bool {
	cur, err := c.gen.Current(ctx)
	if err != nil {
		// conservative: keep serving from our generation
		c.log.Warn("current label read failed", Fields{"err": err})
		return false
	}
	return cur != "" && cur != c.version
}

func (c *controller) Install(ctx context.Context) error {
	if err := c.begin(EventInstall); err != nil {
		return err
	}
	if err := c.gen.Register(ctx, c.version); err != nil {
		return fmt.Errorf("offcache: register generation %q: %w", c.version, err)
	}

	for _, path := range c.precache {
		req := &Request{Method: http.MethodGet, URL: path}
		resp, err := c.origin.Do(ctx, req)
		if err != nil {
			c.hooks.InstallFailed(path, err)
			return &InstallError{Version: c.version, Path: path, Err: err}
		}
		// Precache paths are same-origin; anything but a visible 2xx means
		// the generation would be incomplete.
		if resp.Class != ClassBasic || resp.Status < 200 || resp.Status >= 300 {
			err := fmt.Errorf("precache response %s status %d", resp.Class, resp.Status)
			c.hooks.InstallFailed(path, err)
			return &InstallError{Version: c.version, Path: path, Err: err}
		}
		stored, err := c.store(ctx, util.AssetKey(c.version, req.Key()), resp)
		if err != nil {
			c.hooks.InstallFailed(path, err)
			return &InstallError{Version: c.version, Path: path, Err: err}
		}
		if !stored {
			err := fmt.Errorf("provider rejected precache write")
			c.hooks.InstallFailed(path, err)
			return &InstallError{Version: c.version, Path: path, Err: err}
		}
	}

	c.setState(StateWaiting)
	c.log.Info("install complete", Fields{
		"event":     EventInstall.String(),
		"version":   c.version,
		"precached": len(c.precache),
	})
	return nil
}

func (c *controller) Activate(ctx context.Context) error {
	if err := c.begin(EventActivate); err != nil {
		return err
	}
	if err := c.gen.SetCurrent(ctx, c.version); err != nil {
		return fmt.Errorf("offcache: promote generation %q: %w", c.version, err)
	}

	// Purge every other generation. Cleanup is best-effort: a failed purge
	// is logged and hooked but does not fail activation.
	labels, err := c.gen.Labels(ctx)
	if err != nil {
		c.log.Warn("label listing failed; stale generations kept", Fields{"err": err})
		labels = nil
	}
	for _, label := range labels {
		if label == c.version {
			continue
		}
		n, err := c.purge(ctx, label)
		if err != nil {
			c.log.Warn("stale generation purge incomplete", Fields{"generation": label, "err": err})
			continue
		}
		c.hooks.GenerationPurged(label, n)
		c.log.Info("stale generation purged", Fields{"generation": label, "entries": n})
	}

	c.setState(StateActive)
	c.log.Info("generation active", Fields{
		"event":   EventActivate.String(),
		"version": c.version,
	})
	return nil
}

// purge deletes every entry of a superseded generation and drops its label.
func (c *controller) purge(ctx context.Context, label string) (int, error) {
	keys, err := c.gen.Keys(ctx, label)
	if err != nil {
		return 0, &PurgeError{Generation: label, Err: err}
	}
	deleted := 0
	var firstErr error
	for _, sk := range keys {
		if err := c.provider.Del(ctx, sk); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		deleted++
	}
	if firstErr != nil {
		return deleted, &PurgeError{Generation: label, Err: firstErr}
	}
	if err := c.gen.Drop(ctx, label); err != nil {
		return deleted, &PurgeError{Generation: label, Err: err}
	}
	return deleted, nil
}

func (c *controller) Handle(ctx context.Context, req *Request) (*Response, error) {
	done, err := c.beginFetch()
	if err != nil {
		return nil, err
	}
	if c.superseded(ctx) {
		done()
		return nil, ErrSuperseded
	}

	// Non-GET requests are passed through untouched: no cache read, no write.
	if req.Method != http.MethodGet {
		defer done()
		return c.origin.Do(ctx, req)
	}

	key := req.Key()
	sk := util.AssetKey(c.version, key)

	// Cache lookup and origin fetch race. The fetch is detached from the
	// caller's context so it always runs to completion: on a cache hit its
	// result still refreshes the entry for next time.
	type fetchResult struct {
		resp *Response
		err  error
	}
	fetchCh := make(chan fetchResult, 1)
	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.refreshTimeout)
	go func() {
		defer done()
		defer cancel()
		resp, err := c.origin.Do(fctx, req)
		// Duplicate before dual use: one copy goes to a waiting caller,
		// the other is persisted after the result is handed back.
		var keep *Response
		if err == nil && resp.Cacheable() {
			keep = resp.Clone()
		}
		fetchCh <- fetchResult{resp: resp, err: err}
		if err != nil {
			c.hooks.RefreshFailed(key, err)
			c.log.Debug("refresh fetch failed", Fields{"key": key, "err": err})
			return
		}
		if keep != nil {
			c.storeRefresh(fctx, key, sk, keep)
		}
	}()

	if cached := c.lookup(ctx, sk); cached != nil {
		return cached, nil
	}

	res := <-fetchCh
	if res.err != nil {
		c.hooks.OfflineFallback(key)
		c.log.Debug("offline fallback", Fields{
			"event": EventFetch.String(),
			"key":   key,
			"err":   res.err,
		})
		return offlineResponse(), nil
	}
	// Non-ok statuses pass through unmodified.
	return res.resp, nil
}

// lookup reads and decodes the stored entry. Corrupt entries self-heal:
// deleted and treated as a miss.
func (c *controller) lookup(ctx context.Context, sk string) *Response {
	raw, ok, err := c.provider.Get(ctx, sk)
	if err != nil {
		c.log.Warn("cache read failed", Fields{"key": sk, "err": err})
		return nil
	}
	if !ok {
		return nil
	}
	ent, err := wire.DecodeEntry(raw)
	if err != nil {
		c.selfHeal(ctx, sk, "corrupt")
		return nil
	}
	if ent.Class > byte(ClassError) {
		c.selfHeal(ctx, sk, "corrupt")
		return nil
	}
	hdr, err := c.codec.Decode(ent.Header)
	if err != nil {
		c.selfHeal(ctx, sk, "header_decode")
		return nil
	}
	return &Response{
		Class:  ResponseClass(ent.Class),
		Status: int(ent.Status),
		Header: hdr,
		Body:   ent.Body,
	}
}

func (c *controller) selfHeal(ctx context.Context, sk, reason string) {
	_ = c.provider.Del(ctx, sk)
	c.hooks.SelfHeal(sk, reason)
	c.log.Debug("self-healed entry", Fields{"key": sk, "reason": reason})
}

// store frames and writes one entry, recording membership for later purge.
// stored=false means the provider rejected the write under pressure.
func (c *controller) store(ctx context.Context, sk string, resp *Response) (bool, error) {
	hdr, err := c.codec.Encode(resp.Header)
	if err != nil {
		return false, err
	}
	frame := wire.EncodeEntry(wire.Entry{
		Class:  byte(resp.Class),
		Status: uint16(resp.Status),
		Header: hdr,
		Body:   resp.Body,
	})
	ok, err := c.provider.Set(ctx, sk, frame, int64(len(frame)), c.entryTTL)
	if err != nil {
		return false, err
	}
	if !ok {
		c.hooks.ProviderSetRejected(sk)
		return false, nil
	}
	if err := c.gen.AddKey(ctx, c.version, sk); err != nil {
		return false, err
	}
	return true, nil
}

// storeRefresh is the background-refresh write path; last write observed wins.
func (c *controller) storeRefresh(ctx context.Context, key, sk string, resp *Response) {
	stored, err := c.store(ctx, sk, resp)
	if err != nil {
		c.hooks.RefreshFailed(key, err)
		c.log.Debug("refresh store failed", Fields{"key": key, "err": err})
		return
	}
	if stored {
		c.hooks.RefreshStored(key)
		c.log.Debug("entry refreshed", Fields{"key": key, "status": resp.Status})
	}
}

func (c *controller) Close(ctx context.Context) error {
	c.closeOnce.Do(func() {
		c.setState(StateClosed)
		c.refresh.Wait()
		if c.gen != nil {
			_ = c.gen.Close(ctx)
		}
		if c.provider != nil {
			c.closeErr = c.provider.Close(ctx)
		}
	})
	return c.closeErr
}
