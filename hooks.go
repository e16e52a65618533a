package offcache

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The controller calls them on hot paths.
type Hooks interface {
	// A stored entry was deleted by the controller on read.
	// reason is one of "corrupt" or "header_decode".
	SelfHeal(storageKey, reason string)

	// A precache fetch or store failed; the generation was not promoted.
	InstallFailed(path string, err error)

	// Background refresh could not replace the entry (fetch or store error).
	// Invisible to the caller when a cached copy exists.
	RefreshFailed(key string, err error)

	// Background refresh overwrote the entry with a newer response.
	RefreshStored(key string)

	// No cached entry and the origin fetch failed; the synthetic 503
	// "Offline" response was served instead.
	OfflineFallback(key string)

	// A superseded generation was deleted during activation.
	GenerationPurged(label string, entries int)

	// Provider returned ok=false on Set (backpressure/eviction).
	ProviderSetRejected(storageKey string)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) SelfHeal(string, string)      {}
func (NopHooks) InstallFailed(string, error)  {}
func (NopHooks) RefreshFailed(string, error)  {}
func (NopHooks) RefreshStored(string)         {}
func (NopHooks) OfflineFallback(string)       {}
func (NopHooks) GenerationPurged(string, int) {}
func (NopHooks) ProviderSetRejected(string)   {}
