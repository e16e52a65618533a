// Package promhook exports the controller's hook events as Prometheus
// counters. Label cardinality is kept low on purpose: self-heals are
// labeled by reason, everything else is a plain counter so hot paths never
// mint per-URL series.
package promhook

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/harborvale/offcache"
)

type Hooks struct {
	selfHeal         *prometheus.CounterVec
	installFailed    prometheus.Counter
	refreshFailed    prometheus.Counter
	refreshStored    prometheus.Counter
	offlineFallback  prometheus.Counter
	generationPurged prometheus.Counter
	purgedEntries    prometheus.Counter
	setRejected      prometheus.Counter
}

var _ offcache.Hooks = (*Hooks)(nil)

// New registers the counters with reg (use prometheus.DefaultRegisterer for
// the default registry).
func New(reg prometheus.Registerer) *Hooks {
	f := promauto.With(reg)
	return &Hooks{
		selfHeal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "offcache",
			Name:      "self_heal_total",
			Help:      "Stored entries deleted on read, by reason.",
		}, []string{"reason"}),
		installFailed: f.NewCounter(prometheus.CounterOpts{
			Namespace: "offcache",
			Name:      "install_failures_total",
			Help:      "Precache installs that failed and were not promoted.",
		}),
		refreshFailed: f.NewCounter(prometheus.CounterOpts{
			Namespace: "offcache",
			Name:      "refresh_failures_total",
			Help:      "Background refreshes that could not replace an entry.",
		}),
		refreshStored: f.NewCounter(prometheus.CounterOpts{
			Namespace: "offcache",
			Name:      "refresh_stored_total",
			Help:      "Background refreshes that overwrote an entry.",
		}),
		offlineFallback: f.NewCounter(prometheus.CounterOpts{
			Namespace: "offcache",
			Name:      "offline_fallbacks_total",
			Help:      "Requests answered with the synthetic 503 response.",
		}),
		generationPurged: f.NewCounter(prometheus.CounterOpts{
			Namespace: "offcache",
			Name:      "generations_purged_total",
			Help:      "Superseded generations deleted during activation.",
		}),
		purgedEntries: f.NewCounter(prometheus.CounterOpts{
			Namespace: "offcache",
			Name:      "purged_entries_total",
			Help:      "Entries removed while purging superseded generations.",
		}),
		setRejected: f.NewCounter(prometheus.CounterOpts{
			Namespace: "offcache",
			Name:      "provider_set_rejected_total",
			Help:      "Writes the provider rejected under pressure.",
		}),
	}
}

func (h *Hooks) SelfHeal(_, reason string)     { h.selfHeal.WithLabelValues(reason).Inc() }
func (h *Hooks) InstallFailed(string, error)   { h.installFailed.Inc() }
func (h *Hooks) RefreshFailed(string, error)   { h.refreshFailed.Inc() }
func (h *Hooks) RefreshStored(string)          { h.refreshStored.Inc() }
func (h *Hooks) OfflineFallback(string)        { h.offlineFallback.Inc() }
func (h *Hooks) ProviderSetRejected(string)    { h.setRejected.Inc() }

func (h *Hooks) GenerationPurged(_ string, entries int) {
	h.generationPurged.Inc()
	h.purgedEntries.Add(float64(entries))
}
