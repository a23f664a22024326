// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package telemetry

import (
	"time"

	"github.com/go-logr/logr"
)

// Snapshot is one immutable reading of cumulative counters for a key.
// Counters are non-negative and monotonically non-decreasing under normal
// operation; they may reset to near-zero on counter overflow or interface
// restart, which the sampler absorbs via the zero-clamp policy.
type Snapshot struct {
	Timestamp time.Time
	Counters  map[string]uint64
}

// Rate is the derived result of differencing two Snapshots of the same key.
// When Defined is false no prior baseline existed and the other fields are
// zero; this is a distinct state from a genuine zero rate.
type Rate struct {
	Defined bool
	// ElapsedMs is the wall-clock window between the two snapshots
	ElapsedMs int64
	// Deltas holds the per-counter raw deltas, clamped to zero on apparent
	// counter regression
	Deltas map[string]uint64
}

// PerSecond returns the named counter's delta scaled to an absolute
// per-second value. Returns 0 for undefined rates.
func (r Rate) PerSecond(counter string) float64 {
	if !r.Defined || r.ElapsedMs <= 0 {
		return 0
	}
	return float64(r.Deltas[counter]) * 1000.0 / float64(r.ElapsedMs)
}

// PercentOfTotal returns the named counter's delta as a percentage of the
// sum of all counter deltas in this rate. Percentages derived this way from
// the same Rate sum to ~100. Returns 0 for undefined rates or an all-zero
// window.
func (r Rate) PercentOfTotal(counter string) float64 {
	if !r.Defined {
		return 0
	}
	var total uint64
	for _, d := range r.Deltas {
		total += d
	}
	if total == 0 {
		return 0
	}
	return float64(r.Deltas[counter]) / float64(total) * 100.0
}

// samplerEntry is the per-key mutable state owned exclusively by the
// sampler: the last stored snapshot, the last computed rate, and the time
// the entry was last refreshed.
type samplerEntry struct {
	snapshot    Snapshot
	rate        Rate
	refreshedAt time.Time
}

// Sampler turns monotonically increasing cumulative counters sampled at
// irregular times into per-second/per-percent rates. State is keyed; a rate
// is only ever computed from two snapshots of the same key.
//
// The sampler performs no I/O and no locking of its own: all mutation of a
// key's entry happens synchronously within one Observe call. Callers that
// fan out acquisition concurrently must serialize Observe calls (the
// samplers in this package acquire concurrently but observe serially).
type Sampler struct {
	minInterval time.Duration
	logger      logr.Logger
	entries     map[string]*samplerEntry
	nowFn       func() time.Time
}

// NewSampler creates a sampler with the given debounce interval: the
// minimum wall-clock time between accepted re-samplings per key. Repeated
// Observe calls inside the window return the cached rate unchanged.
func NewSampler(minInterval time.Duration, logger logr.Logger) *Sampler {
	return &Sampler{
		minInterval: minInterval,
		logger:      logger.WithName("sampler"),
		entries:     make(map[string]*samplerEntry),
		nowFn:       time.Now,
	}
}

// MinInterval returns the configured debounce interval.
func (s *Sampler) MinInterval() time.Duration {
	return s.minInterval
}

// ShouldRefresh reports whether a new snapshot for key would be accepted at
// the given time. Callers use it to suppress redundant raw acquisition
// inside the debounce window. A key never observed always wants a refresh.
func (s *Sampler) ShouldRefresh(key string, now time.Time) bool {
	e, ok := s.entries[key]
	if !ok {
		return true
	}
	return now.Sub(e.refreshedAt) >= s.minInterval
}

// Observe feeds a freshly acquired snapshot for key and returns the derived
// rate.
//
// First observation of a key stores the snapshot as baseline and returns an
// undefined rate. Inside the debounce window the cached rate is returned
// unchanged. Otherwise per-counter deltas are computed (clamped to zero on
// apparent counter regression), the baseline is replaced, and the new rate
// is returned. Degenerate inputs never fail: a zero elapsed window also
// serves the cached rate.
func (s *Sampler) Observe(key string, snap Snapshot) Rate {
	rate, _ := s.observe(key, snap)
	return rate
}

// observe implements Observe and additionally reports whether the snapshot
// was stored as the key's new baseline. Cache-served results (debounce
// window, degenerate timestamps) report false; first sight of a key reports
// true, since the snapshot became the baseline even though the returned
// rate is undefined.
func (s *Sampler) observe(key string, snap Snapshot) (Rate, bool) {
	now := s.nowFn()

	e, ok := s.entries[key]
	if !ok {
		s.entries[key] = &samplerEntry{
			snapshot:    snap,
			rate:        Rate{},
			refreshedAt: now,
		}
		s.logger.V(2).Info("created sampler entry", "key", key)
		return Rate{}, true
	}

	if now.Sub(e.refreshedAt) < s.minInterval {
		return e.rate, false
	}

	elapsed := snap.Timestamp.Sub(e.snapshot.Timestamp)
	if elapsed <= 0 {
		// The divisor must never be zero; serve the cached rate until a
		// later snapshot arrives.
		s.logger.V(2).Info("degenerate window, serving cached rate",
			"key", key, "elapsed", elapsed)
		return e.rate, false
	}

	deltas := make(map[string]uint64, len(snap.Counters))
	for name, current := range snap.Counters {
		previous := e.snapshot.Counters[name]
		if current < previous {
			// Counter reset or overflow: the delta is zero for this
			// interval and the new raw value becomes the baseline.
			s.logger.V(1).Info("counter regression detected",
				"key", key, "counter", name, "previous", previous, "current", current)
			deltas[name] = 0
			continue
		}
		deltas[name] = current - previous
	}

	e.rate = Rate{
		Defined:   true,
		ElapsedMs: elapsed.Milliseconds(),
		Deltas:    deltas,
	}
	e.snapshot = snap
	e.refreshedAt = now
	return e.rate, true
}

// Current returns the last computed rate for key, or an undefined rate if
// the key was never observed. Querying an unknown key is not an error.
func (s *Sampler) Current(key string) Rate {
	e, ok := s.entries[key]
	if !ok {
		return Rate{}
	}
	return e.rate
}

// Keys returns every key the sampler has ever observed. Entries for keys
// that disappeared from the external enumeration simply stop being
// refreshed; they are never destroyed.
func (s *Sampler) Keys() []string {
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	return keys
}
