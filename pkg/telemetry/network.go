// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package telemetry

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"
)

// DefaultNetworkSampleInterval is the minimum wall-clock time between
// accepted network re-samplings. Coarser than the CPU interval since
// per-interface acquisition is a separate, comparatively expensive call.
const DefaultNetworkSampleInterval = 500 * time.Millisecond

// NetworkSampler derives per-interface throughput from cumulative byte and
// error counters. Each interface name is its own sampler key.
//
// Acquisition fans out concurrently across interfaces; the sampler state
// itself is only ever mutated serially after the fan-out completes, so no
// internal locking is needed.
type NetworkSampler struct {
	sampler *Sampler
	source  NetCounterSource
	logger  logr.Logger
	// last known operational state per interface, for cache-served results
	operState map[string]string
}

// NewNetworkSampler creates a network sampler over the given counter
// source. A zero interval falls back to DefaultNetworkSampleInterval.
func NewNetworkSampler(source NetCounterSource, minInterval time.Duration, logger logr.Logger) *NetworkSampler {
	if minInterval == 0 {
		minInterval = DefaultNetworkSampleInterval
	}
	return &NetworkSampler{
		sampler:   NewSampler(minInterval, logger),
		source:    source,
		logger:    logger.WithName("network-sampler"),
		operState: make(map[string]string),
	}
}

// Observe feeds one counter reading for an interface and returns the
// derived throughput. First sight of an interface returns the undefined
// sentinel; within the debounce window the cached rate is returned with a
// zero window and zero error/drop increments.
func (n *NetworkSampler) Observe(counters InterfaceCounters) InterfaceRate {
	rate, accepted := n.sampler.observe(counters.Name, Snapshot{
		Timestamp: counters.Timestamp,
		Counters:  counters.Counters(),
	})
	if accepted {
		n.operState[counters.Name] = counters.OperState
	}
	return n.interfaceRate(counters.Name, rate, !accepted)
}

// Current returns the last derived throughput for the named interface, or
// the undefined sentinel if it was never observed. Never an error: an
// interface that vanished from enumeration keeps serving its last rate.
func (n *NetworkSampler) Current(name string) InterfaceRate {
	return n.interfaceRate(name, n.sampler.Current(name), true)
}

// ObserveAll resolves each requested interface independently, acquiring
// counters concurrently where the window calls for a refresh. An empty name
// set means all interfaces currently known to the source.
//
// An interface whose acquisition fails yields the undefined sentinel for
// this cycle and leaves its cached entry intact; it never aborts the other
// interfaces' observations.
func (n *NetworkSampler) ObserveAll(ctx context.Context, names []string) ([]InterfaceRate, error) {
	if len(names) == 0 {
		live, err := n.source.Interfaces(ctx)
		if err != nil {
			return nil, err
		}
		names = live
	}

	now := n.sampler.nowFn()
	acquired := make([]*InterfaceCounters, len(names))

	g, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		if !n.sampler.ShouldRefresh(name, now) {
			continue
		}
		g.Go(func() error {
			counters, err := n.source.Counters(ctx, name)
			if err != nil {
				// Skip this key for the cycle; the cached entry stays
				// intact.
				n.logger.V(1).Info("interface counters unavailable",
					"interface", name, "error", err)
				return nil
			}
			acquired[i] = &counters
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Observe serially: sampler entries are mutated by exactly one
	// goroutine.
	rates := make([]InterfaceRate, 0, len(names))
	for i, name := range names {
		if acquired[i] != nil {
			rates = append(rates, n.Observe(*acquired[i]))
			continue
		}
		rates = append(rates, n.Current(name))
	}
	return rates, nil
}

func (n *NetworkSampler) interfaceRate(name string, rate Rate, cached bool) InterfaceRate {
	out := InterfaceRate{
		Name:      name,
		Defined:   rate.Defined,
		OperState: n.operState[name],
	}
	if !rate.Defined {
		return out
	}

	// Per-second rates are levels and safe to repeat; the delta fields are
	// increments and must only accompany the window that produced them, or
	// downstream monotonic counters would re-add them.
	if !cached {
		out.ElapsedMs = rate.ElapsedMs
		out.RxErrorsDelta = rate.Deltas[CounterRxErrors]
		out.RxDroppedDelta = rate.Deltas[CounterRxDropped]
		out.TxErrorsDelta = rate.Deltas[CounterTxErrors]
		out.TxDroppedDelta = rate.Deltas[CounterTxDropped]
	}
	out.RxBytesPerSec = rate.PerSecond(CounterRxBytes)
	out.TxBytesPerSec = rate.PerSecond(CounterTxBytes)
	return out
}
