// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package telemetry

import (
	"fmt"
	"time"

	"github.com/go-logr/logr"
)

// DefaultCPUSampleInterval is the minimum wall-clock time between accepted
// CPU re-samplings.
const DefaultCPUSampleInterval = 200 * time.Millisecond

// CPUSampler derives per-core and aggregate utilization breakdowns from
// cumulative tick snapshots. Each logical core is tracked under its own
// sampler key; a synthetic aggregate key tracks the element-wise sum of all
// cores' counters.
//
// Not safe for concurrent use; callers drive it from a single collection
// loop.
type CPUSampler struct {
	sampler *Sampler
	logger  logr.Logger
	last    *CPULoad
}

// NewCPUSampler creates a CPU sampler with the given debounce interval.
// A zero interval falls back to DefaultCPUSampleInterval.
func NewCPUSampler(minInterval time.Duration, logger logr.Logger) *CPUSampler {
	if minInterval == 0 {
		minInterval = DefaultCPUSampleInterval
	}
	return &CPUSampler{
		sampler: NewSampler(minInterval, logger),
		logger:  logger.WithName("cpu-sampler"),
	}
}

// aggregateKey is the sampler key for the synthetic sum-of-all-cores entry.
const aggregateKey = "cpu"

func coreKey(index int32) string {
	return fmt.Sprintf("cpu%d", index)
}

// ShouldRefresh reports whether a new tick snapshot would be accepted now.
// Callers use it to skip raw acquisition entirely inside the debounce
// window.
func (c *CPUSampler) ShouldRefresh(now time.Time) bool {
	return c.sampler.ShouldRefresh(aggregateKey, now)
}

// Observe feeds one reading of all logical cores and returns the derived
// load. Within the debounce window the previous result is returned
// unchanged. Core indices that vanish between observations go stale; new
// indices create fresh entries lazily.
func (c *CPUSampler) Observe(snap CPUTickSnapshot) *CPULoad {
	if !c.ShouldRefresh(c.sampler.nowFn()) && c.last != nil {
		return c.last
	}

	load := &CPULoad{
		Timestamp: snap.Timestamp,
		Cores:     make([]CoreLoad, 0, len(snap.Cores)),
	}

	var aggregate CPUTicks
	aggregate.CPUIndex = AggregateCPUIndex

	for _, core := range snap.Cores {
		aggregate.User += core.User
		aggregate.System += core.System
		aggregate.Nice += core.Nice
		aggregate.IRQ += core.IRQ
		aggregate.Idle += core.Idle

		rate := c.sampler.Observe(coreKey(core.CPUIndex), Snapshot{
			Timestamp: snap.Timestamp,
			Counters:  core.Counters(),
		})
		load.Cores = append(load.Cores, coreLoadFromRate(core.CPUIndex, rate))
	}

	aggRate := c.sampler.Observe(aggregateKey, Snapshot{
		Timestamp: snap.Timestamp,
		Counters:  aggregate.Counters(),
	})
	load.Total = coreLoadFromRate(AggregateCPUIndex, aggRate)

	c.logger.V(2).Info("observed CPU ticks",
		"cores", len(snap.Cores), "defined", load.Total.Defined)
	c.last = load
	return load
}

// Current returns the last derived load, or nil if no snapshot has been
// observed yet.
func (c *CPUSampler) Current() *CPULoad {
	return c.last
}

func coreLoadFromRate(index int32, rate Rate) CoreLoad {
	load := CoreLoad{
		CPUIndex:  index,
		Defined:   rate.Defined,
		ElapsedMs: rate.ElapsedMs,
	}
	if !rate.Defined {
		return load
	}

	load.UserDelta = rate.Deltas[CounterUser]
	load.SystemDelta = rate.Deltas[CounterSystem]
	load.NiceDelta = rate.Deltas[CounterNice]
	load.IRQDelta = rate.Deltas[CounterIRQ]
	load.IdleDelta = rate.Deltas[CounterIdle]

	load.UserPercent = rate.PercentOfTotal(CounterUser)
	load.SystemPercent = rate.PercentOfTotal(CounterSystem)
	load.NicePercent = rate.PercentOfTotal(CounterNice)
	load.IRQPercent = rate.PercentOfTotal(CounterIRQ)
	load.IdlePercent = rate.PercentOfTotal(CounterIdle)
	return load
}

// NormalizeLoadAverage fills in the per-core normalized figures on a raw
// load average reading. The load average is an OS-native statistic computed
// independently of the tick-differenced percentages; the two are reported
// side by side, never reconciled.
func NormalizeLoadAverage(avg LoadAverage, coreCount int32) LoadAverage {
	avg.CoreCount = coreCount
	if coreCount > 0 {
		avg.Normalized1Min = avg.Load1Min / float64(coreCount)
		avg.Normalized5Min = avg.Load5Min / float64(coreCount)
		avg.Normalized15Min = avg.Load15Min / float64(coreCount)
	}
	return avg
}
