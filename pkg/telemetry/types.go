// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package telemetry

import (
	"fmt"
	"path/filepath"
	"time"
)

// MetricType represents the type of telemetry metric
type MetricType string

const (
	// Time-varying metrics
	MetricTypeCPU     MetricType = "cpu"
	MetricTypeLoad    MetricType = "load"
	MetricTypeNetwork MetricType = "network"
	// Static hardware identity
	MetricTypeCPUInfo     MetricType = "cpu_info"
	MetricTypeNetworkInfo MetricType = "network_info"
)

// CollectorStatus represents the operational status of a collector
type CollectorStatus string

const (
	CollectorStatusActive   CollectorStatus = "active"
	CollectorStatusDegraded CollectorStatus = "degraded"
	CollectorStatusFailed   CollectorStatus = "failed"
	CollectorStatusDisabled CollectorStatus = "disabled"
)

// CPU tick counter names shared by the CPU tick sources and the CPU sampler.
// Every CPUTicks reading carries exactly these five counters; percentages
// derived from the same interval sum to ~100 because they share the total
// tick delta as denominator.
const (
	CounterUser   = "user"
	CounterSystem = "system"
	CounterNice   = "nice"
	CounterIRQ    = "irq"
	CounterIdle   = "idle"
)

// Network counter names shared by the interface counter sources and the
// network sampler.
const (
	CounterRxBytes   = "rx_bytes"
	CounterTxBytes   = "tx_bytes"
	CounterRxErrors  = "rx_errors"
	CounterRxDropped = "rx_dropped"
	CounterTxErrors  = "tx_errors"
	CounterTxDropped = "tx_dropped"
)

// CPUTicks holds cumulative tick counters for one logical core, read at one
// instant. Values are in USER_HZ units on Linux; the sampler only ever looks
// at deltas so the unit cancels out.
type CPUTicks struct {
	// CPU index (0+ for individual cores; AggregateCPUIndex for the
	// synthetic sum-of-all-cores reading)
	CPUIndex int32
	User     uint64
	System   uint64
	Nice     uint64
	IRQ      uint64
	Idle     uint64
}

// AggregateCPUIndex marks the synthetic element-wise sum across all cores.
const AggregateCPUIndex int32 = -1

// Counters converts the tick reading into the generic counter map consumed
// by the sampler.
func (t CPUTicks) Counters() map[string]uint64 {
	return map[string]uint64{
		CounterUser:   t.User,
		CounterSystem: t.System,
		CounterNice:   t.Nice,
		CounterIRQ:    t.IRQ,
		CounterIdle:   t.Idle,
	}
}

// CPUTickSnapshot is one reading of all logical cores, taken at effectively
// the same instant.
type CPUTickSnapshot struct {
	Timestamp time.Time
	Cores     []CPUTicks
}

// CoreLoad is the derived utilization breakdown for one logical core (or the
// aggregate) over the last accepted sampling window.
type CoreLoad struct {
	CPUIndex int32
	// Defined is false until two snapshots exist for this core.
	Defined bool
	// ElapsedMs is the wall-clock window the percentages were derived over.
	ElapsedMs int64
	// Raw tick deltas over the window
	UserDelta   uint64
	SystemDelta uint64
	NiceDelta   uint64
	IRQDelta    uint64
	IdleDelta   uint64
	// Percentage of total elapsed ticks spent in each state
	UserPercent   float64
	SystemPercent float64
	NicePercent   float64
	IRQPercent    float64
	IdlePercent   float64
}

// CPULoad is the full output of one CPU sampling cycle.
type CPULoad struct {
	Timestamp time.Time
	// Total is derived from the element-wise sum of all cores' counters.
	Total CoreLoad
	// Cores holds per-core breakdowns in /proc/stat order.
	Cores []CoreLoad
}

// LoadAverage is the OS-native load statistic. It is computed independently
// of the tick-differenced percentages and is not subject to the sampler's
// debounce window.
type LoadAverage struct {
	Load1Min  float64
	Load5Min  float64
	Load15Min float64
	// Logical core count used for normalization
	CoreCount int32
	// Load averages divided by core count
	Normalized1Min  float64
	Normalized5Min  float64
	Normalized15Min float64
}

// InterfaceCounters holds cumulative counters for one network interface,
// read at one instant, plus the interface's current operational state.
type InterfaceCounters struct {
	Name      string
	Timestamp time.Time
	RxBytes   uint64
	TxBytes   uint64
	RxErrors  uint64
	RxDropped uint64
	TxErrors  uint64
	TxDropped uint64
	// OperState is passed through from the source ("up", "down", "unknown")
	OperState string
}

// Counters converts the reading into the generic counter map consumed by
// the sampler. OperState is metadata, not a counter.
func (c InterfaceCounters) Counters() map[string]uint64 {
	return map[string]uint64{
		CounterRxBytes:   c.RxBytes,
		CounterTxBytes:   c.TxBytes,
		CounterRxErrors:  c.RxErrors,
		CounterRxDropped: c.RxDropped,
		CounterTxErrors:  c.TxErrors,
		CounterTxDropped: c.TxDropped,
	}
}

// InterfaceRate is the derived throughput for one interface.
type InterfaceRate struct {
	Name string
	// Defined is false until two snapshots exist for this interface, or when
	// the interface is unknown to the sampler.
	Defined bool
	// ElapsedMs is the window actually used for the rate computation;
	// 0 when the result was served from the debounce cache.
	ElapsedMs     int64
	RxBytesPerSec float64
	TxBytesPerSec float64
	// Error/drop increments over the window; zero on cache-served results
	// so they are safe to accumulate downstream
	RxErrorsDelta  uint64
	RxDroppedDelta uint64
	TxErrorsDelta  uint64
	TxDroppedDelta uint64
	// Latest operational state reported by the source
	OperState string
}

// CPUInfo represents static CPU hardware identity
type CPUInfo struct {
	ModelName     string
	VendorID      string
	PhysicalCores int32
	LogicalCores  int32
	// Current frequency from /proc/cpuinfo
	CPUMHz float64
	// Cache size string as reported by the kernel (e.g. "512 KB")
	CacheSize string
	// CPU flags/features
	Flags []string
}

// NetworkInfo represents static network interface identity
type NetworkInfo struct {
	Interface  string
	MACAddress string
	Driver     string
	// Link speed in Mbps
	Speed  uint64
	Duplex string
	MTU    uint32
	// Operational state at enumeration time
	OperState    string
	LinkDetected bool
}

// CollectionConfig represents configuration for telemetry collection
type CollectionConfig struct {
	// Interval between collection cycles
	Interval          time.Duration
	EnabledCollectors map[MetricType]bool
	HostProcPath      string // Path to /proc (useful for containers)
	HostSysPath       string // Path to /sys (useful for containers)
	// Interfaces to sample; empty means all interfaces known to the source
	Interfaces []string
	// Minimum wall-clock time between accepted CPU re-samplings
	CPUSampleInterval time.Duration
	// Minimum wall-clock time between accepted network re-samplings
	NetworkSampleInterval time.Duration
}

// DefaultCollectionConfig returns a default configuration
func DefaultCollectionConfig() CollectionConfig {
	return CollectionConfig{
		Interval: time.Second,
		EnabledCollectors: map[MetricType]bool{
			MetricTypeCPU:         true,
			MetricTypeLoad:        true,
			MetricTypeNetwork:     true,
			MetricTypeCPUInfo:     true,
			MetricTypeNetworkInfo: true,
		},
		HostProcPath:          "/proc",
		HostSysPath:           "/sys",
		CPUSampleInterval:     200 * time.Millisecond,
		NetworkSampleInterval: 500 * time.Millisecond,
	}
}

// ApplyDefaults fills in zero values with defaults
func (c *CollectionConfig) ApplyDefaults() {
	defaults := DefaultCollectionConfig()

	if c.Interval == 0 {
		c.Interval = defaults.Interval
	}
	if c.EnabledCollectors == nil {
		c.EnabledCollectors = defaults.EnabledCollectors
	}
	if c.HostProcPath == "" {
		c.HostProcPath = defaults.HostProcPath
	}
	if c.HostSysPath == "" {
		c.HostSysPath = defaults.HostSysPath
	}
	if c.CPUSampleInterval == 0 {
		c.CPUSampleInterval = defaults.CPUSampleInterval
	}
	if c.NetworkSampleInterval == 0 {
		c.NetworkSampleInterval = defaults.NetworkSampleInterval
	}
}

// ValidateOptions specifies validation requirements for CollectionConfig
type ValidateOptions struct {
	RequireHostProcPath bool
	RequireHostSysPath  bool
}

// Validate ensures that all configured paths are absolute paths and that
// required paths are non-empty.
func (c *CollectionConfig) Validate(opt ValidateOptions) error {
	if opt.RequireHostProcPath && c.HostProcPath == "" {
		return fmt.Errorf("HostProcPath is required but not provided")
	}
	if opt.RequireHostSysPath && c.HostSysPath == "" {
		return fmt.Errorf("HostSysPath is required but not provided")
	}

	if c.HostProcPath != "" && !filepath.IsAbs(c.HostProcPath) {
		return fmt.Errorf("HostProcPath must be an absolute path, got: %q", c.HostProcPath)
	}
	if c.HostSysPath != "" && !filepath.IsAbs(c.HostSysPath) {
		return fmt.Errorf("HostSysPath must be an absolute path, got: %q", c.HostSysPath)
	}
	return nil
}
