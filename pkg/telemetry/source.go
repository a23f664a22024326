// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package telemetry

import "context"

// CPUTickSource acquires raw cumulative CPU tick counters. One implementing
// variant exists per operating system, selected once at startup; the
// samplers never branch on OS themselves.
type CPUTickSource interface {
	// Ticks returns one internally consistent reading of all logical cores.
	Ticks(ctx context.Context) (CPUTickSnapshot, error)
	// CoreCount returns the number of logical cores.
	CoreCount(ctx context.Context) (int32, error)
}

// NetCounterSource acquires raw cumulative network interface counters and
// enumerates the currently known interfaces.
type NetCounterSource interface {
	// Counters returns one reading for the named interface.
	Counters(ctx context.Context, iface string) (InterfaceCounters, error)
	// Interfaces returns the ordered set of currently known interface
	// names. The set may change between calls.
	Interfaces(ctx context.Context) ([]string, error)
}

// LoadAvgSource acquires the OS-native load averages.
type LoadAvgSource interface {
	LoadAverage(ctx context.Context) (LoadAverage, error)
}

// CPUInfoSource acquires static CPU hardware identity.
type CPUInfoSource interface {
	CPUInfo(ctx context.Context) (*CPUInfo, error)
}

// NetInfoSource acquires static network interface identity.
type NetInfoSource interface {
	NetworkInfo(ctx context.Context) ([]NetworkInfo, error)
}
