// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

// Package gops acquires raw telemetry snapshots through gopsutil. It is the
// portable variant of the source interfaces in pkg/telemetry, used on
// platforms without a proc filesystem (macOS, BSD, Windows). The samplers
// consume it identically to the procfs variant.
package gops

import (
	"github.com/Stetchy/systeminformation/pkg/telemetry"
	"github.com/go-logr/logr"
)

// Source reads cumulative counters and hardware identity via gopsutil's
// per-OS syscall bindings.
type Source struct {
	logger logr.Logger
}

// Compile-time interface checks
var (
	_ telemetry.CPUTickSource    = (*Source)(nil)
	_ telemetry.NetCounterSource = (*Source)(nil)
	_ telemetry.LoadAvgSource    = (*Source)(nil)
	_ telemetry.CPUInfoSource    = (*Source)(nil)
	_ telemetry.NetInfoSource    = (*Source)(nil)
)

func New(logger logr.Logger) *Source {
	return &Source{logger: logger.WithName("gops")}
}
