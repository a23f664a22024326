// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

// Package sources selects the platform acquisition backend. Linux builds
// read /proc and /sys directly; everything else goes through gopsutil.
package sources

import (
	"github.com/Stetchy/systeminformation/pkg/telemetry"
)

// Source bundles every acquisition capability one platform backend
// provides. Both backends implement all of them; the split into small
// interfaces exists so collectors can depend on just what they consume.
type Source interface {
	telemetry.CPUTickSource
	telemetry.NetCounterSource
	telemetry.LoadAvgSource
	telemetry.CPUInfoSource
	telemetry.NetInfoSource
}
