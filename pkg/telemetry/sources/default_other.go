// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

//go:build !linux

package sources

import (
	"github.com/Stetchy/systeminformation/pkg/telemetry"
	"github.com/Stetchy/systeminformation/pkg/telemetry/sources/gops"
	"github.com/go-logr/logr"
)

// New returns the portable gopsutil backend. config's proc/sys paths are
// Linux concepts and are ignored here.
func New(logger logr.Logger, config telemetry.CollectionConfig) (Source, error) {
	return gops.New(logger), nil
}
