// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

//go:build linux

package sources

import (
	"github.com/Stetchy/systeminformation/pkg/telemetry"
	"github.com/Stetchy/systeminformation/pkg/telemetry/sources/procfs"
	"github.com/go-logr/logr"
)

// New returns the Linux backend reading the proc and sys mounts named in
// config.
func New(logger logr.Logger, config telemetry.CollectionConfig) (Source, error) {
	return procfs.New(logger, config)
}
