// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package procfs_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hyperthreadedCPUInfo = `processor	: 0
vendor_id	: GenuineIntel
model name	: Intel(R) Core(TM) i7-8550U CPU @ 1.80GHz
cpu MHz		: 1992.000
cache size	: 8192 KB
physical id	: 0
core id		: 0
flags		: fpu vme de pse tsc msr sse sse2

processor	: 1
vendor_id	: GenuineIntel
model name	: Intel(R) Core(TM) i7-8550U CPU @ 1.80GHz
cpu MHz		: 1992.000
cache size	: 8192 KB
physical id	: 0
core id		: 0
flags		: fpu vme de pse tsc msr sse sse2

processor	: 2
vendor_id	: GenuineIntel
model name	: Intel(R) Core(TM) i7-8550U CPU @ 1.80GHz
cpu MHz		: 1992.000
cache size	: 8192 KB
physical id	: 0
core id		: 1
flags		: fpu vme de pse tsc msr sse sse2

processor	: 3
vendor_id	: GenuineIntel
model name	: Intel(R) Core(TM) i7-8550U CPU @ 1.80GHz
cpu MHz		: 1992.000
cache size	: 8192 KB
physical id	: 0
core id		: 1
flags		: fpu vme de pse tsc msr sse sse2
`

func TestCPUInfo(t *testing.T) {
	source := createTestSource(t, map[string]string{"cpuinfo": hyperthreadedCPUInfo}, nil)

	info, err := source.CPUInfo(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Intel(R) Core(TM) i7-8550U CPU @ 1.80GHz", info.ModelName)
	assert.Equal(t, "GenuineIntel", info.VendorID)
	assert.InDelta(t, 1992.0, info.CPUMHz, 0.001)
	assert.Equal(t, "8192 KB", info.CacheSize)
	assert.Contains(t, info.Flags, "sse2")
	assert.Equal(t, int32(4), info.LogicalCores)
	// Two hyperthreads share each physical core
	assert.Equal(t, int32(2), info.PhysicalCores)
}

func TestCPUInfo_NoTopologyFallback(t *testing.T) {
	// VMs often omit physical id / core id; physical count falls back to
	// the logical count.
	content := `processor	: 0
vendor_id	: GenuineIntel
model name	: Intel Xeon Processor (Skylake)
cpu MHz		: 2095.148

processor	: 1
vendor_id	: GenuineIntel
model name	: Intel Xeon Processor (Skylake)
cpu MHz		: 2095.148
`
	source := createTestSource(t, map[string]string{"cpuinfo": content}, nil)

	info, err := source.CPUInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), info.LogicalCores)
	assert.Equal(t, int32(2), info.PhysicalCores)
}

func TestCPUInfo_Empty(t *testing.T) {
	source := createTestSource(t, map[string]string{"cpuinfo": "\n"}, nil)

	_, err := source.CPUInfo(context.Background())
	assert.Error(t, err)
}

func TestCPUInfo_Missing(t *testing.T) {
	source := createTestSource(t, nil, nil)

	_, err := source.CPUInfo(context.Background())
	assert.Error(t, err)
}
