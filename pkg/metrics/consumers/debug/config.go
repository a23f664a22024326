// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package debug

import "fmt"

// LogLevel determines the verbosity of debug output
type LogLevel int

const (
	LogLevelBasic   LogLevel = 0 // event type only
	LogLevelDetails LogLevel = 1 // include source, node and a payload summary
	LogLevelVerbose LogLevel = 2 // include the full payload
)

var ErrInvalidLogLevel = fmt.Errorf("log level must be basic (%d), details (%d), or verbose (%d)",
	LogLevelBasic, LogLevelDetails, LogLevelVerbose)

func (l LogLevel) String() string {
	switch l {
	case LogLevelBasic:
		return "basic"
	case LogLevelDetails:
		return "details"
	case LogLevelVerbose:
		return "verbose"
	default:
		return fmt.Sprintf("unknown(%d)", int(l))
	}
}

type Config struct {
	LogLevel LogLevel

	// MetricTypeFilter only logs events matching these metric types
	// (empty = all)
	MetricTypeFilter []string
}

func DefaultConfig() Config {
	return Config{LogLevel: LogLevelDetails}
}

func (c *Config) Validate() error {
	if c.LogLevel < LogLevelBasic || c.LogLevel > LogLevelVerbose {
		return ErrInvalidLogLevel
	}
	return nil
}

func (c *Config) ShouldLogMetricType(metricType string) bool {
	if len(c.MetricTypeFilter) == 0 {
		return true
	}
	for _, filter := range c.MetricTypeFilter {
		if filter == metricType {
			return true
		}
	}
	return false
}
