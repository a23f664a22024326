// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package otel

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	// OTLP gRPC configuration
	Endpoint string // OTLP gRPC endpoint (default: localhost:4317)
	Insecure bool   // Disable TLS (default: false)

	// Headers for gRPC metadata
	Headers map[string]string

	// Timeout for export operations
	Timeout time.Duration

	// Resource attributes
	ServiceName    string
	ServiceVersion string

	// ExportInterval is how often the periodic reader pushes accumulated
	// metrics to the endpoint.
	ExportInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		Endpoint:       "localhost:4317",
		Headers:        make(map[string]string),
		Timeout:        30 * time.Second,
		ServiceName:    "systeminformation-agent",
		ExportInterval: 10 * time.Second,
	}
}

// ApplyEnvironmentVariables applies the standard OTLP exporter environment
// variables, following the OpenTelemetry specification's precedence: the
// metrics-specific variable wins over the generic one.
func (c *Config) ApplyEnvironmentVariables() {
	if endpoint := getEnvVar("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		// The env vars carry a URL; the gRPC exporter wants host:port
		endpoint = strings.TrimPrefix(endpoint, "https://")
		if rest, ok := strings.CutPrefix(endpoint, "http://"); ok {
			endpoint = rest
			c.Insecure = true
		}
		c.Endpoint = endpoint
	}

	if headers := getEnvVar("OTEL_EXPORTER_OTLP_METRICS_HEADERS", "OTEL_EXPORTER_OTLP_HEADERS"); headers != "" {
		if c.Headers == nil {
			c.Headers = make(map[string]string)
		}
		for _, pair := range strings.Split(headers, ",") {
			key, value, found := strings.Cut(pair, "=")
			if !found {
				continue
			}
			c.Headers[strings.TrimSpace(key)] = strings.TrimSpace(value)
		}
	}

	if timeout := getEnvVar("OTEL_EXPORTER_OTLP_METRICS_TIMEOUT", "OTEL_EXPORTER_OTLP_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout + "ms"); err == nil {
			c.Timeout = d
		}
	}

	if name := os.Getenv("OTEL_SERVICE_NAME"); name != "" {
		c.ServiceName = name
	}
}

func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultConfig().Timeout
	}
	if c.ExportInterval <= 0 {
		c.ExportInterval = DefaultConfig().ExportInterval
	}
	if c.ServiceName == "" {
		c.ServiceName = DefaultConfig().ServiceName
	}
	return nil
}

func getEnvVar(specific, generic string) string {
	if value := os.Getenv(specific); value != "" {
		return value
	}
	return os.Getenv(generic)
}
