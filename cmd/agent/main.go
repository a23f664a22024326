// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Stetchy/systeminformation/pkg/metrics"
	"github.com/Stetchy/systeminformation/pkg/metrics/consumers/debug"
	"github.com/Stetchy/systeminformation/pkg/metrics/consumers/otel"
	"github.com/Stetchy/systeminformation/pkg/telemetry"
	"github.com/Stetchy/systeminformation/pkg/telemetry/collectors"
	"github.com/Stetchy/systeminformation/pkg/telemetry/sources"
)

var (
	collectionInterval time.Duration
	nodeName           string
	interfaceList      string
	disabledCollectors string
	hostProcPath       string
	hostSysPath        string

	enableDebugConsumer bool
	debugLogLevel       int

	enableOTel   bool
	otelEndpoint string
	otelInsecure bool

	devLogging bool
)

func main() {
	flag.DurationVar(&collectionInterval, "collection-interval", time.Second,
		"Interval between telemetry collection cycles")
	flag.StringVar(&nodeName, "node-name", "",
		"Node name attached to published metrics (default: NODE_NAME env or hostname)")
	flag.StringVar(&interfaceList, "interfaces", "",
		"Comma-separated interfaces to sample (default: all)")
	flag.StringVar(&disabledCollectors, "disable-collectors", "",
		"Comma-separated metric types to disable (cpu, load, network, cpu_info, network_info)")
	flag.StringVar(&hostProcPath, "host-proc", "",
		"Path to the host's /proc mount (default: /proc, or HOST_PROC env)")
	flag.StringVar(&hostSysPath, "host-sys", "",
		"Path to the host's /sys mount (default: /sys, or HOST_SYS env)")
	flag.BoolVar(&enableDebugConsumer, "debug-consumer", false,
		"Log every metric event through the agent logger")
	flag.IntVar(&debugLogLevel, "debug-level", int(debug.LogLevelDetails),
		"Debug consumer verbosity: 0=basic, 1=details, 2=verbose")
	flag.BoolVar(&enableOTel, "enable-otel", false,
		"Enable the OpenTelemetry OTLP consumer (configure via OTEL_* environment variables)")
	flag.StringVar(&otelEndpoint, "otel-endpoint", "",
		"OTLP gRPC endpoint; overrides OTEL_EXPORTER_OTLP_ENDPOINT")
	flag.BoolVar(&otelInsecure, "otel-insecure", false,
		"Disable TLS for the OTLP connection")
	flag.BoolVar(&devLogging, "dev", false,
		"Use development (console) log output instead of JSON")
	flag.Parse()

	logger, flush, err := buildLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer flush()

	if err := run(logger); err != nil {
		logger.Error(err, "agent exited with error")
		flush()
		os.Exit(1)
	}
}

func run(logger logr.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config := telemetry.CollectionConfig{
		Interval:     collectionInterval,
		HostProcPath: hostProcPath,
		HostSysPath:  hostSysPath,
	}
	if interfaceList != "" {
		config.Interfaces = splitList(interfaceList)
	}
	if disabledCollectors != "" {
		config.ApplyDefaults()
		for _, name := range splitList(disabledCollectors) {
			config.EnabledCollectors[telemetry.MetricType(name)] = false
		}
	}

	router := metrics.NewMetricsRouter(logger)
	if err := registerConsumers(ctx, router, logger); err != nil {
		return err
	}

	registry := telemetry.NewRegistry(logger)
	manager, err := telemetry.NewManager(telemetry.ManagerOptions{
		Config:   config,
		Logger:   logger,
		NodeName: nodeName,
		Registry: registry,
		Router:   router,
	})
	if err != nil {
		return fmt.Errorf("failed to create telemetry manager: %w", err)
	}

	// The manager's config has defaults and HOST_PROC/HOST_SYS overrides
	// applied; the source must see the same paths.
	source, err := sources.New(logger, manager.GetConfig())
	if err != nil {
		return fmt.Errorf("failed to create platform source: %w", err)
	}
	if err := collectors.RegisterAll(registry, logger, manager.GetConfig(), source); err != nil {
		return err
	}

	logger.Info("starting agent",
		"node", manager.GetNodeName(),
		"interval", manager.GetConfig().Interval)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return router.Start(ctx)
	})
	g.Go(func() error {
		return manager.Run(ctx)
	})
	return g.Wait()
}

func registerConsumers(ctx context.Context, router *metrics.MetricsRouter, logger logr.Logger) error {
	if enableDebugConsumer {
		config := debug.DefaultConfig()
		config.LogLevel = debug.LogLevel(debugLogLevel)
		consumer, err := debug.NewConsumer(config, logger)
		if err != nil {
			return fmt.Errorf("failed to create debug consumer: %w", err)
		}
		if err := router.RegisterConsumer(ctx, consumer); err != nil {
			return err
		}
	}

	if enableOTel {
		config := otel.DefaultConfig()
		config.ApplyEnvironmentVariables()
		if otelEndpoint != "" {
			config.Endpoint = otelEndpoint
		}
		if otelInsecure {
			config.Insecure = true
		}
		consumer, err := otel.NewConsumer(config, logger)
		if err != nil {
			return fmt.Errorf("failed to create OpenTelemetry consumer: %w", err)
		}
		if err := router.RegisterConsumer(ctx, consumer); err != nil {
			return err
		}
	}

	return nil
}

func buildLogger() (logr.Logger, func(), error) {
	zapConfig := zap.NewProductionConfig()
	if devLogging {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapLog, err := zapConfig.Build()
	if err != nil {
		return logr.Logger{}, nil, err
	}
	flush := func() { _ = zapLog.Sync() }
	return zapr.NewLogger(zapLog), flush, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
