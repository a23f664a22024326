// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

// Package otel exports metric events over OTLP gRPC. Events are recorded
// synchronously into SDK instruments; the SDK's periodic reader owns
// batching and export, so HandleEvent stays non-blocking.
package otel

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	metricSDK "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/Stetchy/systeminformation/pkg/metrics"
)

// Compile-time check
var _ metrics.Consumer = (*Consumer)(nil)

const consumerName = "opentelemetry"

type Consumer struct {
	config Config
	logger logr.Logger

	provider    *metricSDK.MeterProvider
	transformer *transformer

	healthy   atomic.Bool
	lastError atomic.Pointer[error]

	eventsProcessed atomic.Uint64
	errorsCount     atomic.Uint64
}

func NewConsumer(config Config, logger logr.Logger) (*Consumer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	consumer := &Consumer{
		config: config,
		logger: logger.WithName("otel-consumer"),
	}
	// The exporter needs a context; the SDK pieces are built in Start.
	consumer.healthy.Store(true)
	return consumer, nil
}

func (c *Consumer) Name() string {
	return consumerName
}

func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("Starting OpenTelemetry consumer",
		"endpoint", c.config.Endpoint,
		"service_name", c.config.ServiceName,
		"export_interval", c.config.ExportInterval)

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(c.config.Endpoint),
		otlpmetricgrpc.WithTimeout(c.config.Timeout),
	}
	if c.config.Insecure {
		opts = append(opts, otlpmetricgrpc.WithTLSCredentials(insecure.NewCredentials()))
	}
	if len(c.config.Headers) > 0 {
		opts = append(opts, otlpmetricgrpc.WithHeaders(c.config.Headers))
	}

	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return err
	}

	res := resource.NewWithAttributes(
		"",
		semconv.ServiceName(c.config.ServiceName),
		semconv.ServiceVersion(c.config.ServiceVersion),
	)

	c.provider = metricSDK.NewMeterProvider(
		metricSDK.WithReader(metricSDK.NewPeriodicReader(
			exporter,
			metricSDK.WithInterval(c.config.ExportInterval),
		)),
		metricSDK.WithResource(res),
	)

	meter := c.provider.Meter(
		"github.com/Stetchy/systeminformation",
		metric.WithInstrumentationVersion(c.config.ServiceVersion),
	)
	c.transformer = newTransformer(meter, c.logger)

	go func() {
		<-ctx.Done()
		c.shutdown()
	}()
	return nil
}

func (c *Consumer) shutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.provider.Shutdown(shutdownCtx); err != nil {
		c.logger.Error(err, "Error shutting down meter provider")
	}
	c.logger.Info("OpenTelemetry consumer stopped",
		"events_processed", c.eventsProcessed.Load(),
		"errors", c.errorsCount.Load())
}

func (c *Consumer) HandleEvent(event metrics.MetricEvent) error {
	if c.transformer == nil {
		// Not started yet; the router starts consumers before routing, so
		// this only guards direct misuse.
		return nil
	}

	if err := c.transformer.record(event); err != nil {
		c.errorsCount.Add(1)
		c.lastError.Store(&err)
		return err
	}
	c.eventsProcessed.Add(1)
	return nil
}

func (c *Consumer) Health() metrics.ConsumerHealth {
	var lastErr error
	if errPtr := c.lastError.Load(); errPtr != nil {
		lastErr = *errPtr
	}
	return metrics.ConsumerHealth{
		Healthy:     c.healthy.Load(),
		LastError:   lastErr,
		EventsCount: c.eventsProcessed.Load(),
		ErrorsCount: c.errorsCount.Load(),
	}
}

// nodeAttribute is the shared resource-level attribute every recorded
// metric carries.
func nodeAttribute(event metrics.MetricEvent) attribute.KeyValue {
	return attribute.String("node", event.NodeName)
}
