package infra

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/tnqbao/gau-craft-catalog"

const (
	ResultSuccess  = "success"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

type CraftMetrics struct {
	operations metric.Int64Counter
	uploadSize metric.Int64Histogram
}

func NewCraftMetrics(provider metric.MeterProvider) (*CraftMetrics, error) {
	meter := provider.Meter(meterName)

	operations, err := meter.Int64Counter(
		"craft.operations",
		metric.WithDescription("Craft store operations by operation and result"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create craft.operations counter: %w", err)
	}

	uploadSize, err := meter.Int64Histogram(
		"craft.image.upload.size",
		metric.WithDescription("Size of stored craft images"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create craft.image.upload.size histogram: %w", err)
	}

	return &CraftMetrics{operations: operations, uploadSize: uploadSize}, nil
}

func (m *CraftMetrics) RecordOperation(ctx context.Context, operation, result string) {
	m.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("result", result),
	))
}

func (m *CraftMetrics) RecordUpload(ctx context.Context, size int64) {
	m.uploadSize.Record(ctx, size)
}
