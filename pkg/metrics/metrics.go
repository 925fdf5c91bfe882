// Package metrics collects scan metrics into a private prometheus registry.
// Queries are recorded with OpenTelemetry instruments exported into that
// registry. Scans are one-shot, so instead of serving an endpoint the registry
// is written to a node-exporter textfile when the run ends.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

const meterName = "openapiscan/pkg/metrics"

// Recorder observes scanner queries. It satisfies scanner.Observer.
type Recorder struct {
	registry      *prometheus.Registry
	meterProvider *sdkmetric.MeterProvider
	duration      metric.Float64Histogram
	found         metric.Int64Counter
}

// New creates a Recorder with its own registry and an OpenTelemetry meter
// provider exporting into it.
func New() (*Recorder, error) {
	reg := prometheus.NewRegistry()

	exp, err := otelprom.New(
		otelprom.WithRegisterer(reg),
		otelprom.WithoutScopeInfo(),
		otelprom.WithoutTargetInfo(),
	)
	if err != nil {
		return nil, fmt.Errorf("could not create otel exporter: %w", err)
	}

	r := &Recorder{
		registry:      reg,
		meterProvider: sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp)),
	}
	meter := r.meterProvider.Meter(meterName)

	r.duration, err = meter.Float64Histogram("openapiscan.query.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Duration of scanner queries."),
		metric.WithExplicitBucketBoundaries(DefaultBuckets...))
	if err != nil {
		return nil, fmt.Errorf("could not create duration histogram: %w", err)
	}

	r.found, err = meter.Int64Counter("openapiscan.types.found",
		metric.WithDescription("Number of types returned by scanner queries."))
	if err != nil {
		return nil, fmt.Errorf("could not create found counter: %w", err)
	}

	return r, nil
}

// ObserveQuery records the duration of a query and how many types it returned.
func (r *Recorder) ObserveQuery(query string, elapsed time.Duration, found int) {
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String("query", query))

	r.duration.Record(ctx, elapsed.Seconds(), attrs)
	r.found.Add(ctx, int64(found), attrs)
}

// MeterProvider returns the OpenTelemetry meter provider backed by the registry.
func (r *Recorder) MeterProvider() metric.MeterProvider {
	return r.meterProvider
}

// Gatherer exposes the registry for inspection.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes all metrics to path in the prometheus text format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("could not write metrics textfile: %w", err)
	}

	return nil
}

// Shutdown releases the meter provider.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if err := r.meterProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("could not shutdown meter provider: %w", err)
	}

	return nil
}
