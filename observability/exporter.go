package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// ShutdownFunc flushes the pending stats and releases the exporter.
type ShutdownFunc func(ctx context.Context) error

// NewConsoleMetricsExporter serves for test/dev environment. The tree
// stats are written to w (stdout if nil) as JSON on every interval and
// once more on shutdown.
// The returned provider is installed as the global meter provider too,
// so the trees created with a nil stats provider report to it.
func NewConsoleMetricsExporter(w io.Writer, interval, timeout time.Duration) (*metric.MeterProvider, ShutdownFunc, error) {
	if w == nil {
		w = os.Stdout
	}
	exporter, err := stdoutmetric.New(
		stdoutmetric.WithWriter(w),
		stdoutmetric.WithoutTimestamps(),
	)
	if err != nil {
		return nil, nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(
		exporter,
		metric.WithInterval(interval),
		metric.WithTimeout(timeout),
	)))
	otel.SetMeterProvider(mp)
	return mp, mp.Shutdown, nil
}

// NewPrometheusMetricsExporter serves for the product environment, the
// stats are fetched by HTTP from the handler of registerer (the default
// prometheus registerer if nil).
func NewPrometheusMetricsExporter(registerer promclient.Registerer) (*metric.MeterProvider, ShutdownFunc, error) {
	if registerer == nil {
		registerer = promclient.DefaultRegisterer
	}
	exporter, err := prometheus.New(
		prometheus.WithRegisterer(registerer),
		prometheus.WithoutScopeInfo(),
	)
	if err != nil {
		return nil, nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(mp)
	return mp, mp.Shutdown, nil
}

// NewMetricsHandler serves the stats gathered by g on /metrics style
// endpoints, the default gatherer if g is nil.
func NewMetricsHandler(g promclient.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
