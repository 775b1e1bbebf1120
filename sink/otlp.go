package sink

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	"go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/spyglass-io/spyglass"
)

// OTLP bridges event batches into OpenTelemetry log records and ships them
// through a config-built exporter (OTLP over gRPC or HTTP, or console).
//
// The bridge uses a simple processor, not a batch processor: batching is the
// collector's job and batching twice would reorder delivery relative to
// Close.
type OTLP struct {
	provider *sdklog.LoggerProvider
	logger   log.Logger
}

// NewOTLP builds the exporter from configuration and returns the bridge
// sink. The context is used for exporter construction only.
func NewOTLP(ctx context.Context, cfg *spyglass.OTLPConfig) (*OTLP, error) {
	exporter, err := buildLogExporter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("build log exporter: %w", err)
	}

	return newOTLP(ctx, cfg, exporter)
}

func newOTLP(ctx context.Context, cfg *spyglass.OTLPConfig, exporter sdklog.Exporter) (*OTLP, error) {
	res, err := resource.New(ctx,
		resource.WithSchemaURL(semconv.SchemaURL),
		resource.WithAttributes(semconv.ServiceName(cfg.GetServiceName())),
	)
	if err != nil {
		return nil, fmt.Errorf("build resource: %w", err)
	}

	provider := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewSimpleProcessor(exporter)),
	)

	return &OTLP{
		provider: provider,
		logger:   provider.Logger("spyglass"),
	}, nil
}

// Write emits one log record per event, in batch order.
func (o *OTLP) Write(batch []*spyglass.Event) error {
	ctx := context.Background()
	for _, ev := range batch {
		o.logger.Emit(ctx, toRecord(ev))
	}

	return nil
}

// Close shuts the provider down, flushing any in-flight export.
func (o *OTLP) Close() error {
	return o.provider.Shutdown(context.Background())
}

var _ Sink = (*OTLP)(nil)

func toRecord(ev *spyglass.Event) log.Record {
	var rec log.Record
	ts := time.Unix(0, int64(ev.TimestampNS))
	rec.SetTimestamp(ts)
	rec.SetObservedTimestamp(ts)
	rec.SetBody(log.StringValue(string(ev.Kind)))
	rec.SetSeverity(severityOf(ev))

	attrs := make([]log.KeyValue, 0, len(ev.Fields)+2)
	if ev.TraceID != "" {
		attrs = append(attrs, log.String("trace_id", ev.TraceID))
	}
	if ev.SpanID != "" {
		attrs = append(attrs, log.String("span_id", ev.SpanID))
	}
	for k, v := range ev.Fields {
		attrs = append(attrs, log.KeyValue{Key: k, Value: attrValue(v)})
	}
	rec.AddAttributes(attrs...)

	return rec
}

// severityOf maps failed requests and errored function calls to Error.
func severityOf(ev *spyglass.Event) log.Severity {
	if isErr, ok := ev.Fields["error"].(bool); ok && isErr {
		return log.SeverityError
	}
	if status, ok := ev.Fields["status"].(int); ok && status >= 500 {
		return log.SeverityError
	}

	return log.SeverityInfo
}

func attrValue(v any) log.Value {
	switch val := v.(type) {
	case string:
		return log.StringValue(val)
	case bool:
		return log.BoolValue(val)
	case int:
		return log.Int64Value(int64(val))
	case int64:
		return log.Int64Value(val)
	case uint64:
		return log.Int64Value(int64(val)) //nolint:gosec // telemetry attribute, wraparound acceptable
	case float64:
		return log.Float64Value(val)
	default:
		return log.StringValue(fmt.Sprint(val))
	}
}

// buildLogExporter creates a log exporter based on configuration.
func buildLogExporter(ctx context.Context, cfg *spyglass.OTLPConfig) (sdklog.Exporter, error) {
	switch cfg.GetExporter() {
	case "console":
		return stdoutlog.New(stdoutlog.WithPrettyPrint())
	case "none":
		return nopLogExporter{}, nil
	default:
		return buildOTLPLogExporter(ctx, cfg)
	}
}

// nopLogExporter is a no-op log exporter.
type nopLogExporter struct{}

func (nopLogExporter) Export(_ context.Context, _ []sdklog.Record) error { return nil }
func (nopLogExporter) Shutdown(_ context.Context) error                  { return nil }
func (nopLogExporter) ForceFlush(_ context.Context) error                { return nil }

func buildOTLPLogExporter(ctx context.Context, cfg *spyglass.OTLPConfig) (sdklog.Exporter, error) {
	if p := cfg.GetProtocol(); p == "http/protobuf" || p == "http" {
		opts := buildHTTPOptions(
			cfg,
			otlploghttp.WithEndpoint,
			otlploghttp.WithEndpointURL,
			otlploghttp.WithHeaders,
			otlploghttp.WithTimeout,
			otlploghttp.WithInsecure,
			func() otlploghttp.Option { return otlploghttp.WithCompression(otlploghttp.GzipCompression) },
		)

		return otlploghttp.New(ctx, opts...)
	}

	// Default to gRPC
	opts := buildGRPCOptions(
		cfg,
		otlploggrpc.WithEndpoint,
		otlploggrpc.WithHeaders,
		otlploggrpc.WithTimeout,
		otlploggrpc.WithInsecure,
		func() otlploggrpc.Option { return otlploggrpc.WithCompressor("gzip") },
	)

	return otlploggrpc.New(ctx, opts...)
}

func buildHTTPOptions[T any](
	cfg *spyglass.OTLPConfig,
	withEndpoint func(string) T,
	withEndpointURL func(string) T,
	withHeaders func(map[string]string) T,
	withTimeout func(time.Duration) T,
	withInsecure func() T,
	withCompression func() T,
) []T {
	var opts []T
	endpoint := cfg.GetEndpoint()
	if parsed, err := url.Parse(endpoint); err == nil && isHTTPSScheme(parsed.Scheme) {
		opts = append(opts, withEndpointURL(endpoint))
	} else {
		opts = append(opts, withEndpoint(endpoint))
	}
	if cfg != nil && len(cfg.Headers) > 0 {
		opts = append(opts, withHeaders(cfg.Headers))
	}
	if t := cfg.GetTimeout(); t > 0 {
		opts = append(opts, withTimeout(t))
	}
	if cfg.IsInsecure() {
		opts = append(opts, withInsecure())
	}
	if cfg != nil && cfg.Compression == "gzip" {
		opts = append(opts, withCompression())
	}

	return opts
}

func buildGRPCOptions[T any](
	cfg *spyglass.OTLPConfig,
	withEndpoint func(string) T,
	withHeaders func(map[string]string) T,
	withTimeout func(time.Duration) T,
	withInsecure func() T,
	withCompression func() T,
) []T {
	opts := []T{withEndpoint(cfg.GetEndpoint())}
	if cfg != nil && len(cfg.Headers) > 0 {
		opts = append(opts, withHeaders(cfg.Headers))
	}
	if t := cfg.GetTimeout(); t > 0 {
		opts = append(opts, withTimeout(t))
	}
	if cfg.IsInsecure() {
		opts = append(opts, withInsecure())
	}
	if cfg != nil && cfg.Compression == "gzip" {
		opts = append(opts, withCompression())
	}

	return opts
}

func isHTTPSScheme(scheme string) bool {
	switch strings.ToLower(scheme) {
	case "http", "https":
		return true
	default:
		return false
	}
}
