package spyglass

import (
	"errors"
	"time"
)

// ErrInvalidConfig is returned when a component is constructed with
// non-positive capacities or intervals. Misconfiguration is rejected at
// construction time, never at runtime.
var ErrInvalidConfig = errors.New("spyglass: invalid configuration")

// Config is the full pipeline configuration.
type Config struct {
	// Collector configures the async event collector.
	Collector *CollectorConfig `yaml:"collector,omitempty"`

	// Stats configures the rolling-window statistics store.
	Stats *StatsConfig `yaml:"stats,omitempty"`

	// Sink configures the destination for event batches.
	Sink *SinkConfig `yaml:"sink,omitempty"`
}

// CollectorConfig configures the bounded collector queue and flush loop.
type CollectorConfig struct {
	// QueueSize is the bounded queue capacity. Enqueueing beyond it evicts
	// the oldest unsent event.
	QueueSize int `yaml:"queueSize" env:"SPYGLASS_QUEUE_SIZE" default:"2048" validate:"gt=0"`

	// BatchMax is the maximum number of events delivered to the sink in one
	// batch.
	BatchMax int `yaml:"batchMax" env:"SPYGLASS_BATCH_MAX" default:"128" validate:"gt=0"`

	// FlushInterval is the longest time a queued event waits before the
	// flush loop delivers it, batch-size permitting.
	FlushInterval time.Duration `yaml:"flushInterval" env:"SPYGLASS_FLUSH_INTERVAL" default:"100ms" validate:"gt=0"`
}

// GetQueueSize returns the queue capacity, defaulting to 2048.
func (c *CollectorConfig) GetQueueSize() int {
	if c == nil || c.QueueSize == 0 {
		return 2048
	}

	return c.QueueSize
}

// GetBatchMax returns the batch size limit, defaulting to 128.
func (c *CollectorConfig) GetBatchMax() int {
	if c == nil || c.BatchMax == 0 {
		return 128
	}

	return c.BatchMax
}

// GetFlushInterval returns the flush interval, defaulting to 100ms.
func (c *CollectorConfig) GetFlushInterval() time.Duration {
	if c == nil || c.FlushInterval == 0 {
		return 100 * time.Millisecond
	}

	return c.FlushInterval
}

// StatsConfig configures the rolling-window statistics store.
type StatsConfig struct {
	// Window is the trailing duration the summary aggregates over.
	Window time.Duration `yaml:"window" env:"SPYGLASS_STATS_WINDOW" default:"15m" validate:"gt=0"`

	// Bucket is the time-bucket granularity within the window.
	Bucket time.Duration `yaml:"bucket" env:"SPYGLASS_STATS_BUCKET" default:"1s" validate:"gt=0"`

	// ErrorRing is the capacity of the most-recent-first error ring.
	ErrorRing int `yaml:"errorRing" env:"SPYGLASS_ERROR_RING" default:"256" validate:"gt=0"`
}

// GetWindow returns the rolling window duration, defaulting to 15 minutes.
func (c *StatsConfig) GetWindow() time.Duration {
	if c == nil || c.Window == 0 {
		return 15 * time.Minute
	}

	return c.Window
}

// GetBucket returns the bucket granularity, defaulting to one second.
func (c *StatsConfig) GetBucket() time.Duration {
	if c == nil || c.Bucket == 0 {
		return time.Second
	}

	return c.Bucket
}

// GetErrorRing returns the error-ring capacity, defaulting to 256.
func (c *StatsConfig) GetErrorRing() int {
	if c == nil || c.ErrorRing == 0 {
		return 256
	}

	return c.ErrorRing
}

// SinkConfig selects and configures the sink the collector delivers to.
type SinkConfig struct {
	// Type determines the sink implementation.
	// Options: "jsonl", "console", "nats", "otlp", "none".
	Type string `yaml:"type" env:"SPYGLASS_SINK" default:"jsonl" validate:"oneof=jsonl console nats otlp none"`

	// JSONL configures the rotating newline-delimited JSON file sink.
	JSONL *JSONLConfig `yaml:"jsonl,omitempty"`

	// Console configures the human-readable console sink.
	Console *ConsoleConfig `yaml:"console,omitempty"`

	// NATS configures the NATS publishing sink.
	NATS *NATSConfig `yaml:"nats,omitempty"`

	// OTLP configures the OpenTelemetry log-bridge sink.
	OTLP *OTLPConfig `yaml:"otlp,omitempty"`
}

// GetType returns the sink type, defaulting to "jsonl".
func (c *SinkConfig) GetType() string {
	if c == nil || c.Type == "" {
		return "jsonl"
	}

	return c.Type
}

// GetJSONL returns the JSONL sink config, possibly nil.
// JSONLConfig accessors are nil-safe.
func (c *SinkConfig) GetJSONL() *JSONLConfig {
	if c == nil {
		return nil
	}

	return c.JSONL
}

// GetConsole returns the console sink config, possibly nil.
func (c *SinkConfig) GetConsole() *ConsoleConfig {
	if c == nil {
		return nil
	}

	return c.Console
}

// GetNATS returns the NATS sink config, possibly nil.
func (c *SinkConfig) GetNATS() *NATSConfig {
	if c == nil {
		return nil
	}

	return c.NATS
}

// GetOTLP returns the OTLP sink config, possibly nil.
func (c *SinkConfig) GetOTLP() *OTLPConfig {
	if c == nil {
		return nil
	}

	return c.OTLP
}

// JSONLConfig configures the rotating JSONL file sink.
type JSONLConfig struct {
	// Dir is the directory rotated event files are written into.
	Dir string `yaml:"dir" env:"SPYGLASS_JSONL_DIR" default:"./spyglass-logs"`

	// RotateBytes rotates to a new file once cumulative bytes written
	// exceed this threshold.
	RotateBytes int64 `yaml:"rotateBytes" env:"SPYGLASS_JSONL_ROTATE_BYTES" default:"10485760" validate:"gt=0"`

	// RotateAge rotates to a new file once the current file has been open
	// this long.
	RotateAge time.Duration `yaml:"rotateAge" env:"SPYGLASS_JSONL_ROTATE_AGE" default:"5m" validate:"gt=0"`
}

// GetDir returns the output directory, defaulting to ./spyglass-logs.
func (c *JSONLConfig) GetDir() string {
	if c == nil || c.Dir == "" {
		return "./spyglass-logs"
	}

	return c.Dir
}

// GetRotateBytes returns the byte rotation threshold, defaulting to 10 MiB.
func (c *JSONLConfig) GetRotateBytes() int64 {
	if c == nil || c.RotateBytes == 0 {
		return 10 << 20
	}

	return c.RotateBytes
}

// GetRotateAge returns the age rotation threshold, defaulting to 5 minutes.
func (c *JSONLConfig) GetRotateAge() time.Duration {
	if c == nil || c.RotateAge == 0 {
		return 5 * time.Minute
	}

	return c.RotateAge
}

// ConsoleConfig configures the console sink.
type ConsoleConfig struct {
	// Pretty enables indented, multi-line rendering of each event.
	Pretty *bool `yaml:"pretty" env:"SPYGLASS_CONSOLE_PRETTY" default:"false"`
}

// IsPretty returns true if pretty rendering is enabled.
func (c *ConsoleConfig) IsPretty() bool {
	return c != nil && c.Pretty != nil && *c.Pretty
}

// NATSConfig configures the NATS publishing sink.
type NATSConfig struct {
	// URL is the NATS server URL.
	URL string `yaml:"url" env:"SPYGLASS_NATS_URL" default:"nats://127.0.0.1:4222"`

	// Subject is the subject event batches are published to.
	Subject string `yaml:"subject" env:"SPYGLASS_NATS_SUBJECT" default:"spyglass.events"`
}

// GetURL returns the server URL, defaulting to nats://127.0.0.1:4222.
func (c *NATSConfig) GetURL() string {
	if c == nil || c.URL == "" {
		return "nats://127.0.0.1:4222"
	}

	return c.URL
}

// GetSubject returns the publish subject, defaulting to "spyglass.events".
func (c *NATSConfig) GetSubject() string {
	if c == nil || c.Subject == "" {
		return "spyglass.events"
	}

	return c.Subject
}

// OTLPConfig configures the OTLP log-bridge sink.
type OTLPConfig struct {
	// Exporter determines the underlying exporter.
	// Options: "otlp", "console", "none".
	Exporter string `yaml:"exporter" env:"SPYGLASS_OTLP_EXPORTER" default:"otlp" validate:"oneof=otlp console none"`

	// Endpoint is the OTLP collector endpoint.
	//
	// Format depends on protocol:
	//   - gRPC: "host:port" (e.g., "localhost:4317"). Do NOT include scheme.
	//   - HTTP: Full URL with scheme (e.g., "http://localhost:4318/v1/logs").
	Endpoint string `yaml:"endpoint" env:"SPYGLASS_OTLP_ENDPOINT" default:"localhost:4317"`

	// Protocol determines the OTLP transport protocol.
	// Options: "grpc", "http/protobuf", "http".
	Protocol string `yaml:"protocol" env:"SPYGLASS_OTLP_PROTOCOL" default:"grpc" validate:"oneof=grpc http/protobuf http"`

	// Insecure disables TLS for the OTLP connection.
	Insecure *bool `yaml:"insecure" env:"SPYGLASS_OTLP_INSECURE" default:"true"`

	// Headers adds custom headers to OTLP requests.
	// Avoid logging this value, as it may contain sensitive credentials.
	Headers map[string]string `yaml:"headers,omitempty" env:"SPYGLASS_OTLP_HEADERS"`

	// Timeout is the timeout for export operations.
	Timeout time.Duration `yaml:"timeout" env:"SPYGLASS_OTLP_TIMEOUT" default:"10s" validate:"gte=0"`

	// Compression sets the compression algorithm for OTLP.
	// Options: "gzip", "none".
	Compression string `yaml:"compression,omitempty" env:"SPYGLASS_OTLP_COMPRESSION" validate:"omitempty,oneof=gzip none"`

	// ServiceName identifies the emitting service in the exported resource.
	ServiceName string `yaml:"serviceName" env:"SPYGLASS_SERVICE_NAME" default:"spyglass"`
}

// GetExporter returns the exporter type, defaulting to "otlp".
func (c *OTLPConfig) GetExporter() string {
	if c == nil || c.Exporter == "" {
		return "otlp"
	}

	return c.Exporter
}

// GetEndpoint returns the collector endpoint, defaulting to localhost:4317.
func (c *OTLPConfig) GetEndpoint() string {
	if c == nil || c.Endpoint == "" {
		return "localhost:4317"
	}

	return c.Endpoint
}

// GetProtocol returns the transport protocol, defaulting to "grpc".
func (c *OTLPConfig) GetProtocol() string {
	if c == nil || c.Protocol == "" {
		return "grpc"
	}

	return c.Protocol
}

// IsInsecure returns true if insecure connection is enabled.
// Defaults to true if nil.
func (c *OTLPConfig) IsInsecure() bool {
	return c == nil || c.Insecure == nil || *c.Insecure
}

// GetTimeout returns the export timeout, defaulting to 10 seconds.
func (c *OTLPConfig) GetTimeout() time.Duration {
	if c == nil || c.Timeout == 0 {
		return 10 * time.Second
	}

	return c.Timeout
}

// GetServiceName returns the exported service name, defaulting to "spyglass".
func (c *OTLPConfig) GetServiceName() string {
	if c == nil || c.ServiceName == "" {
		return "spyglass"
	}

	return c.ServiceName
}
