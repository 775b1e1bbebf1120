package spyglass

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCollectorConfig_NilSafeAccessors(t *testing.T) {
	var cfg *CollectorConfig

	assert.Equal(t, 2048, cfg.GetQueueSize())
	assert.Equal(t, 128, cfg.GetBatchMax())
	assert.Equal(t, 100*time.Millisecond, cfg.GetFlushInterval())

	cfg = &CollectorConfig{QueueSize: 16, BatchMax: 4, FlushInterval: time.Second}
	assert.Equal(t, 16, cfg.GetQueueSize())
	assert.Equal(t, 4, cfg.GetBatchMax())
	assert.Equal(t, time.Second, cfg.GetFlushInterval())
}

func TestStatsConfig_NilSafeAccessors(t *testing.T) {
	var cfg *StatsConfig

	assert.Equal(t, 15*time.Minute, cfg.GetWindow())
	assert.Equal(t, time.Second, cfg.GetBucket())
	assert.Equal(t, 256, cfg.GetErrorRing())
}

func TestSinkConfig_NilSafeAccessors(t *testing.T) {
	var cfg *SinkConfig

	assert.Equal(t, "jsonl", cfg.GetType())
	assert.Nil(t, cfg.GetJSONL())
	assert.Nil(t, cfg.GetConsole())
	assert.Nil(t, cfg.GetNATS())
	assert.Nil(t, cfg.GetOTLP())

	var jsonl *JSONLConfig
	assert.Equal(t, "./spyglass-logs", jsonl.GetDir())
	assert.Equal(t, int64(10<<20), jsonl.GetRotateBytes())
	assert.Equal(t, 5*time.Minute, jsonl.GetRotateAge())

	var console *ConsoleConfig
	assert.False(t, console.IsPretty())

	pretty := true
	console = &ConsoleConfig{Pretty: &pretty}
	assert.True(t, console.IsPretty())

	var nc *NATSConfig
	assert.Equal(t, "nats://127.0.0.1:4222", nc.GetURL())
	assert.Equal(t, "spyglass.events", nc.GetSubject())
}

func TestOTLPConfig_NilSafeAccessors(t *testing.T) {
	var cfg *OTLPConfig

	assert.True(t, cfg.IsInsecure())
	assert.Equal(t, "otlp", cfg.GetExporter())
	assert.Equal(t, "localhost:4317", cfg.GetEndpoint())
	assert.Equal(t, "grpc", cfg.GetProtocol())
	assert.Equal(t, 10*time.Second, cfg.GetTimeout())
	assert.Equal(t, "spyglass", cfg.GetServiceName())

	insecure := false
	cfg = &OTLPConfig{
		Exporter: "console",
		Insecure: &insecure,
		Protocol: "http",
	}
	assert.False(t, cfg.IsInsecure())
	assert.Equal(t, "console", cfg.GetExporter())
	assert.Equal(t, "http", cfg.GetProtocol())
}
