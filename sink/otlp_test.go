package sink

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	"go.opentelemetry.io/otel/log"

	"github.com/spyglass-io/spyglass"
)

func TestOTLP_WriteEmitsRecords(t *testing.T) {
	var buf bytes.Buffer
	exporter, err := stdoutlog.New(stdoutlog.WithWriter(&buf))
	require.NoError(t, err)

	o, err := newOTLP(context.Background(), &spyglass.OTLPConfig{ServiceName: "unit"}, exporter)
	require.NoError(t, err)

	batch := []*spyglass.Event{
		{
			TimestampNS: 1_000_000_000,
			TraceID:     "00000000000000aa",
			SpanID:      "00000000000000bb",
			Kind:        spyglass.KindRequest,
			Fields:      map[string]any{"route": "/users", "status": 200},
		},
	}
	require.NoError(t, o.Write(batch))
	require.NoError(t, o.Close())

	out := buf.String()
	assert.Contains(t, out, "request")
	assert.Contains(t, out, "trace_id")
	assert.Contains(t, out, "00000000000000aa")
	assert.Contains(t, out, "/users")
}

func TestSeverityOf(t *testing.T) {
	tests := []struct {
		name string
		ev   *spyglass.Event
		want log.Severity
	}{
		{
			name: "plain event",
			ev:   &spyglass.Event{Kind: spyglass.KindCustom},
			want: log.SeverityInfo,
		},
		{
			name: "successful request",
			ev:   &spyglass.Event{Kind: spyglass.KindRequest, Fields: map[string]any{"status": 200}},
			want: log.SeverityInfo,
		},
		{
			name: "server error request",
			ev:   &spyglass.Event{Kind: spyglass.KindRequest, Fields: map[string]any{"status": 503}},
			want: log.SeverityError,
		},
		{
			name: "errored function",
			ev:   &spyglass.Event{Kind: spyglass.KindFunction, Fields: map[string]any{"error": true}},
			want: log.SeverityError,
		},
		{
			name: "clean function",
			ev:   &spyglass.Event{Kind: spyglass.KindFunction, Fields: map[string]any{"error": false}},
			want: log.SeverityInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, severityOf(tt.ev))
		})
	}
}

func TestAttrValue(t *testing.T) {
	assert.Equal(t, log.StringValue("x"), attrValue("x"))
	assert.Equal(t, log.BoolValue(true), attrValue(true))
	assert.Equal(t, log.Int64Value(42), attrValue(42))
	assert.Equal(t, log.Int64Value(42), attrValue(int64(42)))
	assert.Equal(t, log.Int64Value(42), attrValue(uint64(42)))
	assert.Equal(t, log.Float64Value(1.5), attrValue(1.5))
	assert.Equal(t, log.StringValue("[1 2]"), attrValue([]int{1, 2}))
}

func TestBuildLogExporter_None(t *testing.T) {
	exp, err := buildLogExporter(context.Background(), &spyglass.OTLPConfig{Exporter: "none"})
	require.NoError(t, err)
	require.NoError(t, exp.Export(context.Background(), nil))
	require.NoError(t, exp.Shutdown(context.Background()))
}
