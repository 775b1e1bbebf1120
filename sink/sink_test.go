package sink

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spyglass-io/spyglass"
)

func TestNew_BuildsConfiguredSink(t *testing.T) {
	ctx := context.Background()

	s, err := New(ctx, &spyglass.SinkConfig{Type: "none"})
	require.NoError(t, err)
	assert.IsType(t, Nop{}, s)

	s, err = New(ctx, &spyglass.SinkConfig{Type: "console"})
	require.NoError(t, err)
	assert.IsType(t, &Console{}, s)

	s, err = New(ctx, &spyglass.SinkConfig{
		Type:  "jsonl",
		JSONL: &spyglass.JSONLConfig{Dir: t.TempDir()},
	})
	require.NoError(t, err)
	assert.IsType(t, &JSONL{}, s)
	require.NoError(t, s.Close())
}

func TestNew_RejectsUnknownType(t *testing.T) {
	_, err := New(context.Background(), &spyglass.SinkConfig{Type: "kafka"})
	require.ErrorIs(t, err, spyglass.ErrInvalidConfig)
}

func TestNop_Discards(t *testing.T) {
	var n Nop
	require.NoError(t, n.Write([]*spyglass.Event{{TimestampNS: 1}}))
	require.NoError(t, n.Close())
}
