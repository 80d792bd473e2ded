package dispatch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSink_AppendsAndFlushesOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queue.log")

	sink, err := NewFileSink(path)
	require.NoError(t, err)
	require.NoError(t, sink.Append("ENQUEUE id=A type=Water priority=6 ts=2025-01-01T12:00:00Z dest=-"))
	require.NoError(t, sink.Append("POP id=A type=Water priority=6 ts=2025-01-01T12:00:00Z dest=-"))
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"ENQUEUE id=A type=Water priority=6 ts=2025-01-01T12:00:00Z dest=-\n"+
			"POP id=A type=Water priority=6 ts=2025-01-01T12:00:00Z dest=-\n",
		string(data))
}

func TestFileSink_AppendsAcrossReopen(t *testing.T) {
	// The audit log is append-only: reopening must not truncate history.
	path := filepath.Join(t.TempDir(), "queue.log")

	first, err := NewFileSink(path)
	require.NoError(t, err)
	require.NoError(t, first.Append("line one"))
	require.NoError(t, first.Close())

	second, err := NewFileSink(path)
	require.NoError(t, err)
	require.NoError(t, second.Append("line two"))
	require.NoError(t, second.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", string(data))
}
