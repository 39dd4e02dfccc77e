package launcher

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartSession_NoCommand(t *testing.T) {
	l := NewCommandLauncher("")
	err := l.StartSession(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no launch command configured")
}

func TestStartSession_RunsCommand(t *testing.T) {
	l := NewCommandLauncher("echo session opened")
	assert.NoError(t, l.StartSession(context.Background()))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "ok", truncate("  ok\n"))

	long := strings.Repeat("x", maxLoggedOutput+10)
	got := truncate(long)
	assert.Len(t, got, maxLoggedOutput+3)
	assert.True(t, strings.HasSuffix(got, "..."))
}
