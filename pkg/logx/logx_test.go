package logx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	logger := NewLogger("architect")
	assert.Equal(t, "architect", logger.AgentID())
}

func TestWithAgentID(t *testing.T) {
	logger := NewLogger("architect")
	other := logger.WithAgentID("coder")
	assert.Equal(t, "coder", other.AgentID())
	assert.Equal(t, "architect", logger.AgentID(), "original logger unchanged")
}

func TestRecentEntries(t *testing.T) {
	logger := NewLogger("test-agent")
	logger.Info("first message")
	logger.Warn("second message")

	entries := RecentEntries(2)
	require.Len(t, entries, 2)
	assert.Equal(t, "first message", entries[0].Message)
	assert.Equal(t, "INFO", entries[0].Level)
	assert.Equal(t, "second message", entries[1].Message)
	assert.Equal(t, "WARN", entries[1].Level)
	assert.Equal(t, "test-agent", entries[0].AgentID)
}

func TestRecentEntriesBounded(t *testing.T) {
	logger := NewLogger("bound-test")
	for i := 0; i < 600; i++ {
		logger.Info("entry %d", i)
	}
	entries := RecentEntries(1000)
	assert.LessOrEqual(t, len(entries), 500)
}

func TestErrorfReturnsError(t *testing.T) {
	logger := NewLogger("err-test")
	err := logger.Errorf("failed with code %d", 42)
	require.Error(t, err)
	assert.Equal(t, "failed with code 42", err.Error())
}
