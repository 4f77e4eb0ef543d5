package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingLogger captures messages forwarded to the base logger
type recordingLogger struct {
	messages []string
}

func (l *recordingLogger) Printf(format string, args ...interface{}) {
	l.messages = append(l.messages, format)
}

func receive(t *testing.T, messageChan <-chan ConsoleMessage) ConsoleMessage {
	t.Helper()
	select {
	case msg := <-messageChan:
		return msg
	case <-time.After(100 * time.Millisecond):
		require.FailNow(t, "Timeout waiting for console message")
		return ConsoleMessage{}
	}
}

func TestWebLogger_BasicLogging(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	base := &recordingLogger{}
	logger := NewWebLogger("test-render-123", messageChan, base)

	logger.Printf("%s\n", "Test log message")

	msg := receive(t, messageChan)
	assert.Equal(t, "Test log message\n", msg.Message)
	assert.Equal(t, "info", msg.Level)
	assert.WithinDuration(t, time.Now(), msg.Timestamp, time.Second)
	assert.Len(t, base.messages, 1, "message should also reach the server log")
}

func TestWebLogger_FormattedMessages(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	logger := NewWebLogger("test-render-format", messageChan, nil)

	logger.Printf("Pass %d completed in %s\n", 3, "12ms")

	assert.Equal(t, "Pass 3 completed in 12ms\n", receive(t, messageChan).Message)
}

func TestWebLogger_Levels(t *testing.T) {
	tests := []struct {
		message string
		level   string
	}{
		{"Rendering default\n", "info"},
		{"Warning: viewer missing\n", "warning"},
		{"Error sending pass 2\n", "error"},
	}

	messageChan := make(chan ConsoleMessage, len(tests))
	logger := NewWebLogger("test-render-levels", messageChan, nil)
	for _, tt := range tests {
		logger.Printf(tt.message)
		assert.Equal(t, tt.level, receive(t, messageChan).Level, tt.message)
	}
}

func TestWebLogger_ChannelFull(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 1)
	logger := NewWebLogger("test-render-789", messageChan, nil)

	logger.Printf("Message 1\n")
	// Must not block while the channel is full
	logger.Printf("Message 2\n")
	logger.Printf("Message 3\n")

	assert.Equal(t, "Message 1\n", receive(t, messageChan).Message)
	assert.Empty(t, messageChan)
}

func TestWebLogger_NilChannel(t *testing.T) {
	logger := NewWebLogger("test-render-nil", nil, nil)

	assert.NotPanics(t, func() {
		logger.Printf("Test message with nil channel\n")
	})
}
