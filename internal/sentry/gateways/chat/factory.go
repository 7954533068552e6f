package chat

import (
	"fmt"
	"io"

	"github.com/chatsentry/chat-sentry/internal/sentry/common/log"
)

// NewTransport creates a transport-and-messenger pair by name. The factory
// keeps main ignorant of concrete transports and leaves room for platform
// sessions to slot in later.
func NewTransport(kind string, in io.Reader, out io.Writer, logger log.Logger) (Transport, Messenger, error) {
	switch kind {
	case "console":
		c := NewConsole(in, out, logger)
		return c, c, nil

	case "discord":
		return nil, nil, fmt.Errorf("discord transport not yet implemented")

	default:
		return nil, nil, fmt.Errorf("unsupported transport: %s", kind)
	}
}
