package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chatsentry/chat-sentry/internal/sentry/common/log"
	"github.com/chatsentry/chat-sentry/internal/sentry/domain"
)

// Console is a development transport and messenger in one: inbound messages
// are read line by line ("channel|author|content") and outbound operations
// are printed. It lets the full pipeline run without a platform session.
type Console struct {
	in     io.Reader
	out    io.Writer
	logger log.Logger

	nextID atomic.Int64
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	latest map[string]ChannelMessage
}

// NewConsole creates a Console reading from in and writing to out.
func NewConsole(in io.Reader, out io.Writer, logger log.Logger) *Console {
	return &Console{
		in:     in,
		out:    out,
		logger: logger,
		latest: make(map[string]ChannelMessage),
	}
}

// Name identifies the transport.
func (c *Console) Name() string { return "console" }

// Start launches the read loop. Lines that do not split into three fields
// are logged and skipped.
func (c *Console) Start(ctx context.Context, handler MessageHandler) error {
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})

	go func() {
		defer close(c.done)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			parts := strings.SplitN(scanner.Text(), "|", 3)
			if len(parts) != 3 {
				c.logger.Warn(map[string]any{"line": scanner.Text()}, "malformed_console_line")
				continue
			}

			msg, err := domain.NewMessage(c.newID(), parts[0], parts[1], parts[2], time.Now(), false)
			if err != nil {
				c.logger.Warn(map[string]any{"error": err.Error()}, "invalid_console_message")
				continue
			}
			c.remember(msg.ChannelID, ChannelMessage{ID: msg.ID, AuthorID: msg.AuthorID, Timestamp: msg.Timestamp})
			handler.HandleMessage(ctx, msg)
		}
		// a closed reader surfaces here as a scanner error; that's the
		// normal Stop path, not a failure worth logging loudly
		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			c.logger.Error(map[string]any{"error": err.Error()}, "console_read_failed")
		}
	}()
	return nil
}

// Stop ends the read loop and waits for it to drain. Lines already read are
// still delivered; closing the input unblocks a pending read.
func (c *Console) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	if closer, ok := c.in.(io.Closer); ok {
		_ = closer.Close()
	}
	if c.done != nil {
		<-c.done
	}
	return nil
}

// SendMessage prints the message and returns a generated id.
func (c *Console) SendMessage(_ context.Context, channelID, text string) (string, error) {
	id := c.newID()
	fmt.Fprintf(c.out, "[%s] %s\n", channelID, text)
	c.remember(channelID, ChannelMessage{ID: id, AuthorID: "chat-sentry", Timestamp: time.Now()})
	return id, nil
}

// ReplyMessage prints the reply with its target.
func (c *Console) ReplyMessage(ctx context.Context, channelID, messageID, text string) (string, error) {
	return c.SendMessage(ctx, channelID, fmt.Sprintf("(reply to %s) %s", messageID, text))
}

// ReactMessage prints the reaction.
func (c *Console) ReactMessage(_ context.Context, channelID, messageID, emoji string) error {
	fmt.Fprintf(c.out, "[%s] react %s -> %s\n", channelID, emoji, messageID)
	return nil
}

// DeleteMessage prints the deletion.
func (c *Console) DeleteMessage(_ context.Context, channelID, messageID string) error {
	fmt.Fprintf(c.out, "[%s] delete %s\n", channelID, messageID)
	return nil
}

// LatestMessage reports the newest message seen for the channel.
func (c *Console) LatestMessage(_ context.Context, channelID string) (ChannelMessage, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.latest[channelID]
	return m, ok, nil
}

func (c *Console) newID() string {
	return fmt.Sprintf("console-%d", c.nextID.Add(1))
}

func (c *Console) remember(channelID string, m ChannelMessage) {
	c.mu.Lock()
	c.latest[channelID] = m
	c.mu.Unlock()
}

var _ Transport = (*Console)(nil)
var _ Messenger = (*Console)(nil)
