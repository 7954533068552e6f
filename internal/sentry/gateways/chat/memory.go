package chat

import (
	"context"
	"fmt"
	"sync"
)

// SentRecord captures one outbound operation performed against the
// MemoryMessenger.
type SentRecord struct {
	Op        string // "send", "reply", "react", "delete"
	ChannelID string
	MessageID string // target for reply/react/delete, assigned id for send
	Text      string
}

// MemoryMessenger is an in-memory Messenger used by tests and the e2e
// harness. Failures can be injected per operation.
type MemoryMessenger struct {
	mu      sync.Mutex
	nextID  int
	Records []SentRecord
	Latest  map[string]ChannelMessage

	FailSend   error
	FailDelete error
	FailReact  error
}

// NewMemoryMessenger creates an empty MemoryMessenger.
func NewMemoryMessenger() *MemoryMessenger {
	return &MemoryMessenger{Latest: make(map[string]ChannelMessage)}
}

func (m *MemoryMessenger) SendMessage(_ context.Context, channelID, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSend != nil {
		return "", m.FailSend
	}
	m.nextID++
	id := fmt.Sprintf("mem-%d", m.nextID)
	m.Records = append(m.Records, SentRecord{Op: "send", ChannelID: channelID, MessageID: id, Text: text})
	return id, nil
}

func (m *MemoryMessenger) ReplyMessage(_ context.Context, channelID, messageID, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSend != nil {
		return "", m.FailSend
	}
	m.nextID++
	id := fmt.Sprintf("mem-%d", m.nextID)
	m.Records = append(m.Records, SentRecord{Op: "reply", ChannelID: channelID, MessageID: messageID, Text: text})
	return id, nil
}

func (m *MemoryMessenger) ReactMessage(_ context.Context, channelID, messageID, emoji string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailReact != nil {
		return m.FailReact
	}
	m.Records = append(m.Records, SentRecord{Op: "react", ChannelID: channelID, MessageID: messageID, Text: emoji})
	return nil
}

func (m *MemoryMessenger) DeleteMessage(_ context.Context, channelID, messageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailDelete != nil {
		return m.FailDelete
	}
	m.Records = append(m.Records, SentRecord{Op: "delete", ChannelID: channelID, MessageID: messageID})
	return nil
}

func (m *MemoryMessenger) LatestMessage(_ context.Context, channelID string) (ChannelMessage, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.Latest[channelID]
	return msg, ok, nil
}

// SetLatest seeds the latest message for a channel.
func (m *MemoryMessenger) SetLatest(channelID string, msg ChannelMessage) {
	m.mu.Lock()
	m.Latest[channelID] = msg
	m.mu.Unlock()
}

// RecordsByOp filters recorded operations.
func (m *MemoryMessenger) RecordsByOp(op string) []SentRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []SentRecord
	for _, r := range m.Records {
		if r.Op == op {
			out = append(out, r)
		}
	}
	return out
}

var _ Messenger = (*MemoryMessenger)(nil)
