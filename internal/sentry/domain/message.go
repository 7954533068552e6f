// Package domain holds chat-sentry's pure value types. Nothing here may
// import other layers or perform I/O.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// Message is an inbound chat message as seen by the inspection pipeline.
// It is consumed read-only; the platform session owns the original.
type Message struct {
	ID        string    // platform message identifier
	ChannelID string    // channel the message arrived in
	AuthorID  string    // message author
	Content   string    // raw text content
	Timestamp time.Time // platform timestamp of the message
	Bot       bool      // true when the author is a bot account
}

// NewMessage constructs a Message and validates its required fields.
func NewMessage(id, channelID, authorID, content string, ts time.Time, bot bool) (Message, error) {
	m := Message{
		ID:        strings.TrimSpace(id),
		ChannelID: strings.TrimSpace(channelID),
		AuthorID:  strings.TrimSpace(authorID),
		Content:   content,
		Timestamp: ts,
		Bot:       bot,
	}
	if err := m.Validate(); err != nil {
		return Message{}, err
	}
	return m, nil
}

// Validate checks the Message for required fields.
func (m Message) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("message id must not be empty")
	}
	if m.ChannelID == "" {
		return fmt.Errorf("message channel id must not be empty")
	}
	if m.AuthorID == "" {
		return fmt.Errorf("message author id must not be empty")
	}
	return nil
}

// Tokens splits the content on whitespace. Pure helper for the inspector.
func (m Message) Tokens() []string {
	return strings.Fields(m.Content)
}
