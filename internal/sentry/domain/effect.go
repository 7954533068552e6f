package domain

import "fmt"

// EffectKind enumerates the outbound operations the core can request from
// the delivery layer.
type EffectKind uint8

const (
	// EffectDeleteMessage removes a message from a channel.
	EffectDeleteMessage EffectKind = iota
	// EffectSendMessage posts a plain message to a channel.
	EffectSendMessage
	// EffectReplyMessage replies to a specific message.
	EffectReplyMessage
	// EffectReactMessage adds a reaction to a specific message.
	EffectReactMessage
	// EffectPostSticky posts a sticky message; the delivery layer records the
	// resulting message id with the sticky controller.
	EffectPostSticky
	// EffectDeleteSticky removes a superseded sticky message. Same delivery
	// as EffectDeleteMessage, kept distinct so sticky churn is observable on
	// its own.
	EffectDeleteSticky
)

// String returns a stable string representation of the effect kind.
func (k EffectKind) String() string {
	switch k {
	case EffectDeleteMessage:
		return "delete_message"
	case EffectSendMessage:
		return "send_message"
	case EffectReplyMessage:
		return "reply_message"
	case EffectReactMessage:
		return "react_message"
	case EffectPostSticky:
		return "post_sticky"
	case EffectDeleteSticky:
		return "delete_sticky"
	default:
		return fmt.Sprintf("EffectKind(%d)", k)
	}
}

// Effect is one outbound operation produced by the inspector. Effects are
// executed in order by the delivery layer, best-effort: a failed effect is
// logged and does not abort the rest of the batch.
type Effect struct {
	Kind      EffectKind
	ChannelID string // target channel
	MessageID string // target message for delete/reply/react, "" otherwise
	Text      string // body for send/reply/sticky, emoji for react
}

// DeleteMessage builds a delete effect for the given message.
func DeleteMessage(channelID, messageID string) Effect {
	return Effect{Kind: EffectDeleteMessage, ChannelID: channelID, MessageID: messageID}
}

// SendMessage builds a plain send effect.
func SendMessage(channelID, text string) Effect {
	return Effect{Kind: EffectSendMessage, ChannelID: channelID, Text: text}
}

// ReplyMessage builds a reply effect targeting a message.
func ReplyMessage(channelID, messageID, text string) Effect {
	return Effect{Kind: EffectReplyMessage, ChannelID: channelID, MessageID: messageID, Text: text}
}

// ReactMessage builds a reaction effect targeting a message.
func ReactMessage(channelID, messageID, emoji string) Effect {
	return Effect{Kind: EffectReactMessage, ChannelID: channelID, MessageID: messageID, Text: emoji}
}

// PostSticky builds a sticky post effect.
func PostSticky(channelID, text string) Effect {
	return Effect{Kind: EffectPostSticky, ChannelID: channelID, Text: text}
}

// DeleteSticky builds a delete effect for a superseded sticky message.
func DeleteSticky(channelID, messageID string) Effect {
	return Effect{Kind: EffectDeleteSticky, ChannelID: channelID, MessageID: messageID}
}
