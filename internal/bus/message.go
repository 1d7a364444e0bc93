// Package bus defines the message types and transport contract between chat
// channels and the flow engine.
package bus

import "time"

// ChannelType names a transport.
type ChannelType string

const (
	ChannelConsole  ChannelType = "console"
	ChannelSlack    ChannelType = "slack"
	ChannelTelegram ChannelType = "telegram"
	ChannelWebForm  ChannelType = "webform"
	ChannelSystem   ChannelType = "system"
)

// InboundMessage is a message received from a chat channel.
type InboundMessage struct {
	channel   string
	senderId  string
	chatId    string
	content   string
	timestamp time.Time
	metadata  map[string]any // channel-specific extra data (message_id, username, …)
}

// NewInboundMessage creates an InboundMessage with the timestamp set to now.
func NewInboundMessage(channel, senderId, chatId, content string) InboundMessage {
	return InboundMessage{
		channel:   channel,
		senderId:  senderId,
		chatId:    chatId,
		content:   content,
		timestamp: time.Now(),
	}
}

func (m InboundMessage) Channel() string                { return m.channel }
func (m InboundMessage) SenderId() string               { return m.senderId }
func (m InboundMessage) ChatId() string                 { return m.chatId }
func (m InboundMessage) Content() string                { return m.content }
func (m InboundMessage) Timestamp() time.Time           { return m.timestamp }
func (m InboundMessage) Metadata() map[string]any       { return m.metadata }
func (m *InboundMessage) SetMetadata(md map[string]any) { m.metadata = md }

// SessionKey returns the key used to look up the conversation session.
// Format: "channel:chat_id".
func (m InboundMessage) SessionKey() string {
	return m.channel + ":" + m.chatId
}

// Preview returns a short snippet of the message content for logging.
func (m InboundMessage) Preview() string {
	preview := m.content
	if len(preview) > 80 {
		preview = preview[:80] + "..."
	}
	return preview
}

// OutboundMessage is a response to be sent back through a channel.
type OutboundMessage struct {
	channel  string
	chatId   string
	content  string
	replyTo  string         // original message ID to quote (optional)
	metadata map[string]any // channel-specific hints (thread_ts, parse_mode, …)
}

// NewOutboundMessage creates an OutboundMessage.
func NewOutboundMessage(channel, chatId, content string) OutboundMessage {
	return OutboundMessage{
		channel: channel,
		chatId:  chatId,
		content: content,
	}
}

func (m OutboundMessage) Channel() string                { return m.channel }
func (m OutboundMessage) ChatId() string                 { return m.chatId }
func (m OutboundMessage) Content() string                { return m.content }
func (m OutboundMessage) ReplyTo() string                { return m.replyTo }
func (m OutboundMessage) Metadata() map[string]any       { return m.metadata }
func (m *OutboundMessage) SetReplyTo(id string)          { m.replyTo = id }
func (m *OutboundMessage) SetMetadata(md map[string]any) { m.metadata = md }
