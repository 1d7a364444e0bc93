// Package channels provides the transports that carry collection dialogues:
// the terminal, Slack, Telegram, and a local WebSocket form endpoint.
package channels

import (
	"context"
	"log/slog"
	"strings"

	"github.com/fieldlens/fieldlens/internal/bus"
)

// Channel is one dialogue transport.
type Channel interface {
	Name() string
	// Start runs the transport's receive loop until ctx is cancelled.
	Start(ctx context.Context) error
	// Send delivers one outbound message to the transport.
	Send(ctx context.Context, msg bus.OutboundMessage) error
}

// Base holds common state and helper methods shared by all channels.
type Base struct {
	channelName bus.ChannelType
	b           bus.Bus
	allowFrom   []string // empty = allow all
}

// NewBase creates a Base with the given channel name, bus, and allowlist.
func NewBase(name bus.ChannelType, b bus.Bus, allowFrom []string) Base {
	return Base{channelName: name, b: b, allowFrom: allowFrom}
}

// IsAllowed checks whether senderID is on the allowlist.
// senderID may be "id|username" (Telegram) or a plain string.
func (b *Base) IsAllowed(senderID string) bool {
	if len(b.allowFrom) == 0 {
		return true
	}
	for _, allowed := range b.allowFrom {
		if allowed == senderID {
			return true
		}
	}
	if strings.Contains(senderID, "|") {
		for _, part := range strings.Split(senderID, "|") {
			if part == "" {
				continue
			}
			for _, allowed := range b.allowFrom {
				if allowed == part {
					return true
				}
			}
		}
	}
	return false
}

// HandleMessage verifies the sender is allowed, then pushes an
// InboundMessage to the bus.
func (b *Base) HandleMessage(senderId, chatId, content string, metadata map[string]any) {
	if !b.IsAllowed(senderId) {
		slog.Warn("access denied", "channel", b.channelName, "sender", senderId)
		return
	}
	msg := bus.NewInboundMessage(string(b.channelName), senderId, chatId, content)
	msg.SetMetadata(metadata)
	b.b.PublishInbound(msg)
}

// splitMessage splits content into chunks that fit within maxLen, preferring
// newline breaks, then space breaks, then a hard cut.
func splitMessage(content string, maxLen int) []string {
	if len(content) <= maxLen {
		return []string{content}
	}
	var chunks []string
	for len(content) > 0 {
		if len(content) <= maxLen {
			chunks = append(chunks, content)
			break
		}
		cut := content[:maxLen]
		pos := strings.LastIndex(cut, "\n")
		if pos <= 0 {
			pos = strings.LastIndex(cut, " ")
		}
		if pos <= 0 {
			pos = maxLen
		}
		chunks = append(chunks, content[:pos])
		content = strings.TrimLeft(content[pos:], " \t")
	}
	return chunks
}
