package bus

// Bus is the contract between chat channels and the flow engine.
// Implementations may use buffered channels, pub/sub systems, or any other
// transport.
type Bus interface {
	// PublishInbound delivers a message from a channel to the engine.
	PublishInbound(msg InboundMessage)
	// PublishOutbound delivers a response from the engine to a channel.
	PublishOutbound(msg OutboundMessage)
	// InboundChan returns a receive-only channel for the engine to consume.
	InboundChan() <-chan InboundMessage
	// OutboundChan returns a receive-only channel for the channel manager to consume.
	OutboundChan() <-chan OutboundMessage
}

// MessageBus is the default in-process Bus implementation backed by buffered
// Go channels. Channels push InboundMessages; the session router consumes
// them and pushes OutboundMessages back for the channel manager to route.
type MessageBus struct {
	inbound  chan InboundMessage
	outbound chan OutboundMessage
}

// NewMessageBus creates a MessageBus with the given buffer size per direction.
func NewMessageBus(bufSize int) Bus {
	return &MessageBus{
		inbound:  make(chan InboundMessage, bufSize),
		outbound: make(chan OutboundMessage, bufSize),
	}
}

func (b *MessageBus) PublishInbound(msg InboundMessage)   { b.inbound <- msg }
func (b *MessageBus) PublishOutbound(msg OutboundMessage) { b.outbound <- msg }
func (b *MessageBus) InboundChan() <-chan InboundMessage  { return b.inbound }
func (b *MessageBus) OutboundChan() <-chan OutboundMessage {
	return b.outbound
}
