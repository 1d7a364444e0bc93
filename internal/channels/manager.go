package channels

import (
	"context"
	"log/slog"
	"sort"

	"github.com/fieldlens/fieldlens/internal/bus"
	"github.com/fieldlens/fieldlens/internal/config"
)

// Manager owns all enabled channels and routes outbound messages to them.
type Manager struct {
	channels map[string]Channel
	b        bus.Bus
}

// NewManager creates a Manager and initialises all enabled channels.
// The console channel is registered only when withConsole is set, so the
// gateway can run headless.
func NewManager(cfg *config.Config, b bus.Bus, withConsole bool) *Manager {
	m := &Manager{
		channels: make(map[string]Channel),
		b:        b,
	}

	if withConsole {
		ch := NewConsoleChannel(b)
		m.channels[ch.Name()] = ch
	}
	if cfg.Channels.Slack.Enabled {
		ch := NewSlackChannel(&cfg.Channels.Slack, b)
		m.channels[ch.Name()] = ch
	}
	if cfg.Channels.Telegram.Enabled {
		ch := NewTelegramChannel(&cfg.Channels.Telegram, b)
		m.channels[ch.Name()] = ch
	}
	if cfg.Channels.WebForm.Enabled {
		ch := NewWebFormChannel(&cfg.Channels.WebForm, b)
		m.channels[ch.Name()] = ch
	}

	for name := range m.channels {
		slog.Info("channel enabled", "name", name)
	}
	return m
}

// EnabledChannels returns the names of all enabled channels, sorted.
func (m *Manager) EnabledChannels() []string {
	names := make([]string, 0, len(m.channels))
	for n := range m.channels {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// StartAll starts all channels concurrently and dispatches outbound
// messages. Blocks until ctx is cancelled.
func (m *Manager) StartAll(ctx context.Context) error {
	go m.dispatchOutbound(ctx)

	for name, ch := range m.channels {
		go func(n string, c Channel) {
			slog.Info("starting channel", "name", n)
			if err := c.Start(ctx); err != nil && ctx.Err() == nil {
				slog.Error("channel exited with error", "name", n, "err", err)
			}
		}(name, ch)
	}

	<-ctx.Done()
	return ctx.Err()
}

// dispatchOutbound reads from the bus and routes each message to the owning
// channel's Send method.
func (m *Manager) dispatchOutbound(ctx context.Context) {
	for {
		select {
		case msg := <-m.b.OutboundChan():
			ch, ok := m.channels[msg.Channel()]
			if !ok {
				slog.Debug("unknown channel for outbound message", "channel", msg.Channel())
				continue
			}
			if err := ch.Send(ctx, msg); err != nil {
				slog.Error("send error", "channel", msg.Channel(), "err", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
