package channels

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	slackgo "github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"github.com/fieldlens/fieldlens/internal/bus"
	"github.com/fieldlens/fieldlens/internal/config"
)

// SlackChannel carries dialogues over Slack via Socket Mode. DMs always
// reach the engine; in channels the bot answers only when mentioned, and
// follow-up answers continue in the message's thread.
type SlackChannel struct {
	Base
	cfg       *config.SlackConfig
	webClient *slackgo.Client
	smClient  *socketmode.Client
	botUserID string
}

// NewSlackChannel creates a SlackChannel.
func NewSlackChannel(cfg *config.SlackConfig, b bus.Bus) *SlackChannel {
	return &SlackChannel{
		Base: NewBase(bus.ChannelSlack, b, cfg.AllowFrom),
		cfg:  cfg,
	}
}

func (s *SlackChannel) Name() string { return string(bus.ChannelSlack) }

func (s *SlackChannel) Start(ctx context.Context) error {
	if s.cfg.BotToken == "" || s.cfg.AppToken == "" {
		slog.Warn("slack: bot/app token not configured")
		<-ctx.Done()
		return ctx.Err()
	}

	s.webClient = slackgo.New(s.cfg.BotToken,
		slackgo.OptionAppLevelToken(s.cfg.AppToken))

	if resp, err := s.webClient.AuthTestContext(ctx); err == nil {
		s.botUserID = resp.UserID
		slog.Info("slack: connected", "bot_user_id", s.botUserID)
	}

	s.smClient = socketmode.New(s.webClient)

	go s.smClient.RunContext(ctx) //nolint:errcheck

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt, ok := <-s.smClient.Events:
			if !ok {
				return nil
			}
			s.handleEvent(evt)
		}
	}
}

func (s *SlackChannel) handleEvent(evt socketmode.Event) {
	if evt.Type != socketmode.EventTypeEventsAPI {
		return
	}
	s.smClient.Ack(*evt.Request)
	cb, ok := evt.Data.(slackevents.EventsAPIEvent)
	if !ok {
		return
	}
	if cb.InnerEvent.Type != "message" && cb.InnerEvent.Type != "app_mention" {
		return
	}
	s.handleInnerEvent(cb.InnerEvent)
}

func (s *SlackChannel) handleInnerEvent(ev slackevents.EventsAPIInnerEvent) {
	data, ok := ev.Data.(map[string]interface{})
	if !ok {
		return
	}
	userID, _ := data["user"].(string)
	channel, _ := data["channel"].(string)
	text, _ := data["text"].(string)
	subtype, _ := data["subtype"].(string)
	channelType, _ := data["channel_type"].(string)
	ts, _ := data["ts"].(string)
	threadTS, _ := data["thread_ts"].(string)

	if subtype != "" || userID == "" || channel == "" {
		return
	}
	if userID == s.botUserID {
		return
	}
	// Avoid double-processing mention + message events.
	if ev.Type == "message" && s.botUserID != "" && strings.Contains(text, "<@"+s.botUserID+">") {
		return
	}
	// In channels, only respond when mentioned; DMs and threads are open so
	// mid-dialogue answers flow without a mention per turn.
	if channelType != "im" && threadTS == "" && ev.Type != "app_mention" {
		return
	}

	text = s.stripMention(text)
	if threadTS == "" && channelType != "im" {
		threadTS = ts
	}

	s.HandleMessage(userID, channel, text, map[string]any{
		"slack": map[string]any{
			"thread_ts":    threadTS,
			"channel_type": channelType,
		},
	})
}

func (s *SlackChannel) stripMention(text string) string {
	if s.botUserID == "" {
		return text
	}
	re := regexp.MustCompile(`<@` + regexp.QuoteMeta(s.botUserID) + `>\s*`)
	return strings.TrimSpace(re.ReplaceAllString(text, ""))
}

func (s *SlackChannel) Send(ctx context.Context, msg bus.OutboundMessage) error {
	if s.webClient == nil {
		return nil
	}
	slackMeta := map[string]any{}
	if m, ok := msg.Metadata()["slack"].(map[string]any); ok {
		slackMeta = m
	}
	threadTS, _ := slackMeta["thread_ts"].(string)
	channelType, _ := slackMeta["channel_type"].(string)

	options := []slackgo.MsgOption{slackgo.MsgOptionText(msg.Content(), false)}
	if threadTS != "" && channelType != "im" {
		options = append(options, slackgo.MsgOptionTS(threadTS))
	}

	_, _, err := s.webClient.PostMessageContext(ctx, msg.ChatId(), options...)
	return err
}
