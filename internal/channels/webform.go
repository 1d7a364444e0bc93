package channels

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fieldlens/fieldlens/internal/bus"
	"github.com/fieldlens/fieldlens/internal/config"
)

// webFrame is the wire format for both directions: the server sends prompts
// and status lines, the client sends answers.
type webFrame struct {
	Text string `json:"text"`
}

// WebFormChannel serves collection dialogues over a local WebSocket
// endpoint so a browser form can drive the question/answer loop. Each
// connection is one session.
type WebFormChannel struct {
	Base
	cfg *config.WebFormConfig

	mu     sync.Mutex
	conns  map[string]*websocket.Conn
	nextID atomic.Int64
}

// NewWebFormChannel creates a WebFormChannel.
func NewWebFormChannel(cfg *config.WebFormConfig, b bus.Bus) *WebFormChannel {
	return &WebFormChannel{
		Base:  NewBase(bus.ChannelWebForm, b, nil),
		cfg:   cfg,
		conns: make(map[string]*websocket.Conn),
	}
}

func (w *WebFormChannel) Name() string { return string(bus.ChannelWebForm) }

var webUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Bound to loopback by default; cross-origin browser pages may connect.
	CheckOrigin: func(*http.Request) bool { return true },
}

func (w *WebFormChannel) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", w.serveWS)

	srv := &http.Server{
		Addr:              w.cfg.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("webform: listening", "addr", w.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return fmt.Errorf("webform: serve: %w", err)
	}
}

func (w *WebFormChannel) serveWS(rw http.ResponseWriter, req *http.Request) {
	conn, err := webUpgrader.Upgrade(rw, req, nil)
	if err != nil {
		slog.Warn("webform: upgrade failed", "err", err)
		return
	}

	chatID := fmt.Sprintf("form-%d", w.nextID.Add(1))
	w.mu.Lock()
	w.conns[chatID] = conn
	w.mu.Unlock()
	slog.Info("webform: session opened", "chat_id", chatID, "remote", req.RemoteAddr)

	defer func() {
		w.mu.Lock()
		delete(w.conns, chatID)
		w.mu.Unlock()
		_ = conn.Close()
		slog.Info("webform: session closed", "chat_id", chatID)
	}()

	for {
		var frame webFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("webform: read failed", "chat_id", chatID, "err", err)
			}
			return
		}
		w.HandleMessage(req.RemoteAddr, chatID, frame.Text, nil)
	}
}

func (w *WebFormChannel) Send(_ context.Context, msg bus.OutboundMessage) error {
	w.mu.Lock()
	conn, ok := w.conns[msg.ChatId()]
	w.mu.Unlock()
	if !ok {
		return fmt.Errorf("webform: no session %s", msg.ChatId())
	}
	return conn.WriteJSON(webFrame{Text: msg.Content()})
}
