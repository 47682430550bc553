package http

import (
	"encoding/json"
	"net/http"
	"time"

	flaguc "treasury-desk/internal/usecase/flag"
	"treasury-desk/internal/usecase/progress"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Watcher is the live-view side of watch.Hub.
type Watcher interface {
	SubscribeFlags(withdrawalID string, onChange func(flaguc.Snapshot), onError func(error)) func()
	SubscribePendingFlags(onChange func([]flaguc.FlagDTO), onError func(error)) func()
	SubscribeProgress(withdrawalID string, onChange func(progress.Progress), onError func(error)) func()
}

type streamMessage struct {
	Type      string `json:"type"` // snapshot | error
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

type StreamHandler struct {
	watch    Watcher
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewStreamHandler(w Watcher, log *zap.Logger) *StreamHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &StreamHandler{
		watch: w,
		log:   log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// operator console is served from another origin in dev
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *StreamHandler) Flags(c echo.Context) error {
	id, ok := hex32Param(c, "withdrawal_id")
	if !ok {
		return badParam(c, "withdrawal_id")
	}
	return h.serve(c, func(push func(any), fail func(error)) func() {
		return h.watch.SubscribeFlags(id, func(s flaguc.Snapshot) { push(s) }, fail)
	})
}

func (h *StreamHandler) PendingFlags(c echo.Context) error {
	return h.serve(c, func(push func(any), fail func(error)) func() {
		return h.watch.SubscribePendingFlags(func(f []flaguc.FlagDTO) { push(f) }, fail)
	})
}

func (h *StreamHandler) Progress(c echo.Context) error {
	id, ok := hex32Param(c, "withdrawal_id")
	if !ok {
		return badParam(c, "withdrawal_id")
	}
	return h.serve(c, func(push func(any), fail func(error)) func() {
		return h.watch.SubscribeProgress(id, func(p progress.Progress) { push(p) }, fail)
	})
}

func (h *StreamHandler) serve(c echo.Context, subscribe func(push func(any), fail func(error)) func()) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// upgrader has already replied
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return nil
	}

	// Single slot holding the latest frame: every message is a full
	// snapshot, so a slow client only ever needs the newest one.
	send := make(chan []byte, 1)
	offer := func(m streamMessage) {
		m.Timestamp = time.Now().UnixMilli()
		b, err := json.Marshal(m)
		if err != nil {
			h.log.Error("encode stream message", zap.Error(err))
			return
		}
		select {
		case send <- b:
		default:
			select {
			case <-send:
			default:
			}
			select {
			case send <- b:
			default:
			}
		}
	}

	unsubscribe := subscribe(
		func(v any) { offer(streamMessage{Type: "snapshot", Data: v}) },
		func(err error) { offer(streamMessage{Type: "error", Error: err.Error()}) },
	)
	defer unsubscribe()

	done := make(chan struct{})
	go h.readPump(conn, done)
	h.writePump(conn, send, done)
	return nil
}

// readPump discards client frames; it only exists to notice disconnects and pongs.
func (h *StreamHandler) readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("websocket closed", zap.Error(err))
			}
			return
		}
	}
}

func (h *StreamHandler) writePump(conn *websocket.Conn, send <-chan []byte, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case <-done:
			return
		case msg := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
