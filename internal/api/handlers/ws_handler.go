package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/yoojob/internal/events"
	"github.com/yoockh/yoojob/internal/services"
	"github.com/yoockh/yoojob/internal/utils"
)

const (
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 50 * time.Second
	wsWriteWait  = 10 * time.Second
)

type WSHandler struct {
	messages services.MessageService
	redis    *redis.Client
	log      *logrus.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler builds the live messaging endpoint. allowOrigin decides which
// browser origins may upgrade; nil accepts all.
func NewWSHandler(messages services.MessageService, rdb *redis.Client, l *logrus.Logger, allowOrigin func(origin string) bool) *WSHandler {
	return &WSHandler{
		messages: messages,
		redis:    rdb,
		log:      l,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowOrigin == nil || allowOrigin(origin)
			},
		},
	}
}

type wsClientMsg struct {
	Type string `json:"type"` // send|read|ping
	To   string `json:"to"`
	With string `json:"with"`
	Body string `json:"body"`
}

type wsServerMsg struct {
	Type    string     `json:"type"`
	Code    utils.Code `json:"code,omitempty"`
	Message string     `json:"message,omitempty"`
	Data    any        `json:"data,omitempty"`
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) write(messageType int, b []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.c.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return w.c.WriteMessage(messageType, b)
}

func (w *wsConn) writeJSON(v wsServerMsg) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return w.write(websocket.TextMessage, b)
}

func (w *wsConn) writeErr(err error) {
	msg := wsServerMsg{Type: "error", Code: utils.CodeInternal, Message: "internal error"}
	var ae *utils.AppError
	if errors.As(err, &ae) {
		msg.Code, msg.Message = ae.Code, ae.Message
	}
	_ = w.writeJSON(msg)
}

// Messages streams new messages for the caller and accepts sends and read receipts.
func (h *WSHandler) Messages(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if h.messages == nil {
		writeError(c, utils.E(utils.CodeUnavailable, "WSHandler.Messages", "messaging is not available", nil))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote the response
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Redis pub/sub -> WS
	var inbox <-chan *redis.Message
	if h.redis != nil {
		pubsub := h.redis.Subscribe(ctx, events.UserMessagesChannel(userID))
		defer pubsub.Close()
		inbox = pubsub.Channel()
	}

	// WS -> message service
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})

		for {
			_, data, rerr := conn.ReadMessage()
			if rerr != nil {
				return
			}
			h.handleClientMessage(ctx, wc, userID, data)
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-readDone:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := wc.write(websocket.PingMessage, nil); err != nil {
				return
			}
		case m, ok := <-inbox:
			if !ok {
				return
			}
			// payload is already the JSON envelope built by the publisher
			if err := wc.write(websocket.TextMessage, []byte(m.Payload)); err != nil {
				return
			}
		}
	}
}

func (h *WSHandler) handleClientMessage(ctx context.Context, wc *wsConn, userID string, data []byte) {
	var msg wsClientMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		wc.writeErr(utils.E(utils.CodeInvalidArgument, "WSHandler", "invalid json", err))
		return
	}

	switch msg.Type {
	case "send":
		m, err := h.messages.Send(ctx, userID, msg.To, msg.Body)
		if err != nil {
			wc.writeErr(err)
			return
		}
		// without redis the sender still gets its own copy back
		if h.redis == nil {
			_ = wc.writeJSON(wsServerMsg{Type: "message", Data: m})
		}
	case "read":
		n, err := h.messages.MarkThreadRead(ctx, userID, msg.With)
		if err != nil {
			wc.writeErr(err)
			return
		}
		_ = wc.writeJSON(wsServerMsg{Type: "read", Data: gin.H{"with": msg.With, "updated": n}})
	case "ping":
		_ = wc.writeJSON(wsServerMsg{Type: "pong"})
	default:
		wc.writeErr(utils.E(utils.CodeInvalidArgument, "WSHandler", "unknown message type", nil))
	}

	if h.log != nil && msg.Type != "ping" {
		h.log.WithFields(logrus.Fields{"user_id": userID, "type": msg.Type}).Debug("ws message")
	}
}
