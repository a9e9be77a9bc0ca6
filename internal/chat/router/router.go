package router

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"chat_backend_service/internal/chat/app"
	"chat_backend_service/internal/chat/domain"
	"chat_backend_service/pkg/logger"
	"chat_backend_service/pkg/middlewares"
)

// RegisterRoutes mount the websocket endpoint
func RegisterRoutes(r *fiber.App, gateway *app.Gateway) {
	r.Get("/ws", middlewares.JWTMiddleware(), websocket.New(func(c *websocket.Conn) {
		HandleConnection(context.Background(), gateway, c)
	}))
}

// wsConn serializes writes on one websocket connection. The hub and the
// presence registry write from other goroutines than the read loop.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsConn) WriteJSON(v interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteJSON(v)
}

func (w *wsConn) writeControl(messageType int, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteMessage(messageType, data)
}

// HandleConnection entry point of one websocket connection. Reads requests
// until the peer goes away; every outcome is reported as an event, a bad
// request never drops the connection.
func HandleConnection(ctx context.Context, gateway *app.Gateway, conn *websocket.Conn) {
	tokenUser := conn.Locals(middlewares.TokenUserID)
	userID, ok := tokenUser.(string)
	if !ok || userID == "" {
		logger.Log.Warn("websocket connection without user identity")
		conn.Close()
		return
	}
	logger.Log.Info("websocket connected", zap.String("user_id", userID))

	client := &wsConn{conn: conn}
	gateway.OnConnect(userID, client)

	ticker := time.NewTicker(10 * time.Minute)
	ctxClose, cancel := context.WithCancel(ctx)

	defer func() {
		ticker.Stop()
		cancel()
		gateway.OnDisconnect(client)
		logger.Log.Info("websocket closed", zap.String("user_id", userID))
		conn.Close()
	}()

	conn.SetPingHandler(func(appData string) error {
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(time.Second))
	})

	go func() {
		for {
			select {
			case <-ticker.C:
				if err := client.writeControl(websocket.PingMessage, []byte("ping")); err != nil {
					logger.Log.Errorf("ping error:", err)
					return
				}
			case <-ctxClose.Done():
				return
			}
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Log.Infof("connection closed:", userID)
			} else {
				logger.Log.Errorf("websocket read error:", err)
			}
			return
		}

		var req domain.WSRequest
		if err := json.Unmarshal(message, &req); err != nil {
			if werr := client.WriteJSON(domain.WSEvent{
				Event:   domain.EventError,
				Payload: domain.ErrorNotice{Message: "malformed request"},
			}); werr != nil {
				logger.Log.Errorf("websocket write error:", werr)
			}
			continue
		}

		gateway.Dispatch(ctx, client, userID, &req)
	}
}
