// file: internal/handlers/api/v1/notifications/notifications_controller.go
package notifications

import (
	"net/http"
	"time"

	"linkedout/internal/models"
	"linkedout/internal/response"
	"linkedout/internal/services"
	"linkedout/internal/session"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	DefaultListLimit = 20

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// NotificationController lists toasts and streams new ones over a websocket
type NotificationController struct {
	serviceCollection *services.ServiceCollection
	logger            *zap.Logger
	responseBuilder   *response.Builder
	upgrader          websocket.Upgrader
}

// NewNotificationController creates a new notification controller. Origins
// are checked against allowedOrigins; "*" accepts any.
func NewNotificationController(serviceCollection *services.ServiceCollection, logger *zap.Logger, responseBuilder *response.Builder, allowedOrigins []string) *NotificationController {
	return &NotificationController{
		serviceCollection: serviceCollection,
		logger:            logger,
		responseBuilder:   responseBuilder,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// List returns the caller's newest notifications - GET /api/v1/notifications?limit=
func (c *NotificationController) List(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if sess == nil {
		c.responseBuilder.WriteError(w, r, services.NewUnauthorizedError("authentication required"))
		return
	}
	limit, err := response.QueryInt(r, "limit", DefaultListLimit)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	list := c.serviceCollection.NotificationService.List(r.Context(), sess.UserID, limit)
	if list == nil {
		list = []*models.Notification{}
	}
	c.responseBuilder.WriteSuccess(w, r, list)
}

// Stream pushes notifications as they happen - GET /api/v1/notifications/ws?token=
func (c *NotificationController) Stream(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if sess == nil {
		c.responseBuilder.WriteError(w, r, services.NewUnauthorizedError("authentication required"))
		return
	}

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		c.logger.Warn("WebSocket upgrade failed", zap.String("user_id", sess.UserID), zap.Error(err))
		return
	}

	feed, unsubscribe := c.serviceCollection.NotificationService.Subscribe(sess.UserID)
	client := &client{
		conn:   conn,
		userID: sess.UserID,
		feed:   feed,
		done:   make(chan struct{}),
		logger: c.logger,
	}
	c.logger.Info("Notification stream opened", zap.String("user_id", sess.UserID))

	go client.writeMessages()
	client.readMessages()

	unsubscribe()
	c.logger.Info("Notification stream closed", zap.String("user_id", sess.UserID))
}

type client struct {
	conn   *websocket.Conn
	userID string
	feed   <-chan *models.Notification
	done   chan struct{}
	logger *zap.Logger
}

// readMessages discards client frames and returns once the peer goes away.
func (c *client) readMessages() {
	defer func() {
		close(c.done)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("WebSocket read failed", zap.String("user_id", c.userID), zap.Error(err))
			}
			return
		}
	}
}

func (c *client) writeMessages() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case n, ok := <-c.feed:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(n); err != nil {
				c.logger.Warn("WebSocket write failed", zap.String("user_id", c.userID), zap.Error(err))
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
