package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/sparkup/sparkup-api/api"
	"github.com/sparkup/sparkup-api/databases"
	"github.com/sparkup/sparkup-api/logging"
	"github.com/sparkup/sparkup-api/models"
	"github.com/sparkup/sparkup-api/notify"
	templates "github.com/sparkup/sparkup-api/templates/html"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// client is one websocket connection. gorilla/websocket allows a single concurrent writer.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

func (c *client) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// NotificationHub keeps the open notification sockets of each user
type NotificationHub struct {
	clients map[string]map[*client]struct{}
	mutex   sync.Mutex
}

// NewNotificationHub returns an empty hub
func NewNotificationHub() *NotificationHub {
	return &NotificationHub{clients: make(map[string]map[*client]struct{})}
}

func (h *NotificationHub) register(userID string, c *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*client]struct{})
	}
	h.clients[userID][c] = struct{}{}
}

func (h *NotificationHub) unregister(userID string, c *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	delete(h.clients[userID], c)
	if len(h.clients[userID]) == 0 {
		delete(h.clients, userID)
	}
}

// Connected reports how many sockets the user has open
func (h *NotificationHub) Connected(userID string) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients[userID])
}

// Send pushes a notification to every open socket of the user
func (h *NotificationHub) Send(userID string, notification models.Notification) {
	h.mutex.Lock()
	conns := make([]*client, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		conns = append(conns, c)
	}
	h.mutex.Unlock()

	for _, c := range conns {
		err := c.writeJSON(map[string]interface{}{
			"event": "new_notification",
			"data":  notification,
		})
		if err != nil {
			zap.S().Infow("dropping notification socket", "userId", userID, "error", err)
			h.unregister(userID, c)
			c.conn.Close()
		}
	}
}

// HandleNotificationsWebSocket upgrades the authenticated caller's request to a
// websocket that receives their notifications
func (h *NotificationHub) HandleNotificationsWebSocket(w http.ResponseWriter, r *http.Request) {
	userID, ok := api.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "failed to open notification socket", errUnauthenticated)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Infow("websocket upgrade error", "userId", userID, "error", err)
		return
	}

	c := &client{conn: conn}
	h.register(userID, c)
	zap.S().Debugw("user connected to /ws/notifications", "userId", userID)
	defer func() {
		h.unregister(userID, c)
		conn.Close()
		zap.S().Debugw("user disconnected from /ws/notifications", "userId", userID)
	}()

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := c.ping(); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

// Notifier delivers membership notifications. Delivery is best effort: failures are
// logged and never reach the operation that triggered them.
type Notifier struct {
	UDB     databases.UserDatabase
	Hub     *NotificationHub
	Emails  *notify.Queue
	BaseURL string
}

// Notify stores the notification in the recipient's inbox and pushes it to their sockets
func (n *Notifier) Notify(ctx context.Context, to, from, kind, message, startupID string) {
	if n == nil || to == "" || to == from {
		return
	}
	notification := models.Notification{
		ID:         uuid.New().String(),
		SentFromID: from,
		SentToID:   to,
		Type:       kind,
		Message:    message,
		StartupID:  startupID,
		CreatedAt:  time.Now().UTC(),
	}
	if n.UDB != nil {
		qctx, cancel := api.WithQueryTimeout(context.WithoutCancel(ctx))
		defer cancel()
		if err := n.UDB.PushNotification(qctx, to, notification); err != nil {
			logging.FromContext(ctx).Errorw("failed to store notification",
				"to", to,
				"type", kind,
				"error", err)
		}
	}
	if n.Hub != nil {
		n.Hub.Send(to, notification)
	}
}

// EmailJoinDecision emails the requester the outcome of their join request
func (n *Notifier) EmailJoinDecision(ctx context.Context, to string, startup *models.Startup, accepted bool) {
	if n == nil || n.Emails == nil || n.UDB == nil {
		return
	}
	oid, err := primitive.ObjectIDFromHex(to)
	if err != nil {
		return
	}
	qctx, cancel := api.WithQueryTimeout(context.WithoutCancel(ctx))
	defer cancel()
	user, err := n.UDB.FindOne(qctx, bson.M{"_id": oid})
	if err != nil {
		logging.FromContext(ctx).Errorw("failed to look up join request email recipient", "to", to, "error", err)
		return
	}

	link := ""
	if n.BaseURL != "" {
		link = n.BaseURL + "/startups/" + startup.ID.Hex()
	}
	subject, html, plain := templates.JoinDecisionEmail(user.Details.Name, startup.Details.Name, accepted, link)
	n.Emails.Enqueue(notify.Email{
		ToEmail: user.Details.Email,
		ToName:  user.Details.Name,
		Subject: subject,
		HTML:    html,
		Plain:   plain,
	})
}
