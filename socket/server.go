package socket

import (
	"errors"
	"net/http"
	"strings"

	socketio "github.com/googollee/go-socket.io"
	"go.uber.org/zap"

	"vibin_discovery/metrics"
	"vibin_discovery/models"
)

const (
	namespace  = "/"
	MatchEvent = "match"
)

// TokenParser verifies the token a socket connects with
type TokenParser interface {
	Parse(token string) (string, error)
}

// Broadcaster is the part of *socketio.Server the hub publishes through
type Broadcaster interface {
	BroadcastToRoom(namespace, room, event string, args ...interface{}) bool
}

// Hub pushes match events to connected users. Each authenticated socket joins
// the room of its user so every device of that user receives the event.
type Hub struct {
	server      *socketio.Server
	broadcaster Broadcaster
	log         *zap.Logger
}

// Room is the room a user's sockets join
func Room(userID string) string {
	return "user:" + userID
}

// tokenFrom reads the token from the ?token= query or a bearer header
func tokenFrom(c socketio.Conn) string {
	u := c.URL()
	if token := u.Query().Get("token"); token != "" {
		return token
	}
	header := c.RemoteHeader().Get("Authorization")
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}

// NewHub initializes the Socket.IO server and its handlers
func NewHub(tokens TokenParser, log *zap.Logger) *Hub {
	server := socketio.NewServer(nil)
	hub := &Hub{server: server, broadcaster: server, log: log}

	server.OnConnect(namespace, func(c socketio.Conn) error {
		userID, err := tokens.Parse(tokenFrom(c))
		if err != nil {
			log.Debug("socket rejected", zap.String("socket", c.ID()), zap.Error(err))
			return errors.New("unauthorized")
		}
		c.SetContext(userID)
		c.Join(Room(userID))
		metrics.SocketConnections.Inc()
		log.Info("socket connected", zap.String("socket", c.ID()), zap.String("user", userID))
		return nil
	})

	server.OnError(namespace, func(c socketio.Conn, err error) {
		log.Warn("socket error", zap.Error(err))
	})

	server.OnDisconnect(namespace, func(c socketio.Conn, reason string) {
		if userID, ok := c.Context().(string); ok && userID != "" {
			metrics.SocketConnections.Dec()
			log.Info("socket disconnected", zap.String("user", userID), zap.String("reason", reason))
		}
	})

	return hub
}

// PublishMatch sends the match to every socket of userID
func (h *Hub) PublishMatch(userID string, match models.Match) {
	if !h.broadcaster.BroadcastToRoom(namespace, Room(userID), MatchEvent, match) {
		h.log.Debug("no socket to receive match", zap.String("user", userID), zap.String("match", match.MatchID))
	}
}

// ServeHTTP mounts the Socket.IO endpoint
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.server.ServeHTTP(w, r)
}

// Serve runs the Socket.IO event loop until Close
func (h *Hub) Serve() error {
	return h.server.Serve()
}

func (h *Hub) Close() error {
	return h.server.Close()
}
