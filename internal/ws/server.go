package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"chargepanel/internal/models"
)

// Server upgrades HTTP connections to WebSockets for device relays.
type Server struct {
	manager      *Manager
	logger       *zap.Logger
	pingInterval time.Duration
	writeTimeout time.Duration
	upgrader     websocket.Upgrader
}

// NewServer builds the relay ws server.
func NewServer(manager *Manager, pingInterval, writeTimeout time.Duration, logger *zap.Logger) *Server {
	return &Server{
		manager:      manager,
		logger:       logger,
		pingInterval: pingInterval,
		writeTimeout: writeTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleWS is the HTTP handler for the /ws relay endpoint. Relays may pass a
// relay_id query param; one is generated otherwise.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	relayID := r.URL.Query().Get("relay_id")
	if relayID == "" {
		relayID = models.NewID()
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	connection := NewConnection(relayID, conn, s.pingInterval, s.writeTimeout, s.logger, func(id string) {
		s.manager.Remove(id)
		cancel()
	})
	s.manager.Add(connection)

	go connection.Start(ctx)
	s.logger.Info("relay connected", zap.String("relay_id", relayID), zap.Int("total_relays", s.manager.Count()))
}
