package memory

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mertkc/kickoff/internal/application/constant"
	"github.com/mertkc/kickoff/internal/application/metric"
)

// ConnectionRepository holds the live websocket connections keyed by
// connection id. Writes to one socket are serialized with a per-conn mutex,
// gorilla connections do not allow concurrent writers.
type ConnectionRepository interface {
	Add(uuid.UUID, *websocket.Conn)
	Remove(uuid.UUID)

	Write(uuid.UUID, any)
}

type safeWS struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

type connectionRepository struct {
	conns map[uuid.UUID]*safeWS
	mu    sync.RWMutex
}

func NewConnectionRepository() ConnectionRepository {
	return &connectionRepository{
		conns: make(map[uuid.UUID]*safeWS, 10),
	}
}

func (c *connectionRepository) Add(connID uuid.UUID, conn *websocket.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.conns[connID] = &safeWS{conn: conn}

	metric.IncrementWSActiveConnections()
}

func (c *connectionRepository) Remove(connID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.conns[connID]; exists {
		delete(c.conns, connID)

		metric.DecrementWSActiveConnections()
	}
}

// Write marshals the payload to the given connection. Send failures are
// logged and dropped, the next state broadcast corrects any lag.
func (c *connectionRepository) Write(connID uuid.UUID, payload any) {
	safews, ok := c.getSafeWS(connID)
	if !ok {
		return
	}

	safews.mu.Lock()
	defer safews.mu.Unlock()

	if err := safews.conn.WriteJSON(payload); err != nil {
		slog.Error(
			"write to websocket",
			slog.Any(constant.Error, err),
			slog.Any(constant.ConnID, connID),
		)
	}
}

func (c *connectionRepository) getSafeWS(connID uuid.UUID) (*safeWS, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	conn, ok := c.conns[connID]

	return conn, ok
}
