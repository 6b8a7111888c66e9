package hub

import (
	"sync"

	"go-mission-hub/internal/infrastructure/logger"
)

// Registry is the shared index of live connections, partitioned into a
// room index (mission id) and a user index (brawler id). The table map
// is the single source of truth; the indices hold only connection ids.
//
// A single RWMutex covers all three maps: mutation is a handful of map
// operations and reads are snapshot copies, so the critical sections
// stay short and the transmit path never runs under the lock.
type Registry struct {
	mu    sync.RWMutex
	table map[string]*Connection
	rooms map[int64]map[string]struct{}
	users map[int64]map[string]struct{}

	logger logger.Logger
}

// NewRegistry creates an empty connection registry.
func NewRegistry(log logger.Logger) *Registry {
	return &Registry{
		table:  make(map[string]*Connection),
		rooms:  make(map[int64]map[string]struct{}),
		users:  make(map[int64]map[string]struct{}),
		logger: log.WithField("component", "registry"),
	}
}

// Register inserts a connection into the table and into the index bucket
// matching its kind. The connection is reachable by fan-out as soon as
// Register returns.
func (r *Registry) Register(conn *Connection) string {
	r.mu.Lock()
	r.table[conn.ID()] = conn

	switch conn.Kind() {
	case KindRoom:
		bucket, ok := r.rooms[conn.MissionID()]
		if !ok {
			bucket = make(map[string]struct{})
			r.rooms[conn.MissionID()] = bucket
		}
		bucket[conn.ID()] = struct{}{}
	case KindUser:
		bucket, ok := r.users[conn.BrawlerID()]
		if !ok {
			bucket = make(map[string]struct{})
			r.users[conn.BrawlerID()] = bucket
		}
		bucket[conn.ID()] = struct{}{}
	}
	r.mu.Unlock()

	r.logger.Debugf("connection %s registered (%s)", conn.ID(), conn.Kind())
	return conn.ID()
}

// Deregister removes a connection from the table and from its index
// bucket in one atomic step, dropping the bucket when it empties. It is
// idempotent and also closes the connection, so a session whose write
// loop is still draining always terminates.
func (r *Registry) Deregister(connID string) {
	r.mu.Lock()
	conn, ok := r.table[connID]
	if ok {
		delete(r.table, connID)
		switch conn.Kind() {
		case KindRoom:
			if bucket, ok := r.rooms[conn.MissionID()]; ok {
				delete(bucket, connID)
				if len(bucket) == 0 {
					delete(r.rooms, conn.MissionID())
				}
			}
		case KindUser:
			if bucket, ok := r.users[conn.BrawlerID()]; ok {
				delete(bucket, connID)
				if len(bucket) == 0 {
					delete(r.users, conn.BrawlerID())
				}
			}
		}
	}
	r.mu.Unlock()

	if ok {
		conn.Close()
		r.logger.Debugf("connection %s deregistered", connID)
	}
}

// Get returns the connection for an id, if it is still registered.
func (r *Registry) Get(connID string) (*Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.table[connID]
	return conn, ok
}

// ConnectionsInRoom returns a snapshot of the connections viewing one
// mission room. An unknown mission id yields an empty slice.
func (r *Registry) ConnectionsInRoom(missionID int64) []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolve(r.rooms[missionID])
}

// ConnectionsForUser returns a snapshot of the authenticated connections
// owned by one brawler (one per device). An unknown brawler id yields an
// empty slice.
func (r *Registry) ConnectionsForUser(brawlerID int64) []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolve(r.users[brawlerID])
}

// AllRoomConnections flattens every room bucket, for cross-room
// dashboard updates. User connections are not included.
func (r *Registry) AllRoomConnections() []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var conns []*Connection
	for _, bucket := range r.rooms {
		conns = append(conns, r.resolve(bucket)...)
	}
	return conns
}

// Len returns the number of live connections of both kinds.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.table)
}

// CloseAll deregisters and closes every connection, for shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	conns := make([]*Connection, 0, len(r.table))
	for _, conn := range r.table {
		conns = append(conns, conn)
	}
	r.table = make(map[string]*Connection)
	r.rooms = make(map[int64]map[string]struct{})
	r.users = make(map[int64]map[string]struct{})
	r.mu.Unlock()

	for _, conn := range conns {
		conn.Close()
	}
	r.logger.Infof("closed %d connections", len(conns))
}

// resolve maps a bucket of ids to connections. Callers hold r.mu.
func (r *Registry) resolve(bucket map[string]struct{}) []*Connection {
	conns := make([]*Connection, 0, len(bucket))
	for id := range bucket {
		if conn, ok := r.table[id]; ok {
			conns = append(conns, conn)
		}
	}
	return conns
}
