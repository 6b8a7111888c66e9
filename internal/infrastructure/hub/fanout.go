package hub

import (
	"errors"

	"go-mission-hub/internal/infrastructure/logger"
)

// Fanout is the emit-side API used by business handlers. Each call
// resolves its targets once against a registry snapshot and then
// enqueues independently per connection: a slow or dead consumer never
// blocks the caller and never affects delivery to the other targets.
type Fanout struct {
	registry *Registry
	logger   logger.Logger
}

// NewFanout creates a fan-out router over a registry.
func NewFanout(registry *Registry, log logger.Logger) *Fanout {
	return &Fanout{
		registry: registry,
		logger:   log.WithField("component", "fanout"),
	}
}

// SendToRoom delivers an envelope to every connection currently viewing
// one mission room. A room with no viewers is a no-op.
func (f *Fanout) SendToRoom(missionID int64, env *Envelope) {
	f.deliver(f.registry.ConnectionsInRoom(missionID), env)
}

// SendToAll delivers an envelope to every connection in every room
// bucket, for list and dashboard counters visible outside the room the
// event happened in.
func (f *Fanout) SendToAll(env *Envelope) {
	f.deliver(f.registry.AllRoomConnections(), env)
}

// SendToUser delivers an envelope to every authenticated connection a
// brawler holds, covering simultaneous devices. No live connections is
// a no-op; durable notifications cover the offline case.
func (f *Fanout) SendToUser(brawlerID int64, env *Envelope) {
	f.deliver(f.registry.ConnectionsForUser(brawlerID), env)
}

func (f *Fanout) deliver(conns []*Connection, env *Envelope) {
	for _, conn := range conns {
		if err := conn.Enqueue(env); err != nil {
			// Stale snapshot entries and stalled consumers both end
			// here; drop just this connection and keep going.
			if errors.Is(err, ErrMailboxFull) {
				f.logger.Warnf("connection %s mailbox overflow, dropping connection", conn.ID())
			}
			f.registry.Deregister(conn.ID())
		}
	}
}
