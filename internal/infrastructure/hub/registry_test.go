package hub

import (
	"sync"
	"testing"

	"go-mission-hub/internal/infrastructure/logger"
)

func TestRegistry_RegisterDeregister(t *testing.T) {
	registry := NewRegistry(logger.NewNop())

	conn := NewRoomConnection(42, 8)
	id := registry.Register(conn)

	if got, ok := registry.Get(id); !ok || got != conn {
		t.Fatal("connection should be resolvable after register")
	}
	if len(registry.ConnectionsInRoom(42)) != 1 {
		t.Error("room bucket should hold the connection")
	}

	registry.Deregister(id)
	if _, ok := registry.Get(id); ok {
		t.Error("connection should not be resolvable after deregister")
	}
	if !conn.IsClosed() {
		t.Error("deregister should close the connection")
	}

	// Redundant deregister is a no-op.
	registry.Deregister(id)
	if registry.Len() != 0 {
		t.Errorf("expected empty registry, got %d", registry.Len())
	}
}

func TestRegistry_DisjointAddressSpaces(t *testing.T) {
	registry := NewRegistry(logger.NewNop())

	// Room key and user key collide on purpose.
	room := NewRoomConnection(7, 8)
	user := NewUserConnection(7, 8)
	registry.Register(room)
	registry.Register(user)

	inRoom := registry.ConnectionsInRoom(7)
	if len(inRoom) != 1 || inRoom[0] != room {
		t.Errorf("room lookup should return only the room connection, got %d", len(inRoom))
	}

	forUser := registry.ConnectionsForUser(7)
	if len(forUser) != 1 || forUser[0] != user {
		t.Errorf("user lookup should return only the user connection, got %d", len(forUser))
	}

	all := registry.AllRoomConnections()
	if len(all) != 1 || all[0] != room {
		t.Errorf("all-rooms should exclude user connections, got %d", len(all))
	}
}

func TestRegistry_EmptyBucketsRemoved(t *testing.T) {
	registry := NewRegistry(logger.NewNop())

	roomID := registry.Register(NewRoomConnection(42, 8))
	userID := registry.Register(NewUserConnection(7, 8))
	registry.Deregister(roomID)
	registry.Deregister(userID)

	registry.mu.RLock()
	defer registry.mu.RUnlock()
	if _, ok := registry.rooms[42]; ok {
		t.Error("empty room bucket should be removed")
	}
	if _, ok := registry.users[7]; ok {
		t.Error("empty user bucket should be removed")
	}
}

func TestRegistry_UnknownLookupsAreEmpty(t *testing.T) {
	registry := NewRegistry(logger.NewNop())

	if got := registry.ConnectionsInRoom(99); len(got) != 0 {
		t.Errorf("unknown room should yield empty set, got %d", len(got))
	}
	if got := registry.ConnectionsForUser(99); len(got) != 0 {
		t.Errorf("unknown user should yield empty set, got %d", len(got))
	}
	if got := registry.AllRoomConnections(); len(got) != 0 {
		t.Errorf("empty registry should yield empty set, got %d", len(got))
	}
}

func TestRegistry_AllRoomConnectionsFlattens(t *testing.T) {
	registry := NewRegistry(logger.NewNop())

	registry.Register(NewRoomConnection(1, 8))
	registry.Register(NewRoomConnection(1, 8))
	registry.Register(NewRoomConnection(2, 8))

	if got := registry.AllRoomConnections(); len(got) != 3 {
		t.Errorf("expected 3 connections across rooms, got %d", len(got))
	}
}

func TestRegistry_CloseAll(t *testing.T) {
	registry := NewRegistry(logger.NewNop())

	room := NewRoomConnection(1, 8)
	user := NewUserConnection(2, 8)
	registry.Register(room)
	registry.Register(user)

	registry.CloseAll()

	if registry.Len() != 0 {
		t.Errorf("expected empty registry, got %d", registry.Len())
	}
	if !room.IsClosed() || !user.IsClosed() {
		t.Error("all connections should be closed")
	}
}

func TestRegistry_ConcurrentChurn(t *testing.T) {
	registry := NewRegistry(logger.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(missionID int64) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				id := registry.Register(NewRoomConnection(missionID, 8))
				registry.ConnectionsInRoom(missionID)
				registry.AllRoomConnections()
				registry.Deregister(id)
			}
		}(int64(i % 3))
	}
	wg.Wait()

	if registry.Len() != 0 {
		t.Errorf("expected empty registry after churn, got %d", registry.Len())
	}
}
