package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-mission-hub/internal/infrastructure/hub"
	"go-mission-hub/internal/infrastructure/logger"
	"go-mission-hub/internal/infrastructure/storage"
)

type fakeMissions struct {
	missions map[int64]*storage.Mission
	crews    map[int64][]storage.CrewMember
}

func (f *fakeMissions) GetMission(_ context.Context, missionID int64) (*storage.Mission, error) {
	m, ok := f.missions[missionID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return m, nil
}

func (f *fakeMissions) Crew(_ context.Context, missionID int64) ([]storage.CrewMember, error) {
	return f.crews[missionID], nil
}

type fakeNotifications struct {
	written []storage.AddNotification
	fail    bool
}

func (f *fakeNotifications) AddNotification(_ context.Context, add storage.AddNotification) (*storage.Notification, error) {
	if f.fail {
		return nil, errors.New("db down")
	}
	f.written = append(f.written, add)
	return &storage.Notification{ID: int64(len(f.written)), BrawlerID: add.BrawlerID,
		Type: add.Type, Content: add.Content, RelatedID: add.RelatedID, CreatedAt: time.Now()}, nil
}

func (f *fakeNotifications) forBrawler(id int64) []storage.AddNotification {
	var out []storage.AddNotification
	for _, n := range f.written {
		if n.BrawlerID == id {
			out = append(out, n)
		}
	}
	return out
}

type dispatcherFixture struct {
	dispatcher    *Dispatcher
	registry      *hub.Registry
	notifications *fakeNotifications
}

func newDispatcherFixture(missions *fakeMissions) *dispatcherFixture {
	log := logger.NewNop()
	registry := hub.NewRegistry(log)
	notifications := &fakeNotifications{}
	return &dispatcherFixture{
		dispatcher:    NewDispatcher(hub.NewFanout(registry, log), missions, notifications, log),
		registry:      registry,
		notifications: notifications,
	}
}

func (fx *dispatcherFixture) room(missionID int64) *hub.Connection {
	conn := hub.NewRoomConnection(missionID, 16)
	fx.registry.Register(conn)
	return conn
}

func (fx *dispatcherFixture) user(brawlerID int64) *hub.Connection {
	conn := hub.NewUserConnection(brawlerID, 16)
	fx.registry.Register(conn)
	return conn
}

func drain(conn *hub.Connection) []*hub.Envelope {
	var envs []*hub.Envelope
	for {
		select {
		case env, ok := <-conn.Mailbox():
			if !ok {
				return envs
			}
			envs = append(envs, env)
		default:
			return envs
		}
	}
}

func types(envs []*hub.Envelope) []string {
	out := make([]string, len(envs))
	for i, env := range envs {
		out[i] = env.Type
	}
	return out
}

func heistMissions() *fakeMissions {
	return &fakeMissions{
		missions: map[int64]*storage.Mission{
			42: {ID: 42, Name: "Heist", ChiefID: 1, Status: storage.StatusOpen},
		},
		crews: map[int64][]storage.CrewMember{
			42: {{ID: 2, DisplayName: "colt"}, {ID: 3, DisplayName: "bull"}},
		},
	}
}

func TestDispatcher_CrewJoined(t *testing.T) {
	fx := newDispatcherFixture(heistMissions())
	room := fx.room(42)
	otherRoom := fx.room(7)
	chief := fx.user(1)

	fx.dispatcher.CrewJoined(context.Background(), 42, 2)

	// The room sees both the dashboard broadcast and the room event.
	if got := types(drain(room)); len(got) != 2 || got[0] != "new_crew_joined" {
		t.Errorf("room events = %v", got)
	}
	// Other rooms see only the dashboard broadcast.
	if got := drain(otherRoom); len(got) != 1 {
		t.Errorf("other room should see 1 broadcast, got %d", len(got))
	}
	if got := drain(chief); len(got) != 1 {
		t.Errorf("chief should get 1 directed event, got %d", len(got))
	}
	if notes := fx.notifications.forBrawler(1); len(notes) != 1 || notes[0].Type != "new_crew_joined" {
		t.Errorf("chief notifications = %+v", notes)
	}
}

func TestDispatcher_CommentAdded_ExcludesSender(t *testing.T) {
	fx := newDispatcherFixture(heistMissions())
	room := fx.room(42)
	chief := fx.user(1)
	sender := fx.user(2)
	mate := fx.user(3)

	fx.dispatcher.CommentAdded(context.Background(), &storage.Comment{
		ID: 9, MissionID: 42, BrawlerID: 2, BrawlerName: "colt", Content: "lets go",
	})

	if got := types(drain(room)); len(got) != 1 || got[0] != "new_comment" {
		t.Errorf("room events = %v", got)
	}
	if got := types(drain(chief)); len(got) != 1 || got[0] != "new_chat_message" {
		t.Errorf("chief events = %v", got)
	}
	if got := types(drain(mate)); len(got) != 1 || got[0] != "new_chat_message" {
		t.Errorf("crew mate events = %v", got)
	}
	if got := drain(sender); len(got) != 0 {
		t.Errorf("sender should not be notified of their own message, got %d", len(got))
	}
	if fx.notifications.forBrawler(2) != nil {
		t.Error("sender should get no durable notification")
	}
	if len(fx.notifications.forBrawler(1)) != 1 || len(fx.notifications.forBrawler(3)) != 1 {
		t.Error("chief and crew mate should each get one durable notification")
	}
}

func TestDispatcher_CommentByChief_NoSelfNotification(t *testing.T) {
	fx := newDispatcherFixture(heistMissions())
	chief := fx.user(1)

	fx.dispatcher.CommentAdded(context.Background(), &storage.Comment{
		ID: 9, MissionID: 42, BrawlerID: 1, BrawlerName: "chief", Content: "listen up",
	})

	if got := drain(chief); len(got) != 0 {
		t.Errorf("chief should not be notified of their own message, got %d", len(got))
	}
	if fx.notifications.forBrawler(1) != nil {
		t.Error("chief should get no durable notification for their own message")
	}
}

func TestDispatcher_ChatCleared(t *testing.T) {
	fx := newDispatcherFixture(heistMissions())
	room := fx.room(42)
	otherRoom := fx.room(7)

	fx.dispatcher.ChatCleared(42)

	if got := types(drain(room)); len(got) != 1 || got[0] != "clear_chat" {
		t.Errorf("room events = %v", got)
	}
	if got := drain(otherRoom); len(got) != 0 {
		t.Errorf("clear_chat must stay in its room, got %d", len(got))
	}
	if len(fx.notifications.written) != 0 {
		t.Error("clear_chat persists nothing")
	}
}

func TestDispatcher_MissionStarted(t *testing.T) {
	fx := newDispatcherFixture(heistMissions())
	room := fx.room(42)
	member := fx.user(2)

	fx.dispatcher.MissionStarted(context.Background(), 42)

	if got := drain(member); len(got) != 1 {
		t.Errorf("crew member should get 1 directed event, got %d", len(got))
	}
	if got := drain(room); len(got) != 2 {
		t.Errorf("room should see dashboard + room events, got %d", len(got))
	}
	for _, id := range []int64{2, 3} {
		if notes := fx.notifications.forBrawler(id); len(notes) != 1 || notes[0].Type != "mission_started" {
			t.Errorf("crew member %d notifications = %+v", id, notes)
		}
	}
}

func TestDispatcher_MissionCompleted_SkipsChiefDirectedDuplicate(t *testing.T) {
	missions := heistMissions()
	// Chief is also on the roster here.
	missions.crews[42] = append(missions.crews[42], storage.CrewMember{ID: 1, DisplayName: "chief"})
	fx := newDispatcherFixture(missions)
	chief := fx.user(1)
	member := fx.user(2)

	fx.dispatcher.MissionCompleted(context.Background(), 42)

	if got := drain(chief); len(got) != 0 {
		t.Errorf("chief gets the durable entry, not a second directed send, got %d", len(got))
	}
	if got := types(drain(member)); len(got) != 1 || got[0] != "mission_completed" {
		t.Errorf("member events = %v", got)
	}
	if len(fx.notifications.forBrawler(1)) != 1 {
		t.Error("chief should get exactly one durable notification")
	}
}

func TestDispatcher_MissionDeleted_NoGlobalBroadcast(t *testing.T) {
	fx := newDispatcherFixture(heistMissions())
	room := fx.room(42)
	otherRoom := fx.room(7)
	member := fx.user(2)
	actor := fx.user(1)

	mission := &storage.Mission{ID: 42, Name: "Heist", ChiefID: 1}
	crew := []storage.CrewMember{{ID: 2}, {ID: 3}}
	fx.dispatcher.MissionDeleted(context.Background(), mission, crew, 1)

	if got := types(drain(room)); len(got) != 1 || got[0] != "mission_deleted" {
		t.Errorf("room events = %v", got)
	}
	if got := drain(otherRoom); len(got) != 0 {
		t.Errorf("deletion has no global broadcast, got %d", len(got))
	}
	if got := drain(member); len(got) != 1 {
		t.Errorf("crew member should get 1 directed event, got %d", len(got))
	}
	if got := drain(actor); len(got) != 0 {
		t.Errorf("the deleting chief should not be notified, got %d", len(got))
	}
	if len(fx.notifications.forBrawler(2)) != 1 || len(fx.notifications.forBrawler(3)) != 1 {
		t.Error("remaining crew should each get one durable notification")
	}
}

func TestDispatcher_BrawlerKicked(t *testing.T) {
	fx := newDispatcherFixture(heistMissions())
	room := fx.room(42)
	kicked := fx.user(3)

	fx.dispatcher.BrawlerKicked(context.Background(), 42, 3)

	if got := types(drain(kicked)); len(got) != 1 || got[0] != "kicked_from_mission" {
		t.Errorf("kicked brawler events = %v", got)
	}
	if got := drain(room); len(got) != 2 {
		t.Errorf("room should see dashboard + room events, got %d", len(got))
	}
	if notes := fx.notifications.forBrawler(3); len(notes) != 1 || notes[0].RelatedID != 42 {
		t.Errorf("kicked brawler notifications = %+v", notes)
	}
}

func TestDispatcher_MissingMissionSuppressesEvent(t *testing.T) {
	fx := newDispatcherFixture(heistMissions())
	room := fx.room(42)

	fx.dispatcher.CrewJoined(context.Background(), 999, 2)

	if got := drain(room); len(got) != 0 {
		t.Errorf("nothing should broadcast for an unknown mission, got %d", len(got))
	}
	if len(fx.notifications.written) != 0 {
		t.Error("nothing should persist for an unknown mission")
	}
}

func TestDispatcher_PersistFailureDoesNotBlockFanout(t *testing.T) {
	fx := newDispatcherFixture(heistMissions())
	fx.notifications.fail = true
	chief := fx.user(1)

	fx.dispatcher.CrewJoined(context.Background(), 42, 2)

	if got := drain(chief); len(got) != 1 {
		t.Errorf("directed delivery should survive a persistence failure, got %d", len(got))
	}
}
