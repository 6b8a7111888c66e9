// Package notify sequences the post-commit side effects of business
// mutations: real-time fan-out plus durable notification writes. Every
// method is best-effort: handlers call it after the database mutation
// committed, and no failure here propagates back to the HTTP caller.
package notify

import (
	"context"
	"fmt"

	"go-mission-hub/internal/infrastructure/hub"
	"go-mission-hub/internal/infrastructure/logger"
	"go-mission-hub/internal/infrastructure/storage"
)

// MissionReader supplies the mission context (name, chief, roster)
// needed to build payloads and resolve directed recipients.
type MissionReader interface {
	GetMission(ctx context.Context, missionID int64) (*storage.Mission, error)
	Crew(ctx context.Context, missionID int64) ([]storage.CrewMember, error)
}

// NotificationWriter is the durable side channel for offline recipients.
type NotificationWriter interface {
	AddNotification(ctx context.Context, add storage.AddNotification) (*storage.Notification, error)
}

// Dispatcher implements the event catalogue. A mission lookup miss
// means the triggering event is simply not broadcast.
type Dispatcher struct {
	fanout        *hub.Fanout
	missions      MissionReader
	notifications NotificationWriter
	logger        logger.Logger
}

func NewDispatcher(
	fanout *hub.Fanout,
	missions MissionReader,
	notifications NotificationWriter,
	log logger.Logger,
) *Dispatcher {
	return &Dispatcher{
		fanout:        fanout,
		missions:      missions,
		notifications: notifications,
		logger:        log.WithField("component", "dispatcher"),
	}
}

// CrewJoined fans out a new_crew_joined event: everyone viewing any
// room (for list counters), the mission room, and the chief directly.
func (d *Dispatcher) CrewJoined(ctx context.Context, missionID, brawlerID int64) {
	mission, ok := d.mission(ctx, missionID)
	if !ok {
		return
	}

	env := hub.Wrap(hub.NewCrewJoined{
		MissionID:   missionID,
		MissionName: mission.Name,
		BrawlerID:   brawlerID,
	})
	d.fanout.SendToAll(env)
	d.fanout.SendToRoom(missionID, env)

	d.persist(ctx, mission.ChiefID, env.Type,
		fmt.Sprintf("A new crew member joined your mission: %s", mission.Name), missionID)
	d.fanout.SendToUser(mission.ChiefID, env)
}

// CrewLeft mirrors CrewJoined for a departure.
func (d *Dispatcher) CrewLeft(ctx context.Context, missionID, brawlerID int64) {
	mission, ok := d.mission(ctx, missionID)
	if !ok {
		return
	}

	env := hub.Wrap(hub.CrewLeft{
		MissionID:   missionID,
		MissionName: mission.Name,
		BrawlerID:   brawlerID,
	})
	d.fanout.SendToAll(env)
	d.fanout.SendToRoom(missionID, env)

	d.persist(ctx, mission.ChiefID, env.Type,
		fmt.Sprintf("A crew member left your mission: %s", mission.Name), missionID)
	d.fanout.SendToUser(mission.ChiefID, env)
}

// CommentAdded broadcasts the stored comment to the room, then sends a
// directed new_chat_message to the chief and every crew member except
// the sender, persisting a notification for each.
func (d *Dispatcher) CommentAdded(ctx context.Context, comment *storage.Comment) {
	d.fanout.SendToRoom(comment.MissionID, hub.Wrap(hub.NewComment{
		ID:               comment.ID,
		MissionID:        comment.MissionID,
		BrawlerID:        comment.BrawlerID,
		BrawlerName:      comment.BrawlerName,
		BrawlerAvatarURL: comment.BrawlerAvatarURL,
		Content:          comment.Content,
		CreatedAt:        comment.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}))

	mission, ok := d.mission(ctx, comment.MissionID)
	if !ok {
		return
	}

	chat := hub.Wrap(hub.NewChatMessage{
		MissionID:   comment.MissionID,
		MissionName: mission.Name,
		SenderName:  comment.BrawlerName,
		Content:     comment.Content,
	})
	content := fmt.Sprintf("[%s] %s: %q", mission.Name, comment.BrawlerName, comment.Content)

	if mission.ChiefID != comment.BrawlerID {
		d.persist(ctx, mission.ChiefID, chat.Type, content, comment.MissionID)
		d.fanout.SendToUser(mission.ChiefID, chat)
	}
	for _, member := range d.crew(ctx, comment.MissionID) {
		if member.ID == comment.BrawlerID {
			continue
		}
		d.persist(ctx, member.ID, chat.Type, content, comment.MissionID)
		d.fanout.SendToUser(member.ID, chat)
	}
}

// ChatCleared tells the room its chat history was wiped.
func (d *Dispatcher) ChatCleared(missionID int64) {
	d.fanout.SendToRoom(missionID, hub.Wrap(hub.ClearChat{MissionID: missionID}))
}

// MissionStarted notifies every crew member directly (toast + durable),
// then updates dashboards and the room.
func (d *Dispatcher) MissionStarted(ctx context.Context, missionID int64) {
	mission, ok := d.mission(ctx, missionID)
	if !ok {
		return
	}

	env := hub.Wrap(hub.MissionStarted{
		MissionID:   missionID,
		MissionName: mission.Name,
		NewStatus:   storage.StatusInProgress,
	})
	for _, member := range d.crew(ctx, missionID) {
		d.persist(ctx, member.ID, env.Type,
			fmt.Sprintf("Mission '%s' has started!", mission.Name), missionID)
		d.fanout.SendToUser(member.ID, env)
	}
	d.fanout.SendToAll(env)
	d.fanout.SendToRoom(missionID, env)
}

// MissionCompleted fans out the terminal Completed transition.
func (d *Dispatcher) MissionCompleted(ctx context.Context, missionID int64) {
	mission, ok := d.mission(ctx, missionID)
	if !ok {
		return
	}
	env := hub.Wrap(hub.MissionCompleted{
		MissionID:   missionID,
		MissionName: mission.Name,
		NewStatus:   storage.StatusCompleted,
	})
	d.missionEnded(ctx, mission, env, fmt.Sprintf("Mission '%s' has been COMPLETED!", mission.Name))
}

// MissionFailed fans out the terminal Failed transition.
func (d *Dispatcher) MissionFailed(ctx context.Context, missionID int64) {
	mission, ok := d.mission(ctx, missionID)
	if !ok {
		return
	}
	env := hub.Wrap(hub.MissionFailed{
		MissionID:   missionID,
		MissionName: mission.Name,
		NewStatus:   storage.StatusFailed,
	})
	d.missionEnded(ctx, mission, env, fmt.Sprintf("Mission '%s' has FAILED.", mission.Name))
}

func (d *Dispatcher) missionEnded(ctx context.Context, mission *storage.Mission, env *hub.Envelope, content string) {
	d.fanout.SendToAll(env)
	d.fanout.SendToRoom(mission.ID, env)

	d.persist(ctx, mission.ChiefID, env.Type, content, mission.ID)
	for _, member := range d.crew(ctx, mission.ID) {
		if member.ID == mission.ChiefID {
			continue
		}
		d.persist(ctx, member.ID, env.Type, content, mission.ID)
		d.fanout.SendToUser(member.ID, env)
	}
}

// MissionDeleted notifies the crew that their mission is gone. The
// mission and roster must be captured before the delete commits, so the
// caller passes them in. There is no global broadcast for deletion.
func (d *Dispatcher) MissionDeleted(ctx context.Context, mission *storage.Mission, crew []storage.CrewMember, actorID int64) {
	env := hub.Wrap(hub.MissionDeleted{
		MissionID:   mission.ID,
		MissionName: mission.Name,
	})
	for _, member := range crew {
		if member.ID == actorID {
			continue
		}
		d.persist(ctx, member.ID, env.Type,
			fmt.Sprintf("Mission '%s' has been removed by the chief.", mission.Name), mission.ID)
		d.fanout.SendToUser(member.ID, env)
	}
	d.fanout.SendToRoom(mission.ID, env)
}

// BrawlerKicked notifies the kicked brawler directly, then dashboards
// and the room.
func (d *Dispatcher) BrawlerKicked(ctx context.Context, missionID, kickedID int64) {
	mission, ok := d.mission(ctx, missionID)
	if !ok {
		return
	}

	env := hub.Wrap(hub.KickedFromMission{
		MissionID:   missionID,
		MissionName: mission.Name,
		BrawlerID:   kickedID,
	})
	d.persist(ctx, kickedID, env.Type,
		fmt.Sprintf("You were removed from crew in mission: %s", mission.Name), missionID)
	d.fanout.SendToUser(kickedID, env)

	d.fanout.SendToAll(env)
	d.fanout.SendToRoom(missionID, env)
}

func (d *Dispatcher) mission(ctx context.Context, missionID int64) (*storage.Mission, bool) {
	mission, err := d.missions.GetMission(ctx, missionID)
	if err != nil {
		d.logger.Warnf("mission %d lookup failed, event not broadcast: %v", missionID, err)
		return nil, false
	}
	return mission, true
}

func (d *Dispatcher) crew(ctx context.Context, missionID int64) []storage.CrewMember {
	crew, err := d.missions.Crew(ctx, missionID)
	if err != nil {
		d.logger.Warnf("crew lookup for mission %d failed: %v", missionID, err)
		return nil
	}
	return crew
}

func (d *Dispatcher) persist(ctx context.Context, brawlerID int64, eventType, content string, relatedID int64) {
	_, err := d.notifications.AddNotification(ctx, storage.AddNotification{
		BrawlerID: brawlerID,
		Type:      eventType,
		Content:   content,
		RelatedID: relatedID,
	})
	if err != nil {
		d.logger.Errorf("persist notification for brawler %d failed: %v", brawlerID, err)
	}
}
