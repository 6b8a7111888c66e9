package hub

// Envelope is the unit of real-time communication. It is immutable once
// built and may be enqueued to many mailboxes, so payloads must not be
// mutated after construction.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Event is implemented by every payload the hub can carry. The set of
// implementations below is closed: adding a business event means adding
// a payload type here, not inventing an ad-hoc map.
type Event interface {
	EventType() string
}

// Wrap builds the wire envelope for an event.
func Wrap(e Event) *Envelope {
	return &Envelope{Type: e.EventType(), Data: e}
}

// NewCrewJoined announces a brawler joining a mission's crew.
type NewCrewJoined struct {
	MissionID   int64  `json:"mission_id"`
	MissionName string `json:"mission_name"`
	BrawlerID   int64  `json:"brawler_id"`
}

func (NewCrewJoined) EventType() string { return "new_crew_joined" }

// CrewLeft announces a brawler leaving a mission's crew.
type CrewLeft struct {
	MissionID   int64  `json:"mission_id"`
	MissionName string `json:"mission_name"`
	BrawlerID   int64  `json:"brawler_id"`
}

func (CrewLeft) EventType() string { return "crew_left" }

// NewComment carries a freshly stored mission comment to room viewers,
// including the sender display fields clients render directly.
type NewComment struct {
	ID               int64  `json:"id"`
	MissionID        int64  `json:"mission_id"`
	BrawlerID        int64  `json:"brawler_id"`
	BrawlerName      string `json:"brawler_display_name"`
	BrawlerAvatarURL string `json:"brawler_avatar_url"`
	Content          string `json:"content"`
	CreatedAt        string `json:"created_at"`
}

func (NewComment) EventType() string { return "new_comment" }

// NewChatMessage is the directed counterpart of NewComment, addressed to
// crew members who may not be viewing the room.
type NewChatMessage struct {
	MissionID   int64  `json:"mission_id"`
	MissionName string `json:"mission_name"`
	SenderName  string `json:"sender_name"`
	Content     string `json:"content"`
}

func (NewChatMessage) EventType() string { return "new_chat_message" }

// ClearChat tells room viewers the mission chat was wiped.
type ClearChat struct {
	MissionID int64 `json:"mission_id"`
}

func (ClearChat) EventType() string { return "clear_chat" }

// MissionStarted announces a status transition to InProgress.
type MissionStarted struct {
	MissionID   int64  `json:"mission_id"`
	MissionName string `json:"mission_name"`
	NewStatus   string `json:"new_status"`
}

func (MissionStarted) EventType() string { return "mission_started" }

// MissionCompleted announces a status transition to Completed.
type MissionCompleted struct {
	MissionID   int64  `json:"mission_id"`
	MissionName string `json:"mission_name"`
	NewStatus   string `json:"new_status"`
}

func (MissionCompleted) EventType() string { return "mission_completed" }

// MissionFailed announces a status transition to Failed.
type MissionFailed struct {
	MissionID   int64  `json:"mission_id"`
	MissionName string `json:"mission_name"`
	NewStatus   string `json:"new_status"`
}

func (MissionFailed) EventType() string { return "mission_failed" }

// MissionDeleted tells crew members their mission was removed.
type MissionDeleted struct {
	MissionID   int64  `json:"mission_id"`
	MissionName string `json:"mission_name"`
}

func (MissionDeleted) EventType() string { return "mission_deleted" }

// KickedFromMission carries the id of the removed brawler so clients can
// react whether they are the target or a bystander in the room.
type KickedFromMission struct {
	MissionID   int64  `json:"mission_id"`
	MissionName string `json:"mission_name"`
	BrawlerID   int64  `json:"brawler_id"`
}

func (KickedFromMission) EventType() string { return "kicked_from_mission" }
