package storage

import "time"

// Mission statuses. Transitions: Open -> InProgress -> Completed|Failed.
const (
	StatusOpen       = "Open"
	StatusInProgress = "InProgress"
	StatusCompleted  = "Completed"
	StatusFailed     = "Failed"
)

type Brawler struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"`
}

type Mission struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Status           string    `json:"status"`
	ChiefID          int64     `json:"chief_id"`
	ChiefDisplayName string    `json:"chief_display_name"`
	CrewCount        int64     `json:"crew_count"`
	MaxCrew          int64     `json:"max_crew"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type CrewMember struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

type Comment struct {
	ID               int64     `json:"id"`
	MissionID        int64     `json:"mission_id"`
	BrawlerID        int64     `json:"brawler_id"`
	BrawlerName      string    `json:"brawler_display_name"`
	BrawlerAvatarURL string    `json:"brawler_avatar_url"`
	Content          string    `json:"content"`
	CreatedAt        time.Time `json:"created_at"`
}

type Notification struct {
	ID        int64     `json:"id"`
	BrawlerID int64     `json:"brawler_id"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	RelatedID int64     `json:"related_id,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// AddMission is the creation payload for a mission.
type AddMission struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	MaxCrew     int64  `json:"max_crew"`
}

// EditMission is the partial-update payload for a mission.
type EditMission struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	MaxCrew     *int64  `json:"max_crew"`
}

// AddNotification is the write payload for the durable notification
// store; the id and timestamps come from the database.
type AddNotification struct {
	BrawlerID int64
	Type      string
	Content   string
	RelatedID int64
}
