package models

import (
	"time"
)

// Tournament covers both tournaments and scrims (Type distinguishes them).
// The id is generated server-side and immutable once created.
type Tournament struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Title        string    `json:"title" gorm:"not null"`
	Game         string    `json:"game" gorm:"index"`
	Host         string    `json:"host"`
	Location     string    `json:"location"`
	Area         string    `json:"area"`
	FullDate     string    `json:"fullDate"`
	Date         string    `json:"date"`
	TimeSlot     string    `json:"time" gorm:"column:time_slot"`
	Duration     string    `json:"duration"`
	Format       string    `json:"format"`
	Type         string    `json:"type" gorm:"type:varchar(16);default:'tournament'"` // "tournament" or "scrim"
	PrizePool    string    `json:"prizePool"`
	SkillLevel   string    `json:"skillLevel"`
	MaxAttendees int       `json:"maxAttendees" gorm:"default:0"`
	Image        string    `json:"image"`
	Tags         []string  `json:"tags" gorm:"serializer:json"`
	Description  string    `json:"description" gorm:"type:text"`
	Requirements string    `json:"requirements" gorm:"type:text"`
	CreatedAt    time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// TournamentParticipant marks that a user is currently registered for a
// tournament. User fields are denormalized at registration time so rosters
// render without touching profiles; the sync worker re-copies them when a
// profile is edited. One row per (tournament, user) pair — enforced by the
// unique index. This table also backs the profile's registeredTournaments
// list, so registering and unregistering keep both views consistent by
// construction.
type TournamentParticipant struct {
	ID              string    `json:"-" gorm:"primaryKey"`
	TournamentID    string    `json:"tournamentId" gorm:"not null;index;uniqueIndex:idx_participant_pair"`
	UserID          string    `json:"userId" gorm:"not null;index;uniqueIndex:idx_participant_pair"`
	TournamentTitle string    `json:"tournamentTitle"`
	UserName        string    `json:"userName"`
	UserEmail       string    `json:"userEmail"`
	Location        string    `json:"location"`
	FavoriteGame    string    `json:"favoriteGame"`
	Gamertag        string    `json:"gamertag,omitempty"`
	RegisteredAt    time.Time `json:"registeredAt"`
}
