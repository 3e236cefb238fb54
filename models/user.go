package models

import (
	"time"
)

// UserProfile is the domain record for an account. The auth service owns the
// credentials; everything the community app knows about a player lives here.
// The primary key is the auth service's user id.
type UserProfile struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	Name         string    `json:"name" gorm:"not null"`
	Location     string    `json:"location"`
	FavoriteGame string    `json:"favoriteGame"`
	Role         string    `json:"role" gorm:"type:varchar(16);default:'user'"` // "user" or "admin"
	JoinedAt     time.Time `json:"joinedAt"`
	CreatedAt    time.Time `json:"-" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"-" gorm:"autoUpdateTime"`
}

// RegistrationHistory counts how many times a user has registered for a given
// tournament. Count is never decremented on unregister — the cap of 3 is
// attempts-ever, not attempts-currently-held, to stop register/unregister
// flip-flopping.
type RegistrationHistory struct {
	ID           string    `json:"-" gorm:"primaryKey"`
	UserID       string    `json:"userId" gorm:"not null;index;uniqueIndex:idx_history_user_tournament"`
	TournamentID string    `json:"tournamentId" gorm:"not null;uniqueIndex:idx_history_user_tournament"`
	Count        int       `json:"count" gorm:"default:0"`
	IsRegistered bool      `json:"isRegistered" gorm:"default:false"`
	UpdatedAt    time.Time `json:"-" gorm:"autoUpdateTime"`
}

// PlayerGameStat holds a player's standing in one game. Rank and PreviousRank
// are only rewritten by the rank snapshot action; leaderboard reads recompute
// positions live from Points.
type PlayerGameStat struct {
	ID           string    `json:"-" gorm:"primaryKey"`
	UserID       string    `json:"userId" gorm:"not null;index;uniqueIndex:idx_stat_user_game"`
	Game         string    `json:"game" gorm:"not null;uniqueIndex:idx_stat_user_game"`
	Wins         int       `json:"wins" gorm:"default:0"`
	Points       int       `json:"points" gorm:"default:0"`
	Rank         int       `json:"rank" gorm:"default:0"`
	PreviousRank int       `json:"previousRank" gorm:"default:0"`
	UpdatedAt    time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// RegisteredTournament is one entry of a profile's registration list.
type RegisteredTournament struct {
	TournamentID    string    `json:"tournamentId"`
	TournamentTitle string    `json:"tournamentTitle"`
	Gamertag        string    `json:"gamertag,omitempty"`
	RegisteredAt    time.Time `json:"registeredAt"`
}

// RegistrationStatus is the per-tournament slice of registration history the
// client uses to decide whether the register button is still available.
type RegistrationStatus struct {
	Count        int  `json:"count"`
	IsRegistered bool `json:"isRegistered"`
}

// GameStat is the per-game stats block embedded in a profile view.
type GameStat struct {
	Wins         int       `json:"wins"`
	Points       int       `json:"points"`
	Rank         int       `json:"rank"`
	PreviousRank int       `json:"previousRank"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ProfileView is the JSON shape the client consumes: the stored profile plus
// registrations, history and stats assembled from their own tables.
type ProfileView struct {
	ID                    string                        `json:"id"`
	Email                 string                        `json:"email"`
	Name                  string                        `json:"name"`
	Location              string                        `json:"location"`
	FavoriteGame          string                        `json:"favoriteGame"`
	Role                  string                        `json:"role"`
	JoinedAt              time.Time                     `json:"joinedAt"`
	RegisteredTournaments []RegisteredTournament        `json:"registeredTournaments"`
	RegistrationHistory   map[string]RegistrationStatus `json:"registrationHistory"`
	GameStats             map[string]GameStat           `json:"gameStats"`
}
