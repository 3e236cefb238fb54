// esports-community-system/workers/participant_sync_worker.go
package workers

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"
)

// ParticipantSyncWorker re-copies profile fields onto tournament participant
// rows. Participant records carry denormalized name/email/location so roster
// reads stay a single query; when an admin edits a profile those copies
// drift, and this worker heals them.
type ParticipantSyncWorker struct {
	DB       *gorm.DB
	Interval time.Duration
}

func NewParticipantSyncWorker(db *gorm.DB, interval time.Duration) *ParticipantSyncWorker {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &ParticipantSyncWorker{DB: db, Interval: interval}
}

// Run loops until the context is cancelled. One pass runs immediately on
// startup.
func (w *ParticipantSyncWorker) Run(ctx context.Context) {
	log.Printf("Participant sync worker started (every %s)", w.Interval)

	if err := w.syncOnce(); err != nil {
		log.Printf("Participant sync failed: %v", err)
	}

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Participant sync worker stopped")
			return
		case <-ticker.C:
			if err := w.syncOnce(); err != nil {
				log.Printf("Participant sync failed: %v", err)
			}
		}
	}
}

func (w *ParticipantSyncWorker) syncOnce() error {
	result := w.DB.Exec(`
		UPDATE tournament_participants AS p
		SET user_name = u.name,
		    user_email = u.email,
		    location = u.location,
		    favorite_game = u.favorite_game
		FROM user_profiles AS u
		WHERE u.id = p.user_id
		  AND (p.user_name <> u.name
		       OR p.user_email <> u.email
		       OR p.location <> u.location
		       OR p.favorite_game <> u.favorite_game)
	`)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("Participant sync: refreshed %d row(s)", result.RowsAffected)
	}
	return nil
}
