// esports-community-system/services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartRankSnapshotScheduler recalculates leaderboard ranks once a day so the
// trend arrows track day-over-day movement instead of drifting forever.
func StartRankSnapshotScheduler(leaderboards *LeaderboardService) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("Failed to create rank snapshot scheduler: %v", err)
		return
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(func() {
			log.Println("Running daily rank snapshot...")
			if err := leaderboards.RecalculateAllRanks(); err != nil {
				log.Printf("Daily rank snapshot failed: %v", err)
			}
		}),
	)
	if err != nil {
		log.Printf("Failed to schedule rank snapshot job: %v", err)
		return
	}

	scheduler.Start()
	log.Println("Rank snapshot scheduler started (every 24h)")
}
