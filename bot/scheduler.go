package bot

import (
	"log"
	"time"

	"modlog-bot/database"
	"modlog-bot/modlog"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

var c *cron.Cron

// StartScheduler starts the retention cron jobs: pruning the message cache
// and sweeping transcript files that survived a failed immediate delete.
func StartScheduler(cache *database.MessageCache, transcripts *modlog.TranscriptWriter) {
	log.Println("Initializing scheduler...")

	retention := time.Duration(viper.GetInt("modlog.retention_hours")) * time.Hour
	if retention <= 0 {
		retention = 72 * time.Hour
	}

	c = cron.New()
	_, err := c.AddFunc("@hourly", func() {
		database.CleanupExpiredMessages(cache, retention)
		if removed := transcripts.Sweep(time.Hour); removed > 0 {
			log.Printf("Swept %d stale transcript files.", removed)
		}
	})
	if err != nil {
		log.Fatalf("Could not set up cron job: %v", err)
	}
	c.Start()
	log.Println("Cron job scheduled to run hourly.")

	// Run an initial cleanup on startup so a long-downed bot does not
	// carry weeks of stale cache.
	go database.CleanupExpiredMessages(cache, retention)
}

// stopScheduler stops the cron jobs.
func stopScheduler() {
	if c != nil {
		c.Stop()
		log.Println("Scheduler stopped.")
	}
}
