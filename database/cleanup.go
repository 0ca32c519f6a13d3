package database

import (
	"fmt"
	"log"
	"time"

	"modlog-bot/utils"
)

// CleanupExpiredMessages prunes cached messages older than the retention
// window. The cache only exists to reconstruct recently deleted or edited
// content; anything older is dead weight.
func CleanupExpiredMessages(cache *MessageCache, retention time.Duration) {
	log.Println("Starting cleanup of expired cached messages...")

	cutoff := time.Now().Add(-retention)
	removed, err := cache.PruneBefore(cutoff)
	if err != nil {
		utils.Error("CleanupExpiredMessages", "Cleanup", fmt.Sprintf("Error pruning message cache: %v", err))
		return
	}
	if removed > 0 {
		utils.Info("CleanupExpiredMessages", "Cleanup", fmt.Sprintf("Successfully removed %d expired cached messages", removed))
	}
}
