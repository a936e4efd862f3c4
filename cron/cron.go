package cron

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/alexvillacis/instituciones-app/db"
	"github.com/alexvillacis/instituciones-app/models"
)

// StartCronJobs initializes the scheduler for account housekeeping
func StartCronJobs() {
	fmt.Println("Starting cron job scheduler...")
	c := cron.New()
	// Nightly cleanup at 03:00
	_, err := c.AddFunc("0 3 * * *", cleanupStaleCodes)
	if err != nil {
		log.Fatalf("Failed to add cron job: %v", err)
	}
	c.Start()
	log.Println("Cron job scheduler started for account housekeeping")
}

// cleanupStaleCodes clears verification and temporary password codes that
// were issued more than a day ago and never used.
func cleanupStaleCodes() {
	cutoff := time.Now().Add(-24 * time.Hour)

	result := db.DB.Model(&models.User{}).
		Where("(verification_code <> '' OR password_temp <> '') AND updated_at < ?", cutoff).
		Updates(map[string]interface{}{
			"verification_code": "",
			"password_temp":     "",
		})
	if result.Error != nil {
		log.Printf("Error clearing stale verification codes: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("Cleared stale codes for %d users", result.RowsAffected)
	}
}
