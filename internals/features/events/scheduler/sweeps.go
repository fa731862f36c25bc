package scheduler

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"cesms_backend/internals/features/events/scheduling"
)

// StartSweeps registers the background maintenance jobs and starts the cron
// runner. Jobs are best-effort: a failing sweep logs and waits for the next
// tick.
func StartSweeps(db *gorm.DB) *cron.Cron {
	c := cron.New(cron.WithLocation(scheduling.ManilaTZ))

	// Persist Completed for events whose schedule has passed.
	if _, err := c.AddFunc("*/10 * * * *", func() {
		updated, err := scheduling.AutoCompleteEvents(db)
		if err != nil {
			log.Println("[ERROR] event completion sweep failed:", err)
			return
		}
		if updated > 0 {
			log.Printf("[INFO] event completion sweep: %d event(s) marked Completed", updated)
		}
	}); err != nil {
		log.Println("[ERROR] failed to register completion sweep:", err)
	}

	// Drop blacklist entries whose tokens have long expired anyway.
	if _, err := c.AddFunc("0 3 * * *", func() {
		cutoff := time.Now().In(scheduling.ManilaTZ).AddDate(0, 0, -7)
		res := db.Exec("DELETE FROM token_blacklist WHERE token_blacklist_expired_at < ?", cutoff)
		if res.Error != nil {
			log.Println("[ERROR] token blacklist cleanup failed:", res.Error)
			return
		}
		if res.RowsAffected > 0 {
			log.Printf("[INFO] token blacklist cleanup: %d row(s) removed", res.RowsAffected)
		}
	}); err != nil {
		log.Println("[ERROR] failed to register blacklist cleanup:", err)
	}

	// Purge stale signup OTPs and password reset codes.
	if _, err := c.AddFunc("30 3 * * *", func() {
		now := time.Now().In(scheduling.ManilaTZ)
		for _, tbl := range []struct {
			table  string
			column string
		}{
			{"email_verifications", "email_verification_expires_at"},
			{"password_resets", "password_reset_expires_at"},
		} {
			res := db.Exec("DELETE FROM "+tbl.table+" WHERE "+tbl.column+" < ?", now)
			if res.Error != nil {
				log.Printf("[ERROR] %s cleanup failed: %v", tbl.table, res.Error)
				continue
			}
			if res.RowsAffected > 0 {
				log.Printf("[INFO] %s cleanup: %d row(s) removed", tbl.table, res.RowsAffected)
			}
		}
	}); err != nil {
		log.Println("[ERROR] failed to register verification cleanup:", err)
	}

	c.Start()
	log.Println("[INFO] background sweeps started")
	return c
}
