// services/maintenance.go
package services

import (
	"log"
	"time"

	"jobdocs-backend/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// MaintenanceService runs the background housekeeping: monthly usage-counter
// resets, subscription expiry downgrades and the re-push sweep for cache rows
// that never made it to the remote store.
type MaintenanceService struct {
	db   *gorm.DB
	sync *SyncService
}

func NewMaintenanceService(db *gorm.DB, sync *SyncService) *MaintenanceService {
	return &MaintenanceService{db: db, sync: sync}
}

func (s *MaintenanceService) StartScheduler() {
	c := cron.New()

	// First of the month, midnight
	c.AddFunc("0 0 1 * *", s.ResetMonthlyUsage)
	// Daily at 3 AM
	c.AddFunc("0 3 * * *", s.DowngradeExpired)
	// Hourly
	c.AddFunc("0 * * * *", s.RepushUnsynced)

	c.Start()
	log.Println("Maintenance scheduler started")
}

// ResetMonthlyUsage zeroes every profile's monthly document counter.
func (s *MaintenanceService) ResetMonthlyUsage() {
	res := s.db.Model(&models.Profile{}).
		Where("documents_used_this_month > 0").
		Update("documents_used_this_month", 0)
	if res.Error != nil {
		log.Printf("Failed to reset monthly usage: %v", res.Error)
		return
	}
	log.Printf("Monthly usage reset for %d profiles", res.RowsAffected)
}

// DowngradeExpired moves lapsed subscriptions back to the free tier.
func (s *MaintenanceService) DowngradeExpired() {
	res := s.db.Model(&models.Profile{}).
		Where("subscription_status = ? AND subscription_ends_at IS NOT NULL AND subscription_ends_at < ?", "active", time.Now()).
		Updates(map[string]interface{}{
			"subscription_status": "canceled",
			"subscription_plan":   "free",
		})
	if res.Error != nil {
		log.Printf("Failed to downgrade expired subscriptions: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("Downgraded %d expired subscriptions", res.RowsAffected)
	}
}

// RepushUnsynced re-runs the reconciler for every owner with cache rows
// still waiting on a successful push.
func (s *MaintenanceService) RepushUnsynced() {
	owners, err := s.sync.OwnersWithUnsynced()
	if err != nil {
		log.Printf("Failed to list owners with unsynced documents: %v", err)
		return
	}

	for _, owner := range owners {
		results, err := s.sync.Push(owner)
		if err != nil {
			log.Printf("Sync sweep for owner %s failed: %v", owner, err)
			continue
		}
		for _, r := range results {
			if !r.Success {
				log.Printf("Sync sweep: local document %d still failing: %s", r.LocalID, r.Error)
			}
		}
	}
}
