package services

import (
	"testing"
	"time"

	"jobdocs-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestResetMonthlyUsage(t *testing.T) {
	db := setupBuilderDB(t)
	profile := createBuilderProfile(t, db, "free")
	db.Model(&models.Profile{}).Where("id = ?", profile.ID).
		Update("documents_used_this_month", 7)

	NewMaintenanceService(db, nil).ResetMonthlyUsage()

	var reloaded models.Profile
	db.First(&reloaded, "id = ?", profile.ID)
	assert.Equal(t, 0, reloaded.DocumentsUsedThisMonth)
}

func TestDowngradeExpired(t *testing.T) {
	db := setupBuilderDB(t)
	m := NewMaintenanceService(db, nil)

	expired := createBuilderProfile(t, db, "active")
	past := time.Now().Add(-24 * time.Hour)
	db.Model(&models.Profile{}).Where("id = ?", expired.ID).
		Updates(map[string]interface{}{"subscription_plan": "pro", "subscription_ends_at": past})

	current := createBuilderProfile(t, db, "active")
	future := time.Now().Add(30 * 24 * time.Hour)
	db.Model(&models.Profile{}).Where("id = ?", current.ID).
		Updates(map[string]interface{}{"subscription_plan": "pro", "subscription_ends_at": future})

	m.DowngradeExpired()

	var reloaded models.Profile
	db.First(&reloaded, "id = ?", expired.ID)
	assert.Equal(t, "canceled", reloaded.SubscriptionStatus)
	assert.Equal(t, "free", reloaded.SubscriptionPlan)

	reloaded = models.Profile{}
	db.First(&reloaded, "id = ?", current.ID)
	assert.Equal(t, "active", reloaded.SubscriptionStatus)
	assert.Equal(t, "pro", reloaded.SubscriptionPlan)
}

func TestRepushUnsynced(t *testing.T) {
	local, remote := setupSyncDBs(t)
	sync := NewSyncService(local, remote)
	m := NewMaintenanceService(remote, sync)

	userID := uuid.New()
	doc := queueTestDocument(t, sync, userID, "INV-001")

	m.RepushUnsynced()

	var stored models.LocalDocument
	local.First(&stored, doc.ID)
	assert.Equal(t, models.SyncStatusSynced, stored.SyncStatus)

	var count int64
	remote.Model(&models.Document{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
