package services

import (
	"encoding/json"
	"testing"

	"sports-picks-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetermineRing(t *testing.T) {
	tests := []struct {
		name       string
		hitRate    float64
		totalPicks int64
		want       string
	}{
		{"hall of fame", 0.72, 55, models.RingHallOfFame},
		{"exactly at hall of fame floor", 0.70, 50, models.RingHallOfFame},
		{"mvp rate but not enough picks", 0.68, 40, models.RingMVP},
		{"all star", 0.62, 25, models.RingAllStar},
		{"pro", 0.56, 12, models.RingPro},
		{"coin flipper stays rookie", 0.50, 5, models.RingRookie},
		{"high rate with tiny sample", 1.0, 3, models.RingRookie},
		{"no picks at all", 0, 0, models.RingRookie},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineRing(tt.hitRate, tt.totalPicks))
		})
	}
}

func TestDetermineRing_MostPrestigiousWins(t *testing.T) {
	// 0.75 over 60 picks satisfies every rule; the top one must win.
	assert.Equal(t, models.RingHallOfFame, DetermineRing(0.75, 60))
}

func TestClassifyUser_PromotionEmitsNotificationAndBroadcast(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRingService(db)

	prof := seedProfile(t, db, "hotstreak")
	prof.TotalPicks = 25
	prof.CorrectPicks = 16
	prof.HitRate = 0.64
	require.NoError(t, db.Save(prof).Error)

	change, err := svc.ClassifyUser(prof.ID)
	require.NoError(t, err)
	assert.True(t, change.Changed)
	assert.Equal(t, models.RingRookie, change.OldRing)
	assert.Equal(t, models.RingAllStar, change.NewRing)

	var stored models.Profile
	require.NoError(t, db.First(&stored, "id = ?", prof.ID).Error)
	assert.Equal(t, models.RingAllStar, stored.Ring)

	var notif models.Notification
	require.NoError(t, db.First(&notif, "user_id = ?", prof.ID).Error)
	assert.Equal(t, models.NotificationTypeRingChange, notif.Type)
	assert.Contains(t, notif.Message, models.RingAllStar)

	var event models.BroadcastEvent
	require.NoError(t, db.First(&event, "type = ?", models.BroadcastRingChange).Error)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(event.Payload), &payload))
	assert.Equal(t, prof.ID, payload["user_id"])
	assert.Equal(t, models.RingRookie, payload["old_ring"])
	assert.Equal(t, models.RingAllStar, payload["new_ring"])
}

func TestClassifyUser_UnchangedTierWritesNothing(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRingService(db)

	prof := seedProfile(t, db, "steady")
	prof.TotalPicks = 25
	prof.CorrectPicks = 16
	prof.HitRate = 0.64
	require.NoError(t, db.Save(prof).Error)

	first, err := svc.ClassifyUser(prof.ID)
	require.NoError(t, err)
	require.True(t, first.Changed)

	second, err := svc.ClassifyUser(prof.ID)
	require.NoError(t, err)
	assert.False(t, second.Changed)
	assert.Equal(t, models.RingAllStar, second.OldRing)
	assert.Equal(t, models.RingAllStar, second.NewRing)

	var notifCount, eventCount int64
	db.Model(&models.Notification{}).Count(&notifCount)
	db.Model(&models.BroadcastEvent{}).Count(&eventCount)
	assert.EqualValues(t, 1, notifCount, "re-classification must not re-notify")
	assert.EqualValues(t, 1, eventCount)
}

func TestClassifyUser_UnknownUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRingService(db)

	_, err := svc.ClassifyUser("ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile not found")
}

func TestClassifyAll_SkipsUsersWithoutPicks(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRingService(db)

	active := seedProfile(t, db, "active")
	active.TotalPicks = 12
	active.CorrectPicks = 7
	active.HitRate = 7.0 / 12.0
	require.NoError(t, db.Save(active).Error)

	seedProfile(t, db, "lurker") // zero picks, never classified

	changes, err := svc.ClassifyAll()
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, active.ID, changes[0].UserID)
	assert.Equal(t, models.RingPro, changes[0].NewRing)
}
