package services

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"sports-picks-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSocialApp(db *gorm.DB, userID string) *fiber.App {
	svc := NewSocialService(db)
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		return c.Next()
	})
	app.Get("/leaderboard", svc.GetLeaderboard)
	app.Get("/follows", svc.ListFollows)
	app.Post("/follows", svc.Follow)
	app.Get("/notifications", svc.ListNotifications)
	app.Patch("/notifications/:id/seen", svc.MarkNotificationSeen)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	payload := map[string]interface{}{}
	data, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(data, &payload)
	return resp, payload
}

func TestFollow_CreatesAndTolerates(t *testing.T) {
	db := setupTestDB(t)
	alice := seedProfile(t, db, "alice")
	bob := seedProfile(t, db, "bob")

	app := newSocialApp(db, alice.ID)
	body := map[string]string{"following_id": bob.ID, "action": "follow"}

	resp, payload := doJSON(t, app, "POST", "/follows", body)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, payload["success"])

	// Following again is a tolerated no-op, not an error
	resp, payload = doJSON(t, app, "POST", "/follows", body)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Already following this user", payload["message"])

	var count int64
	db.Model(&models.Follow{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestFollow_RejectsSelfAndUnknown(t *testing.T) {
	db := setupTestDB(t)
	alice := seedProfile(t, db, "alice")
	app := newSocialApp(db, alice.ID)

	resp, payload := doJSON(t, app, "POST", "/follows",
		map[string]string{"following_id": alice.ID})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Cannot follow yourself", payload["error"])

	resp, payload = doJSON(t, app, "POST", "/follows",
		map[string]string{"following_id": "no-such-user"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User to follow not found", payload["error"])
}

func TestFollow_Unfollow(t *testing.T) {
	db := setupTestDB(t)
	alice := seedProfile(t, db, "alice")
	bob := seedProfile(t, db, "bob")
	app := newSocialApp(db, alice.ID)

	resp, _ := doJSON(t, app, "POST", "/follows",
		map[string]string{"following_id": bob.ID})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", "/follows",
		map[string]string{"following_id": bob.ID, "action": "unfollow"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	db.Model(&models.Follow{}).Count(&count)
	assert.Zero(t, count)
}

func TestGetLeaderboard_OrdersByXP(t *testing.T) {
	db := setupTestDB(t)
	for i, xp := range []int64{200, 500, 100} {
		prof := seedProfile(t, db, "user"+string(rune('a'+i)))
		require.NoError(t, db.Model(&models.Profile{}).
			Where("id = ?", prof.ID).Update("xp", xp).Error)
	}

	app := newSocialApp(db, "viewer")
	resp, payload := doJSON(t, app, "GET", "/leaderboard?limit=2", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "all", payload["timeframe"])

	entries, ok := payload["leaderboard"].([]interface{})
	require.True(t, ok)
	require.Len(t, entries, 2)

	first := entries[0].(map[string]interface{})
	second := entries[1].(map[string]interface{})
	assert.EqualValues(t, 500, first["xp"])
	assert.EqualValues(t, 200, second["xp"])
}

func TestNotifications_ListAndMarkSeen(t *testing.T) {
	db := setupTestDB(t)
	rings := NewRingService(db)

	prof := seedProfile(t, db, "climber")
	prof.TotalPicks = 12
	prof.CorrectPicks = 7
	prof.HitRate = 7.0 / 12.0
	require.NoError(t, db.Save(prof).Error)

	change, err := rings.ClassifyUser(prof.ID)
	require.NoError(t, err)
	require.True(t, change.Changed)

	app := newSocialApp(db, prof.ID)
	resp, payload := doJSON(t, app, "GET", "/notifications", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	notifs, ok := payload["notifications"].([]interface{})
	require.True(t, ok)
	require.Len(t, notifs, 1)
	notif := notifs[0].(map[string]interface{})
	assert.Equal(t, models.NotificationTypeRingChange, notif["type"])
	assert.Equal(t, false, notif["seen"])

	resp, _ = doJSON(t, app, "PATCH", "/notifications/"+notif["id"].(string)+"/seen", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var stored models.Notification
	require.NoError(t, db.First(&stored, "user_id = ?", prof.ID).Error)
	assert.True(t, stored.Seen)

	// Someone else's notification cannot be marked
	other := newSocialApp(db, "someone-else")
	resp, _ = doJSON(t, other, "PATCH", "/notifications/"+notif["id"].(string)+"/seen", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
