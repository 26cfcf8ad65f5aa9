package services

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sports-picks-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newPickApp wires CreatePick behind a stub auth layer acting as userID.
func newPickApp(db *gorm.DB, userID string) *fiber.App {
	svc := NewPickService(db)
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		return c.Next()
	})
	app.Post("/api/picks", svc.CreatePick)
	app.Get("/api/picks", svc.ListPicks)
	return app
}

func postPick(t *testing.T, app *fiber.App, body map[string]string) (*http.Response, map[string]interface{}) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/picks", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	payload := map[string]interface{}{}
	data, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(data, &payload)
	return resp, payload
}

func TestCreatePick_Succeeds(t *testing.T) {
	db := setupTestDB(t)
	sport := seedSport(t, db, "NBA", "nba")
	home := seedTeam(t, db, sport.ID, "Boston Celtics")
	away := seedTeam(t, db, sport.ID, "Miami Heat")
	game := seedGame(t, db, sport, home, away, models.GameStatusScheduled)
	user := seedProfile(t, db, "fan")

	app := newPickApp(db, user.ID)
	resp, payload := postPick(t, app, map[string]string{
		"game_id":      game.ID,
		"pick_team_id": home.ID,
	})

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	pick, ok := payload["pick"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, home.ID, pick["pick_team_id"])
	assert.Equal(t, models.PickResultPending, pick["result"])

	var stored models.Pick
	require.NoError(t, db.First(&stored, "user_id = ? AND game_id = ?", user.ID, game.ID).Error)
	assert.Equal(t, home.ID, stored.PickTeamID)
}

func TestCreatePick_RejectsLockedGame(t *testing.T) {
	db := setupTestDB(t)
	sport := seedSport(t, db, "NBA", "nba")
	home := seedTeam(t, db, sport.ID, "Boston Celtics")
	away := seedTeam(t, db, sport.ID, "Miami Heat")
	game := seedGame(t, db, sport, home, away, models.GameStatusScheduled)
	user := seedProfile(t, db, "fan")

	// Push the lock into the past; status is still scheduled.
	require.NoError(t, db.Model(&models.Game{}).Where("id = ?", game.ID).
		Update("lock_time", time.Now().Add(-time.Minute)).Error)

	app := newPickApp(db, user.ID)
	resp, payload := postPick(t, app, map[string]string{
		"game_id":      game.ID,
		"pick_team_id": home.ID,
	})

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "picks are locked for this game", payload["error"])

	var count int64
	db.Model(&models.Pick{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreatePick_RejectsDuplicate(t *testing.T) {
	db := setupTestDB(t)
	sport := seedSport(t, db, "NBA", "nba")
	home := seedTeam(t, db, sport.ID, "Boston Celtics")
	away := seedTeam(t, db, sport.ID, "Miami Heat")
	game := seedGame(t, db, sport, home, away, models.GameStatusScheduled)
	user := seedProfile(t, db, "fan")

	app := newPickApp(db, user.ID)
	body := map[string]string{"game_id": game.ID, "pick_team_id": home.ID}

	resp, _ := postPick(t, app, body)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Switching teams does not dodge the one-pick-per-game rule.
	body["pick_team_id"] = away.ID
	resp, payload := postPick(t, app, body)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "pick already exists for this game", payload["error"])
}

func TestCreatePick_ValidatesInput(t *testing.T) {
	db := setupTestDB(t)
	sport := seedSport(t, db, "NBA", "nba")
	home := seedTeam(t, db, sport.ID, "Boston Celtics")
	away := seedTeam(t, db, sport.ID, "Miami Heat")
	game := seedGame(t, db, sport, home, away, models.GameStatusScheduled)
	outsider := seedTeam(t, db, sport.ID, "Chicago Bulls")
	user := seedProfile(t, db, "fan")

	app := newPickApp(db, user.ID)

	resp, payload := postPick(t, app, map[string]string{"game_id": game.ID})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "game_id and pick_team_id are required", payload["error"])

	resp, payload = postPick(t, app, map[string]string{
		"game_id": "no-such-game", "pick_team_id": home.ID,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "game not found", payload["error"])

	resp, payload = postPick(t, app, map[string]string{
		"game_id": game.ID, "pick_team_id": outsider.ID,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "pick_team_id is not playing in this game", payload["error"])
}

func TestListPicks_FiltersByUser(t *testing.T) {
	db := setupTestDB(t)
	sport := seedSport(t, db, "NBA", "nba")
	home := seedTeam(t, db, sport.ID, "Boston Celtics")
	away := seedTeam(t, db, sport.ID, "Miami Heat")
	gameA := seedGame(t, db, sport, home, away, models.GameStatusScheduled)
	gameB := seedGame(t, db, sport, home, away, models.GameStatusScheduled)

	alice := seedProfile(t, db, "alice")
	bob := seedProfile(t, db, "bob")
	seedPick(t, db, alice.ID, gameA.ID, home.ID)
	seedPick(t, db, alice.ID, gameB.ID, away.ID)
	seedPick(t, db, bob.ID, gameA.ID, away.ID)

	app := newPickApp(db, alice.ID)
	req := httptest.NewRequest("GET", "/api/picks?userId="+alice.ID, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Picks []models.Pick `json:"picks"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Len(t, payload.Picks, 2)
	for _, p := range payload.Picks {
		assert.Equal(t, alice.ID, p.UserID)
	}
}
