//go:build integration

package services_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"os"
	"testing"

	"esports-community-system/handlers"
	"esports-community-system/middleware"
	"esports-community-system/models"
	"esports-community-system/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// fakeProvider maps bearer tokens to auth accounts so the full middleware
// chain runs without a live auth service.
type fakeProvider struct {
	users   map[string]*services.AuthUser
	created []string
}

func (f *fakeProvider) CreateUser(email, password string, meta services.UserMetadata) (*services.AuthUser, error) {
	id := fmt.Sprintf("auth-%d", len(f.created)+1)
	f.created = append(f.created, id)
	return &services.AuthUser{ID: id, Email: email}, nil
}

func (f *fakeProvider) GetUser(accessToken string) (*services.AuthUser, error) {
	if u, ok := f.users[accessToken]; ok {
		return u, nil
	}
	return nil, services.ErrUnauthorized
}

func (f *fakeProvider) DeleteUser(userID string) error { return nil }

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.UserProfile{},
		&models.Tournament{},
		&models.TournamentParticipant{},
		&models.RegistrationHistory{},
		&models.PlayerGameStat{},
		&models.AppConfig{},
		&models.BlogPost{},
	))

	for _, table := range []string{
		"tournament_participants", "registration_histories", "player_game_stats",
		"tournaments", "blog_posts", "app_configs", "user_profiles",
	} {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}

	provider := &fakeProvider{users: map[string]*services.AuthUser{
		"player-token": {ID: "player-1", Email: "amina@example.com"},
		"other-token":  {ID: "player-2", Email: "brian@example.com"},
		"admin-token":  {ID: "admin-1", Email: "admin@example.com", IsAdmin: true},
	}}

	seedProfiles := []models.UserProfile{
		{ID: "player-1", Email: "amina@example.com", Name: "Amina", Location: "Westlands", FavoriteGame: "EA FC 25", Role: "user"},
		{ID: "player-2", Email: "brian@example.com", Name: "Brian", Location: "Karen", FavoriteGame: "Tekken 8", Role: "user"},
		{ID: "admin-1", Email: "admin@example.com", Name: "Admin", Role: "admin"},
	}
	require.NoError(t, db.Create(&seedProfiles).Error)

	accountService := services.NewAccountService(db, provider)
	tournamentService := services.NewTournamentService(db, accountService)
	leaderboardService := services.NewLeaderboardService(db)
	blogService := services.NewBlogService(db)
	configService := services.NewConfigService(db)
	mediaService := services.NewMediaService()

	userCtx := middleware.UserContextMiddleware(provider)
	adminOnly := middleware.AdminOnlyMiddleware(db)

	app := fiber.New()
	api := app.Group("/api/v1")
	api.Get("/config", configService.GetConfig)
	handlers.SetupAccountRoutes(api, accountService, userCtx)
	handlers.SetupTournamentRoutes(api, tournamentService, userCtx)
	handlers.SetupLeaderboardRoutes(api, leaderboardService)
	handlers.SetupBlogRoutes(api, blogService)
	handlers.SetupAdminRoutes(api, accountService, tournamentService, leaderboardService, blogService, configService, mediaService, userCtx, adminOnly)

	return &testEnv{app: app, db: db}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp.StatusCode, decoded
}

func (e *testEnv) seedTournament(t *testing.T, id, title, game string) {
	t.Helper()
	require.NoError(t, e.db.Create(&models.Tournament{
		ID: id, Title: title, Game: game, Type: "tournament",
	}).Error)
}

func TestRegistrationLifecycle(t *testing.T) {
	env := newTestEnv(t)
	env.seedTournament(t, "t-1", "Nairobi FC Cup", "EA FC 25")

	regBody := map[string]string{"tournamentId": "t-1", "tournamentTitle": "Nairobi FC Cup", "gamertag": "aminafc"}

	status, body := env.request(t, "POST", "/api/v1/register-tournament", "player-token", regBody)
	require.Equal(t, 200, status, "body: %v", body)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Successfully registered for tournament", body["message"])
	regs := body["registeredTournaments"].([]interface{})
	require.Len(t, regs, 1)
	assert.Equal(t, "t-1", regs[0].(map[string]interface{})["tournamentId"])

	// duplicate registration is rejected
	status, body = env.request(t, "POST", "/api/v1/register-tournament", "player-token", regBody)
	assert.Equal(t, 400, status)
	assert.Equal(t, "Already registered for this tournament", body["error"])

	// roster shows the denormalized profile fields
	status, body = env.request(t, "GET", "/api/v1/tournament/t-1/participants", "", nil)
	require.Equal(t, 200, status)
	assert.EqualValues(t, 1, body["count"])
	participant := body["participants"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Amina", participant["userName"])
	assert.Equal(t, "aminafc", participant["gamertag"])

	// unregister empties the roster and the registration list
	status, body = env.request(t, "POST", "/api/v1/unregister-tournament", "player-token",
		map[string]string{"tournamentId": "t-1"})
	require.Equal(t, 200, status)
	assert.Empty(t, body["registeredTournaments"])

	status, body = env.request(t, "GET", "/api/v1/tournament/t-1/participants", "", nil)
	require.Equal(t, 200, status)
	assert.EqualValues(t, 0, body["count"])
}

func TestRegistrationCapAcrossCycles(t *testing.T) {
	env := newTestEnv(t)
	env.seedTournament(t, "t-cap", "Cap Test Cup", "Tekken 8")

	regBody := map[string]string{"tournamentId": "t-cap", "tournamentTitle": "Cap Test Cup"}
	unregBody := map[string]string{"tournamentId": "t-cap"}

	for i := 0; i < 3; i++ {
		status, body := env.request(t, "POST", "/api/v1/register-tournament", "player-token", regBody)
		require.Equal(t, 200, status, "attempt %d: %v", i+1, body)
		status, _ = env.request(t, "POST", "/api/v1/unregister-tournament", "player-token", unregBody)
		require.Equal(t, 200, status)
	}

	// fourth attempt hits the cap even though the user is not currently registered
	status, body := env.request(t, "POST", "/api/v1/register-tournament", "player-token", regBody)
	assert.Equal(t, 400, status)
	assert.Contains(t, body["error"], "Registration limit reached")

	// the cap is per user: another player registers fine
	status, _ = env.request(t, "POST", "/api/v1/register-tournament", "other-token", regBody)
	assert.Equal(t, 200, status)
}

func TestTournamentDeleteCascadesRoster(t *testing.T) {
	env := newTestEnv(t)
	env.seedTournament(t, "t-del", "Doomed Cup", "Valorant")

	status, _ := env.request(t, "POST", "/api/v1/register-tournament", "player-token",
		map[string]string{"tournamentId": "t-del", "tournamentTitle": "Doomed Cup"})
	require.Equal(t, 200, status)

	status, _ = env.request(t, "DELETE", "/api/v1/admin/tournaments/t-del", "admin-token", nil)
	require.Equal(t, 200, status)

	var count int64
	require.NoError(t, env.db.Model(&models.TournamentParticipant{}).
		Where("tournament_id = ?", "t-del").Count(&count).Error)
	assert.Zero(t, count)

	// the registration list no longer mentions the tournament
	status, body := env.request(t, "GET", "/api/v1/my-tournaments", "player-token", nil)
	require.Equal(t, 200, status)
	assert.Empty(t, body["tournaments"])

	// but the attempt history survives the delete
	var histCount int64
	require.NoError(t, env.db.Model(&models.RegistrationHistory{}).
		Where("tournament_id = ?", "t-del").Count(&histCount).Error)
	assert.EqualValues(t, 1, histCount)
}

func TestAdminGate(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.request(t, "GET", "/api/v1/admin/users", "player-token", nil)
	assert.Equal(t, 403, status)
	assert.Equal(t, "Admin access required", body["error"])

	status, _ = env.request(t, "GET", "/api/v1/admin/users", "admin-token", nil)
	assert.Equal(t, 200, status)

	status, _ = env.request(t, "GET", "/api/v1/admin/users", "", nil)
	assert.Equal(t, 401, status)
}

func TestRoleManagement(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.request(t, "PATCH", "/api/v1/admin/users/player-1/role", "admin-token",
		map[string]string{"role": "moderator"})
	assert.Equal(t, 400, status)
	assert.Equal(t, `Role must be either "user" or "admin"`, body["error"])

	status, body = env.request(t, "PATCH", "/api/v1/admin/users/player-1/role", "admin-token",
		map[string]string{"role": "admin"})
	require.Equal(t, 200, status)
	assert.Equal(t, "admin", body["user"].(map[string]interface{})["role"])

	// the promoted user can now reach the back office
	status, _ = env.request(t, "GET", "/api/v1/admin/users", "player-token", nil)
	assert.Equal(t, 200, status)

	status, body = env.request(t, "PATCH", "/api/v1/admin/users/ghost/role", "admin-token",
		map[string]string{"role": "admin"})
	assert.Equal(t, 404, status)
	assert.Equal(t, "User not found", body["error"])
}

func TestTournamentCrudImmutableID(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.request(t, "POST", "/api/v1/admin/tournaments", "admin-token",
		map[string]interface{}{"title": "Created Cup", "game": "Fortnite", "maxAttendees": 32})
	require.Equal(t, 201, status, "body: %v", body)
	created := body["tournament"].(map[string]interface{})
	id := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "tournament", created["type"])

	// update merges fields and ignores the id in the payload
	status, body = env.request(t, "PUT", "/api/v1/admin/tournaments/"+id, "admin-token",
		map[string]interface{}{"id": "forged-id", "prizePool": "KSh 50,000"})
	require.Equal(t, 200, status)
	updated := body["tournament"].(map[string]interface{})
	assert.Equal(t, id, updated["id"])
	assert.Equal(t, "Created Cup", updated["title"])
	assert.Equal(t, "KSh 50,000", updated["prizePool"])

	status, body = env.request(t, "POST", "/api/v1/admin/tournaments", "admin-token",
		map[string]interface{}{"title": "Bad Type", "type": "league"})
	assert.Equal(t, 400, status)
}

func TestLeaderboardViews(t *testing.T) {
	env := newTestEnv(t)

	for _, stat := range []map[string]interface{}{
		{"userId": "player-1", "game": "EA FC 25", "wins": 5, "points": 150},
		{"userId": "player-2", "game": "EA FC 25", "wins": 0, "points": 0},
	} {
		status, body := env.request(t, "POST", "/api/v1/admin/update-player-stats", "admin-token", stat)
		require.Equal(t, 200, status, "body: %v", body)
	}

	// public view drops the zero-point player
	status, body := env.request(t, "GET", "/api/v1/leaderboard?game=EA+FC+25", "", nil)
	require.Equal(t, 200, status)
	public := body["leaderboard"].([]interface{})
	require.Len(t, public, 1)
	entry := public[0].(map[string]interface{})
	assert.Equal(t, "Amina", entry["player"])
	assert.EqualValues(t, 1, entry["rank"])
	assert.Equal(t, "same", entry["trend"])

	// admin view keeps everyone
	status, body = env.request(t, "GET", "/api/v1/admin/leaderboard/EA%20FC%2025", "admin-token", nil)
	require.Equal(t, 200, status)
	assert.Len(t, body["leaderboard"].([]interface{}), 2)

	status, body = env.request(t, "GET", "/api/v1/leaderboard", "", nil)
	assert.Equal(t, 400, status)

	status, body = env.request(t, "POST", "/api/v1/admin/update-player-stats", "admin-token",
		map[string]interface{}{"userId": "ghost", "game": "EA FC 25", "wins": 1, "points": 10})
	assert.Equal(t, 404, status)
	assert.Equal(t, "User not found", body["error"])
}

func TestRankRecalculationTrends(t *testing.T) {
	env := newTestEnv(t)

	for _, stat := range []map[string]interface{}{
		{"userId": "player-1", "game": "Tekken 8", "wins": 3, "points": 100},
		{"userId": "player-2", "game": "Tekken 8", "wins": 1, "points": 50},
	} {
		status, _ := env.request(t, "POST", "/api/v1/admin/update-player-stats", "admin-token", stat)
		require.Equal(t, 200, status)
	}

	status, _ := env.request(t, "POST", "/api/v1/admin/recalculate-ranks", "admin-token",
		map[string]string{"game": "Tekken 8"})
	require.Equal(t, 200, status)

	// player-2 overtakes player-1 after the snapshot
	status, _ = env.request(t, "POST", "/api/v1/admin/update-player-stats", "admin-token",
		map[string]interface{}{"userId": "player-2", "game": "Tekken 8", "wins": 4, "points": 200})
	require.Equal(t, 200, status)

	status, body := env.request(t, "GET", "/api/v1/leaderboard?game=Tekken+8", "", nil)
	require.Equal(t, 200, status)
	entries := body["leaderboard"].([]interface{})
	require.Len(t, entries, 2)
	first := entries[0].(map[string]interface{})
	second := entries[1].(map[string]interface{})
	assert.Equal(t, "Brian", first["player"])
	assert.Equal(t, "up", first["trend"])
	assert.Equal(t, "Amina", second["player"])
	assert.Equal(t, "down", second["trend"])
}

func TestConfigSeedAndUpdate(t *testing.T) {
	env := newTestEnv(t)

	// first read seeds the defaults
	status, body := env.request(t, "GET", "/api/v1/config", "", nil)
	require.Equal(t, 200, status)
	assert.NotEmpty(t, body["locationOptions"])
	assert.NotEmpty(t, body["gameOptions"])

	status, body = env.request(t, "PUT", "/api/v1/admin/config", "admin-token",
		map[string]interface{}{
			"locationOptions": []string{"Westlands", "Karen"},
			"gameOptions":     []string{"EA FC 25"},
		})
	require.Equal(t, 200, status)

	status, body = env.request(t, "GET", "/api/v1/admin/config", "admin-token", nil)
	require.Equal(t, 200, status)
	assert.Len(t, body["locationOptions"].([]interface{}), 2)
	assert.Equal(t, "EA FC 25", body["gameOptions"].([]interface{})[0])

	// partial update is rejected, nothing is wiped
	status, body = env.request(t, "PUT", "/api/v1/admin/config", "admin-token",
		map[string]interface{}{"gameOptions": []string{"Tekken 8"}})
	assert.Equal(t, 400, status)
	assert.Contains(t, body["error"], "locationOptions is required")
}

func TestSignupCreatesProfile(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.request(t, "POST", "/api/v1/signup", "",
		map[string]string{
			"email": "new@example.com", "password": "secret123", "name": "Newcomer",
			"location": "Kilimani", "favoriteGame": "Valorant",
		})
	require.Equal(t, 200, status, "body: %v", body)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "new@example.com", user["email"])
	assert.Equal(t, "Newcomer", user["name"])

	var profile models.UserProfile
	require.NoError(t, env.db.First(&profile, "id = ?", user["id"]).Error)
	assert.Equal(t, "Kilimani", profile.Location)
	assert.Equal(t, "user", profile.Role)

	status, body = env.request(t, "POST", "/api/v1/signup", "",
		map[string]string{"email": "no-name@example.com", "password": "secret123"})
	assert.Equal(t, 400, status)
	assert.Equal(t, "Email, password, and name are required", body["error"])
}

func TestTopGamesCountsDistinctPlayers(t *testing.T) {
	env := newTestEnv(t)
	env.seedTournament(t, "t-fc-1", "FC Cup 1", "EA FC 25")
	env.seedTournament(t, "t-fc-2", "FC Cup 2", "EA FC 25")
	env.seedTournament(t, "t-tk-1", "Tekken Night", "Tekken 8")

	for _, reg := range []struct{ token, id, title string }{
		{"player-token", "t-fc-1", "FC Cup 1"},
		{"player-token", "t-fc-2", "FC Cup 2"}, // same player twice: still 1 distinct
		{"other-token", "t-tk-1", "Tekken Night"},
	} {
		status, _ := env.request(t, "POST", "/api/v1/register-tournament", reg.token,
			map[string]string{"tournamentId": reg.id, "tournamentTitle": reg.title})
		require.Equal(t, 200, status)
	}

	status, body := env.request(t, "GET", "/api/v1/top-games", "", nil)
	require.Equal(t, 200, status)
	games := body["games"].([]interface{})
	require.Len(t, games, 2)
	for _, g := range games {
		entry := g.(map[string]interface{})
		assert.EqualValues(t, 1, entry["players"], "game %v", entry["game"])
	}
}

func TestBlogCrud(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.request(t, "POST", "/api/v1/admin/blog-posts", "admin-token",
		map[string]string{"title": "Launch Recap", "content": "We hosted 64 players.", "author": "Admin"})
	require.Equal(t, 201, status, "body: %v", body)
	post := body["post"].(map[string]interface{})
	id := post["id"].(string)
	assert.NotEmpty(t, post["date"])

	status, body = env.request(t, "GET", "/api/v1/blog-posts", "", nil)
	require.Equal(t, 200, status)
	assert.Len(t, body["posts"].([]interface{}), 1)

	status, body = env.request(t, "PUT", "/api/v1/admin/blog-posts/"+id, "admin-token",
		map[string]string{"category": "Events"})
	require.Equal(t, 200, status)
	assert.Equal(t, "Launch Recap", body["post"].(map[string]interface{})["title"])
	assert.Equal(t, "Events", body["post"].(map[string]interface{})["category"])

	status, _ = env.request(t, "DELETE", "/api/v1/admin/blog-posts/"+id, "admin-token", nil)
	require.Equal(t, 200, status)

	status, body = env.request(t, "DELETE", "/api/v1/admin/blog-posts/"+id, "admin-token", nil)
	assert.Equal(t, 404, status)

	status, body = env.request(t, "POST", "/api/v1/admin/blog-posts", "admin-token",
		map[string]string{"title": "No body"})
	assert.Equal(t, 400, status)
	assert.Equal(t, "Title and content are required", body["error"])
}

func TestDeleteUserCascades(t *testing.T) {
	env := newTestEnv(t)
	env.seedTournament(t, "t-x", "X Cup", "Valorant")

	status, _ := env.request(t, "POST", "/api/v1/register-tournament", "player-token",
		map[string]string{"tournamentId": "t-x", "tournamentTitle": "X Cup"})
	require.Equal(t, 200, status)

	status, _ = env.request(t, "DELETE", "/api/v1/admin/users/player-1", "admin-token", nil)
	require.Equal(t, 200, status)

	err := env.db.First(&models.UserProfile{}, "id = ?", "player-1").Error
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	var count int64
	require.NoError(t, env.db.Model(&models.TournamentParticipant{}).
		Where("user_id = ?", "player-1").Count(&count).Error)
	assert.Zero(t, count)
}
