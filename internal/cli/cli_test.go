package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelguru/internal/apiclient"
	"hotelguru/internal/domain"
	"hotelguru/internal/navigation"
	"hotelguru/internal/resource"
	"hotelguru/internal/session"
	"hotelguru/internal/storage"
	"hotelguru/internal/testutil"
)

type harness struct {
	backend *testutil.FakeBackend
	storage *storage.MemoryStorage
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
}

func newHarness(t *testing.T, accessToken string) *harness {
	t.Helper()
	h := &harness{
		backend: testutil.NewFakeBackend(t),
		storage: storage.NewMemoryStorage(),
	}
	if accessToken != "" {
		require.NoError(t, h.storage.SetItem(context.Background(), domain.TokenStorageKey, testutil.TokenRecord(t, accessToken, "refresh")))
	}
	return h
}

// run executes one CLI invocation the way main wires it: fresh router and
// store over the shared storage
func (h *harness) run(t *testing.T, args ...string) int {
	t.Helper()
	ctx := context.Background()

	client, err := apiclient.New(h.backend.BaseURL(), h.storage, apiclient.Options{Validate: true, Strict: true})
	require.NoError(t, err)
	api := resource.New(client)

	router := navigation.NewRouter(navigation.DefaultTable())
	store := session.NewStore(ctx, h.storage, api.Users, router)
	router.BeforeEach(navigation.Guard(store))

	h.stdout = &bytes.Buffer{}
	h.stderr = &bytes.Buffer{}
	app := &App{Name: "HotelGuru", Store: store, Router: router, API: api, Stdout: h.stdout, Stderr: h.stderr}
	return app.Run(ctx, args)
}

func TestUsage(t *testing.T) {
	h := newHarness(t, "")

	assert.Equal(t, ExitUsage, h.run(t))
	assert.Contains(t, h.stdout.String(), "admin-room-update")

	assert.Equal(t, ExitOK, h.run(t, "help"))

	assert.Equal(t, ExitUsage, h.run(t, "chatrooms"))
	assert.Contains(t, h.stderr.String(), `unknown command "chatrooms"`)

	assert.Equal(t, ExitUsage, h.run(t, "login", "--bogus"))
}

func TestCommandsCoverEveryRoute(t *testing.T) {
	table := navigation.DefaultTable()
	for name, cmd := range commands() {
		_, err := table.Resolve(navigation.Location{Name: cmd.route})
		assert.NoError(t, err, "command %s names unknown route %q", name, cmd.route)
	}
	assert.Len(t, commands(), 17)
}

func TestVersion(t *testing.T) {
	h := newHarness(t, "")
	assert.Equal(t, ExitOK, h.run(t, "version"))
	assert.Contains(t, h.stdout.String(), "HotelGuru dev")
}

func TestLoginThenWhoami(t *testing.T) {
	h := newHarness(t, "")
	access := testutil.MintToken(t, "42", domain.RoleGuest)
	h.backend.Handle("POST /user/login", testutil.RespondJSON(http.StatusOK, domain.TokenPair{AccessToken: access, RefreshToken: "r1"}))
	h.backend.Handle("GET /user/me", testutil.RespondJSON(http.StatusOK, testutil.NewTestProfile(42)))

	assert.Equal(t, ExitUsage, h.run(t, "login", "--email", "g@example.com"))

	require.Equal(t, ExitOK, h.run(t, "login", "--email", "g@example.com", "--password", "pw"), h.stderr.String())
	assert.NotContains(t, h.stdout.String(), access)

	// a new invocation restores the identity from storage
	require.Equal(t, ExitOK, h.run(t, "whoami"))
	var out struct {
		Authenticated bool     `json:"authenticated"`
		UserID        string   `json:"user_id"`
		Roles         []string `json:"roles"`
	}
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &out))
	assert.True(t, out.Authenticated)
	assert.Equal(t, "42", out.UserID)
	assert.Equal(t, []string{domain.RoleGuest}, out.Roles)
}

func TestLogin_Failure(t *testing.T) {
	h := newHarness(t, "")
	h.backend.Handle("POST /user/login", testutil.RespondJSON(http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"}))

	assert.Equal(t, ExitFailure, h.run(t, "login", "--email", "g@example.com", "--password", "bad"))
	assert.Contains(t, h.stderr.String(), "Invalid credentials")
}

func TestLogout(t *testing.T) {
	h := newHarness(t, testutil.MintToken(t, "42", domain.RoleGuest))

	require.Equal(t, ExitOK, h.run(t, "logout"))
	_, ok, err := h.storage.GetItem(context.Background(), domain.TokenStorageKey)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, ExitLoginNeeded, h.run(t, "reservations"))
}

func TestGuard_LoginRequired(t *testing.T) {
	h := newHarness(t, "")

	assert.Equal(t, ExitLoginNeeded, h.run(t, "reservations"))
	assert.Contains(t, h.stderr.String(), "login required")
	assert.Contains(t, h.stderr.String(), "/my-reservations")
	assert.Empty(t, h.backend.Requests())
}

func TestGuard_AccessDenied(t *testing.T) {
	h := newHarness(t, testutil.MintToken(t, "42", domain.RoleGuest))

	assert.Equal(t, ExitAccessDenied, h.run(t, "admin-room-delete", "--id", "5"))
	assert.Contains(t, h.stderr.String(), domain.RoleAdministrator)
	assert.Empty(t, h.backend.Requests())
}

func TestRegister(t *testing.T) {
	h := newHarness(t, "")
	h.backend.Handle("POST /user/registrate", testutil.RespondJSON(http.StatusCreated, map[string]any{"id": 9}))

	require.Equal(t, ExitOK, h.run(t, "register", "--name", "New Guest", "--email", "n@example.com", "--password", "pw", "--city", "Szeged"))
	assert.Contains(t, h.stdout.String(), "/login?registered=success")
	assert.JSONEq(t, `{"name":"New Guest","email":"n@example.com","password":"pw","address":{"city":"Szeged"}}`, string(h.backend.LastRequest().Body))
}

func TestRooms(t *testing.T) {
	h := newHarness(t, "")
	h.backend.Handle("GET /room/list/", testutil.RespondJSON(http.StatusOK, testutil.NewTestRooms()))
	h.backend.Handle("GET /room/rooms/available", testutil.RespondJSON(http.StatusOK, []domain.Room{}))
	h.backend.Handle("GET /room/show/by-number/101", testutil.RespondJSON(http.StatusOK, testutil.NewTestRooms()[0]))

	require.Equal(t, ExitOK, h.run(t, "rooms"))
	var rooms []domain.Room
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &rooms))
	assert.Len(t, rooms, 2)
	assert.Contains(t, h.stdout.String(), "\n  {", "output is indented")

	require.Equal(t, ExitOK, h.run(t, "rooms", "--start", "2025-05-01", "--end", "2025-05-03"))
	assert.Equal(t, "end_date=2025-05-03&start_date=2025-05-01", h.backend.LastRequest().Query)

	require.Equal(t, ExitOK, h.run(t, "room", "--number", "101"))
	assert.Equal(t, ExitUsage, h.run(t, "room"))
}

func TestReservationCommands(t *testing.T) {
	h := newHarness(t, testutil.MintToken(t, "42", domain.RoleGuest))
	h.backend.Handle("POST /reservation/add", testutil.RespondJSON(http.StatusCreated, map[string]any{"id": 3}))
	h.backend.Handle("DELETE /reservation/cancel/3", testutil.RespondJSON(http.StatusOK, map[string]string{"message": "Cancelled"}))
	h.backend.Handle("POST /reservation/3/services", testutil.RespondJSON(http.StatusBadRequest, map[string]string{"message": "Unknown service"}))
	h.backend.Handle("GET /service/list", testutil.RespondJSON(http.StatusOK, []domain.ServiceItem{{ID: 1, Name: "Breakfast"}}))

	require.Equal(t, ExitOK, h.run(t, "reserve", "--start", "2025-05-01", "--end", "2025-05-03", "--rooms", "101, 102"))
	assert.JSONEq(t, `{"start_date":"2025-05-01","end_date":"2025-05-03","room_numbers":[101,102]}`, string(h.backend.LastRequest().Body))

	assert.Equal(t, ExitUsage, h.run(t, "reserve", "--start", "2025-05-01", "--end", "2025-05-03", "--rooms", "x"))

	require.Equal(t, ExitOK, h.run(t, "cancel", "--id", "3"))
	require.Equal(t, ExitOK, h.run(t, "services"))

	assert.Equal(t, ExitFailure, h.run(t, "add-services", "--id", "3", "--services", "99"))
	assert.Contains(t, h.stderr.String(), "Unknown service")
}

func TestProfileCommands(t *testing.T) {
	h := newHarness(t, testutil.MintToken(t, "42", domain.RoleGuest))
	h.backend.Handle("GET /user/me", testutil.RespondJSON(http.StatusOK, testutil.NewTestProfile(42)))
	h.backend.Handle("PUT /user/update/42", testutil.RespondJSON(http.StatusOK, map[string]any{"email": "new@example.com"}))

	require.Equal(t, ExitOK, h.run(t, "profile"))
	assert.Contains(t, h.stdout.String(), "guest@example.com")

	assert.Equal(t, ExitUsage, h.run(t, "profile-update"))

	require.Equal(t, ExitOK, h.run(t, "profile-update", "--email", "new@example.com"))
	assert.JSONEq(t, `{"email":"new@example.com"}`, string(h.backend.LastRequest().Body))
	assert.Contains(t, h.stdout.String(), "new@example.com")
}

func TestAdminCommands(t *testing.T) {
	h := newHarness(t, testutil.MintToken(t, "1", domain.RoleAdministrator))
	h.backend.Handle("GET /room/list_all_admin", testutil.RespondJSON(http.StatusOK, testutil.NewTestRooms()))
	h.backend.Handle("POST /admin/rooms", testutil.RespondJSON(http.StatusCreated, map[string]any{"number": 301}))
	h.backend.Handle("PUT /admin/rooms/7", testutil.RespondJSON(http.StatusOK, map[string]any{"id": 7}))
	h.backend.Handle("DELETE /admin/rooms/7", testutil.RespondJSON(http.StatusOK, map[string]string{"message": "Room deleted"}))

	require.Equal(t, ExitOK, h.run(t, "admin-rooms"))

	require.Equal(t, ExitOK, h.run(t, "admin-room-create", "--number", "301", "--floor", "3", "--name", "Suite", "--price", "50000", "--type", "2"))
	assert.JSONEq(t, `{"number":301,"floor":3,"name":"Suite","price":50000,"room_type_id":2,"is_available":true}`, string(h.backend.LastRequest().Body))

	require.Equal(t, ExitOK, h.run(t, "admin-room-update", "--id", "7", "--price", "42000", "--available=false"))
	assert.JSONEq(t, `{"price":42000,"is_available":false}`, string(h.backend.LastRequest().Body))

	assert.Equal(t, ExitUsage, h.run(t, "admin-room-update", "--id", "7"))

	require.Equal(t, ExitOK, h.run(t, "admin-room-delete", "--id", "7"))
	assert.Contains(t, h.stdout.String(), "Room deleted")
}
