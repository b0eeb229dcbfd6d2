package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"dorm-assignment-backend/config"
	"dorm-assignment-backend/internal/model"
	"dorm-assignment-backend/internal/session"
	"dorm-assignment-backend/internal/store"
)

type fixture struct {
	router *gin.Engine

	dormID     string
	roomID     string // capacity 2
	fullRoomID string // capacity 1, occupied by Bob
}

func setupRouter(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	require.NoError(t, db.AutoMigrate(&model.Dorm{}, &model.Room{}, &model.User{}))

	s := store.NewGormStore(db)

	_, err = s.CreateUser(ctx, "a@x.com", "Alice", "secret")
	require.NoError(t, err)
	bob, err := s.CreateUser(ctx, "b@x.com", "Bob", "secret")
	require.NoError(t, err)

	dorm, err := s.CreateDorm(ctx, "North")
	require.NoError(t, err)
	room, err := s.CreateRoom(ctx, dorm.ID, "101", 2)
	require.NoError(t, err)
	fullRoom, err := s.CreateRoom(ctx, dorm.ID, "102", 1)
	require.NoError(t, err)
	require.NoError(t, s.AssignRoom(ctx, bob.ID, fullRoom.ID))

	cfg := &config.Config{}
	cfg.Session = config.SessionConfig{CookieName: "dorm_session", TTL: time.Minute}
	cfg.Server.RateLimitPerSec = 1000
	cfg.Server.RateLimitBurst = 1000

	sessions := session.NewStore(cfg.Session.TTL)

	return &fixture{
		router:     NewRouter(s, sessions, cfg),
		dormID:     dorm.ID,
		roomID:     room.ID,
		fullRoomID: fullRoom.ID,
	}
}

// login performs a POST /login and returns the session cookie.
func (f *fixture) login(t *testing.T, email, password string) *http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	req, _ := http.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	for _, c := range w.Result().Cookies() {
		if c.Name == "dorm_session" {
			return c
		}
	}
	t.Fatal("login response did not set a session cookie")
	return nil
}

func (f *fixture) request(method, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	f.router.ServeHTTP(w, req)
	return w
}

func TestLoginHandler(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		f := setupRouter(t)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"a@x.com"}`))
		req.Header.Set("Content-Type", "application/json")
		f.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := setupRouter(t)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"a@x.com","password":"nope"}`))
		req.Header.Set("Content-Type", "application/json")
		f.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("success returns the user and a cookie", func(t *testing.T) {
		f := setupRouter(t)
		cookie := f.login(t, "a@x.com", "secret")
		assert.NotEmpty(t, cookie.Value)
	})
}

func TestSessionGuard(t *testing.T) {
	f := setupRouter(t)

	for _, path := range []string{"/dorms", "/user", "/dorms/" + f.dormID + "/rooms"} {
		w := f.request(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "GET %s without a cookie", path)
	}
	for _, path := range []string{"/rooms/" + f.roomID + "/assign", "/rooms/unassign"} {
		w := f.request(http.MethodPost, path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "POST %s without a cookie", path)
	}

	w := f.request(http.MethodGet, "/dorms", &http.Cookie{Name: "dorm_session", Value: "forged"})
	assert.Equal(t, http.StatusUnauthorized, w.Code, "a forged token must be rejected")
}

func TestGetDormsHandler(t *testing.T) {
	f := setupRouter(t)
	cookie := f.login(t, "a@x.com", "secret")

	w := f.request(http.MethodGet, "/dorms", cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var dorms []map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dorms))
	require.Len(t, dorms, 1)
	assert.Equal(t, f.dormID, dorms[0]["_id"])
	assert.Equal(t, "North", dorms[0]["name"])
}

func TestGetRoomsHandler(t *testing.T) {
	f := setupRouter(t)
	cookie := f.login(t, "a@x.com", "secret")

	w := f.request(http.MethodGet, "/dorms/"+f.dormID+"/rooms", cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var rooms []struct {
		ID              string `json:"_id"`
		Number          string `json:"number"`
		Capacity        int    `json:"capacity"`
		CurrentStudents []struct {
			Name string `json:"name"`
		} `json:"currentStudents"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rooms))
	require.Len(t, rooms, 2)
	assert.Equal(t, "101", rooms[0].Number)
	assert.Empty(t, rooms[0].CurrentStudents)
	assert.Equal(t, "102", rooms[1].Number)
	require.Len(t, rooms[1].CurrentStudents, 1)
	assert.Equal(t, "Bob", rooms[1].CurrentStudents[0].Name)

	w = f.request(http.MethodGet, "/dorms/missing/rooms", cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAssignHandler(t *testing.T) {
	f := setupRouter(t)
	cookie := f.login(t, "a@x.com", "secret")

	t.Run("assign and read back", func(t *testing.T) {
		w := f.request(http.MethodPost, "/rooms/"+f.roomID+"/assign", cookie)
		assert.Equal(t, http.StatusOK, w.Code)

		w = f.request(http.MethodGet, "/user", cookie)
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			User struct {
				AssignedRoom *string `json:"assignedRoom"`
			} `json:"user"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.User.AssignedRoom)
		assert.Equal(t, f.roomID, *resp.User.AssignedRoom)
	})

	t.Run("full room conflicts", func(t *testing.T) {
		w := f.request(http.MethodPost, "/rooms/"+f.fullRoomID+"/assign", cookie)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown room", func(t *testing.T) {
		w := f.request(http.MethodPost, "/rooms/missing/assign", cookie)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unassign is ack'd even when repeated", func(t *testing.T) {
		w := f.request(http.MethodPost, "/rooms/unassign", cookie)
		assert.Equal(t, http.StatusOK, w.Code)
		w = f.request(http.MethodPost, "/rooms/unassign", cookie)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestLogoutHandler(t *testing.T) {
	f := setupRouter(t)
	cookie := f.login(t, "a@x.com", "secret")

	w := f.request(http.MethodPost, "/logout", cookie)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// The revoked token no longer opens any door.
	w = f.request(http.MethodGet, "/user", cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
