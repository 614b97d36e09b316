package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/taggate/taggate/internal/access"
	"github.com/taggate/taggate/internal/models"
	"github.com/taggate/taggate/internal/users"
)

type capturePub struct {
	mu     sync.Mutex
	events []models.AccessLog
}

func (p *capturePub) Publish(l models.AccessLog) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, l)
}

func (p *capturePub) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func (p *capturePub) Events() []models.AccessLog {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.AccessLog, len(p.events))
	copy(out, p.events)
	return out
}

type testEnv struct {
	router *gin.Engine
	users  *users.MemoryRepo
	logs   *access.MemoryLogRepo
	pub    *capturePub
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	userRepo := users.NewMemoryRepo()
	logRepo := access.NewMemoryLogRepo()
	pub := &capturePub{}
	svc := access.NewService(access.NewResolver(userRepo), logRepo, pub)

	r := gin.New()
	NewAccessHandler(svc).Register(r)
	NewUserHandler(users.NewService(userRepo)).Register(r)
	return &testEnv{router: r, users: userRepo, logs: logRepo, pub: pub}
}

func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) addUser(t *testing.T, tag, name, matric string) {
	t.Helper()
	_, err := e.users.Insert(context.Background(), &models.User{Tag: tag, Name: name, Matric: matric})
	require.NoError(t, err)
}

func TestPostLog_Granted(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "A1", "Alice", "M-001")

	w := env.do(t, http.MethodPost, "/log", `{"tag":"A1"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Message string           `json:"message"`
		Log     models.AccessLog `json:"log"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Access granted", resp.Message)
	require.Equal(t, "A1", resp.Log.Tag)
	require.Equal(t, "Alice", resp.Log.Name)
	require.Equal(t, models.AccessGranted, resp.Log.Status)

	// persisted and broadcast records are identical to the response
	stored, err := env.logs.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, resp.Log, stored[0])
	require.Equal(t, 1, env.pub.Count())
	require.Equal(t, stored[0], env.pub.Events()[0])
}

func TestPostLog_Denied(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/log", `{"tag":"Z9"}`)
	require.Equal(t, http.StatusForbidden, w.Code)

	var resp struct {
		Message string           `json:"message"`
		Log     models.AccessLog `json:"log"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Access denied", resp.Message)
	require.Equal(t, "Z9", resp.Log.Tag)
	require.Equal(t, "Unknown", resp.Log.Name)
	require.Equal(t, models.AccessDenied, resp.Log.Status)

	// denial is still persisted and broadcast
	stored, err := env.logs.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, 1, env.pub.Count())
}

func TestPostLog_MissingTag(t *testing.T) {
	env := newTestEnv(t)

	for _, body := range []string{`{}`, `{"tag":""}`, `{"tag":"  "}`} {
		w := env.do(t, http.MethodPost, "/log", body)
		require.Equal(t, http.StatusBadRequest, w.Code, "body %s", body)
	}

	// nothing written, nothing broadcast
	stored, err := env.logs.FindAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, stored)
	require.Equal(t, 0, env.pub.Count())
}

func TestPostLog_MalformedBody(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/log", `{"tag":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostLog_StorageFailure(t *testing.T) {
	env := newTestEnv(t)
	env.logs.InsertErr = context.DeadlineExceeded

	w := env.do(t, http.MethodPost, "/log", `{"tag":"A1"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, 0, env.pub.Count())
}

func TestPostLog_ClientTimestampStored(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "A1", "Alice", "")

	w := env.do(t, http.MethodPost, "/log", `{"tag":"A1","timestamp":"2024-01-01T08:30:00Z"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Log models.AccessLog `json:"log"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, time.Date(2024, 1, 1, 8, 30, 0, 0, time.UTC), resp.Log.Timestamp)
}

func TestSearch_ByDate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	in := models.AccessLog{Tag: "A1", Name: "Alice", Status: models.AccessGranted, Timestamp: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)}
	out := models.AccessLog{Tag: "B2", Name: "Bob", Status: models.AccessGranted, Timestamp: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, env.logs.Insert(ctx, &in))
	require.NoError(t, env.logs.Insert(ctx, &out))

	w := env.do(t, http.MethodGet, "/search?date=2024-01-01", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got []models.AccessLog
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	require.Equal(t, "A1", got[0].Tag)
}

func TestSearch_EmptyDayReturnsEmptyArray(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/search?date=2024-01-01", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestSearch_BadDate(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/search", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/search?date=01-02-2024", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEvents_ReturnsAllLogs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.logs.Insert(ctx, &models.AccessLog{Tag: "A1", Timestamp: time.Now().UTC()}))
	require.NoError(t, env.logs.Insert(ctx, &models.AccessLog{Tag: "Z9", Timestamp: time.Now().UTC()}))

	w := env.do(t, http.MethodGet, "/events", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got []models.AccessLog
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
}
