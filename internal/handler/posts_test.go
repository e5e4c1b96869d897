package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trisuaso/beambin/internal/config"
	"github.com/trisuaso/beambin/internal/model"
	"github.com/trisuaso/beambin/internal/repository"
	"github.com/trisuaso/beambin/internal/repository/redisrepo"
	"github.com/trisuaso/beambin/internal/repository/sqlstore"
	"github.com/trisuaso/beambin/internal/service"
	"go.uber.org/zap"
)

type memCache struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *memCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	return nil
}

func (m *memCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	valueJSON, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return m.Set(ctx, key, string(valueJSON), ttl)
}

func (m *memCache) Get(ctx context.Context, key string) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (m *memCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func (m *memCache) Incr(ctx context.Context, key string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, _ := strconv.ParseInt(m.data[key], 10, 64)
	current++
	m.data[key] = strconv.FormatInt(current, 10)
	return redis.NewIntResult(current, nil)
}

type staticIdentity struct {
	profiles map[string]*model.Profile
	groups   map[int]*model.Group
}

func (f *staticIdentity) ProfileByToken(ctx context.Context, token string) (*model.Profile, error) {
	profile, ok := f.profiles[token]
	if !ok {
		return nil, fmt.Errorf("no profile for token %q", token)
	}
	return profile, nil
}

func (f *staticIdentity) GroupByID(ctx context.Context, id int) (*model.Group, error) {
	group, ok := f.groups[id]
	if !ok {
		return nil, fmt.Errorf("no group %d", id)
	}
	return group, nil
}

func (f *staticIdentity) Audit(ctx context.Context, actorID string, note string) error {
	return nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	viper.Set("client.origin", "http://localhost:3000")

	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		ViewMode:   model.ViewModeOpenMultiple,
		TablePosts: config.DefaultPostsTable(),
		TableViews: config.DefaultViewsTable(),
	}

	repo := &repository.Repository{
		SQL:   sqlstore.New(db, cfg),
		Redis: &redisrepo.Repository{Default: &memCache{data: make(map[string]string)}},
	}
	require.NoError(t, repo.SQL.Init(context.Background()))

	identityService := &staticIdentity{
		profiles: map[string]*model.Profile{
			"manager-token": {ID: "admin-1", Username: "admin", Group: 1},
		},
		groups: map[int]*model.Group{
			1: {ID: 1, Permissions: []model.Permission{model.PermissionManager}},
		},
	}

	services := service.New(zap.NewNop(), cfg, repo, identityService)
	return New(services, identityService, cfg).InitRoutes()
}

func doJSON(t *testing.T, r *gin.Engine, method string, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPostsCreateAndGet(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/posts", map[string]string{
		"slug":    "My-Paste!",
		"content": "hello",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Ok      bool `json:"ok"`
		Payload struct {
			Password string `json:"password"`
			Post     struct {
				Slug string `json:"slug"`
			} `json:"post"`
		} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.True(t, created.Ok)
	assert.Len(t, created.Payload.Password, 10)
	assert.Equal(t, "my-paste!", created.Payload.Post.Slug)

	w = doJSON(t, r, http.MethodGet, "/api/v1/posts/my-paste!", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "hello")
	assert.NotContains(t, w.Body.String(), "ips")
}

func TestPostsGetMissing(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/posts/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostsEditWrongPassword(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/posts", map[string]string{
		"slug":     "guarded",
		"content":  "hello",
		"password": "correct",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/posts/guarded/edit", map[string]string{
		"password":    "wrong",
		"new_content": "tampered",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPostsEditDelegated(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/posts", map[string]string{
		"slug":    "moderated",
		"content": "hello",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	raw, err := json.Marshal(map[string]string{"new_content": "by manager"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/posts/moderated/edit", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer manager-token")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec2 := doJSON(t, r, http.MethodGet, "/api/v1/posts/moderated", nil)
	assert.Contains(t, rec2.Body.String(), "by manager")
}

func TestPostsViewPasswordGate(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/posts", map[string]string{
		"slug":     "private",
		"content":  "secret body",
		"password": "edit-pw",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/posts/private/context", map[string]interface{}{
		"password": "edit-pw",
		"context":  map[string]string{"view_password": "let-me-in"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/posts/private", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), "secret body")

	w = doJSON(t, r, http.MethodGet, "/api/v1/posts/private?view_password=let-me-in", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "secret body")
}

func TestPostsViews(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/posts", map[string]string{
		"slug":    "counted",
		"content": "hello",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	for i := 0; i < 2; i++ {
		w = doJSON(t, r, http.MethodPost, "/api/v1/posts/counted/views", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/posts/counted/views", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Payload int64 `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 2, resp.Payload)
}
