package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/trisuaso/beambin/internal/config"
	"github.com/trisuaso/beambin/internal/model"
	"github.com/trisuaso/beambin/internal/repository"
	"github.com/trisuaso/beambin/internal/repository/redisrepo"
	"github.com/trisuaso/beambin/internal/repository/sqlstore"
	"go.uber.org/zap"
)

// memCache is an in-memory stand-in for the redis-backed cache layer.
type memCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string]string)}
}

func (m *memCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch v := value.(type) {
	case string:
		m.data[key] = v
	case []byte:
		m.data[key] = string(v)
	default:
		m.data[key] = fmt.Sprint(v)
	}
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

	var removed int64
	for _, key := range keys {
		if _, ok := m.data[key]; ok {
			delete(m.data, key)
			removed++
		}
	}
	return redis.NewIntResult(removed, nil)
}

func (m *memCache) Incr(ctx context.Context, key string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, _ := strconv.ParseInt(m.data[key], 10, 64)
	current++
	m.data[key] = strconv.FormatInt(current, 10)
	return redis.NewIntResult(current, nil)
}

// fakeIdentity implements identity.Service against fixed groups and records
// every audit write.
type fakeIdentity struct {
	mu       sync.Mutex
	profiles map[string]*model.Profile
	groups   map[int]*model.Group
	audits   []string
	auditErr error
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{
		profiles: make(map[string]*model.Profile),
		groups:   make(map[int]*model.Group),
	}
}

func (f *fakeIdentity) ProfileByToken(ctx context.Context, token string) (*model.Profile, error) {
	profile, ok := f.profiles[token]
	if !ok {
		return nil, fmt.Errorf("no profile for token %q", token)
	}
	return profile, nil
}

func (f *fakeIdentity) GroupByID(ctx context.Context, id int) (*model.Group, error) {
	group, ok := f.groups[id]
	if !ok {
		return nil, fmt.Errorf("no group %d", id)
	}
	return group, nil
}

func (f *fakeIdentity) Audit(ctx context.Context, actorID string, note string) error {
	if f.auditErr != nil {
		return f.auditErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.audits = append(f.audits, actorID+": "+note)
	return nil
}

type testEngine struct {
	svc      Post
	repo     *repository.Repository
	cache    *memCache
	identity *fakeIdentity
	cfg      *config.Config
}

func newTestEngine(t *testing.T, mode model.ViewMode) *testEngine {
	t.Helper()

	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		ViewMode:   mode,
		TablePosts: config.DefaultPostsTable(),
		TableViews: config.DefaultViewsTable(),
	}

	cache := newMemCache()
	repo := &repository.Repository{
		SQL:   sqlstore.New(db, cfg),
		Redis: &redisrepo.Repository{Default: cache},
	}
	require.NoError(t, repo.SQL.Init(context.Background()))

	fake := newFakeIdentity()

	return &testEngine{
		svc:      newPostService(zap.NewNop(), cfg, repo, fake),
		repo:     repo,
		cache:    cache,
		identity: fake,
		cfg:      cfg,
	}
}
