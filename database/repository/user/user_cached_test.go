package userRepo

import (
	"context"
	"testing"
	"time"

	"washlane/models"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

// countingUserRepo tracks how often each inner method is hit.
type countingUserRepo struct {
	users      map[string]*models.User
	getByID    int
	updates    int
	lastUpdate bson.M
}

func (r *countingUserRepo) GetByID(id string) (*models.User, error) {
	r.getByID++
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (r *countingUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *countingUserRepo) GetAllByRole(role string) ([]models.User, error) {
	var out []models.User
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *countingUserRepo) Create(user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *countingUserRepo) UpdateSetDocument(id string, updateDoc bson.M) error {
	r.updates++
	r.lastUpdate = updateDoc
	return nil
}

func (r *countingUserRepo) Delete(id string) error {
	delete(r.users, id)
	return nil
}

// stubCache keeps entries in a map and answers with the canned result
// constructors so no redis server is needed.
type stubCache struct {
	entries map[string][]byte
	sets    int
	dels    int
}

func newStubCache() *stubCache {
	return &stubCache{entries: map[string][]byte{}}
}

func (c *stubCache) Get(ctx context.Context, key string) *redis.StringCmd {
	if raw, ok := c.entries[key]; ok {
		return redis.NewStringResult(string(raw), nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (c *stubCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	c.entries[key] = value.([]byte)
	c.sets++
	return redis.NewStatusResult("OK", nil)
}

func (c *stubCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(c.entries, key)
	}
	c.dels++
	return redis.NewIntResult(int64(len(keys)), nil)
}

func newCachedFixture(users ...*models.User) (*countingUserRepo, *stubCache, UserRepository) {
	inner := &countingUserRepo{users: map[string]*models.User{}}
	for _, u := range users {
		inner.users[u.ID] = u
	}
	cache := newStubCache()
	return inner, cache, NewCachedUserRepo(inner, cache)
}

func TestCachedGetByIDServesSecondReadFromCache(t *testing.T) {
	inner, cache, repo := newCachedFixture(&models.User{
		ID:   "att-1",
		Name: "Jane Mwangi",
		Role: models.RoleAttendant,
	})

	first, err := repo.GetByID("att-1")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, 1, inner.getByID)
	assert.Equal(t, 1, cache.sets)

	second, err := repo.GetByID("att-1")
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, "Jane Mwangi", second.Name)
	// Inner repo untouched on the cached read.
	assert.Equal(t, 1, inner.getByID)
}

func TestCachedGetByIDPreservesHiddenFields(t *testing.T) {
	// PasswordHash and TokenHash are excluded from JSON responses; the auth
	// middleware still needs them back out of the cache intact.
	_, _, repo := newCachedFixture(&models.User{
		ID:           "att-1",
		Name:         "Jane Mwangi",
		Role:         models.RoleAttendant,
		PasswordHash: "bcrypt-hash",
		TokenHash:    "sha256-of-token",
	})

	_, err := repo.GetByID("att-1")
	require.NoError(t, err)

	cached, err := repo.GetByID("att-1")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "bcrypt-hash", cached.PasswordHash)
	assert.Equal(t, "sha256-of-token", cached.TokenHash)
}

func TestCachedGetByIDDoesNotCacheMisses(t *testing.T) {
	inner, cache, repo := newCachedFixture()

	u, err := repo.GetByID("ghost")
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.Equal(t, 0, cache.sets)

	_, err = repo.GetByID("ghost")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.getByID)
}

func TestCachedUpdateInvalidatesEntry(t *testing.T) {
	inner, cache, repo := newCachedFixture(&models.User{
		ID:   "att-1",
		Name: "Jane Mwangi",
		Role: models.RoleAttendant,
	})

	_, err := repo.GetByID("att-1")
	require.NoError(t, err)
	require.Contains(t, cache.entries, "user:att-1")

	require.NoError(t, repo.UpdateSetDocument("att-1", bson.M{"tokenHash": ""}))
	assert.Equal(t, 1, inner.updates)
	assert.NotContains(t, cache.entries, "user:att-1")

	// Next read repopulates from the inner repo.
	_, err = repo.GetByID("att-1")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.getByID)
}

func TestCachedDeleteInvalidatesEntry(t *testing.T) {
	_, cache, repo := newCachedFixture(&models.User{
		ID:   "att-1",
		Name: "Jane Mwangi",
		Role: models.RoleAttendant,
	})

	_, err := repo.GetByID("att-1")
	require.NoError(t, err)
	require.Contains(t, cache.entries, "user:att-1")

	require.NoError(t, repo.Delete("att-1"))
	assert.NotContains(t, cache.entries, "user:att-1")
}
