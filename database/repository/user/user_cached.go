package userRepo

import (
	"context"
	"time"

	"washlane/models"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	userCachePrefix = "user:"
	userCacheTTL    = 5 * time.Minute
)

// userCache is the slice of the redis client the cached repository needs.
type userCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CachedUserRepo layers a read-through redis cache over another
// UserRepository. Every ledger operation looks up the attendant by id, so
// GetByID is the cached path; writes invalidate the entry, which keeps role
// and token-hash changes visible on the next read. Entries are encoded with
// bson so fields the JSON encoding hides (password and token hashes) survive
// the round trip.
type CachedUserRepo struct {
	inner UserRepository
	cache userCache
}

// NewCachedUserRepo wraps inner with the given redis cache.
func NewCachedUserRepo(inner UserRepository, cache userCache) UserRepository {
	return &CachedUserRepo{inner: inner, cache: cache}
}

func userCacheKey(id string) string {
	return userCachePrefix + id
}

// GetByID serves from the cache when possible, falling back to the inner
// repository and populating the cache on a hit there.
func (r *CachedUserRepo) GetByID(id string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if raw, err := r.cache.Get(ctx, userCacheKey(id)).Bytes(); err == nil {
		var u models.User
		if err := bson.Unmarshal(raw, &u); err == nil {
			return &u, nil
		}
	}

	u, err := r.inner.GetByID(id)
	if err != nil || u == nil {
		return u, err
	}
	if raw, err := bson.Marshal(u); err == nil {
		r.cache.Set(ctx, userCacheKey(id), raw, userCacheTTL)
	}
	return u, nil
}

// GetByEmail is only hit on sign-in; it goes straight through.
func (r *CachedUserRepo) GetByEmail(email string) (*models.User, error) {
	return r.inner.GetByEmail(email)
}

func (r *CachedUserRepo) GetAllByRole(role string) ([]models.User, error) {
	return r.inner.GetAllByRole(role)
}

func (r *CachedUserRepo) Create(user *models.User) error {
	return r.inner.Create(user)
}

// UpdateSetDocument writes through and drops the cached entry.
func (r *CachedUserRepo) UpdateSetDocument(id string, updateDoc bson.M) error {
	if err := r.inner.UpdateSetDocument(id, updateDoc); err != nil {
		return err
	}
	r.invalidate(id)
	return nil
}

// Delete writes through and drops the cached entry.
func (r *CachedUserRepo) Delete(id string) error {
	if err := r.inner.Delete(id); err != nil {
		return err
	}
	r.invalidate(id)
	return nil
}

func (r *CachedUserRepo) invalidate(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	r.cache.Del(ctx, userCacheKey(id))
}
