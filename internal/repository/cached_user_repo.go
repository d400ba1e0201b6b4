package repository

import (
	"context"
	"time"

	"user_accounts/internal/cache"
	"user_accounts/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const accountCachePrefix = "account"

// cachedAccount is the cache representation of model.Account. Unlike the API
// representation it keeps the password hash, so a cached account can be
// saved back without losing credentials.
type cachedAccount struct {
	ID           uuid.UUID `json:"id"`
	Email        *string   `json:"email"`
	PhoneNumber  *string   `json:"phone_number"`
	PasswordHash string    `json:"password_hash"`
	IsVerified   bool      `json:"is_verified"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	ModifiedAt   time.Time `json:"modified_at"`
}

func toCached(a *model.Account) *cachedAccount {
	c := cachedAccount(*a)
	return &c
}

func (c *cachedAccount) account() *model.Account {
	a := model.Account(*c)
	return &a
}

type cachedAccountRepository struct {
	AccountRepository
	cache *cache.ViewCache[cachedAccount]
}

// NewCachedAccountRepository wraps inner with a redis read-through cache for
// lookups by ID. Writes go to inner first and then invalidate the cache.
func NewCachedAccountRepository(inner AccountRepository, client redis.Cmdable, ttl time.Duration, logger *zap.Logger) AccountRepository {
	return &cachedAccountRepository{
		AccountRepository: inner,
		cache:             cache.NewViewCache[cachedAccount](client, accountCachePrefix, ttl, logger),
	}
}

func (r *cachedAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	if c, ok := r.cache.Get(ctx, id.String()); ok {
		return c.account(), nil
	}

	a, err := r.AccountRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache.Set(ctx, id.String(), toCached(a))
	return a, nil
}

// FindByIDForUpdate bypasses the cache: a copy cached by another instance
// may be older than the row and would overwrite newer columns on save.
func (r *cachedAccountRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	return r.AccountRepository.FindByIDForUpdate(ctx, id)
}

func (r *cachedAccountRepository) Update(ctx context.Context, a *model.Account) error {
	if err := r.AccountRepository.Update(ctx, a); err != nil {
		return err
	}
	r.cache.Delete(ctx, a.ID.String())
	return nil
}
