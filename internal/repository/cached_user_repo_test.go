package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"user_accounts/internal/model"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRepo struct {
	AccountRepository
	account            *model.Account
	findCalls          int
	findForUpdateCalls int
	updateCalls        int
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	s.findCalls++
	if s.account == nil || s.account.ID != id {
		return nil, model.ErrNotFound
	}
	a := *s.account
	return &a, nil
}

func (s *stubRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	s.findForUpdateCalls++
	if s.account == nil || s.account.ID != id {
		return nil, model.ErrNotFound
	}
	a := *s.account
	return &a, nil
}

func (s *stubRepo) Update(ctx context.Context, a *model.Account) error {
	s.updateCalls++
	return nil
}

func TestCachedAccountRepository_FindByID(t *testing.T) {
	client, mock := redismock.NewClientMock()
	a := testAccount()
	inner := &stubRepo{account: a}
	repo := NewCachedAccountRepository(inner, client, time.Minute, zap.NewNop())

	key := "account:" + a.ID.String()
	data, err := json.Marshal(toCached(a))
	require.NoError(t, err)

	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, data, time.Minute).SetVal("OK")
	mock.ExpectGet(key).SetVal(string(data))

	got, err := repo.FindByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	got, err = repo.FindByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash, "cached accounts keep their password hash")
	assert.Equal(t, 1, inner.findCalls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedAccountRepository_FindByID_NotFound(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := NewCachedAccountRepository(&stubRepo{}, client, time.Minute, zap.NewNop())
	id := uuid.New()

	mock.ExpectGet("account:" + id.String()).RedisNil()

	_, err := repo.FindByID(context.Background(), id)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedAccountRepository_UpdateInvalidates(t *testing.T) {
	client, mock := redismock.NewClientMock()
	a := testAccount()
	inner := &stubRepo{account: a}
	repo := NewCachedAccountRepository(inner, client, time.Minute, zap.NewNop())

	mock.ExpectDel("account:" + a.ID.String()).SetVal(1)

	require.NoError(t, repo.Update(context.Background(), a))
	assert.Equal(t, 1, inner.updateCalls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedAccountRepository_FindByIDForUpdateSkipsCache(t *testing.T) {
	client, mock := redismock.NewClientMock()
	a := testAccount()
	inner := &stubRepo{account: a}
	repo := NewCachedAccountRepository(inner, client, time.Minute, zap.NewNop())

	got, err := repo.FindByIDForUpdate(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, 1, inner.findForUpdateCalls)
	assert.Equal(t, 0, inner.findCalls)
	assert.NoError(t, mock.ExpectationsWereMet())
}
