//go:build integration

package repository_test

import (
	"context"
	"errors"
	"os"
	"strconv"
	"testing"
	"time"

	"user_accounts/internal/config"
	"user_accounts/internal/model"
	"user_accounts/internal/readiness"
	"user_accounts/internal/repository"
	"user_accounts/internal/service"
	"user_accounts/internal/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

var dbCfg config.DBConfig

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "accounts_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	portNum, err := strconv.Atoi(port.Port())
	if err != nil {
		panic(err)
	}
	dbCfg = config.DBConfig{
		Host:         host,
		Port:         portNum,
		User:         "postgres",
		Password:     "password",
		Name:         "accounts_test",
		SSLMode:      "disable",
		PoolerMarker: "pgbouncer",
	}

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func setup(t *testing.T) (*pgxpool.Pool, service.AccountService) {
	t.Helper()
	ctx := context.Background()

	pool, err := config.ConnectDB(ctx, dbCfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	waiter := readiness.NewWaiter(zap.NewNop())
	require.NoError(t, waiter.WaitFor(ctx, readiness.ServiceCheck{
		Name:         readiness.ServiceDatabase,
		Probe:        readiness.DatabaseProbe(pool, dbCfg, readiness.DirectConnect(dbCfg), zap.NewNop()),
		WaitInterval: 500 * time.Millisecond,
		MaxAttempts:  20,
	}))

	require.NoError(t, config.Migrate(ctx, pool))
	_, err = pool.Exec(ctx, "TRUNCATE users")
	require.NoError(t, err)

	svc := service.NewAccountService(repository.NewAccountRepository(pool), utils.NewJWTUtil("secret", 1), zap.NewNop())
	return pool, svc
}

func TestAccounts_Postgres(t *testing.T) {
	ctx := context.Background()
	_, svc := setup(t)

	first, err := svc.CreateAccount(ctx, service.CreateAccountInput{Email: "Alice@Example.COM", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "Alice@example.com", *first.Email)

	t.Run("duplicate email after normalization", func(t *testing.T) {
		_, err := svc.CreateAccount(ctx, service.CreateAccountInput{Email: "Alice@EXAMPLE.com"})
		var uniq *model.UniquenessError
		require.True(t, errors.As(err, &uniq))
		assert.Equal(t, model.FieldEmail, uniq.Field)
	})

	t.Run("duplicate phone number", func(t *testing.T) {
		_, err := svc.CreateAccount(ctx, service.CreateAccountInput{PhoneNumber: "+15550100"})
		require.NoError(t, err)
		_, err = svc.CreateAccount(ctx, service.CreateAccountInput{PhoneNumber: "+15550100"})
		assert.ErrorIs(t, err, model.ErrDuplicate)
	})

	t.Run("accounts without identifiers are rejected by the database", func(t *testing.T) {
		repo := repository.NewAccountRepository(setupPool(t))
		now := time.Now().UTC()
		err := repo.Create(ctx, &model.Account{ID: uuid.New(), CreatedAt: now, ModifiedAt: now})
		assert.Error(t, err)
	})

	t.Run("round trip and save", func(t *testing.T) {
		got, err := svc.GetAccount(ctx, first.ID)
		require.NoError(t, err)
		assert.True(t, got.CreatedAt.Equal(first.CreatedAt))

		before := got.ModifiedAt
		got.IsVerified = true
		require.NoError(t, svc.Save(ctx, got))
		assert.True(t, got.ModifiedAt.After(before))

		reloaded, err := svc.GetAccount(ctx, first.ID)
		require.NoError(t, err)
		assert.True(t, reloaded.IsVerified)
		assert.True(t, reloaded.ModifiedAt.Equal(got.ModifiedAt))
	})

	t.Run("authenticate", func(t *testing.T) {
		account, token, err := svc.Authenticate(ctx, "Alice@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, first.ID, account.ID)
		assert.NotEmpty(t, token)
	})

	t.Run("list in creation order", func(t *testing.T) {
		accounts, err := svc.ListAccounts(ctx, model.AccountFilter{})
		require.NoError(t, err)
		require.Len(t, accounts, 2)
		assert.Equal(t, first.ID, accounts[0].ID)

		accounts, err = svc.ListAccounts(ctx, model.AccountFilter{Search: "5550"})
		require.NoError(t, err)
		require.Len(t, accounts, 1)
		assert.Equal(t, "+15550100", *accounts[0].PhoneNumber)
	})
}

func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	pool, err := config.ConnectDB(context.Background(), dbCfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}
