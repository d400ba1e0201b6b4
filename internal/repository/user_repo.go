package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"user_accounts/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200

	accountColumns = `user_id, email, phone_number, password_hash, is_verified, is_admin, created_at, modified_at`
)

// likeEscaper makes a search term match literally inside ILIKE ... ESCAPE '\'
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// DBTX is the subset of *pgxpool.Pool used by repositories
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// AccountRepository defines operations for account data
type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	Update(ctx context.Context, account *model.Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
	// FindByIDForUpdate always reads the database, never a cache, so the
	// result is safe to modify and write back.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Account, error)
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
	FindByPhone(ctx context.Context, phone string) (*model.Account, error)
	List(ctx context.Context, filter model.AccountFilter) ([]model.Account, error)
}

type accountRepository struct {
	db DBTX
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db DBTX) AccountRepository {
	return &accountRepository{db: db}
}

// Create inserts a new account. Duplicate identifiers are reported as
// *model.UniquenessError by the database constraint, not pre-checked.
func (r *accountRepository) Create(ctx context.Context, a *model.Account) error {
	sql := `INSERT INTO users (` + accountColumns + `)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, sql,
		a.ID, a.Email, a.PhoneNumber, a.PasswordHash, a.IsVerified, a.IsAdmin, a.CreatedAt, a.ModifiedAt)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", mapConstraintError(err))
	}
	return nil
}

// Update writes every mutable field of the account
func (r *accountRepository) Update(ctx context.Context, a *model.Account) error {
	sql := `UPDATE users
            SET email = $2, phone_number = $3, password_hash = $4, is_verified = $5, is_admin = $6, modified_at = $7
            WHERE user_id = $1`
	tag, err := r.db.Exec(ctx, sql,
		a.ID, a.Email, a.PhoneNumber, a.PasswordHash, a.IsVerified, a.IsAdmin, a.ModifiedAt)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", mapConstraintError(err))
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// FindByID retrieves an account by its ID
func (r *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	return r.findOne(ctx, "user_id", id)
}

func (r *accountRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	return r.findOne(ctx, "user_id", id)
}

// FindByEmail retrieves an account by its (normalized) email
func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	return r.findOne(ctx, "email", email)
}

// FindByPhone retrieves an account by its phone number
func (r *accountRepository) FindByPhone(ctx context.Context, phone string) (*model.Account, error) {
	return r.findOne(ctx, "phone_number", phone)
}

func (r *accountRepository) findOne(ctx context.Context, column string, value any) (*model.Account, error) {
	sql := `SELECT ` + accountColumns + ` FROM users WHERE ` + column + ` = $1`
	a, err := scanAccount(r.db.QueryRow(ctx, sql, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by %s: %w", column, err)
	}
	return a, nil
}

// List returns accounts matching the filter, oldest first
func (r *accountRepository) List(ctx context.Context, filter model.AccountFilter) ([]model.Account, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + accountColumns + ` FROM users WHERE 1=1`)
	args := []any{}
	argCount := 1

	if filter.IsVerified != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND is_verified = $%d", argCount))
		args = append(args, *filter.IsVerified)
		argCount++
	}
	if filter.IsAdmin != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND is_admin = $%d", argCount))
		args = append(args, *filter.IsAdmin)
		argCount++
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		queryBuilder.WriteString(fmt.Sprintf(` AND (email ILIKE $%d ESCAPE '\' OR phone_number ILIKE $%d ESCAPE '\')`, argCount, argCount))
		args = append(args, "%"+likeEscaper.Replace(search)+"%")
		argCount++
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY created_at ASC LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []model.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

func scanAccount(row pgx.Row) (*model.Account, error) {
	a := &model.Account{}
	err := row.Scan(&a.ID, &a.Email, &a.PhoneNumber, &a.PasswordHash, &a.IsVerified, &a.IsAdmin, &a.CreatedAt, &a.ModifiedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// mapConstraintError converts unique violations on users into
// *model.UniquenessError and leaves other errors untouched.
func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return err
	}

	switch pgErr.ConstraintName {
	case "users_email_key":
		return &model.UniquenessError{Field: model.FieldEmail, Err: err}
	case "users_phone_number_key":
		return &model.UniquenessError{Field: model.FieldPhoneNumber, Err: err}
	default:
		return &model.UniquenessError{Err: err}
	}
}
