package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"user_accounts/internal/metrics"
	"user_accounts/internal/model"
	"user_accounts/internal/repository"
	"user_accounts/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

const (
	kindUser      = "user"
	kindSuperuser = "superuser"
)

// CreateAccountInput carries the fields for a new account. Empty strings mean
// "not supplied". The flag pointers override the defaults when set.
type CreateAccountInput struct {
	Email       string
	PhoneNumber string
	Password    string
	IsVerified  *bool
	IsAdmin     *bool
}

// UpdateAccountInput is a partial update; nil fields are left unchanged.
// An empty Email or PhoneNumber clears that identifier.
type UpdateAccountInput struct {
	Email       *string
	PhoneNumber *string
	Password    *string
	IsVerified  *bool
	IsAdmin     *bool
}

// AccountService creates, authenticates and administers accounts
type AccountService interface {
	CreateAccount(ctx context.Context, in CreateAccountInput) (*model.Account, error)
	CreateSuperuser(ctx context.Context, in CreateAccountInput) (*model.Account, error)
	Save(ctx context.Context, account *model.Account) error
	Authenticate(ctx context.Context, identifier, password string) (*model.Account, string, error)
	GetAccount(ctx context.Context, id uuid.UUID) (*model.Account, error)
	ListAccounts(ctx context.Context, filter model.AccountFilter) ([]model.Account, error)
	UpdateAccount(ctx context.Context, id uuid.UUID, in UpdateAccountInput) (*model.Account, error)
}

type accountService struct {
	repo    repository.AccountRepository
	jwtUtil *utils.JWTUtil
	logger  *zap.Logger
	now     func() time.Time
}

// NewAccountService creates a new AccountService
func NewAccountService(repo repository.AccountRepository, jwtUtil *utils.JWTUtil, logger *zap.Logger) AccountService {
	return &accountService{
		repo:    repo,
		jwtUtil: jwtUtil,
		logger:  logger,
		now:     time.Now,
	}
}

// CreateAccount validates and stores a new account. Uniqueness of the email
// and phone number is left to the database; a clash surfaces as
// *model.UniquenessError.
func (s *accountService) CreateAccount(ctx context.Context, in CreateAccountInput) (*model.Account, error) {
	return s.create(ctx, in, kindUser)
}

// CreateSuperuser is CreateAccount with IsVerified and IsAdmin defaulting to true
func (s *accountService) CreateSuperuser(ctx context.Context, in CreateAccountInput) (*model.Account, error) {
	if in.IsVerified == nil {
		in.IsVerified = boolPtr(true)
	}
	if in.IsAdmin == nil {
		in.IsAdmin = boolPtr(true)
	}
	return s.create(ctx, in, kindSuperuser)
}

func (s *accountService) create(ctx context.Context, in CreateAccountInput, kind string) (*model.Account, error) {
	email := strings.TrimSpace(in.Email)
	phone := strings.TrimSpace(in.PhoneNumber)
	if email == "" && phone == "" {
		return nil, model.ErrIdentifierRequired
	}
	if email != "" {
		email = model.NormalizeEmail(email)
	}

	now := s.timestamp()
	account := &model.Account{
		ID:          uuid.New(),
		Email:       model.OptionalString(email),
		PhoneNumber: model.OptionalString(phone),
		IsVerified:  in.IsVerified != nil && *in.IsVerified,
		IsAdmin:     in.IsAdmin != nil && *in.IsAdmin,
		CreatedAt:   now,
		ModifiedAt:  now,
	}

	if in.Password != "" {
		hashed, err := utils.HashPassword(in.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		account.PasswordHash = hashed
	}

	if err := s.repo.Create(ctx, account); err != nil {
		if !errors.Is(err, model.ErrDuplicate) {
			s.logger.Error("Failed to store account", zap.String("account", account.String()), zap.Error(err))
		}
		return nil, fmt.Errorf("failed to create account in repository: %w", err)
	}

	metrics.AccountsCreated.WithLabelValues(kind).Inc()
	s.logger.Info("Account created",
		zap.String("account_id", account.ID.String()),
		zap.String("kind", kind))
	return account, nil
}

// Save persists the account, always moving ModifiedAt forward first
func (s *accountService) Save(ctx context.Context, account *model.Account) error {
	if !account.HasIdentifier() {
		return model.ErrIdentifierRequired
	}

	previous := account.ModifiedAt
	now := s.timestamp()
	if !now.After(previous) {
		// stored timestamps have microsecond precision
		now = previous.Add(time.Microsecond)
	}
	account.ModifiedAt = now

	if err := s.repo.Update(ctx, account); err != nil {
		account.ModifiedAt = previous
		return fmt.Errorf("failed to save account: %w", err)
	}
	return nil
}

// Authenticate looks the account up by email when the identifier contains an
// "@", by phone number otherwise, and returns a signed token on success.
func (s *accountService) Authenticate(ctx context.Context, identifier, password string) (*model.Account, string, error) {
	identifier = strings.TrimSpace(identifier)

	var (
		account *model.Account
		err     error
	)
	if strings.Contains(identifier, "@") {
		account, err = s.repo.FindByEmail(ctx, model.NormalizeEmail(identifier))
	} else {
		account, err = s.repo.FindByPhone(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			metrics.LoginAttempts.WithLabelValues(metrics.ResultFailure).Inc()
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("error finding account: %w", err)
	}

	if account.PasswordHash == "" || !utils.CheckPasswordHash(password, account.PasswordHash) {
		metrics.LoginAttempts.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtUtil.GenerateToken(account.ID, account.Role())
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	metrics.LoginAttempts.WithLabelValues(metrics.ResultSuccess).Inc()
	return account, token, nil
}

func (s *accountService) GetAccount(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, filter model.AccountFilter) ([]model.Account, error) {
	accounts, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// UpdateAccount applies a partial update and saves the account
func (s *accountService) UpdateAccount(ctx context.Context, id uuid.UUID, in UpdateAccountInput) (*model.Account, error) {
	account, err := s.repo.FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email != "" {
			email = model.NormalizeEmail(email)
		}
		account.Email = model.OptionalString(email)
	}
	if in.PhoneNumber != nil {
		account.PhoneNumber = model.OptionalString(strings.TrimSpace(*in.PhoneNumber))
	}
	if in.Password != nil {
		account.PasswordHash = ""
		if *in.Password != "" {
			hashed, err := utils.HashPassword(*in.Password)
			if err != nil {
				return nil, fmt.Errorf("failed to hash password: %w", err)
			}
			account.PasswordHash = hashed
		}
	}
	if in.IsVerified != nil {
		account.IsVerified = *in.IsVerified
	}
	if in.IsAdmin != nil {
		account.IsAdmin = *in.IsAdmin
	}

	if err := s.Save(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *accountService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func boolPtr(b bool) *bool {
	return &b
}
