package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/campwire/community-core/internal/domain"
	"github.com/campwire/community-core/internal/email"
	"github.com/campwire/community-core/internal/metrics"
	"github.com/campwire/community-core/internal/repository"
	"github.com/campwire/community-core/internal/token"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

var validate = validator.New()

// dummyHash is compared against when the email is unknown, so the
// unknown-email and wrong-password paths both cost one bcrypt comparison.
var dummyHash = mustHash("community-core-timing-pad")

func mustHash(s string) []byte {
	h, err := bcrypt.GenerateFromPassword([]byte(s), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return h
}

type AccountUsecase struct {
	accounts repository.AccountRepository
	tokens   *token.Service
	email    email.Sender
	logger   *slog.Logger
}

func NewAccountUsecase(accounts repository.AccountRepository, tokens *token.Service, emailSender email.Sender, logger *slog.Logger) *AccountUsecase {
	return &AccountUsecase{
		accounts: accounts,
		tokens:   tokens,
		email:    emailSender,
		logger:   logger.With("component", "account_usecase"),
	}
}

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

// Register creates a new account. The email is lowercased before the
// uniqueness check; the display name defaults to the email local-part.
func (u *AccountUsecase) Register(ctx context.Context, input RegisterInput) (*domain.Account, error) {
	addr := strings.ToLower(strings.TrimSpace(input.Email))
	if err := validate.Var(addr, "required,email"); err != nil {
		return nil, domain.ErrValidation
	}
	if len(input.Password) < minPasswordLength {
		return nil, domain.ErrWeakPassword
	}

	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = addr[:strings.IndexByte(addr, '@')]
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account, err := u.accounts.Create(ctx, &domain.Account{
		ID:           uuid.NewString(),
		Email:        addr,
		PasswordHash: string(hash),
		DisplayName:  displayName,
	})
	if err != nil {
		return nil, err
	}

	metrics.RegistrationsTotal.Inc()

	// Delivery failure must never fail registration.
	subject, body := email.Welcome(account.DisplayName)
	if err := u.email.Send(ctx, account.Email, subject, body); err != nil {
		u.logger.ErrorContext(ctx, "send welcome email", "error", err)
	}

	return account, nil
}

// Login verifies credentials and returns the account plus a signed session
// token. Unknown email and wrong password both return ErrInvalidCredentials,
// and both run exactly one bcrypt comparison.
func (u *AccountUsecase) Login(ctx context.Context, emailAddr, password string) (*domain.Account, string, error) {
	addr := strings.ToLower(strings.TrimSpace(emailAddr))

	account, err := u.accounts.FindByEmail(ctx, addr)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("find account: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, "", domain.ErrInvalidCredentials
	}

	signed, err := u.tokens.Issue(account.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue session token: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return account, signed, nil
}

type UpdateProfileInput struct {
	DisplayName *string
	NewPassword *string
}

// UpdateProfile changes display name and/or password. A password change is
// re-hashed before persisting. The current session token stays valid; changing
// the password does not require re-confirming the old one.
func (u *AccountUsecase) UpdateProfile(ctx context.Context, accountID string, input UpdateProfileInput) (*domain.Account, error) {
	if input.DisplayName == nil && input.NewPassword == nil {
		return nil, domain.ErrValidation
	}

	patch := repository.UpdateProfileInput{}

	if input.DisplayName != nil {
		name := strings.TrimSpace(*input.DisplayName)
		if name == "" || len(name) > 64 {
			return nil, domain.ErrValidation
		}
		patch.DisplayName = &name
	}

	if input.NewPassword != nil {
		if len(*input.NewPassword) < minPasswordLength {
			return nil, domain.ErrWeakPassword
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hashStr := string(hash)
		patch.PasswordHash = &hashStr
	}

	return u.accounts.UpdateProfile(ctx, accountID, patch)
}

func (u *AccountUsecase) GetByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return u.accounts.FindByID(ctx, accountID)
}
