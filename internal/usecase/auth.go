package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/thiagodsaraujo/todo-auth-api/internal/auth"
	"github.com/thiagodsaraujo/todo-auth-api/internal/domain"
	"github.com/thiagodsaraujo/todo-auth-api/internal/email"
	"github.com/thiagodsaraujo/todo-auth-api/internal/repository"
)

// AuthUsecase owns credential checks, token issuance and the session/refresh
// flows. Secrets and TTLs come in through the injected issuer and validator;
// there is no process-global auth state.
type AuthUsecase struct {
	users     repository.UserRepository
	hasher    *auth.PasswordHasher
	issuer    *auth.Issuer
	validator *auth.Validator
	email     email.Sender
	logger    *slog.Logger
}

func NewAuthUsecase(
	users repository.UserRepository,
	hasher *auth.PasswordHasher,
	issuer *auth.Issuer,
	validator *auth.Validator,
	sender email.Sender,
	logger *slog.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		users:     users,
		hasher:    hasher,
		issuer:    issuer,
		validator: validator,
		email:     sender,
		logger:    logger.With("component", "auth_usecase"),
	}
}

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName *string
	LastName  *string
}

// Register hashes the password and persists a new user under a fresh UUID.
// A unique-key collision on username or email surfaces as ErrDuplicateUser.
func (u *AuthUsecase) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	hash, err := u.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
	}

	created, err := u.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUser) {
			return nil, domain.ErrDuplicateUser
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	// Welcome email is best-effort; registration must not fail on it.
	subject := "Welcome to your task tracker"
	body := fmt.Sprintf("<p>Hi %s, your account is ready.</p>", created.Username)
	if err := u.email.Send(ctx, created.Email, subject, body); err != nil {
		u.logger.WarnContext(ctx, "welcome email", "error", err)
	}

	return created, nil
}

// Authenticate checks email+password. Unknown email, wrong password and a
// disabled account all collapse to ErrInvalidCredentials so the caller
// cannot enumerate accounts.
func (u *AuthUsecase) Authenticate(ctx context.Context, emailAddr, password string) (*domain.User, error) {
	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !u.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	if user.Disabled {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates and issues a fresh token pair.
func (u *AuthUsecase) Login(ctx context.Context, emailAddr, password string) (domain.TokenPair, error) {
	user, err := u.Authenticate(ctx, emailAddr, password)
	if err != nil {
		return domain.TokenPair{}, err
	}

	pair, err := u.issuer.Pair(user.ID)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("issue token pair: %w", err)
	}
	return pair, nil
}

// ResolveUser is the request-time session boundary: it validates a bearer
// access token and loads the subject. ErrTokenExpired is kept distinct for
// logging; every other validation failure maps to ErrUnauthorized. A subject
// deleted after issuance yields ErrUserNotFound — existence is re-checked on
// every call, never trusted from the token.
func (u *AuthUsecase) ResolveUser(ctx context.Context, accessToken string) (*domain.User, error) {
	claims, err := u.validator.ValidateAccess(accessToken)
	if err != nil {
		if errors.Is(err, domain.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrUnauthorized
	}

	user, err := u.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user.Disabled {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

// Refresh exchanges a valid refresh token for a brand-new pair. Expired,
// forged and malformed tokens are not distinguished here — all collapse to
// ErrForbidden, which simply forces a re-login. The presented token is not
// blacklisted; it stays valid until its own expiry.
func (u *AuthUsecase) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	claims, err := u.validator.ValidateRefresh(refreshToken)
	if err != nil {
		return domain.TokenPair{}, domain.ErrForbidden
	}

	user, err := u.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.TokenPair{}, domain.ErrUserNotFound
		}
		return domain.TokenPair{}, fmt.Errorf("find user: %w", err)
	}
	if user.Disabled {
		return domain.TokenPair{}, domain.ErrForbidden
	}

	pair, err := u.issuer.Pair(user.ID)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("issue token pair: %w", err)
	}
	return pair, nil
}
