package usecase_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/thiagodsaraujo/todo-auth-api/internal/auth"
	"github.com/thiagodsaraujo/todo-auth-api/internal/domain"
	"github.com/thiagodsaraujo/todo-auth-api/internal/usecase"
)

// ---- fakes ----

type fakeUserRepo struct {
	create      func(ctx context.Context, user *domain.User) (*domain.User, error)
	findByEmail func(ctx context.Context, email string) (*domain.User, error)
	findByID    func(ctx context.Context, id string) (*domain.User, error)
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	return r.create(ctx, user)
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findByEmail(ctx, email)
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findByID(ctx, id)
}

type fakeSender struct {
	send func(ctx context.Context, to, subject, body string) error
}

func (s *fakeSender) Send(ctx context.Context, to, subject, body string) error {
	if s.send == nil {
		return nil
	}
	return s.send(ctx, to, subject, body)
}

// ---- helpers ----

const (
	testAccessSecret  = "usecase-access-secret-32-chars!!!"
	testRefreshSecret = "usecase-refresh-secret-32-chars!!"
)

var hasher = auth.NewPasswordHasher()

func newAuthUsecase(t *testing.T, repo *fakeUserRepo, sender *fakeSender, opts ...auth.IssuerOption) *usecase.AuthUsecase {
	t.Helper()
	issuer, err := auth.NewIssuer("HS256", []byte(testAccessSecret), []byte(testRefreshSecret), opts...)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	return usecase.NewAuthUsecase(
		repo,
		hasher,
		issuer,
		auth.NewValidator("HS256", []byte(testAccessSecret), []byte(testRefreshSecret)),
		sender,
		slog.Default(),
	)
}

func userWithPassword(t *testing.T, id, email, password string) *domain.User {
	t.Helper()
	hash, err := hasher.Hash(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return &domain.User{ID: id, Username: "user-" + id, Email: email, PasswordHash: hash}
}

// ---- Register ----

func TestRegister_HashesPasswordAndSendsWelcomeEmail(t *testing.T) {
	var stored *domain.User
	var emailedTo string

	repo := &fakeUserRepo{
		create: func(_ context.Context, user *domain.User) (*domain.User, error) {
			stored = user
			return user, nil
		},
	}
	sender := &fakeSender{
		send: func(_ context.Context, to, _, _ string) error {
			emailedTo = to
			return nil
		},
	}

	created, err := newAuthUsecase(t, repo, sender).Register(context.Background(), usecase.RegisterInput{
		Username: "alice",
		Email:    "a@x.com",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created.ID == "" {
		t.Error("expected a generated user ID")
	}
	if stored.PasswordHash == "secret1" || stored.PasswordHash == "" {
		t.Error("plaintext password must never be stored")
	}
	if !hasher.Verify("secret1", stored.PasswordHash) {
		t.Error("stored hash does not verify against the original password")
	}
	if emailedTo != "a@x.com" {
		t.Errorf("welcome email went to %q, want a@x.com", emailedTo)
	}
}

func TestRegister_Duplicate_ReturnsErrDuplicateUser(t *testing.T) {
	repo := &fakeUserRepo{
		create: func(_ context.Context, _ *domain.User) (*domain.User, error) {
			return nil, domain.ErrDuplicateUser
		},
	}

	_, err := newAuthUsecase(t, repo, &fakeSender{}).Register(context.Background(), usecase.RegisterInput{
		Username: "alice",
		Email:    "a@x.com",
		Password: "secret1",
	})
	if !errors.Is(err, domain.ErrDuplicateUser) {
		t.Errorf("err = %v, want ErrDuplicateUser", err)
	}
}

func TestRegister_EmailFailure_DoesNotFailRegistration(t *testing.T) {
	repo := &fakeUserRepo{
		create: func(_ context.Context, user *domain.User) (*domain.User, error) {
			return user, nil
		},
	}
	sender := &fakeSender{
		send: func(_ context.Context, _, _, _ string) error {
			return errors.New("smtp unavailable")
		},
	}

	if _, err := newAuthUsecase(t, repo, sender).Register(context.Background(), usecase.RegisterInput{
		Username: "alice",
		Email:    "a@x.com",
		Password: "secret1",
	}); err != nil {
		t.Errorf("registration failed on welcome email: %v", err)
	}
}

// ---- Authenticate ----

func TestAuthenticate_CorrectPassword_ReturnsUser(t *testing.T) {
	stored := userWithPassword(t, "U1", "a@x.com", "secret1")
	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, email string) (*domain.User, error) {
			if email != "a@x.com" {
				return nil, domain.ErrUserNotFound
			}
			return stored, nil
		},
	}

	user, err := newAuthUsecase(t, repo, &fakeSender{}).Authenticate(context.Background(), "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "U1" {
		t.Errorf("user ID = %q, want U1", user.ID)
	}
}

func TestAuthenticate_UnknownAndWrongPassword_Indistinguishable(t *testing.T) {
	stored := userWithPassword(t, "U1", "a@x.com", "secret1")
	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, email string) (*domain.User, error) {
			if email != "a@x.com" {
				return nil, domain.ErrUserNotFound
			}
			return stored, nil
		},
	}
	uc := newAuthUsecase(t, repo, &fakeSender{})

	_, unknownErr := uc.Authenticate(context.Background(), "nobody@x.com", "anything")
	_, wrongErr := uc.Authenticate(context.Background(), "a@x.com", "wrong")

	if !errors.Is(unknownErr, domain.ErrInvalidCredentials) {
		t.Errorf("unknown email: err = %v, want ErrInvalidCredentials", unknownErr)
	}
	if !errors.Is(wrongErr, domain.ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v, want ErrInvalidCredentials", wrongErr)
	}
	// Same outward signal — no account enumeration.
	if unknownErr.Error() != wrongErr.Error() {
		t.Errorf("error messages differ: %q vs %q", unknownErr, wrongErr)
	}
}

func TestAuthenticate_DisabledUser_Fails(t *testing.T) {
	stored := userWithPassword(t, "U1", "a@x.com", "secret1")
	stored.Disabled = true
	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return stored, nil
		},
	}

	_, err := newAuthUsecase(t, repo, &fakeSender{}).Authenticate(context.Background(), "a@x.com", "secret1")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

// ---- Login / ResolveUser ----

func TestLogin_IssuesPairResolvableToSameUser(t *testing.T) {
	stored := userWithPassword(t, "U1", "a@x.com", "secret1")
	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) { return stored, nil },
		findByID: func(_ context.Context, id string) (*domain.User, error) {
			if id != "U1" {
				return nil, domain.ErrUserNotFound
			}
			return stored, nil
		},
	}
	uc := newAuthUsecase(t, repo, &fakeSender{})

	pair, err := uc.Login(context.Background(), "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens in the pair")
	}

	user, err := uc.ResolveUser(context.Background(), pair.AccessToken)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if user.ID != "U1" {
		t.Errorf("resolved user = %q, want U1", user.ID)
	}
}

func TestResolveUser_ExpiredToken_KeepsExpiredKind(t *testing.T) {
	stored := userWithPassword(t, "U1", "a@x.com", "secret1")
	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) { return stored, nil },
		findByID:    func(_ context.Context, _ string) (*domain.User, error) { return stored, nil },
	}
	uc := newAuthUsecase(t, repo, &fakeSender{}, auth.WithAccessTTL(-time.Minute))

	pair, err := uc.Login(context.Background(), "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := uc.ResolveUser(context.Background(), pair.AccessToken); !errors.Is(err, domain.ErrTokenExpired) {
		t.Errorf("err = %v, want ErrTokenExpired", err)
	}
}

func TestResolveUser_RefreshTokenPresentedAsAccess_Unauthorized(t *testing.T) {
	stored := userWithPassword(t, "U1", "a@x.com", "secret1")
	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) { return stored, nil },
		findByID:    func(_ context.Context, _ string) (*domain.User, error) { return stored, nil },
	}
	uc := newAuthUsecase(t, repo, &fakeSender{})

	pair, err := uc.Login(context.Background(), "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// Signed with the refresh secret, so the access-secret check must fail.
	if _, err := uc.ResolveUser(context.Background(), pair.RefreshToken); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

func TestResolveUser_DeletedSubject_NotFound(t *testing.T) {
	stored := userWithPassword(t, "U1", "a@x.com", "secret1")
	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) { return stored, nil },
		findByID: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	uc := newAuthUsecase(t, repo, &fakeSender{})

	pair, err := uc.Login(context.Background(), "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := uc.ResolveUser(context.Background(), pair.AccessToken); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}

func TestResolveUser_DisabledSubject_Unauthorized(t *testing.T) {
	stored := userWithPassword(t, "U1", "a@x.com", "secret1")
	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) { return stored, nil },
		findByID:    func(_ context.Context, _ string) (*domain.User, error) { return stored, nil },
	}
	uc := newAuthUsecase(t, repo, &fakeSender{})

	pair, err := uc.Login(context.Background(), "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// Account disabled after the token was issued. The user still exists, so
	// this is an authorization failure, not a 404.
	stored.Disabled = true

	if _, err := uc.ResolveUser(context.Background(), pair.AccessToken); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

// ---- Refresh ----

func TestRefresh_ValidToken_IssuesNewPair(t *testing.T) {
	stored := userWithPassword(t, "U2", "b@x.com", "secret1")
	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) { return stored, nil },
		findByID: func(_ context.Context, id string) (*domain.User, error) {
			if id != "U2" {
				return nil, domain.ErrUserNotFound
			}
			return stored, nil
		},
	}
	uc := newAuthUsecase(t, repo, &fakeSender{})

	pair, err := uc.Login(context.Background(), "b@x.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	fresh, err := uc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if fresh.AccessToken == "" || fresh.RefreshToken == "" {
		t.Fatal("expected a complete new pair")
	}

	user, err := uc.ResolveUser(context.Background(), fresh.AccessToken)
	if err != nil {
		t.Fatalf("resolve new access token: %v", err)
	}
	if user.ID != "U2" {
		t.Errorf("resolved user = %q, want U2", user.ID)
	}
}

func TestRefresh_WrongSecretToken_Forbidden(t *testing.T) {
	stored := userWithPassword(t, "U2", "b@x.com", "secret1")
	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) { return stored, nil },
		findByID:    func(_ context.Context, _ string) (*domain.User, error) { return stored, nil },
	}
	uc := newAuthUsecase(t, repo, &fakeSender{})

	pair, err := uc.Login(context.Background(), "b@x.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// Access token is syntactically a JWT but signed with the access secret.
	if _, err := uc.Refresh(context.Background(), pair.AccessToken); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
}

func TestRefresh_ExpiredToken_Forbidden(t *testing.T) {
	stored := userWithPassword(t, "U2", "b@x.com", "secret1")
	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) { return stored, nil },
		findByID:    func(_ context.Context, _ string) (*domain.User, error) { return stored, nil },
	}
	uc := newAuthUsecase(t, repo, &fakeSender{}, auth.WithRefreshTTL(-time.Minute))

	pair, err := uc.Login(context.Background(), "b@x.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := uc.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
}

func TestRefresh_DeletedSubject_NotFound(t *testing.T) {
	stored := userWithPassword(t, "U2", "b@x.com", "secret1")
	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) { return stored, nil },
		findByID: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	uc := newAuthUsecase(t, repo, &fakeSender{})

	pair, err := uc.Login(context.Background(), "b@x.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := uc.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}

func TestRefresh_DisabledSubject_Forbidden(t *testing.T) {
	stored := userWithPassword(t, "U2", "b@x.com", "secret1")
	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) { return stored, nil },
		findByID:    func(_ context.Context, _ string) (*domain.User, error) { return stored, nil },
	}
	uc := newAuthUsecase(t, repo, &fakeSender{})

	pair, err := uc.Login(context.Background(), "b@x.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// The refresh token verifies fine, but a disabled account must not get a
	// new pair; it is forced back through login.
	stored.Disabled = true

	if _, err := uc.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
}
