package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/thiagodsaraujo/todo-auth-api/internal/auth"
	"github.com/thiagodsaraujo/todo-auth-api/internal/domain"
)

const (
	testAccessSecret  = "access-secret-for-tests-32-chars!"
	testRefreshSecret = "refresh-secret-for-tests-32-char!"
)

func newIssuer(t *testing.T, opts ...auth.IssuerOption) *auth.Issuer {
	t.Helper()
	i, err := auth.NewIssuer("HS256", []byte(testAccessSecret), []byte(testRefreshSecret), opts...)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	return i
}

func newValidator() *auth.Validator {
	return auth.NewValidator("HS256", []byte(testAccessSecret), []byte(testRefreshSecret))
}

func TestNewIssuer_RejectsUnknownAndAsymmetricAlgorithms(t *testing.T) {
	for _, alg := range []string{"nope", "RS256", "ES256"} {
		if _, err := auth.NewIssuer(alg, []byte(testAccessSecret), []byte(testRefreshSecret)); err == nil {
			t.Errorf("NewIssuer(%q) accepted, want error", alg)
		}
	}
}

func TestAccessToken_RoundTrip(t *testing.T) {
	issuer := newIssuer(t)
	v := newValidator()

	tok, err := issuer.AccessToken("U1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := v.ValidateAccess(tok)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Subject != "U1" {
		t.Errorf("subject = %q, want U1", claims.Subject)
	}
	if !claims.ExpiresAt.After(claims.IssuedAt) {
		t.Errorf("expiry %v is not after issued-at %v", claims.ExpiresAt, claims.IssuedAt)
	}
}

func TestValidate_CrossedTokenKinds_FailInvalidSignature(t *testing.T) {
	issuer := newIssuer(t)
	v := newValidator()

	access, err := issuer.AccessToken("U1")
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}
	refresh, err := issuer.RefreshToken("U1")
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}

	// A refresh token presented as an access token (and vice versa) must
	// fail as a signature error, never silently verify.
	if _, err := v.ValidateAccess(refresh); !errors.Is(err, domain.ErrInvalidSignature) {
		t.Errorf("refresh token via ValidateAccess: err = %v, want ErrInvalidSignature", err)
	}
	if _, err := v.ValidateRefresh(access); !errors.Is(err, domain.ErrInvalidSignature) {
		t.Errorf("access token via ValidateRefresh: err = %v, want ErrInvalidSignature", err)
	}
}

func TestValidate_ExpiredToken_FailsExpired(t *testing.T) {
	issuer := newIssuer(t)
	v := newValidator()

	// TTL override backdates the expiry so the token is already dead.
	tok, err := issuer.AccessToken("U1", -time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := v.ValidateAccess(tok); !errors.Is(err, domain.ErrTokenExpired) {
		t.Errorf("err = %v, want ErrTokenExpired", err)
	}
}

func TestValidate_ZeroTTL_FailsExpired(t *testing.T) {
	issuer := newIssuer(t, auth.WithAccessTTL(0))
	v := newValidator()

	tok, err := issuer.AccessToken("U1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := v.ValidateAccess(tok); !errors.Is(err, domain.ErrTokenExpired) {
		t.Errorf("err = %v, want ErrTokenExpired", err)
	}
}

func TestValidate_Garbage_FailsInvalidSignature(t *testing.T) {
	v := newValidator()

	for _, raw := range []string{"", "not.a.jwt", "a.b"} {
		if _, err := v.ValidateAccess(raw); !errors.Is(err, domain.ErrInvalidSignature) {
			t.Errorf("ValidateAccess(%q): err = %v, want ErrInvalidSignature", raw, err)
		}
	}
}

func TestValidate_MissingSubject_FailsMalformedClaims(t *testing.T) {
	v := newValidator()

	// Hand-rolled token with exp but no sub.
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testAccessSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := v.ValidateAccess(raw); !errors.Is(err, domain.ErrMalformedClaims) {
		t.Errorf("err = %v, want ErrMalformedClaims", err)
	}
}

func TestValidate_MissingExpiry_FailsMalformedClaims(t *testing.T) {
	v := newValidator()

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:  "U1",
		IssuedAt: jwt.NewNumericDate(time.Now()),
	}).SignedString([]byte(testAccessSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := v.ValidateAccess(raw); !errors.Is(err, domain.ErrMalformedClaims) {
		t.Errorf("err = %v, want ErrMalformedClaims", err)
	}
}

func TestValidate_WrongSigningMethod_FailsInvalidSignature(t *testing.T) {
	v := newValidator()

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS384, jwt.RegisteredClaims{
		Subject:   "U1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testAccessSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := v.ValidateAccess(raw); !errors.Is(err, domain.ErrInvalidSignature) {
		t.Errorf("err = %v, want ErrInvalidSignature", err)
	}
}

func TestPair_BothTokensCarrySubject(t *testing.T) {
	issuer := newIssuer(t)
	v := newValidator()

	pair, err := issuer.Pair("U2")
	if err != nil {
		t.Fatalf("pair: %v", err)
	}

	access, err := v.ValidateAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("validate access: %v", err)
	}
	refresh, err := v.ValidateRefresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("validate refresh: %v", err)
	}

	if access.Subject != "U2" || refresh.Subject != "U2" {
		t.Errorf("subjects = %q/%q, want U2/U2", access.Subject, refresh.Subject)
	}
	if !refresh.ExpiresAt.After(access.ExpiresAt) {
		t.Errorf("refresh expiry %v should outlive access expiry %v", refresh.ExpiresAt, access.ExpiresAt)
	}
}
