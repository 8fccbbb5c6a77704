package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/thiagodsaraujo/todo-auth-api/internal/domain"
)

const (
	defaultAccessTTL  = 60 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// Claims is the decoded payload of a verified token.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Issuer signs access and refresh tokens. The two token kinds use separate
// secrets, so a leaked access secret cannot be used to forge refresh tokens.
type Issuer struct {
	method        jwt.SigningMethod
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

type IssuerOption func(*Issuer)

func WithAccessTTL(d time.Duration) IssuerOption {
	return func(i *Issuer) { i.accessTTL = d }
}

func WithRefreshTTL(d time.Duration) IssuerOption {
	return func(i *Issuer) { i.refreshTTL = d }
}

// Minutes converts a configured minute count into a time.Duration.
func Minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}

func NewIssuer(algorithm string, accessSecret, refreshSecret []byte, opts ...IssuerOption) (*Issuer, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing algorithm %q is not symmetric", algorithm)
	}

	i := &Issuer{
		method:        method,
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     defaultAccessTTL,
		refreshTTL:    defaultRefreshTTL,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// AccessToken signs a short-lived token for the given subject. An optional
// TTL overrides the configured one; tests use it to mint expired tokens.
func (i *Issuer) AccessToken(subjectID string, ttl ...time.Duration) (string, error) {
	return i.sign(subjectID, i.accessSecret, override(i.accessTTL, ttl))
}

// RefreshToken signs a long-lived token with the refresh secret.
func (i *Issuer) RefreshToken(subjectID string, ttl ...time.Duration) (string, error) {
	return i.sign(subjectID, i.refreshSecret, override(i.refreshTTL, ttl))
}

// Pair issues a fresh access+refresh pair. Login and refresh always return a
// brand-new pair, never a partial reissue.
func (i *Issuer) Pair(subjectID string) (domain.TokenPair, error) {
	access, err := i.AccessToken(subjectID)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := i.RefreshToken(subjectID)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (i *Issuer) sign(subjectID string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subjectID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(i.method, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func override(configured time.Duration, ttl []time.Duration) time.Duration {
	if len(ttl) > 0 {
		return ttl[0]
	}
	return configured
}

// Validator verifies token signature and expiry and extracts the claims.
// It holds both secrets itself: access tokens are only ever checked against
// the access secret, refresh tokens against the refresh secret. A token
// presented to the wrong method fails ErrInvalidSignature.
type Validator struct {
	methods       []string
	accessSecret  []byte
	refreshSecret []byte
}

func NewValidator(algorithm string, accessSecret, refreshSecret []byte) *Validator {
	return &Validator{
		methods:       []string{algorithm},
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
	}
}

// ValidateAccess verifies an access token.
func (v *Validator) ValidateAccess(raw string) (Claims, error) {
	return v.validate(raw, v.accessSecret)
}

// ValidateRefresh verifies a refresh token.
func (v *Validator) ValidateRefresh(raw string) (Claims, error) {
	return v.validate(raw, v.refreshSecret)
}

// validate decodes and verifies a token against the given secret. All jwt
// library failures are converted to the domain error kinds; raw parse errors
// never escape.
func (v *Validator) validate(raw string, secret []byte) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods(v.methods),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, domain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
			return Claims{}, domain.ErrMalformedClaims
		default:
			return Claims{}, domain.ErrInvalidSignature
		}
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" || claims.ExpiresAt == nil {
		return Claims{}, domain.ErrMalformedClaims
	}

	out := Claims{Subject: claims.Subject, ExpiresAt: claims.ExpiresAt.Time}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}
