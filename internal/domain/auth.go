package domain

import "errors"

// Token validation and session errors. The raw jwt library errors never leave
// the auth package; they are converted to these kinds.
var (
	ErrInvalidSignature = errors.New("token signature is invalid")
	ErrMalformedClaims  = errors.New("token claims are malformed")
	ErrTokenExpired     = errors.New("token is expired")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
)

// TokenPair is what login and refresh return. A pair is always issued
// together; there is no partial reissue.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
