package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// AccessClaims is the payload of a short-lived access token.
type AccessClaims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// RefreshClaims is the payload of a refresh token. ID (jti) correlates
// the token to its persisted revocation-tracking row.
type RefreshClaims struct {
	jwt.RegisteredClaims
}

// TokenIssuer mints and verifies HS256 token pairs.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (i *TokenIssuer) AccessTTL() time.Duration  { return i.accessTTL }
func (i *TokenIssuer) RefreshTTL() time.Duration { return i.refreshTTL }

// SignAccess mints an access token embedding the user ID and roles.
func (i *TokenIssuer) SignAccess(userID string, roles []string) (string, error) {
	now := time.Now().UTC()
	claims := AccessClaims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.accessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// SignRefresh mints a refresh token whose jti is the ID of the backing
// refresh-token row.
func (i *TokenIssuer) SignRefresh(userID, jti string) (string, error) {
	now := time.Now().UTC()
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.refreshTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// VerifyAccess parses and validates an access token.
func (i *TokenIssuer) VerifyAccess(tokenStr string) (*AccessClaims, error) {
	var claims AccessClaims
	if err := i.parse(tokenStr, &claims); err != nil {
		return nil, err
	}
	return &claims, nil
}

// VerifyRefresh parses and validates a refresh token. Signature and
// expiry only; revocation is checked against the persisted row.
func (i *TokenIssuer) VerifyRefresh(tokenStr string) (*RefreshClaims, error) {
	var claims RefreshClaims
	if err := i.parse(tokenStr, &claims); err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

func (i *TokenIssuer) parse(tokenStr string, claims jwt.Claims) error {
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	})
	if err != nil || !tkn.Valid {
		return ErrInvalidToken
	}
	return nil
}
