// Package auth verifies the HS256 tokens that guard the authenticated
// connection path and the REST surface. Token issuance (login) lives in
// a separate identity service; here we only verify.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Authorizer resolves a bearer token to a brawler id.
type Authorizer interface {
	Authorize(token string) (int64, error)
}

// JWTAuthorizer verifies HMAC-signed tokens with sub/iat/exp claims.
type JWTAuthorizer struct {
	secret []byte
}

var _ Authorizer = (*JWTAuthorizer)(nil)

func NewJWTAuthorizer(secret string) *JWTAuthorizer {
	return &JWTAuthorizer{secret: []byte(secret)}
}

// Authorize parses and validates a token, returning the brawler id from
// the sub claim.
func (a *JWTAuthorizer) Authorize(token string) (int64, error) {
	if token == "" {
		return 0, ErrInvalidToken
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected alg: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return 0, ErrInvalidToken
	}

	sub, err := parsed.Claims.GetSubject()
	if err != nil || sub == "" {
		return 0, ErrInvalidToken
	}
	brawlerID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: non-numeric subject", ErrInvalidToken)
	}
	return brawlerID, nil
}

// IssueToken signs a token for a brawler. The server itself only needs
// this for tooling and tests; production tokens come from the identity
// service sharing the same secret.
func IssueToken(secret string, brawlerID int64, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(brawlerID, 10),
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
