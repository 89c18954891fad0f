package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"arena-quiz-service/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of an identity token.
type Claims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Verifier issues and checks HS256 identity tokens.
type Verifier struct {
	secret []byte
	now    func() time.Time
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret), now: time.Now}
}

// Issue signs a token for caller. A non-positive ttl produces a token without expiry.
func (v *Verifier) Issue(caller domain.Caller, ttl time.Duration) (string, error) {
	if len(v.secret) == 0 {
		return "", errors.New("jwt secret is not configured")
	}
	now := v.now()
	claims := Claims{
		Name: caller.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  caller.ID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// LookupSession validates raw and returns the caller it names. Any invalid
// token is reported as domain.ErrSessionNotFound.
func (v *Verifier) LookupSession(_ context.Context, raw string) (domain.Caller, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return domain.Caller{}, domain.ErrSessionNotFound
	}
	return domain.Caller{ID: claims.Subject, DisplayName: claims.Name}, nil
}
