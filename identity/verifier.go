// Package identity verifies session tokens issued by the external identity
// provider. Session issuance itself happens at the provider.
package identity

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("identity: missing token")
	ErrInvalidToken = errors.New("identity: invalid token")
)

// Identity is what the provider asserts about the caller
type Identity struct {
	Subject string
	Email   string
	Name    string
}

// Verifier turns a raw session token into an Identity
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// Claims is the provider's session token payload
type Claims struct {
	Email           string `json:"email,omitempty"`
	Name            string `json:"name,omitempty"`
	AuthorizedParty string `json:"azp,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier checks HS256 tokens signed with the provider secret key.
// When PublishableKey is set the token's azp claim must match it.
type JWTVerifier struct {
	secretKey      []byte
	issuer         string
	publishableKey string
}

func NewJWTVerifier(secretKey, issuer, publishableKey string) *JWTVerifier {
	return &JWTVerifier{secretKey: []byte(secretKey), issuer: issuer, publishableKey: publishableKey}
}

// Verify validates a token and returns claims if valid
func (v *JWTVerifier) Verify(_ context.Context, tokenString string) (Identity, error) {
	if tokenString == "" {
		return Identity{}, ErrMissingToken
	}
	if len(v.secretKey) == 0 {
		return Identity{}, errors.New("identity: secret key not configured")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return v.secretKey, nil
	}, opts...)
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return Identity{}, ErrInvalidToken
	}
	if v.publishableKey != "" && claims.AuthorizedParty != v.publishableKey {
		return Identity{}, ErrInvalidToken
	}

	return Identity{Subject: claims.Subject, Email: claims.Email, Name: claims.Name}, nil
}

// Sign issues a token the way the provider does. It backs local
// development and tests.
func (v *JWTVerifier) Sign(id Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email:           id.Email,
		Name:            id.Name,
		AuthorizedParty: v.publishableKey,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Subject,
			Issuer:    v.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secretKey)
}
