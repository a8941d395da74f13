// Package auth issues and checks HS256 bearer tokens.
package auth

import (
	stderrors "errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"task-app/internal/config"
)

// ErrNoSecret is returned when tokens are requested without a signing secret.
var ErrNoSecret = stderrors.New("auth: jwt secret is not configured")

// Issuer signs and verifies tokens with a shared secret.
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer builds an Issuer from the auth config.
func NewIssuer(cfg config.AuthConfig) (*Issuer, error) {
	if cfg.JWTSecret == "" {
		return nil, ErrNoSecret
	}
	return &Issuer{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
		ttl:    cfg.TokenTTL,
		now:    time.Now,
	}, nil
}

// GenerateToken returns a signed token for subject.
func (i *Issuer) GenerateToken(subject string) (string, error) {
	if subject == "" {
		return "", stderrors.New("auth: subject is required")
	}
	now := i.now()
	claims := jwt.RegisteredClaims{
		Subject:  subject,
		Issuer:   i.issuer,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if i.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(i.ttl))
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(i.secret)
}

// ParseToken verifies tokenString and returns its subject.
func (i *Issuer) ParseToken(tokenString string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}

	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, opts...)
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", stderrors.New("auth: invalid token")
	}
	if claims.Subject == "" {
		return "", stderrors.New("auth: token has no subject")
	}
	return claims.Subject, nil
}
