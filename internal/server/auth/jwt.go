package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sportstore/internal/common"
	"github.com/dmitrijs2005/sportstore/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by an access token. Subject is the account id.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// NewClaims returns claims for the given account.
func NewClaims(accountID, email string) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: accountID},
		Email:            email,
	}
}

// TokenIssuer signs and verifies stateless HMAC access tokens.
type TokenIssuer struct {
	secret     []byte
	method     jwt.SigningMethod
	defaultTTL time.Duration
	now        func() time.Time
	logger     logging.Logger
}

// NewTokenIssuer returns an issuer for one of HS256, HS384 or HS512.
func NewTokenIssuer(secret []byte, algorithm string, defaultTTL time.Duration, logger logging.Logger) (*TokenIssuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret must not be empty")
	}

	var method jwt.SigningMethod
	switch algorithm {
	case "HS256", "":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}

	if logger == nil {
		logger = logging.Nop()
	}

	return &TokenIssuer{
		secret:     secret,
		method:     method,
		defaultTTL: defaultTTL,
		now:        time.Now,
		logger:     logger.With("module", "tokens"),
	}, nil
}

// SetClock replaces the time source. Tests only.
func (t *TokenIssuer) SetClock(now func() time.Time) {
	t.now = now
}

// Issue signs claims with exp = now + ttl and iat = now. A ttl <= 0 selects
// the default lifetime.
func (t *TokenIssuer) Issue(claims Claims, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = t.defaultTTL
	}

	now := t.now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token, err := jwt.NewWithClaims(t.method, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify checks the algorithm, signature and expiry of token and returns its
// claims. Every failure is reported as common.ErrInvalidToken; the concrete
// reason only goes to the debug log.
func (t *TokenIssuer) Verify(ctx context.Context, token string) (*Claims, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(token, claims,
		func(tok *jwt.Token) (any, error) {
			if tok.Method.Alg() != t.method.Alg() {
				return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
			}
			return t.secret, nil
		},
		jwt.WithValidMethods([]string{t.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		t.logger.Debug(ctx, "token rejected", "reason", reason(err))
		return nil, common.ErrInvalidToken
	}
	if !parsed.Valid || claims.Subject == "" {
		t.logger.Debug(ctx, "token rejected", "reason", "missing subject")
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

func reason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "bad signature"
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return "unverifiable"
	default:
		return err.Error()
	}
}
