package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/utafrali/SupplierGo/internal/domain"
	"github.com/utafrali/SupplierGo/pkg/middleware"
)

// ErrConfiguration is returned when a token cannot be issued because the
// signing configuration or the request is incomplete.
var ErrConfiguration = errors.New("token issuer misconfigured")

// SigningConfig is the fixed configuration every token is signed with.
type SigningConfig struct {
	Secret     string
	Issuer     string
	Audience   string
	Expiration time.Duration
}

// Validate reports the first missing or invalid setting.
func (c SigningConfig) Validate() error {
	switch {
	case c.Secret == "":
		return fmt.Errorf("%w: empty secret", ErrConfiguration)
	case c.Issuer == "":
		return fmt.Errorf("%w: empty issuer", ErrConfiguration)
	case c.Audience == "":
		return fmt.Errorf("%w: empty audience", ErrConfiguration)
	case c.Expiration <= 0:
		return fmt.Errorf("%w: expiration must be positive", ErrConfiguration)
	}
	return nil
}

// TokenRequest describes the subject of a token. Claims and Roles may be
// empty but never affect the signing configuration.
type TokenRequest struct {
	UserID string
	Email  string
	Claims []domain.Claim
	Roles  []string
}

// Claims is the JWT payload. UserClaims maps claim type to value.
type Claims struct {
	Email      string            `json:"email"`
	UserClaims map[string]string `json:"claims,omitempty"`
	Roles      []string          `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// Issuer signs and validates HS256 access tokens.
type Issuer struct {
	cfg   SigningConfig
	now   func() time.Time
	newID func() string
}

// Option customises an Issuer.
type Option func(*Issuer)

// WithClock replaces the wall clock used for iat/nbf/exp and validation.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) { i.now = now }
}

// WithIDGenerator replaces the jti generator.
func WithIDGenerator(newID func() string) Option {
	return func(i *Issuer) { i.newID = newID }
}

// NewIssuer returns an issuer for cfg. The configuration is checked on every
// Issue so a bad config surfaces as ErrConfiguration rather than a panic.
func NewIssuer(cfg SigningConfig, opts ...Option) *Issuer {
	i := &Issuer{
		cfg:   cfg,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Issue signs a token for req and builds the response returned to clients.
// The response claim list is req.Claims followed by one "role" entry per role.
func (i *Issuer) Issue(req TokenRequest) (*domain.UserResponse, error) {
	if err := i.cfg.Validate(); err != nil {
		return nil, err
	}
	if req.Email == "" {
		return nil, fmt.Errorf("%w: token request without email", ErrConfiguration)
	}

	now := i.now().UTC().Truncate(time.Second)
	expiresAt := now.Add(i.cfg.Expiration)

	var claimMap map[string]string
	if len(req.Claims) > 0 {
		claimMap = make(map[string]string, len(req.Claims))
		for _, c := range req.Claims {
			claimMap[c.Type] = c.Value
		}
	}

	claims := &Claims{
		Email:      req.Email,
		UserClaims: claimMap,
		Roles:      req.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   req.UserID,
			ID:        i.newID(),
			Issuer:    i.cfg.Issuer,
			Audience:  jwt.ClaimStrings{i.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(i.cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	listed := make([]domain.Claim, 0, len(req.Claims)+len(req.Roles))
	listed = append(listed, req.Claims...)
	for _, r := range req.Roles {
		listed = append(listed, domain.Claim{Type: domain.RoleClaimType, Value: r})
	}

	return &domain.UserResponse{
		AccessToken: signed,
		ExpiresIn:   int64(i.cfg.Expiration / time.Second),
		ExpiresAt:   expiresAt,
		UserToken: domain.UserToken{
			ID:     req.UserID,
			Email:  req.Email,
			Claims: listed,
		},
	}, nil
}

// Validate parses tokenString and verifies signature, algorithm, issuer,
// audience and time window.
func (i *Issuer) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(i.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.cfg.Issuer),
		jwt.WithAudience(i.cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid access token claims")
	}
	return claims, nil
}

// TokenValidator adapts Validate for middleware.Auth.
func (i *Issuer) TokenValidator() middleware.TokenValidator {
	return func(token string) (*middleware.Claims, error) {
		c, err := i.Validate(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			UserID: c.Subject,
			Email:  c.Email,
			Claims: c.UserClaims,
			Roles:  c.Roles,
		}, nil
	}
}
