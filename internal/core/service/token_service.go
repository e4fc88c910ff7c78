package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/notekeep/notes-system/internal/core/domain"
)

// DefaultTokenTTL is the fixed lifetime of an identity token.
const DefaultTokenTTL = 24 * time.Hour

// tokenClaims is the JWT payload.
type tokenClaims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTTokenService signs HS256 identity tokens with a process-wide secret.
type JWTTokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService builds a token service. A non-positive ttl falls back to
// DefaultTokenTTL; a nil clock uses time.Now.
func NewTokenService(secret string, ttl time.Duration, now func() time.Time) *JWTTokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if now == nil {
		now = time.Now
	}
	return &JWTTokenService{secret: []byte(secret), ttl: ttl, now: now}
}

// TTL returns the lifetime applied to issued tokens.
func (s *JWTTokenService) TTL() time.Duration { return s.ttl }

// Issue signs a token binding userID and role, valid for the configured TTL.
func (s *JWTTokenService) Issue(userID, role string) (string, domain.TokenClaims, error) {
	issuedAt := s.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(s.ttl)
	id := uuid.NewString()

	claims := tokenClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", domain.TokenClaims{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, domain.TokenClaims{
		TokenID:   id,
		UserID:    userID,
		Role:      role,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify checks signature, algorithm and expiry. A token is rejected from
// the instant now >= exp; there is no leeway.
func (s *JWTTokenService) Verify(token string) (domain.TokenClaims, error) {
	if token == "" {
		return domain.TokenClaims{}, domain.ErrTokenInvalid
	}

	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		if err == nil {
			err = errors.New("token not valid")
		}
		return domain.TokenClaims{}, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}

	if claims.UserID == "" || claims.Role == "" || claims.ID == "" {
		return domain.TokenClaims{}, fmt.Errorf("%w: missing identity claims", domain.ErrTokenInvalid)
	}

	out := domain.TokenClaims{
		TokenID:   claims.ID,
		UserID:    claims.UserID,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}
