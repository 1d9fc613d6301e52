package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"crossledger/pkg/domain"
	pkgerrors "crossledger/pkg/errors"
)

// Service signs and validates the bearer tokens callers present to the HTTP
// API. The subject claim carries the caller's principal; the ledger performs
// all authorization on that principal, so the token layer only establishes
// who is calling, never what they may do.
type Service struct {
	signingKey []byte
	issuer     string
}

func NewService(signingKey, issuer string) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
	}
}

// GenerateToken issues an HS256 token for the given principal.
func (s *Service) GenerateToken(p domain.Principal, expiresIn time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   p.String(),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    s.issuer,
		ID:        uuid.NewString(),
	})
	return token.SignedString(s.signingKey)
}

// ValidateToken checks the signature and expiry and returns the caller
// principal from the subject claim.
func (s *Service) ValidateToken(tokenString string) (domain.Principal, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Zero, pkgerrors.New(pkgerrors.CodeUnauthorized, "token has expired")
		}
		return domain.Zero, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return domain.Zero, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token claims")
	}

	principal, perr := domain.ParsePrincipal(claims.Subject)
	if perr != nil {
		return domain.Zero, pkgerrors.New(pkgerrors.CodeUnauthorized, "token subject is not a principal")
	}
	return principal, nil
}
