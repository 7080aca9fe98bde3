package auth

import (
	"errors"
	"strings"
)

const RoleStaff = "staff"

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("insufficient permissions")
)

type Claims struct {
	Subject string
	Role    string
}

type TokenService interface {
	GenerateToken(subject, role string) (string, error)
	ParseToken(token string) (*Claims, error)
}

// Service checks bearer tokens for the staff-only endpoints. Tokens are
// minted out of band with the shared secret.
type Service struct {
	tokens TokenService
}

func NewService(tokens TokenService) *Service {
	return &Service{tokens: tokens}
}

// Authorize parses an Authorization header value and requires one of roles.
func (s *Service) Authorize(header string, roles ...string) (*Claims, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := s.tokens.ParseToken(raw)
	if err != nil || claims == nil {
		return nil, ErrUnauthenticated
	}
	for _, role := range roles {
		if claims.Role == role {
			return claims, nil
		}
	}
	return nil, ErrForbidden
}
