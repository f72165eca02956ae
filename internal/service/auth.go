package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/blazestudiox/coldforge/api/internal/auth"
)

// AdminAuthService validates the single operator account and issues JWTs
// for the admin surface. Credentials come from configuration, not the
// database; there is exactly one admin.
type AdminAuthService struct {
	email        string
	passwordHash string
	jwt          *auth.JWTManager
}

// NewAdminAuthService constructs the service from the configured admin
// email and bcrypt password hash.
func NewAdminAuthService(email, passwordHash string, jwtManager *auth.JWTManager) *AdminAuthService {
	return &AdminAuthService{email: email, passwordHash: passwordHash, jwt: jwtManager}
}

// Login validates credentials and returns a JWT with the admin role.
func (s *AdminAuthService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", errors.New("email and password must not be empty")
	}
	if s.email == "" || s.passwordHash == "" {
		return "", errors.New("admin account is not configured")
	}

	if email != s.email {
		return "", errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return "", errors.New("invalid credentials")
	}

	token, err := s.jwt.GenerateToken(email, "admin")
	if err != nil {
		return "", err
	}
	return token, nil
}
