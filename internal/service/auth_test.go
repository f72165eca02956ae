package service

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/blazestudiox/coldforge/api/internal/auth"
)

func TestAdminAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	svc := NewAdminAuthService("admin@example.com", string(hash), jwtManager)

	token, err := svc.Login(context.Background(), "admin@example.com", "correct horse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims, err := jwtManager.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Role != "admin" || claims.Email() != "admin@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, err := svc.Login(context.Background(), "admin@example.com", "wrong"); err == nil {
		t.Fatal("expected error for bad password")
	}
	if _, err := svc.Login(context.Background(), "other@example.com", "correct horse"); err == nil {
		t.Fatal("expected error for unknown email")
	}
	if _, err := svc.Login(context.Background(), "", ""); err == nil {
		t.Fatal("expected error for empty credentials")
	}
}

func TestAdminAuthService_NotConfigured(t *testing.T) {
	svc := NewAdminAuthService("", "", auth.NewJWTManager("s", time.Hour))

	_, err := svc.Login(context.Background(), "admin@example.com", "password")
	if err == nil || err.Error() != "admin account is not configured" {
		t.Fatalf("unexpected error: %v", err)
	}
}
