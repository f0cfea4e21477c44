package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/config"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/constants"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/models"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Adviser{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	cfg := &config.Config{
		JWT: config.JWTConfig{
			SecretKey:   "unit-test-signing-key-0123456789abcdef",
			ExpireHours: 24,
		},
	}
	return NewAuthService(cfg, repository.NewAdviserRepository(db)), db
}

func createTestAdviser(t *testing.T, svc *AuthService, db *gorm.DB, email, password string) *models.Adviser {
	t.Helper()
	hash, err := svc.HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	adviser := &models.Adviser{
		FullName:     "Test Adviser",
		Email:        email,
		PasswordHash: hash,
		Role:         constants.AdviserRoleManagement,
	}
	if err := db.Create(adviser).Error; err != nil {
		t.Fatalf("failed to create adviser: %v", err)
	}
	return adviser
}

func TestAuthLoginSuccess(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	createTestAdviser(t, svc, db, "ana@example.com", "correct-horse")

	adviser, token, expiresAt, err := svc.Login("ana@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if adviser.Email != "ana@example.com" {
		t.Fatalf("unexpected adviser: %s", adviser.Email)
	}
	if token == "" {
		t.Fatalf("expected a token")
	}
	if !expiresAt.After(time.Now().Add(23 * time.Hour)) {
		t.Fatalf("expected ~24h expiry, got %s", expiresAt)
	}
}

func TestAuthLoginWrongPassword(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	createTestAdviser(t, svc, db, "ana@example.com", "correct-horse")

	if _, _, _, err := svc.Login("ana@example.com", "battery-staple"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthLoginUnknownEmail(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)

	if _, _, _, err := svc.Login("nobody@example.com", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthTokenRoundtrip(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	adviser := createTestAdviser(t, svc, db, "ana@example.com", "correct-horse")

	_, token, _, err := svc.Login("ana@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.AdviserID != adviser.ID || claims.Email != adviser.Email {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if claims.Role != constants.AdviserRoleManagement {
		t.Fatalf("unexpected role: %s", claims.Role)
	}

	validated, err := svc.ValidateClaims(claims)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if validated.ID != adviser.ID {
		t.Fatalf("validated wrong adviser: %d", validated.ID)
	}
}

func TestAuthParseRejectsTamperedToken(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	createTestAdviser(t, svc, db, "ana@example.com", "correct-horse")

	_, token, _, err := svc.Login("ana@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if _, err := svc.ParseJWT(token + "x"); err == nil {
		t.Fatalf("expected parse error for tampered token")
	}
}

func TestAuthLogoutInvalidatesOutstandingTokens(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	adviser := createTestAdviser(t, svc, db, "ana@example.com", "correct-horse")

	_, token, _, err := svc.Login("ana@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if err := svc.Logout(adviser.ID); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := svc.ValidateClaims(claims); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected stale token rejection, got %v", err)
	}

	// A fresh login works and carries the bumped version.
	_, fresh, _, err := svc.Login("ana@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("relogin failed: %v", err)
	}
	freshClaims, err := svc.ParseJWT(fresh)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if _, err := svc.ValidateClaims(freshClaims); err != nil {
		t.Fatalf("fresh token should validate: %v", err)
	}
}

func TestAuthLogoutUnknownAdviser(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)

	if err := svc.Logout(999); !errors.Is(err, ErrAdviserNotFound) {
		t.Fatalf("expected ErrAdviserNotFound, got %v", err)
	}
}
