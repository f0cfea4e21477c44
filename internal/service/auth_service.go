package service

import (
	"errors"
	"time"

	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/config"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/models"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthService authenticates advisers and issues their tokens.
type AuthService struct {
	cfg         *config.Config
	adviserRepo repository.AdviserRepository
}

// NewAuthService creates the auth service.
func NewAuthService(cfg *config.Config, adviserRepo repository.AdviserRepository) *AuthService {
	return &AuthService{cfg: cfg, adviserRepo: adviserRepo}
}

// HashPassword hashes a password with bcrypt.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword checks a password against its hash.
func (s *AuthService) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// JWTClaims are the adviser token claims.
type JWTClaims struct {
	AdviserID    uint   `json:"adviser_id"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// GenerateJWT issues an HS256 token for an adviser.
func (s *AuthService) GenerateJWT(adviser *models.Adviser) (string, time.Time, error) {
	expiresAt := time.Now().Add(time.Duration(s.cfg.JWT.ExpireHours) * time.Hour)

	claims := JWTClaims{
		AdviserID:    adviser.ID,
		Email:        adviser.Email,
		Role:         adviser.Role,
		TokenVersion: adviser.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseJWT validates a token and returns its claims.
func (s *AuthService) ParseJWT(tokenString string) (*JWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// Login authenticates an adviser by email and password.
func (s *AuthService) Login(email, password string) (*models.Adviser, string, time.Time, error) {
	adviser, err := s.adviserRepo.GetByEmail(email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if adviser == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if err := s.VerifyPassword(adviser.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateJWT(adviser)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return adviser, token, expiresAt, nil
}

// Logout bumps the adviser's token version, invalidating outstanding tokens.
func (s *AuthService) Logout(adviserID uint) error {
	adviser, err := s.adviserRepo.GetByID(adviserID)
	if err != nil {
		return err
	}
	if adviser == nil {
		return ErrAdviserNotFound
	}
	adviser.TokenVersion++
	return s.adviserRepo.Update(adviser)
}

// ValidateClaims checks a parsed token against the stored adviser state.
func (s *AuthService) ValidateClaims(claims *JWTClaims) (*models.Adviser, error) {
	adviser, err := s.adviserRepo.GetByID(claims.AdviserID)
	if err != nil {
		return nil, err
	}
	if adviser == nil || adviser.TokenVersion != claims.TokenVersion {
		return nil, ErrInvalidCredentials
	}
	return adviser, nil
}
