package service

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/escalation-service/internal/auth"
	"github.com/spec-kit/escalation-service/internal/config"
	apperrors "github.com/spec-kit/escalation-service/pkg/util/errorutil"
)

// AuthService validates the single configured operator credential and issues
// bearer tokens for the mutating routes. Account management is deliberately
// absent; the credential lives in configuration.
type AuthService struct {
	cfg    config.AuthConfig
	tokens *auth.TokenManager
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.AuthConfig) *AuthService {
	return &AuthService{
		cfg:    cfg,
		tokens: auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
	}
}

// TokenManager exposes the manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// Login verifies the operator credential and returns a signed token.
func (s *AuthService) Login(username, password string) (string, time.Time, error) {
	if s.cfg.OperatorPasswordHash == "" {
		return "", time.Time{}, apperrors.NewUnauthorized("operator login not configured")
	}
	if strings.TrimSpace(username) != s.cfg.OperatorUsername {
		return "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.OperatorPasswordHash), []byte(password)); err != nil {
		return "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	return s.tokens.GenerateToken(s.cfg.OperatorUsername)
}
