package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/certverify-labs/certverify/internal/domain"
)

// Service ties an auth backend to token issuance.
type Service struct {
	backend Backend
	jwt     *JWTService
	logger  *slog.Logger
}

func NewService(backend Backend, jwt *JWTService, logger *slog.Logger) *Service {
	return &Service{
		backend: backend,
		jwt:     jwt,
		logger:  logger,
	}
}

func (s *Service) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	user, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *Service) Signup(ctx context.Context, email, password, name string) (*domain.Session, error) {
	user, err := s.backend.Signup(ctx, email, password, name)
	if err != nil {
		return nil, err
	}
	s.logger.Info("account created", "email", user.Email, "role", user.Role)
	return s.issue(user)
}

func (s *Service) issue(user *domain.User) (*domain.Session, error) {
	token, expiresAt, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}
	return &domain.Session{
		User:      *user,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
