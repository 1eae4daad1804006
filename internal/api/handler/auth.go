package handler

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/certverify-labs/certverify/internal/domain"
)

// AuthService issues gateway sessions
type AuthService interface {
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	Signup(ctx context.Context, email, password, name string) (*domain.Session, error)
}

type AuthHandler struct {
	service AuthService
	logger  *slog.Logger
}

func NewAuthHandler(service AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role"`
}

type sessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

func sessionToResponse(session *domain.Session) sessionResponse {
	return sessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User: userResponse{
			ID:    session.User.ID.String(),
			Email: session.User.Email,
			Name:  session.User.Name,
			Role:  string(session.User.Role),
		},
	}
}

// Login POST /v1/auth/login - authenticate and receive a session token
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	session, err := h.service.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.logger.Info("user logged in",
		slog.String("user_id", session.User.ID.String()),
		slog.String("role", string(session.User.Role)),
	)

	return c.JSON(sessionToResponse(session))
}

// Signup POST /v1/auth/signup - create an account and receive a session token
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	if strings.TrimSpace(req.Name) == "" {
		return domain.ErrValidationFailed.WithError(errors.New("name is required"))
	}

	session, err := h.service.Signup(c.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		return err
	}

	h.logger.Info("user signed up",
		slog.String("user_id", session.User.ID.String()),
	)

	return c.Status(fiber.StatusCreated).JSON(sessionToResponse(session))
}
