package auth

import (
	"context"
	"net/mail"
	"strings"

	"github.com/certverify-labs/certverify/internal/domain"
)

// Backend authenticates users. Two variants exist: StubBackend with a
// fixed allow-list plus open signup, and RemoteBackend delegating to the
// verification backend. Callers never depend on which is active.
type Backend interface {
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Signup(ctx context.Context, email, password, name string) (*domain.User, error)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCredentials(email, password string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.ErrValidationFailed.WithError(err)
	}
	if password == "" {
		return domain.ErrValidationFailed
	}
	return nil
}
