package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/certverify-labs/certverify/internal/domain"
)

// RemoteBackend delegates authentication to the verification backend's
// auth endpoints.
type RemoteBackend struct {
	httpClient *http.Client
	baseURL    string
}

var _ Backend = (*RemoteBackend)(nil)

func NewRemoteBackend(baseURL string, timeout time.Duration) *RemoteBackend {
	return &RemoteBackend{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

func (b *RemoteBackend) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	return b.post(ctx, "/auth/login", map[string]string{
		"email":    normalizeEmail(email),
		"password": password,
	})
}

func (b *RemoteBackend) Signup(ctx context.Context, email, password, name string) (*domain.User, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	return b.post(ctx, "/auth/signup", map[string]string{
		"email":    normalizeEmail(email),
		"password": password,
		"name":     name,
	})
}

func (b *RemoteBackend) post(ctx context.Context, path string, body map[string]string) (*domain.User, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, domain.ErrBackendUnavailable.WithError(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, domain.ErrInvalidCredentials
	case resp.StatusCode == http.StatusConflict:
		return nil, domain.ErrEmailTaken
	case resp.StatusCode >= 400:
		return nil, domain.ErrBackendRejected.WithError(
			fmt.Errorf("auth endpoint returned status %d", resp.StatusCode))
	}

	var user domain.User
	if err := json.Unmarshal(respBody, &user); err != nil {
		return nil, domain.ErrShapeMismatch.WithError(err)
	}
	if !user.Role.Valid() {
		user.Role = domain.RoleUser
	}
	return &user, nil
}
