package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/certverify-labs/certverify/internal/domain"
)

type stubAccount struct {
	user     domain.User
	password string
}

// StubBackend validates against a fixed allow-list and accepts any
// well-formed email/password pair as a new user-role account. Passwords
// are stored in plain text in memory: this backend exists for demos and
// development only and must never guard real data.
type StubBackend struct {
	mu       sync.RWMutex
	accounts map[string]stubAccount
}

var _ Backend = (*StubBackend)(nil)

func NewStubBackend() *StubBackend {
	b := &StubBackend{accounts: make(map[string]stubAccount)}
	b.seed("admin@certverify.io", "admin123", "Administrator", domain.RoleAdmin)
	b.seed("user@certverify.io", "user123", "Demo User", domain.RoleUser)
	return b
}

func (b *StubBackend) seed(email, password, name string, role domain.Role) {
	b.accounts[email] = stubAccount{
		user: domain.User{
			ID:        uuid.NewSHA1(uuid.NameSpaceOID, []byte(email)),
			Email:     email,
			Name:      name,
			Role:      role,
			CreatedAt: time.Now().UTC(),
		},
		password: password,
	}
}

func (b *StubBackend) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	b.mu.RLock()
	account, ok := b.accounts[normalizeEmail(email)]
	b.mu.RUnlock()

	if !ok || account.password != password {
		return nil, domain.ErrInvalidCredentials
	}
	user := account.user
	return &user, nil
}

func (b *StubBackend) Signup(ctx context.Context, email, password, name string) (*domain.User, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	key := normalizeEmail(email)

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.accounts[key]; exists {
		return nil, domain.ErrEmailTaken
	}

	user := domain.User{
		ID:        uuid.New(),
		Email:     key,
		Name:      name,
		Role:      domain.RoleUser,
		CreatedAt: time.Now().UTC(),
	}
	b.accounts[key] = stubAccount{user: user, password: password}
	return &user, nil
}
