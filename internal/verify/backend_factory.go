package verify

import (
	"fmt"

	"github.com/certverify-labs/certverify/internal/backend"
	"github.com/certverify-labs/certverify/internal/backend/remote"
	"github.com/certverify-labs/certverify/internal/backend/stub"
	"github.com/certverify-labs/certverify/internal/config"
)

// BackendMode defines supported verification backend modes
type BackendMode string

const (
	// BackendModeRemote is the real verification backend over HTTP (prod)
	BackendModeRemote BackendMode = "remote"
	// BackendModeStub is the deterministic in-memory backend (dev/test)
	BackendModeStub BackendMode = "stub"
)

// NewBackend creates a Backend instance based on configuration.
//
// Environment variables:
//   - BACKEND_MODE: "remote" or "stub" (default: "remote")
//   - BACKEND_URL: verification backend base URL (default: "http://localhost:8000/api/v1")
//   - BACKEND_TIMEOUT: per-request timeout (default: 40s)
func NewBackend(cfg *config.Config, token remote.TokenSource) (backend.Backend, error) {
	mode := BackendMode(cfg.BackendMode)

	switch mode {
	case BackendModeStub:
		return stub.New(), nil

	case BackendModeRemote, "":
		return createRemoteBackend(cfg, token), nil

	default:
		return nil, fmt.Errorf("unknown backend mode: %s (supported: %s, %s)",
			cfg.BackendMode, BackendModeRemote, BackendModeStub)
	}
}

func createRemoteBackend(cfg *config.Config, token remote.TokenSource) backend.Backend {
	remoteConfig := remote.Config{
		BaseURL: cfg.BackendURL,
		Timeout: cfg.BackendTimeout,
		Token:   token,
	}

	if remoteConfig.BaseURL == "" {
		remoteConfig.BaseURL = remote.DefaultConfig().BaseURL
	}

	return remote.NewClient(remoteConfig)
}
