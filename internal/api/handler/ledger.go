package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/certverify-labs/certverify/internal/backend"
)

const (
	defaultLedgerPageSize = 50
	maxLedgerPageSize     = 500
)

// LedgerHandler exposes the backend's append-only ledger, read-only
type LedgerHandler struct {
	backend backend.Backend
	logger  *slog.Logger
}

func NewLedgerHandler(b backend.Backend, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{
		backend: b,
		logger:  logger,
	}
}

// Entries GET /v1/ledger/entries?limit=&offset= - paginated ledger view
func (h *LedgerHandler) Entries(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultLedgerPageSize)
	if limit <= 0 || limit > maxLedgerPageSize {
		limit = defaultLedgerPageSize
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	entries, err := h.backend.LedgerEntries(c.Context(), limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"entries": entries,
		"limit":   limit,
		"offset":  offset,
	})
}

// Integrity GET /v1/ledger/integrity - the backend's last self-check
func (h *LedgerHandler) Integrity(c *fiber.Ctx) error {
	integrity, err := h.backend.LedgerIntegrity(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(integrity)
}

// Validate POST /v1/ledger/validate - trigger a full chain validation (admin only)
func (h *LedgerHandler) Validate(c *fiber.Ctx) error {
	integrity, err := h.backend.ValidateLedger(c.Context())
	if err != nil {
		return err
	}

	h.logger.Info("ledger validation requested",
		slog.Bool("valid", integrity.Valid),
		slog.Int64("total_blocks", integrity.TotalBlocks),
	)

	return c.JSON(integrity)
}
