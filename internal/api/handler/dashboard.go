package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/certverify-labs/certverify/internal/dashboard"
	"github.com/certverify-labs/certverify/internal/domain"
)

// DashboardHandler serves the aggregated dashboard snapshot
type DashboardHandler struct {
	refresher *dashboard.Refresher
	logger    *slog.Logger
}

func NewDashboardHandler(refresher *dashboard.Refresher, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		refresher: refresher,
		logger:    logger,
	}
}

// Get GET /v1/dashboard - the most recent snapshot
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	snap := h.refresher.Latest(c.Context())
	if snap == nil {
		// First request before the initial poll finished: fetch now.
		fresh, err := h.refresher.Refresh(c.Context())
		if err != nil {
			return domain.ErrBackendUnavailable.WithError(err)
		}
		snap = fresh
	}
	return c.JSON(snap)
}

// Refresh POST /v1/dashboard/refresh - force a new snapshot now
func (h *DashboardHandler) Refresh(c *fiber.Ctx) error {
	snap, err := h.refresher.Refresh(c.Context())
	if err != nil {
		return domain.ErrBackendUnavailable.WithError(err)
	}
	return c.JSON(snap)
}
