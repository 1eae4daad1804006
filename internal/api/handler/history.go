package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/certverify-labs/certverify/internal/api/middleware"
	"github.com/certverify-labs/certverify/internal/domain"
	"github.com/certverify-labs/certverify/internal/history"
)

// HistoryHandler serves the caller's own verification history
type HistoryHandler struct {
	service *history.Service
	logger  *slog.Logger
}

func NewHistoryHandler(service *history.Service, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{
		service: service,
		logger:  logger,
	}
}

type historyEntryResponse struct {
	domain.HistoryRecord
	Presentation domain.Presentation `json:"presentation"`
}

// List GET /v1/history - the caller's recent verifications, newest first
func (h *HistoryHandler) List(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	records, err := h.service.List(c.Context(), userID)
	if err != nil {
		return err
	}

	entries := make([]historyEntryResponse, len(records))
	for i, rec := range records {
		entries[i] = historyEntryResponse{
			HistoryRecord: rec,
			Presentation:  domain.Classify(rec.Result.Status),
		}
	}

	return c.JSON(fiber.Map{
		"entries": entries,
		"limit":   h.service.Limit(),
	})
}

// Clear DELETE /v1/history - wipe the caller's history
func (h *HistoryHandler) Clear(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.Clear(c.Context(), userID); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
