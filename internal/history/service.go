package history

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/certverify-labs/certverify/internal/domain"
)

// DefaultLimit is the number of history records kept per user.
const DefaultLimit = 20

// Service maintains the per-user verification history. The history lives
// in the gateway only; the verification backend is never told about it.
type Service struct {
	repo   RepositoryInterface
	limit  int
	logger *slog.Logger
}

func NewService(repo RepositoryInterface, limit int, logger *slog.Logger) *Service {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Service{
		repo:   repo,
		limit:  limit,
		logger: logger,
	}
}

// Record stores the outcome of a verification for a user and trims the
// history to the configured limit. A storage failure is logged but never
// surfaced: losing a history row must not fail the verification itself.
func (s *Service) Record(ctx context.Context, userID uuid.UUID, filename string, size int64, fileType string, result domain.VerificationResult) *domain.HistoryRecord {
	rec := &domain.HistoryRecord{
		ID:       uuid.New(),
		UserID:   userID,
		Filename: filename,
		FileSize: size,
		FileType: fileType,
		Result:   result,
	}

	if err := s.repo.Insert(ctx, rec, s.limit); err != nil {
		s.logger.Error("failed to record verification history",
			slog.String("user_id", userID.String()),
			slog.String("filename", filename),
			slog.String("error", err.Error()),
		)
		return nil
	}
	return rec
}

// List returns the user's history, most recent first, capped at the limit.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]domain.HistoryRecord, error) {
	records, err := s.repo.ListByUser(ctx, userID, s.limit)
	if err != nil {
		return nil, domain.ErrInternal.WithError(err)
	}
	return records, nil
}

// Clear wipes the user's history.
func (s *Service) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return domain.ErrInternal.WithError(err)
	}
	return nil
}

// Limit reports the configured per-user cap.
func (s *Service) Limit() int {
	return s.limit
}
