package verify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/certverify-labs/certverify/internal/backend"
	"github.com/certverify-labs/certverify/internal/domain"
)

// Result statuses for individual files in a batch.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Notifier receives end-of-run summaries. It is the toast-notification
// seam: the API layer pushes these to clients, tests capture them.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// SlogNotifier logs notifications. Used where no UI channel exists.
type SlogNotifier struct {
	Logger *slog.Logger
}

func (n SlogNotifier) Success(message string) { n.Logger.Info(message) }
func (n SlogNotifier) Error(message string)   { n.Logger.Warn(message) }

// FileResult is the per-file outcome of a batch run. Order matches the
// input order and one entry exists per submitted file.
type FileResult struct {
	Filename     string                     `json:"filename"`
	Status       string                     `json:"status"`
	Error        string                     `json:"error,omitempty"`
	Verification *domain.VerificationResult `json:"result,omitempty"`
	Upload       *backend.UploadResult      `json:"upload,omitempty"`
}

// Summary aggregates a batch run. Unauthorized reports whether any file
// failed because the backend rejected our credentials; per-file errors
// are flattened to strings, so callers cannot recover this from Results.
type Summary struct {
	Results   []FileResult `json:"results"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`

	Unauthorized bool `json:"-"`
}

// Submitter runs batch submissions against the backend. Files are
// submitted one at a time in selection order, so a slow or
// rate-limited backend is never overwhelmed.
// A failure on one file never aborts the rest, and nothing is retried.
type Submitter struct {
	backend  backend.Backend
	notifier Notifier
}

func NewSubmitter(b backend.Backend, notifier Notifier) *Submitter {
	return &Submitter{
		backend:  b,
		notifier: notifier,
	}
}

// VerifyBatch verifies each file sequentially. The returned summary
// always holds exactly one result per input file, in input order.
func (s *Submitter) VerifyBatch(ctx context.Context, files []backend.File, opts backend.VerifyOptions) *Summary {
	summary := &Summary{Results: make([]FileResult, 0, len(files))}

	for _, file := range files {
		entry := FileResult{Filename: file.Name}

		if err := ctx.Err(); err != nil {
			entry.Status = ResultError
			entry.Error = err.Error()
			summary.add(entry)
			continue
		}

		result, err := s.backend.Verify(ctx, file, opts)
		if err != nil {
			entry.Status = ResultError
			entry.Error = err.Error()
			if errors.Is(err, domain.ErrUnauthorized) {
				summary.Unauthorized = true
			}
		} else {
			entry.Status = ResultSuccess
			entry.Verification = result
		}
		summary.add(entry)
	}

	s.notify("verification", summary)
	return summary
}

// UploadBatch uploads each file sequentially with the same isolation
// guarantees as VerifyBatch.
func (s *Submitter) UploadBatch(ctx context.Context, files []backend.File, opts backend.UploadOptions) *Summary {
	summary := &Summary{Results: make([]FileResult, 0, len(files))}

	for _, file := range files {
		entry := FileResult{Filename: file.Name}

		if err := ctx.Err(); err != nil {
			entry.Status = ResultError
			entry.Error = err.Error()
			summary.add(entry)
			continue
		}

		result, err := s.backend.Upload(ctx, file, opts)
		if err != nil {
			entry.Status = ResultError
			entry.Error = err.Error()
			if errors.Is(err, domain.ErrUnauthorized) {
				summary.Unauthorized = true
			}
		} else {
			entry.Status = ResultSuccess
			entry.Upload = result
		}
		summary.add(entry)
	}

	s.notify("upload", summary)
	return summary
}

// VerifyByHash checks a certificate-number/hash pair. Both fields are
// required non-empty.
func (s *Submitter) VerifyByHash(ctx context.Context, certificateNumber, hash string) (*domain.VerificationResult, error) {
	if certificateNumber == "" {
		return nil, domain.ErrValidationFailed.WithError(fmt.Errorf("certificate_number is required"))
	}
	if hash == "" {
		return nil, domain.ErrValidationFailed.WithError(fmt.Errorf("hash is required"))
	}
	return s.backend.VerifyByHash(ctx, certificateNumber, hash)
}

func (summary *Summary) add(entry FileResult) {
	summary.Results = append(summary.Results, entry)
	if entry.Status == ResultSuccess {
		summary.Succeeded++
	} else {
		summary.Failed++
	}
}

func (s *Submitter) notify(kind string, summary *Summary) {
	if s.notifier == nil {
		return
	}
	message := fmt.Sprintf("Batch %s complete: %d succeeded, %d failed", kind, summary.Succeeded, summary.Failed)
	if summary.Failed == 0 {
		s.notifier.Success(message)
	} else {
		s.notifier.Error(message)
	}
}
