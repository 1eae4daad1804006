package domain

import (
	"time"

	"github.com/google/uuid"
)

// VerificationResult is the outcome of a single certificate check as
// reported by the verification backend. Field names follow the backend
// wire contract.
type VerificationResult struct {
	Status            string            `json:"verification_status"`
	Confidence        float64           `json:"confidence"`
	Message           string            `json:"message"`
	CertificateData   map[string]string `json:"certificate_data,omitempty"`
	Hash              string            `json:"hash,omitempty"`
	SimilarityScore   *float64          `json:"similarity_score,omitempty"`
	ExtractionMethod  string            `json:"extraction_method,omitempty"`
	CertificateNumber string            `json:"certificate_number,omitempty"`
}

// ClampedConfidence returns the confidence normalized into [0, 1].
// Values outside the range are a backend contract violation; they are
// clamped at decode time rather than rejected.
func (r *VerificationResult) ClampedConfidence() float64 {
	return ClampConfidence(r.Confidence)
}

// ConfidencePercent returns the clamped confidence as a 0-100 value.
func (r *VerificationResult) ConfidencePercent() float64 {
	return r.ClampedConfidence() * 100
}

func ClampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// HistoryRecord wraps a VerificationResult with file metadata for the
// per-user verification history. History is gateway-local: it is not
// synced back to the verification backend.
type HistoryRecord struct {
	ID          uuid.UUID          `json:"id"`
	UserID      uuid.UUID          `json:"-"`
	Filename    string             `json:"filename"`
	FileSize    int64              `json:"fileSize"`
	FileType    string             `json:"fileType"`
	ProcessedAt time.Time          `json:"processed_at"`
	Result      VerificationResult `json:"result"`
}
