package backend

import (
	"context"

	"github.com/certverify-labs/certverify/internal/domain"
)

// File is a certificate document submitted for processing.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// UploadOptions are the processing flags accepted by the upload endpoint.
type UploadOptions struct {
	EmbedHash     bool   `json:"embed_hash"`
	AddWatermark  bool   `json:"add_watermark"`
	WatermarkText string `json:"watermark_text,omitempty"`
	UseChecksum   bool   `json:"use_checksum"`
}

// VerifyOptions are the flags accepted by the verify endpoint.
type VerifyOptions struct {
	UseEnhancedExtraction bool `json:"use_enhanced_extraction"`
	CheckDatabase         bool `json:"check_database"`
}

// UploadResult is the backend's response to a processed upload.
type UploadResult struct {
	CertificateNumber string `json:"certificate_number"`
	Hash              string `json:"hash,omitempty"`
	Message           string `json:"message,omitempty"`
	DownloadID        string `json:"download_id,omitempty"`
}

// Download is a processed certificate document fetched back from the
// backend.
type Download struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Backend is the contract with the external verification service. The
// hard work (hash embedding, OCR, ledger integrity, watermarking) lives
// behind it; the gateway consumes it as opaque calls.
type Backend interface {
	Health(ctx context.Context) error
	SystemHealth(ctx context.Context) (*domain.SystemHealth, error)

	Statistics(ctx context.Context) (*domain.Statistics, error)
	LedgerStatistics(ctx context.Context) (*domain.LedgerStatistics, error)
	LedgerIntegrity(ctx context.Context) (*domain.LedgerIntegrity, error)
	ValidateLedger(ctx context.Context) (*domain.LedgerIntegrity, error)
	LedgerEntries(ctx context.Context, limit, offset int) ([]domain.LedgerEntry, error)

	Upload(ctx context.Context, file File, opts UploadOptions) (*UploadResult, error)
	Verify(ctx context.Context, file File, opts VerifyOptions) (*domain.VerificationResult, error)
	VerifyByHash(ctx context.Context, certificateNumber, hash string) (*domain.VerificationResult, error)

	ListCertificates(ctx context.Context) ([]domain.Certificate, error)
	DeleteCertificate(ctx context.Context, certificateNumber string) error
	CertificateHistory(ctx context.Context, certificateNumber string) ([]domain.CertificateEvent, error)

	DownloadCertificate(ctx context.Context, id string) (*Download, error)
	DownloadBulk(ctx context.Context, ids []string) (*Download, error)
}
