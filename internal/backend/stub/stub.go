package stub

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/certverify-labs/certverify/internal/backend"
	"github.com/certverify-labs/certverify/internal/domain"
)

// Backend implements backend.Backend for development and tests. Results
// are deterministic: they derive from the SHA-256 of the file content,
// and filename markers ("fail", "corrupt", "nohash") force the matching
// failure status.
type Backend struct {
	mu           sync.RWMutex
	certificates map[string]domain.Certificate
	events       map[string][]domain.CertificateEvent
	ledger       []domain.LedgerEntry
	verified     int64
	failed       int64
}

var _ backend.Backend = (*Backend)(nil)

func New() *Backend {
	return &Backend{
		certificates: make(map[string]domain.Certificate),
		events:       make(map[string][]domain.CertificateEvent),
	}
}

func (b *Backend) Health(ctx context.Context) error {
	return nil
}

func (b *Backend) SystemHealth(ctx context.Context) (*domain.SystemHealth, error) {
	return &domain.SystemHealth{
		Status: "healthy",
		Components: map[string]string{
			"ocr":    "up",
			"ledger": "up",
			"hasher": "up",
		},
	}, nil
}

func (b *Backend) Statistics(ctx context.Context) (*domain.Statistics, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	stats := &domain.Statistics{
		TotalCertificates: int64(len(b.certificates)),
		TotalVerified:     b.verified,
		TotalFailed:       b.failed,
	}
	if total := b.verified + b.failed; total > 0 {
		stats.AvgConfidence = float64(b.verified) / float64(total)
	}
	return stats, nil
}

func (b *Backend) LedgerStatistics(ctx context.Context) (*domain.LedgerStatistics, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	stats := &domain.LedgerStatistics{
		TotalEntries:  int64(len(b.ledger)),
		ChainValid:    true,
		LastValidated: time.Now().UTC(),
	}
	if len(b.ledger) > 0 {
		stats.LastEntryAt = b.ledger[len(b.ledger)-1].Timestamp
	}
	return stats, nil
}

func (b *Backend) LedgerIntegrity(ctx context.Context) (*domain.LedgerIntegrity, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return &domain.LedgerIntegrity{
		Valid:       true,
		TotalBlocks: int64(len(b.ledger)),
		CheckedAt:   time.Now().UTC(),
	}, nil
}

func (b *Backend) ValidateLedger(ctx context.Context) (*domain.LedgerIntegrity, error) {
	return b.LedgerIntegrity(ctx)
}

func (b *Backend) LedgerEntries(ctx context.Context, limit, offset int) ([]domain.LedgerEntry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if offset >= len(b.ledger) {
		return []domain.LedgerEntry{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(b.ledger) {
		end = len(b.ledger)
	}

	page := make([]domain.LedgerEntry, end-offset)
	copy(page, b.ledger[offset:end])
	return page, nil
}

func (b *Backend) Upload(ctx context.Context, file backend.File, opts backend.UploadOptions) (*backend.UploadResult, error) {
	if len(file.Data) == 0 {
		return nil, domain.ErrInvalidFile
	}

	digest := digestOf(file.Data)
	certNo := certNumberOf(digest)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.certificates[certNo] = domain.Certificate{
		ID:                digest[:16],
		CertificateNumber: certNo,
		Status:            domain.StatusVerified,
		Confidence:        confidenceOf(digest),
		Hash:              digest,
		CreatedAt:         time.Now().UTC(),
	}
	b.appendEntry(certNo, "ISSUE", digest)
	b.events[certNo] = append(b.events[certNo], domain.CertificateEvent{
		Timestamp: time.Now().UTC(),
		Action:    "uploaded",
		Details:   file.Name,
	})

	result := &backend.UploadResult{
		CertificateNumber: certNo,
		Message:           "Certificate processed",
		DownloadID:        digest[:16],
	}
	if opts.EmbedHash || opts.UseChecksum {
		result.Hash = digest
	}
	return result, nil
}

func (b *Backend) Verify(ctx context.Context, file backend.File, opts backend.VerifyOptions) (*domain.VerificationResult, error) {
	if len(file.Data) == 0 {
		return nil, domain.ErrInvalidFile
	}

	digest := digestOf(file.Data)
	status := statusFor(file.Name)

	result := &domain.VerificationResult{
		Status:           status,
		Confidence:       confidenceOf(digest),
		Hash:             digest,
		ExtractionMethod: "hash",
	}

	switch status {
	case domain.StatusVerified:
		result.Message = "Certificate verified"
		result.CertificateNumber = certNumberOf(digest)
	case domain.StatusVerifiedByData:
		result.Message = "Certificate verified through data matching"
		result.CertificateNumber = certNumberOf(digest)
		result.ExtractionMethod = "ocr"
		score := result.Confidence
		result.SimilarityScore = &score
	case domain.StatusNoHash:
		result.Message = "No embedded hash found"
		result.Hash = ""
		result.Confidence = 0
	case domain.StatusCorruptedHash:
		result.Message = "Embedded hash is corrupted"
		result.Confidence = 0.1
	default:
		result.Message = "Certificate could not be verified"
		result.Confidence = 0.05
	}

	if opts.UseEnhancedExtraction && result.CertificateNumber != "" {
		result.CertificateData = map[string]string{
			"certificate_number": result.CertificateNumber,
		}
	}

	b.record(result)
	return result, nil
}

func (b *Backend) VerifyByHash(ctx context.Context, certificateNumber, hash string) (*domain.VerificationResult, error) {
	if certificateNumber == "" || hash == "" {
		return nil, domain.ErrValidationFailed
	}

	b.mu.RLock()
	cert, ok := b.certificates[certificateNumber]
	b.mu.RUnlock()

	result := &domain.VerificationResult{
		CertificateNumber: certificateNumber,
		Hash:              hash,
		ExtractionMethod:  "hash",
	}
	if ok && strings.EqualFold(cert.Hash, hash) {
		result.Status = domain.StatusVerified
		result.Confidence = 1.0
		result.Message = "Certificate verified"
	} else {
		result.Status = domain.StatusFailed
		result.Confidence = 0
		result.Message = "Hash does not match any registered certificate"
	}

	b.record(result)
	return result, nil
}

func (b *Backend) ListCertificates(ctx context.Context) ([]domain.Certificate, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]domain.Certificate, 0, len(b.certificates))
	for _, cert := range b.certificates {
		out = append(out, cert)
	}
	return out, nil
}

func (b *Backend) DeleteCertificate(ctx context.Context, certificateNumber string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	cert, ok := b.certificates[certificateNumber]
	if !ok {
		return domain.ErrCertificateNotFound
	}
	delete(b.certificates, certificateNumber)
	b.appendEntry(certificateNumber, "REVOKE", cert.Hash)
	return nil
}

func (b *Backend) CertificateHistory(ctx context.Context, certificateNumber string) ([]domain.CertificateEvent, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	events, ok := b.events[certificateNumber]
	if !ok {
		return nil, domain.ErrCertificateNotFound
	}
	out := make([]domain.CertificateEvent, len(events))
	copy(out, events)
	return out, nil
}

func (b *Backend) DownloadCertificate(ctx context.Context, id string) (*backend.Download, error) {
	return &backend.Download{
		Filename:    fmt.Sprintf("certificate-%s.png", id),
		ContentType: "image/png",
		Data:        []byte("stub certificate " + id),
	}, nil
}

func (b *Backend) DownloadBulk(ctx context.Context, ids []string) (*backend.Download, error) {
	return &backend.Download{
		Filename:    "certificates.zip",
		ContentType: "application/zip",
		Data:        []byte("stub archive: " + strings.Join(ids, ",")),
	}, nil
}

// record updates counters and appends a ledger entry under lock.
func (b *Backend) record(result *domain.VerificationResult) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if domain.Classify(result.Status).Tier == domain.TierSuccess {
		b.verified++
	} else {
		b.failed++
	}
	b.appendEntry(result.CertificateNumber, "VERIFY", result.Hash)
}

// appendEntry assumes b.mu is held.
func (b *Backend) appendEntry(certNo, operation, hash string) {
	previous := ""
	if len(b.ledger) > 0 {
		previous = b.ledger[len(b.ledger)-1].Hash
	}
	b.ledger = append(b.ledger, domain.LedgerEntry{
		Index:             int64(len(b.ledger)),
		CertificateNumber: certNo,
		Operation:         operation,
		Hash:              hash,
		PreviousHash:      previous,
		Timestamp:         time.Now().UTC(),
	})
}

func digestOf(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func certNumberOf(digest string) string {
	return "CERT-" + strings.ToUpper(digest[:8])
}

// confidenceOf maps the first digest byte into [0.80, 1.0] so stub
// confidences look plausible but stay deterministic per file.
func confidenceOf(digest string) float64 {
	raw, err := hex.DecodeString(digest[:2])
	if err != nil || len(raw) == 0 {
		return 0.9
	}
	return 0.80 + float64(raw[0])/255*0.20
}

func statusFor(filename string) string {
	name := strings.ToLower(filename)
	switch {
	case strings.Contains(name, "corrupt"):
		return domain.StatusCorruptedHash
	case strings.Contains(name, "nohash"):
		return domain.StatusNoHash
	case strings.Contains(name, "fail"):
		return domain.StatusFailed
	case strings.Contains(name, "scan"):
		return domain.StatusVerifiedByData
	default:
		return domain.StatusVerified
	}
}
