package domain

import "time"

// Certificate is a record in the backend's certificate registry, as
// returned by the listing endpoint and browsed client-side.
type Certificate struct {
	ID                string    `json:"id"`
	CertificateNumber string    `json:"certificate_number"`
	StudentName       string    `json:"student_name"`
	Degree            string    `json:"degree"`
	Faculty           string    `json:"faculty"`
	Status            string    `json:"status"`
	Confidence        float64   `json:"confidence"`
	Hash              string    `json:"hash,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// CertificateEvent is one entry in a certificate's audit trail.
type CertificateEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Actor     string    `json:"actor,omitempty"`
	Details   string    `json:"details,omitempty"`
}

// LedgerEntry is a read-only view of one transaction in the backend's
// append-only ledger. The gateway never writes to the ledger.
type LedgerEntry struct {
	Index             int64     `json:"index"`
	CertificateNumber string    `json:"certificate_number"`
	Operation         string    `json:"operation"`
	Hash              string    `json:"hash"`
	PreviousHash      string    `json:"previous_hash"`
	Timestamp         time.Time `json:"timestamp"`
}

// LedgerIntegrity summarizes the backend's self-check of its ledger.
type LedgerIntegrity struct {
	Valid       bool      `json:"valid"`
	TotalBlocks int64     `json:"total_blocks"`
	BrokenAt    *int64    `json:"broken_at,omitempty"`
	CheckedAt   time.Time `json:"checked_at"`
}

// Statistics is the backend's aggregate certificate counters.
type Statistics struct {
	TotalCertificates int64   `json:"total_certificates"`
	TotalVerified     int64   `json:"total_verified"`
	TotalFailed       int64   `json:"total_failed"`
	AvgConfidence     float64 `json:"avg_confidence"`
}

// LedgerStatistics is the backend's aggregate ledger counters.
type LedgerStatistics struct {
	TotalEntries  int64     `json:"total_entries"`
	LastEntryAt   time.Time `json:"last_entry_at"`
	ChainValid    bool      `json:"chain_valid"`
	LastValidated time.Time `json:"last_validated"`
}

// SystemHealth is the backend's component health report.
type SystemHealth struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components,omitempty"`
}
