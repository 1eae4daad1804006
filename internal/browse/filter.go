package browse

import (
	"strings"
	"time"

	"github.com/certverify-labs/certverify/internal/domain"
)

// Filter narrows a certificate listing. All set criteria must match
// (conjunctive). Zero values mean "no constraint".
type Filter struct {
	// Query matches case-insensitively as a substring of the certificate
	// number, student name or degree.
	Query string
	// Status must equal the certificate status exactly when set.
	Status string
	// Faculty matches case-insensitively as a substring of the faculty.
	Faculty string
	// DateFrom / DateTo bound CreatedAt inclusively. Zero time = unbounded.
	DateFrom time.Time
	DateTo   time.Time
	// ConfidenceMin / ConfidenceMax are percentages (0-100) compared
	// against the stored 0-1 confidence scaled by 100. The full range
	// {0, 100} is treated as no constraint.
	ConfidenceMin float64
	ConfidenceMax float64
}

// NewFilter returns a filter matching everything.
func NewFilter() Filter {
	return Filter{ConfidenceMin: 0, ConfidenceMax: 100}
}

// IsZero reports whether the filter imposes no constraint.
func (f Filter) IsZero() bool {
	return f.Query == "" &&
		f.Status == "" &&
		f.Faculty == "" &&
		f.DateFrom.IsZero() &&
		f.DateTo.IsZero() &&
		!f.constrainsConfidence()
}

func (f Filter) constrainsConfidence() bool {
	return !(f.ConfidenceMin <= 0 && (f.ConfidenceMax >= 100 || f.ConfidenceMax == 0))
}

// Matches reports whether the certificate satisfies every set criterion.
func (f Filter) Matches(c domain.Certificate) bool {
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(c.CertificateNumber), q) &&
			!strings.Contains(strings.ToLower(c.StudentName), q) &&
			!strings.Contains(strings.ToLower(c.Degree), q) {
			return false
		}
	}

	if f.Status != "" && c.Status != f.Status {
		return false
	}

	if f.Faculty != "" &&
		!strings.Contains(strings.ToLower(c.Faculty), strings.ToLower(f.Faculty)) {
		return false
	}

	if !f.DateFrom.IsZero() && c.CreatedAt.Before(f.DateFrom) {
		return false
	}
	if !f.DateTo.IsZero() && c.CreatedAt.After(f.DateTo) {
		return false
	}

	if f.constrainsConfidence() {
		pct := c.Confidence * 100
		if pct < f.ConfidenceMin || pct > f.ConfidenceMax {
			return false
		}
	}

	return true
}

// Apply returns the certificates that match, preserving input order. The
// input slice is never mutated.
func (f Filter) Apply(certs []domain.Certificate) []domain.Certificate {
	out := make([]domain.Certificate, 0, len(certs))
	for _, c := range certs {
		if f.Matches(c) {
			out = append(out, c)
		}
	}
	return out
}
