package browse

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/certverify-labs/certverify/internal/domain"
)

// SortKey names a sortable certificate column.
type SortKey string

const (
	SortByCertificateNumber SortKey = "certificate_number"
	SortByStudentName       SortKey = "student_name"
	SortByDegree            SortKey = "degree"
	SortByFaculty           SortKey = "faculty"
	SortByStatus            SortKey = "status"
	SortByConfidence        SortKey = "confidence"
	SortByCreatedAt         SortKey = "created_at"
)

// Order is a single-key sort direction.
type Order struct {
	Key        SortKey
	Descending bool
}

// Sorter orders certificates with locale-aware string comparison.
type Sorter struct {
	collator *collate.Collator
}

// NewSorter builds a sorter for the given locale tag. An unknown or empty
// tag falls back to English collation.
func NewSorter(tag string) *Sorter {
	t, err := language.Parse(tag)
	if err != nil {
		t = language.English
	}
	return &Sorter{collator: collate.New(t, collate.IgnoreCase)}
}

// Sort orders certs in place by the given order. The sort is stable so
// re-sorting by another key keeps prior relative order among equals.
func (s *Sorter) Sort(certs []domain.Certificate, order Order) {
	less := s.lessFunc(order.Key)
	if less == nil {
		return
	}
	sort.SliceStable(certs, func(i, j int) bool {
		if order.Descending {
			return less(certs[j], certs[i])
		}
		return less(certs[i], certs[j])
	})
}

func (s *Sorter) lessFunc(key SortKey) func(a, b domain.Certificate) bool {
	str := func(get func(domain.Certificate) string) func(a, b domain.Certificate) bool {
		return func(a, b domain.Certificate) bool {
			return s.collator.CompareString(get(a), get(b)) < 0
		}
	}

	switch key {
	case SortByCertificateNumber:
		return str(func(c domain.Certificate) string { return c.CertificateNumber })
	case SortByStudentName:
		return str(func(c domain.Certificate) string { return c.StudentName })
	case SortByDegree:
		return str(func(c domain.Certificate) string { return c.Degree })
	case SortByFaculty:
		return str(func(c domain.Certificate) string { return c.Faculty })
	case SortByStatus:
		return str(func(c domain.Certificate) string { return c.Status })
	case SortByConfidence:
		return func(a, b domain.Certificate) bool { return a.Confidence < b.Confidence }
	case SortByCreatedAt:
		return func(a, b domain.Certificate) bool { return a.CreatedAt.Before(b.CreatedAt) }
	default:
		return nil
	}
}
