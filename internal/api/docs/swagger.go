package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// SessionResponse represents a successful login or signup
type SessionResponse struct {
	Token     string       `json:"token" example:"eyJhbGciOiJIUzI1NiJ9..."`
	ExpiresAt string       `json:"expires_at" example:"2026-03-01T12:00:00Z"`
	User      UserResponse `json:"user"`
}

// UserResponse represents the authenticated user
type UserResponse struct {
	ID    string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Email string `json:"email" example:"user@certverify.io"`
	Name  string `json:"name" example:"Regular User"`
	Role  string `json:"role" example:"user"`
}

// UploadResponse represents a processed certificate upload
type UploadResponse struct {
	CertificateNumber string `json:"certificate_number" example:"CERT-AB12CD34"`
	Hash              string `json:"hash,omitempty" example:"9f86d081884c7d65..."`
	Message           string `json:"message,omitempty" example:"certificate registered"`
	DownloadID        string `json:"download_id,omitempty" example:"dl-123"`
}

// VerificationResponse represents one verification outcome
type VerificationResponse struct {
	Result       VerificationResultData `json:"result"`
	Presentation PresentationData       `json:"presentation"`
}

// VerificationResultData is the backend's verification verdict
type VerificationResultData struct {
	VerificationStatus string  `json:"verification_status" example:"VERIFIED"`
	Confidence         float64 `json:"confidence" example:"0.97"`
	Hash               string  `json:"hash,omitempty" example:"9f86d081884c7d65..."`
	SimilarityScore    float64 `json:"similarity_score,omitempty" example:"0.99"`
	ExtractionMethod   string  `json:"extraction_method,omitempty" example:"embedded_hash"`
	CertificateNumber  string  `json:"certificate_number,omitempty" example:"CERT-AB12CD34"`
}

// PresentationData is the display classification of a status
type PresentationData struct {
	Tier         string `json:"tier" example:"success"`
	ColorClass   string `json:"color_class" example:"text-green-600"`
	Icon         string `json:"icon" example:"check-circle"`
	DisplayLabel string `json:"display_label" example:"Verified"`
	HelpText     string `json:"help_text" example:"Certificate hash matches the registry."`
}

// BatchSummaryResponse aggregates a batch submission
type BatchSummaryResponse struct {
	Results   []BatchFileResult `json:"results"`
	Succeeded int               `json:"succeeded" example:"4"`
	Failed    int               `json:"failed" example:"1"`
}

// BatchFileResult is the per-file outcome in a batch
type BatchFileResult struct {
	Filename string `json:"filename" example:"diploma.pdf"`
	Status   string `json:"status" example:"success"`
	Error    string `json:"error,omitempty" example:"backend unavailable"`
}

// PageResponse is one page of the certificate listing
type PageResponse struct {
	Items      []CertificateData `json:"items"`
	Number     int               `json:"page" example:"1"`
	TotalPages int               `json:"total_pages" example:"3"`
	TotalItems int               `json:"total_items" example:"25"`
}

// CertificateData represents one registry entry
type CertificateData struct {
	ID                string  `json:"id" example:"cert-1"`
	CertificateNumber string  `json:"certificate_number" example:"CERT-AB12CD34"`
	StudentName       string  `json:"student_name" example:"Alice Almeida"`
	Degree            string  `json:"degree" example:"Computer Science"`
	Faculty           string  `json:"faculty" example:"Engineering"`
	Status            string  `json:"status" example:"VERIFIED"`
	Confidence        float64 `json:"confidence" example:"0.97"`
	CreatedAt         string  `json:"created_at" example:"2026-03-01T12:00:00Z"`
}

// HistoryResponse is the caller's recent verification history
type HistoryResponse struct {
	Entries []HistoryEntryData `json:"entries"`
	Limit   int                `json:"limit" example:"20"`
}

// HistoryEntryData is one remembered verification
type HistoryEntryData struct {
	ID           string                 `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Filename     string                 `json:"filename" example:"diploma.pdf"`
	FileSize     int64                  `json:"fileSize" example:"204800"`
	FileType     string                 `json:"fileType" example:"application/pdf"`
	ProcessedAt  string                 `json:"processed_at" example:"2026-03-01T12:00:00Z"`
	Result       VerificationResultData `json:"result"`
	Presentation PresentationData       `json:"presentation"`
}

// DashboardResponse aggregates the dashboard sections
type DashboardResponse struct {
	Statistics       *StatisticsData       `json:"statistics,omitempty"`
	LedgerStatistics *LedgerStatisticsData `json:"ledger_statistics,omitempty"`
	LedgerIntegrity  *LedgerIntegrityData  `json:"ledger_integrity,omitempty"`
	SystemHealth     *SystemHealthData     `json:"system_health,omitempty"`
	Errors           map[string]string     `json:"errors,omitempty"`
	FetchedAt        string                `json:"fetched_at" example:"2026-03-01T12:00:00Z"`
}

// StatisticsData contains aggregate certificate counters
type StatisticsData struct {
	TotalCertificates int64   `json:"total_certificates" example:"1500"`
	TotalVerified     int64   `json:"total_verified" example:"1350"`
	TotalFailed       int64   `json:"total_failed" example:"150"`
	AvgConfidence     float64 `json:"avg_confidence" example:"0.93"`
}

// LedgerStatisticsData contains aggregate ledger counters
type LedgerStatisticsData struct {
	TotalEntries  int64  `json:"total_entries" example:"3200"`
	LastEntryAt   string `json:"last_entry_at" example:"2026-03-01T12:00:00Z"`
	ChainValid    bool   `json:"chain_valid" example:"true"`
	LastValidated string `json:"last_validated" example:"2026-03-01T11:00:00Z"`
}

// LedgerIntegrityData is the ledger self-check result
type LedgerIntegrityData struct {
	Valid       bool   `json:"valid" example:"true"`
	TotalBlocks int64  `json:"total_blocks" example:"3200"`
	CheckedAt   string `json:"checked_at" example:"2026-03-01T12:00:00Z"`
}

// SystemHealthData is the backend component health report
type SystemHealthData struct {
	Status     string            `json:"status" example:"healthy"`
	Components map[string]string `json:"components,omitempty"`
}

// LedgerEntriesResponse is a page of ledger transactions
type LedgerEntriesResponse struct {
	Entries []LedgerEntryData `json:"entries"`
	Limit   int               `json:"limit" example:"50"`
	Offset  int               `json:"offset" example:"0"`
}

// LedgerEntryData is one ledger transaction
type LedgerEntryData struct {
	Index             int64  `json:"index" example:"12"`
	CertificateNumber string `json:"certificate_number" example:"CERT-AB12CD34"`
	Operation         string `json:"operation" example:"upload"`
	Hash              string `json:"hash" example:"9f86d081884c7d65..."`
	PreviousHash      string `json:"previous_hash" example:"e3b0c44298fc1c14..."`
	Timestamp         string `json:"timestamp" example:"2026-03-01T12:00:00Z"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
}

// EmptyResponse represents no content response (204)
type EmptyResponse struct{}

func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "CertVerify Gateway API",
		Version:     "v1.0.0",
		Description: "Gateway for certificate verification: document submission, registry browsing, verification history and ledger inspection",
		Host:        "localhost:3000",
		Path:        "/v1",
	})

	authErrors := []response.Response{
		response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing token"}, "401", "Unauthorized"),
		response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
	}

	endpoints := []*endpoint.EndPoint{
		// POST /v1/auth/login
		endpoint.New(
			endpoint.POST,
			"/auth/login",
			endpoint.WithTags("Auth"),
			endpoint.WithSummary("Authenticate a user"),
			endpoint.WithDescription("Exchanges email and password for a session token."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SessionResponse{}, "200", "Authenticated"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INVALID_CREDENTIALS", Message: "Email or password is incorrect"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Invalid request"}, "400", "Bad Request"),
			}),
		),

		// POST /v1/auth/signup
		endpoint.New(
			endpoint.POST,
			"/auth/signup",
			endpoint.WithTags("Auth"),
			endpoint.WithSummary("Create an account"),
			endpoint.WithDescription("Registers a new user. New accounts always get the regular user role."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SessionResponse{}, "201", "Account created"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "EMAIL_TAKEN", Message: "Email is already registered"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Invalid request"}, "400", "Bad Request"),
			}),
		),

		// POST /v1/certificates/upload
		endpoint.New(
			endpoint.POST,
			"/certificates/upload",
			endpoint.WithTags("Certificates"),
			endpoint.WithSummary("Upload and register a certificate"),
			endpoint.WithDescription("Submits a certificate document for processing: hash embedding, optional watermark, registration in the ledger."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(UploadResponse{}, "201", "Certificate registered"),
			}),
			endpoint.WithErrors(append([]response.Response{
				response.New(ErrorResponse{Code: "INVALID_FILE", Message: "Unsupported file type"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "FILE_TOO_LARGE", Message: "File exceeds the size limit"}, "413", "Payload Too Large"),
			}, authErrors...)),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// POST /v1/certificates/verify
		endpoint.New(
			endpoint.POST,
			"/certificates/verify",
			endpoint.WithTags("Certificates"),
			endpoint.WithSummary("Verify a certificate document"),
			endpoint.WithDescription("Checks a document against the registry and returns the verdict together with its display classification."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(VerificationResponse{}, "200", "Verification completed"),
			}),
			endpoint.WithErrors(append([]response.Response{
				response.New(ErrorResponse{Code: "INVALID_FILE", Message: "Unsupported file type"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "BACKEND_UNAVAILABLE", Message: "Verification backend unreachable"}, "503", "Service Unavailable"),
			}, authErrors...)),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// POST /v1/certificates/verify/batch
		endpoint.New(
			endpoint.POST,
			"/certificates/verify/batch",
			endpoint.WithTags("Certificates"),
			endpoint.WithSummary("Verify several documents"),
			endpoint.WithDescription("Submits files one at a time in selection order. A failure on one file never aborts the rest; the summary holds one entry per file."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(BatchSummaryResponse{}, "200", "Batch completed"),
			}),
			endpoint.WithErrors(authErrors),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// POST /v1/certificates/verify/hash
		endpoint.New(
			endpoint.POST,
			"/certificates/verify/hash",
			endpoint.WithTags("Certificates"),
			endpoint.WithSummary("Verify by certificate number and hash"),
			endpoint.WithDescription("Verifies without a document. Both certificate_number and hash are required."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(VerificationResponse{}, "200", "Verification completed"),
			}),
			endpoint.WithErrors(append([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "certificate_number and hash are required"}, "400", "Bad Request"),
			}, authErrors...)),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// GET /v1/certificates
		endpoint.New(
			endpoint.GET,
			"/certificates",
			endpoint.WithTags("Certificates"),
			endpoint.WithSummary("Browse the certificate registry"),
			endpoint.WithDescription("Filters combine conjunctively. Pages hold ten certificates; changing a filter snaps back to the first page."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("q", parameter.Query, parameter.WithDescription("Substring match on certificate number, student name or degree")),
				parameter.StrParam("status", parameter.Query, parameter.WithDescription("Exact status match")),
				parameter.StrParam("faculty", parameter.Query, parameter.WithDescription("Substring match on faculty")),
				parameter.StrParam("date_from", parameter.Query, parameter.WithDescription("Inclusive start date (YYYY-MM-DD)")),
				parameter.StrParam("date_to", parameter.Query, parameter.WithDescription("Inclusive end date (YYYY-MM-DD)")),
				parameter.IntParam("confidence_min", parameter.Query, parameter.WithDescription("Minimum confidence percent (0-100)")),
				parameter.IntParam("confidence_max", parameter.Query, parameter.WithDescription("Maximum confidence percent (0-100)")),
				parameter.StrParam("sort", parameter.Query, parameter.WithDescription("Sort key (e.g. student_name, confidence, created_at)")),
				parameter.StrParam("dir", parameter.Query, parameter.WithDescription("Sort direction: asc or desc")),
				parameter.IntParam("page", parameter.Query, parameter.WithDescription("Page number (1-based)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(PageResponse{}, "200", "Listing page"),
			}),
			endpoint.WithErrors(authErrors),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// DELETE /v1/certificates/{number}
		endpoint.New(
			endpoint.DELETE,
			"/certificates/{number}",
			endpoint.WithTags("Certificates"),
			endpoint.WithSummary("Delete a certificate"),
			endpoint.WithDescription("Removes a certificate from the registry. Admin only."),
			endpoint.WithParams(
				parameter.StrParam("number", parameter.Path, parameter.WithDescription("Certificate number")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "204", "Certificate deleted"),
			}),
			endpoint.WithErrors(append([]response.Response{
				response.New(ErrorResponse{Code: "FORBIDDEN", Message: "Admin role required"}, "403", "Forbidden"),
				response.New(ErrorResponse{Code: "NOT_FOUND", Message: "Certificate not found"}, "404", "Not Found"),
			}, authErrors...)),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// GET /v1/certificates/{number}/history
		endpoint.New(
			endpoint.GET,
			"/certificates/{number}/history",
			endpoint.WithTags("Certificates"),
			endpoint.WithSummary("A certificate's audit trail"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("number", parameter.Path, parameter.WithDescription("Certificate number")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "200", "Audit trail"),
			}),
			endpoint.WithErrors(authErrors),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// GET /v1/history
		endpoint.New(
			endpoint.GET,
			"/history",
			endpoint.WithTags("History"),
			endpoint.WithSummary("The caller's verification history"),
			endpoint.WithDescription("The twenty most recent verifications of the authenticated user, newest first. The history lives in the gateway only."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HistoryResponse{}, "200", "History"),
			}),
			endpoint.WithErrors(authErrors),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// DELETE /v1/history
		endpoint.New(
			endpoint.DELETE,
			"/history",
			endpoint.WithTags("History"),
			endpoint.WithSummary("Clear the caller's verification history"),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "204", "History cleared"),
			}),
			endpoint.WithErrors(authErrors),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// GET /v1/dashboard
		endpoint.New(
			endpoint.GET,
			"/dashboard",
			endpoint.WithTags("Dashboard"),
			endpoint.WithSummary("The current dashboard snapshot"),
			endpoint.WithDescription("Aggregated statistics, ledger state and system health. Sections that failed to load are reported individually; the rest are served."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(DashboardResponse{}, "200", "Snapshot"),
			}),
			endpoint.WithErrors(authErrors),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// POST /v1/dashboard/refresh
		endpoint.New(
			endpoint.POST,
			"/dashboard/refresh",
			endpoint.WithTags("Dashboard"),
			endpoint.WithSummary("Force a dashboard refresh"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(DashboardResponse{}, "200", "Fresh snapshot"),
			}),
			endpoint.WithErrors(authErrors),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// GET /v1/ledger/entries
		endpoint.New(
			endpoint.GET,
			"/ledger/entries",
			endpoint.WithTags("Ledger"),
			endpoint.WithSummary("Browse the ledger"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.IntParam("limit", parameter.Query, parameter.WithDescription("Page size (1-500, default 50)")),
				parameter.IntParam("offset", parameter.Query, parameter.WithDescription("Entries to skip")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(LedgerEntriesResponse{}, "200", "Ledger page"),
			}),
			endpoint.WithErrors(authErrors),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// GET /v1/ledger/integrity
		endpoint.New(
			endpoint.GET,
			"/ledger/integrity",
			endpoint.WithTags("Ledger"),
			endpoint.WithSummary("The ledger's last integrity check"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(LedgerIntegrityData{}, "200", "Integrity report"),
			}),
			endpoint.WithErrors(authErrors),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// POST /v1/ledger/validate
		endpoint.New(
			endpoint.POST,
			"/ledger/validate",
			endpoint.WithTags("Ledger"),
			endpoint.WithSummary("Trigger a full chain validation"),
			endpoint.WithDescription("Walks the whole hash chain on the backend. Admin only."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(LedgerIntegrityData{}, "200", "Validation report"),
			}),
			endpoint.WithErrors(append([]response.Response{
				response.New(ErrorResponse{Code: "FORBIDDEN", Message: "Admin role required"}, "403", "Forbidden"),
			}, authErrors...)),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
