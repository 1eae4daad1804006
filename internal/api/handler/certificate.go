package handler

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/certverify-labs/certverify/internal/api/middleware"
	"github.com/certverify-labs/certverify/internal/backend"
	"github.com/certverify-labs/certverify/internal/browse"
	"github.com/certverify-labs/certverify/internal/domain"
	"github.com/certverify-labs/certverify/internal/history"
	"github.com/certverify-labs/certverify/internal/verify"
	"github.com/certverify-labs/certverify/internal/ws"
)

const (
	maxFileSize  = 25 * 1024 * 1024 // 25MB
	maxBatchSize = 20
)

var validFileTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
}

// CertificateHandler handles certificate submission and browsing
type CertificateHandler struct {
	backend   backend.Backend
	submitter *verify.Submitter
	history   *history.Service
	sorter    *browse.Sorter
	hub       *ws.Hub
	logger    *slog.Logger
}

func NewCertificateHandler(
	b backend.Backend,
	submitter *verify.Submitter,
	historyService *history.Service,
	sorter *browse.Sorter,
	hub *ws.Hub,
	logger *slog.Logger,
) *CertificateHandler {
	return &CertificateHandler{
		backend:   b,
		submitter: submitter,
		history:   historyService,
		sorter:    sorter,
		hub:       hub,
		logger:    logger,
	}
}

// Upload POST /v1/certificates/upload - process and register a certificate
func (h *CertificateHandler) Upload(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	files, err := extractFiles(c, 1)
	if err != nil {
		return err
	}

	opts := backend.UploadOptions{
		EmbedHash:     formBool(c, "embed_hash", true),
		AddWatermark:  formBool(c, "add_watermark", false),
		WatermarkText: strings.TrimSpace(c.FormValue("watermark_text")),
		UseChecksum:   formBool(c, "use_checksum", false),
	}

	result, err := h.backend.Upload(c.Context(), files[0], opts)
	if err != nil {
		return err
	}

	h.hub.BroadcastToUser(userID, ws.EventUpload, result)

	return c.Status(fiber.StatusCreated).JSON(result)
}

// UploadBatch POST /v1/certificates/upload/batch - register several certificates
func (h *CertificateHandler) UploadBatch(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	files, err := extractFiles(c, maxBatchSize)
	if err != nil {
		return err
	}

	opts := backend.UploadOptions{
		EmbedHash:     formBool(c, "embed_hash", true),
		AddWatermark:  formBool(c, "add_watermark", false),
		WatermarkText: strings.TrimSpace(c.FormValue("watermark_text")),
		UseChecksum:   formBool(c, "use_checksum", false),
	}

	summary := h.submitter.UploadBatch(c.Context(), files, opts)
	if summary.Unauthorized {
		c.Locals(middleware.LocalBackendUnauthorized, true)
	}

	h.hub.BroadcastToUser(userID, ws.EventBatch, summary)

	return c.JSON(summary)
}

// Verify POST /v1/certificates/verify - verify an uploaded document
func (h *CertificateHandler) Verify(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	files, err := extractFiles(c, 1)
	if err != nil {
		return err
	}

	opts := verifyOptions(c)

	result, err := h.backend.Verify(c.Context(), files[0], opts)
	if err != nil {
		return err
	}

	h.recordHistory(c, userID, files[0], result)
	h.hub.BroadcastToUser(userID, ws.EventVerification, result)

	return c.JSON(verificationResponse(result))
}

// VerifyBatch POST /v1/certificates/verify/batch - verify several documents
func (h *CertificateHandler) VerifyBatch(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	files, err := extractFiles(c, maxBatchSize)
	if err != nil {
		return err
	}

	summary := h.submitter.VerifyBatch(c.Context(), files, verifyOptions(c))
	if summary.Unauthorized {
		c.Locals(middleware.LocalBackendUnauthorized, true)
	}

	for i, entry := range summary.Results {
		if entry.Verification != nil {
			h.recordHistory(c, userID, files[i], entry.Verification)
		}
	}

	h.hub.BroadcastToUser(userID, ws.EventBatch, summary)

	return c.JSON(summary)
}

type verifyHashRequest struct {
	CertificateNumber string `json:"certificate_number"`
	Hash              string `json:"hash"`
}

// VerifyHash POST /v1/certificates/verify/hash - verify by stored hash
func (h *CertificateHandler) VerifyHash(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var req verifyHashRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	result, err := h.submitter.VerifyByHash(c.Context(), req.CertificateNumber, req.Hash)
	if err != nil {
		return err
	}

	h.hub.BroadcastToUser(userID, ws.EventVerification, result)

	return c.JSON(verificationResponse(result))
}

// List GET /v1/certificates - browse the registry with filter/sort/pagination
func (h *CertificateHandler) List(c *fiber.Ctx) error {
	certs, err := h.backend.ListCertificates(c.Context())
	if err != nil {
		return err
	}

	browser := browse.NewBrowser(h.sorter)
	browser.SetFilter(filterFromQuery(c))
	browser.SetOrder(orderFromQuery(c))
	browser.SetPage(c.QueryInt("page", 1))

	return c.JSON(browser.View(certs))
}

// Delete DELETE /v1/certificates/:number - remove a certificate (admin only)
func (h *CertificateHandler) Delete(c *fiber.Ctx) error {
	number := strings.TrimSpace(c.Params("number"))
	if number == "" {
		return domain.ErrValidationFailed.WithError(errors.New("certificate number is required"))
	}

	if err := h.backend.DeleteCertificate(c.Context(), number); err != nil {
		return err
	}

	h.logger.Info("certificate deleted", slog.String("certificate_number", number))

	return c.SendStatus(fiber.StatusNoContent)
}

// History GET /v1/certificates/:number/history - a certificate's audit trail
func (h *CertificateHandler) History(c *fiber.Ctx) error {
	number := strings.TrimSpace(c.Params("number"))
	if number == "" {
		return domain.ErrValidationFailed.WithError(errors.New("certificate number is required"))
	}

	events, err := h.backend.CertificateHistory(c.Context(), number)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"certificate_number": number,
		"events":             events,
	})
}

// Download GET /v1/certificates/:id/download - fetch a processed document
func (h *CertificateHandler) Download(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return domain.ErrValidationFailed.WithError(errors.New("download id is required"))
	}

	download, err := h.backend.DownloadCertificate(c.Context(), id)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, download.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+download.Filename+`"`)
	return c.Send(download.Data)
}

type downloadBulkRequest struct {
	IDs []string `json:"ids"`
}

// DownloadBulk POST /v1/certificates/download/bulk - fetch several documents as an archive
func (h *CertificateHandler) DownloadBulk(c *fiber.Ctx) error {
	var req downloadBulkRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}
	if len(req.IDs) == 0 {
		return domain.ErrValidationFailed.WithError(errors.New("ids is required"))
	}

	download, err := h.backend.DownloadBulk(c.Context(), req.IDs)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, download.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+download.Filename+`"`)
	return c.Send(download.Data)
}

// verificationResponse pairs a result with its display classification so
// clients never interpret raw status strings themselves.
func verificationResponse(result *domain.VerificationResult) fiber.Map {
	return fiber.Map{
		"result":       result,
		"presentation": domain.Classify(result.Status),
	}
}

func (h *CertificateHandler) recordHistory(c *fiber.Ctx, userID uuid.UUID, file backend.File, result *domain.VerificationResult) {
	if h.history == nil {
		return
	}
	h.history.Record(c.Context(), userID, file.Name, int64(len(file.Data)), file.ContentType, *result)
}

func verifyOptions(c *fiber.Ctx) backend.VerifyOptions {
	return backend.VerifyOptions{
		UseEnhancedExtraction: formBool(c, "use_enhanced_extraction", false),
		CheckDatabase:         formBool(c, "check_database", true),
	}
}

// extractFiles reads the multipart "files" field (falling back to a single
// "file") and validates size and content type.
func extractFiles(c *fiber.Ctx, limit int) ([]backend.File, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, domain.ErrValidationFailed.WithError(err)
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		headers = form.File["file"]
	}
	if len(headers) == 0 {
		return nil, domain.ErrValidationFailed.WithError(errors.New("no file submitted"))
	}
	if len(headers) > limit {
		return nil, domain.ErrValidationFailed.WithError(errors.New("too many files"))
	}

	files := make([]backend.File, 0, len(headers))
	for _, header := range headers {
		file, err := readFile(header)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

func readFile(header *multipart.FileHeader) (backend.File, error) {
	if header.Size > maxFileSize {
		return backend.File{}, domain.ErrFileTooLarge
	}

	contentType := header.Header.Get("Content-Type")
	if !validFileTypes[contentType] {
		return backend.File{}, domain.ErrInvalidFile
	}

	src, err := header.Open()
	if err != nil {
		return backend.File{}, domain.ErrValidationFailed.WithError(err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return backend.File{}, domain.ErrValidationFailed.WithError(err)
	}

	return backend.File{
		Name:        header.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

func formBool(c *fiber.Ctx, key string, fallback bool) bool {
	value := strings.TrimSpace(c.FormValue(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func filterFromQuery(c *fiber.Ctx) browse.Filter {
	filter := browse.NewFilter()
	filter.Query = strings.TrimSpace(c.Query("q"))
	filter.Status = strings.TrimSpace(c.Query("status"))
	filter.Faculty = strings.TrimSpace(c.Query("faculty"))

	if from := c.Query("date_from"); from != "" {
		if parsed, err := time.Parse("2006-01-02", from); err == nil {
			filter.DateFrom = parsed
		}
	}
	if to := c.Query("date_to"); to != "" {
		if parsed, err := time.Parse("2006-01-02", to); err == nil {
			filter.DateTo = parsed.Add(24*time.Hour - time.Nanosecond)
		}
	}

	filter.ConfidenceMin = c.QueryFloat("confidence_min", 0)
	filter.ConfidenceMax = c.QueryFloat("confidence_max", 100)

	return filter
}

func orderFromQuery(c *fiber.Ctx) browse.Order {
	order := browse.Order{
		Key:        browse.SortByCreatedAt,
		Descending: true,
	}
	if key := c.Query("sort"); key != "" {
		order.Key = browse.SortKey(key)
		order.Descending = c.Query("dir", "asc") == "desc"
	}
	return order
}
