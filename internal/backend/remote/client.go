package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/certverify-labs/certverify/internal/backend"
	"github.com/certverify-labs/certverify/internal/domain"
)

// TokenSource supplies the bearer token attached to backend requests.
// Returning an empty string sends the request anonymously; many backend
// endpoints tolerate that.
type TokenSource func() string

// Config holds the configuration for the remote verification backend
// client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Token   TokenSource
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:8000/api/v1",
		Timeout: 40 * time.Second,
	}
}

// Client is the HTTP client for the verification backend. Requests are
// single-shot: failed calls are terminal for the operation that raised
// them and are never retried automatically.
type Client struct {
	httpClient *http.Client
	config     Config
}

var _ backend.Backend = (*Client)(nil)

// NewClient creates a new backend client.
func NewClient(config Config) *Client {
	if config.Timeout == 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		config: config,
	}
}

func (c *Client) Health(ctx context.Context) error {
	return c.getJSON(ctx, "/health", nil)
}

func (c *Client) SystemHealth(ctx context.Context) (*domain.SystemHealth, error) {
	var out domain.SystemHealth
	if err := c.getJSON(ctx, "/system/health", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Statistics(ctx context.Context) (*domain.Statistics, error) {
	var out domain.Statistics
	if err := c.getJSON(ctx, "/statistics", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) LedgerStatistics(ctx context.Context) (*domain.LedgerStatistics, error) {
	var out domain.LedgerStatistics
	if err := c.getJSON(ctx, "/ledger/statistics", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) LedgerIntegrity(ctx context.Context) (*domain.LedgerIntegrity, error) {
	var out domain.LedgerIntegrity
	if err := c.getJSON(ctx, "/ledger/integrity", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ValidateLedger(ctx context.Context) (*domain.LedgerIntegrity, error) {
	var out domain.LedgerIntegrity
	if err := c.doJSON(ctx, http.MethodPost, "/ledger/validate", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) LedgerEntries(ctx context.Context, limit, offset int) ([]domain.LedgerEntry, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var out []domain.LedgerEntry
	if err := c.getJSON(ctx, "/ledger/entries?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Upload(ctx context.Context, file backend.File, opts backend.UploadOptions) (*backend.UploadResult, error) {
	fields := map[string]string{
		"embed_hash":    strconv.FormatBool(opts.EmbedHash),
		"add_watermark": strconv.FormatBool(opts.AddWatermark),
		"use_checksum":  strconv.FormatBool(opts.UseChecksum),
	}
	if opts.WatermarkText != "" {
		fields["watermark_text"] = opts.WatermarkText
	}

	var out backend.UploadResult
	if err := c.doMultipart(ctx, "/certificates/upload", file, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Verify(ctx context.Context, file backend.File, opts backend.VerifyOptions) (*domain.VerificationResult, error) {
	fields := map[string]string{
		"use_enhanced_extraction": strconv.FormatBool(opts.UseEnhancedExtraction),
		"check_database":          strconv.FormatBool(opts.CheckDatabase),
	}

	var out domain.VerificationResult
	if err := c.doMultipart(ctx, "/certificates/verify", file, fields, &out); err != nil {
		return nil, err
	}
	out.Confidence = domain.ClampConfidence(out.Confidence)
	return &out, nil
}

func (c *Client) VerifyByHash(ctx context.Context, certificateNumber, hash string) (*domain.VerificationResult, error) {
	req := map[string]string{
		"certificate_number": certificateNumber,
		"hash":               hash,
	}

	var out domain.VerificationResult
	if err := c.doJSON(ctx, http.MethodPost, "/certificates/verify/hash", req, &out); err != nil {
		return nil, err
	}
	out.Confidence = domain.ClampConfidence(out.Confidence)
	return &out, nil
}

func (c *Client) ListCertificates(ctx context.Context) ([]domain.Certificate, error) {
	var out []domain.Certificate
	if err := c.getJSON(ctx, "/certificates", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteCertificate(ctx context.Context, certificateNumber string) error {
	return c.doJSON(ctx, http.MethodDelete, "/certificates/"+url.PathEscape(certificateNumber), nil, nil)
}

func (c *Client) CertificateHistory(ctx context.Context, certificateNumber string) ([]domain.CertificateEvent, error) {
	var out []domain.CertificateEvent
	if err := c.getJSON(ctx, "/certificates/"+url.PathEscape(certificateNumber)+"/history", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DownloadCertificate(ctx context.Context, id string) (*backend.Download, error) {
	return c.downloadRaw(ctx, http.MethodGet, "/certificates/"+url.PathEscape(id)+"/download", nil)
}

func (c *Client) DownloadBulk(ctx context.Context, ids []string) (*backend.Download, error) {
	body := map[string][]string{"ids": ids}
	return c.downloadRaw(ctx, http.MethodPost, "/certificates/download/bulk", body)
}

func (c *Client) getJSON(ctx context.Context, path string, result interface{}) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, result)
}

// doJSON executes a single JSON request and normalizes the response
// envelope into result.
func (c *Client) doJSON(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	respBody, _, err := c.send(req)
	if err != nil {
		return err
	}

	if result == nil {
		return nil
	}
	return normalize(respBody, result)
}

// doMultipart posts one file plus form fields and normalizes the JSON
// response into result.
func (c *Client) doMultipart(ctx context.Context, path string, file backend.File, fields map[string]string, result interface{}) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", file.Name)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return fmt.Errorf("write form file: %w", err)
	}

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("write field %s: %w", key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	respBody, _, err := c.send(req)
	if err != nil {
		return err
	}
	return normalize(respBody, result)
}

// downloadRaw fetches a binary document, preserving filename and content
// type from the response headers.
func (c *Client) downloadRaw(ctx context.Context, method, path string, body interface{}) (*backend.Download, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	data, resp, err := c.send(req)
	if err != nil {
		return nil, err
	}

	download := &backend.Download{
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		download.Filename = params["filename"]
	}
	return download, nil
}

// send executes the request with bearer injection and maps transport and
// status failures onto the domain error taxonomy.
func (c *Client) send(req *http.Request) ([]byte, *http.Response, error) {
	if c.config.Token != nil {
		if token := c.config.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if req.Context().Err() != nil {
			return nil, nil, req.Context().Err()
		}
		return nil, nil, domain.ErrBackendUnavailable.WithError(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, nil, statusError(resp.StatusCode, respBody)
	}
	return respBody, resp, nil
}

func statusError(status int, body []byte) error {
	cause := fmt.Errorf("backend returned status %d: %s", status, truncate(body, 256))
	switch {
	case status == http.StatusUnauthorized:
		// Callers are expected to purge the stored session on this.
		return domain.ErrUnauthorized.WithError(cause)
	case status == http.StatusNotFound:
		return domain.ErrNotFound.WithError(cause)
	case status == http.StatusTooManyRequests:
		return domain.ErrRateLimitExceeded.WithError(cause)
	case status >= 500:
		return domain.ErrBackendUnavailable.WithError(cause)
	default:
		return domain.ErrBackendRejected.WithError(cause)
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
