package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certverify-labs/certverify/internal/api/middleware"
	"github.com/certverify-labs/certverify/internal/auth"
	"github.com/certverify-labs/certverify/internal/backend"
	"github.com/certverify-labs/certverify/internal/backend/stub"
	"github.com/certverify-labs/certverify/internal/browse"
	"github.com/certverify-labs/certverify/internal/domain"
	"github.com/certverify-labs/certverify/internal/verify"
	"github.com/certverify-labs/certverify/internal/ws"
)

func newCertificateHandler() *CertificateHandler {
	b := stub.New()
	logger := testLogger()
	hub := ws.NewHub()
	go hub.Run()

	h := NewCertificateHandler(
		b,
		verify.NewSubmitter(b, verify.SlogNotifier{Logger: logger}),
		nil,
		browse.NewSorter("en"),
		hub,
		logger,
	)
	return h
}

func TestCertificateHandler_Verify(t *testing.T) {
	h := newCertificateHandler()
	app := testApp(uuid.New(), domain.RoleUser)
	app.Post("/certificates/verify", h.Verify)

	req := multipartRequest(t, "POST", "/certificates/verify", "file",
		map[string][]byte{"diploma.pdf": []byte("%PDF-1.4 sample certificate")}, nil)

	resp := doRequest(t, app, req)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	var body struct {
		Result       domain.VerificationResult `json:"result"`
		Presentation domain.Presentation       `json:"presentation"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, domain.StatusVerified, body.Result.Status)
	assert.Equal(t, domain.TierSuccess, body.Presentation.Tier)
	assert.NotEmpty(t, body.Result.CertificateNumber)
}

func TestCertificateHandler_Verify_FailureStatusIsClassified(t *testing.T) {
	h := newCertificateHandler()
	app := testApp(uuid.New(), domain.RoleUser)
	app.Post("/certificates/verify", h.Verify)

	req := multipartRequest(t, "POST", "/certificates/verify", "file",
		map[string][]byte{"corrupt-diploma.pdf": []byte("%PDF-1.4 tampered")}, nil)

	resp := doRequest(t, app, req)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	var body struct {
		Result       domain.VerificationResult `json:"result"`
		Presentation domain.Presentation       `json:"presentation"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, domain.StatusCorruptedHash, body.Result.Status)
	assert.Equal(t, domain.TierFailure, body.Presentation.Tier)
}

func TestCertificateHandler_Verify_NoFile(t *testing.T) {
	h := newCertificateHandler()
	app := testApp(uuid.New(), domain.RoleUser)
	app.Post("/certificates/verify", h.Verify)

	req := multipartRequest(t, "POST", "/certificates/verify", "file", nil, nil)

	resp := doRequest(t, app, req)
	defer resp.Body.Close()
	assert.Equal(t, 422, resp.StatusCode)
}

func TestCertificateHandler_Verify_RejectsUnknownContentType(t *testing.T) {
	h := newCertificateHandler()
	app := testApp(uuid.New(), domain.RoleUser)
	app.Post("/certificates/verify", h.Verify)

	req := multipartRequestWithType(t, "/certificates/verify", "notes.txt", "text/plain")

	resp := doRequest(t, app, req)
	defer resp.Body.Close()
	assert.Equal(t, 422, resp.StatusCode)
}

func TestCertificateHandler_VerifyBatch(t *testing.T) {
	h := newCertificateHandler()
	app := testApp(uuid.New(), domain.RoleUser)
	app.Post("/certificates/verify/batch", h.VerifyBatch)

	req := multipartRequest(t, "POST", "/certificates/verify/batch", "files", map[string][]byte{
		"first.pdf":       []byte("%PDF-1.4 first"),
		"fail-second.pdf": []byte("%PDF-1.4 second"),
		"third.pdf":       []byte("%PDF-1.4 third"),
	}, nil)

	resp := doRequest(t, app, req)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	var summary verify.Summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))

	assert.Len(t, summary.Results, 3)
	assert.Equal(t, 3, summary.Succeeded+summary.Failed)
}

// rejectedBackend refuses every verification with a credentials error.
type rejectedBackend struct {
	backend.Backend
}

func (rejectedBackend) Verify(context.Context, backend.File, backend.VerifyOptions) (*domain.VerificationResult, error) {
	return nil, domain.ErrUnauthorized
}

func TestCertificateHandler_VerifyBatch_UnauthorizedClearsSession(t *testing.T) {
	logger := testLogger()
	store := auth.NewSessionStore(nil, time.Hour, logger)
	require.NoError(t, store.Set(context.Background(), domain.Session{
		User:      domain.User{ID: uuid.New(), Email: "user@certverify.io", Role: domain.RoleUser},
		Token:     "backend-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	b := rejectedBackend{Backend: stub.New()}
	hub := ws.NewHub()
	go hub.Run()
	h := NewCertificateHandler(b, verify.NewSubmitter(b, verify.SlogNotifier{Logger: logger}),
		nil, browse.NewSorter("en"), hub, logger)

	app := testApp(uuid.New(), domain.RoleUser)
	app.Use(middleware.SessionGuard(store, logger))
	app.Post("/certificates/verify/batch", h.VerifyBatch)

	req := multipartRequest(t, "POST", "/certificates/verify/batch", "files", map[string][]byte{
		"first.pdf":  []byte("%PDF-1.4 first"),
		"second.pdf": []byte("%PDF-1.4 second"),
	}, nil)

	resp := doRequest(t, app, req)
	defer resp.Body.Close()

	// The batch response keeps its per-file shape, but the stored
	// session is gone once the backend rejected our credentials.
	require.Equal(t, 200, resp.StatusCode)

	var summary verify.Summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	require.Len(t, summary.Results, 2)
	assert.Equal(t, 2, summary.Failed)
	assert.NotEmpty(t, summary.Results[0].Error)

	assert.Nil(t, store.Current())
}

func TestCertificateHandler_VerifyHash(t *testing.T) {
	h := newCertificateHandler()
	app := testApp(uuid.New(), domain.RoleUser)
	app.Post("/certificates/upload", h.Upload)
	app.Post("/certificates/verify/hash", h.VerifyHash)

	// Register a certificate first so its hash is known.
	uploadReq := multipartRequest(t, "POST", "/certificates/upload", "file",
		map[string][]byte{"diploma.pdf": []byte("%PDF-1.4 original")}, map[string]string{"embed_hash": "true"})
	uploadResp := doRequest(t, app, uploadReq)
	defer uploadResp.Body.Close()
	require.Equal(t, 201, uploadResp.StatusCode)

	var uploaded struct {
		CertificateNumber string `json:"certificate_number"`
		Hash              string `json:"hash"`
	}
	require.NoError(t, json.NewDecoder(uploadResp.Body).Decode(&uploaded))
	require.NotEmpty(t, uploaded.Hash)

	payload, _ := json.Marshal(map[string]string{
		"certificate_number": uploaded.CertificateNumber,
		"hash":               uploaded.Hash,
	})
	req := httptest.NewRequest("POST", "/certificates/verify/hash", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp := doRequest(t, app, req)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	var body struct {
		Result domain.VerificationResult `json:"result"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, domain.StatusVerified, body.Result.Status)
}

func TestCertificateHandler_VerifyHash_MissingFields(t *testing.T) {
	h := newCertificateHandler()
	app := testApp(uuid.New(), domain.RoleUser)
	app.Post("/certificates/verify/hash", h.VerifyHash)

	payload, _ := json.Marshal(map[string]string{"certificate_number": "CERT-1"})
	req := httptest.NewRequest("POST", "/certificates/verify/hash", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp := doRequest(t, app, req)
	defer resp.Body.Close()
	assert.Equal(t, 422, resp.StatusCode)
}

func TestCertificateHandler_List_FilterAndPaginate(t *testing.T) {
	h := newCertificateHandler()
	app := testApp(uuid.New(), domain.RoleUser)
	app.Post("/certificates/upload", h.Upload)
	app.Get("/certificates", h.List)

	for _, doc := range []string{"alpha", "beta", "gamma"} {
		req := multipartRequest(t, "POST", "/certificates/upload", "file",
			map[string][]byte{doc + ".pdf": []byte("%PDF-1.4 " + doc)}, nil)
		resp := doRequest(t, app, req)
		resp.Body.Close()
		require.Equal(t, 201, resp.StatusCode)
	}

	resp := doRequest(t, app, httptest.NewRequest("GET", "/certificates?page=1&sort=certificate_number", nil))
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	var page browse.Page
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.Equal(t, 3, page.TotalItems)
	assert.Equal(t, 1, page.Number)
	assert.Len(t, page.Items, 3)

	// Filter down to a single certificate number.
	target := page.Items[0].CertificateNumber
	resp = doRequest(t, app, httptest.NewRequest("GET", "/certificates?q="+target, nil))
	defer resp.Body.Close()

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.Equal(t, 1, page.TotalItems)
	assert.Equal(t, target, page.Items[0].CertificateNumber)
}

func TestCertificateHandler_DeleteAndHistory(t *testing.T) {
	h := newCertificateHandler()
	app := testApp(uuid.New(), domain.RoleAdmin)
	app.Post("/certificates/upload", h.Upload)
	app.Get("/certificates/:number/history", h.History)
	app.Delete("/certificates/:number", h.Delete)

	uploadReq := multipartRequest(t, "POST", "/certificates/upload", "file",
		map[string][]byte{"diploma.pdf": []byte("%PDF-1.4 delete me")}, nil)
	uploadResp := doRequest(t, app, uploadReq)
	defer uploadResp.Body.Close()

	var uploaded struct {
		CertificateNumber string `json:"certificate_number"`
	}
	require.NoError(t, json.NewDecoder(uploadResp.Body).Decode(&uploaded))

	resp := doRequest(t, app, httptest.NewRequest("GET", "/certificates/"+uploaded.CertificateNumber+"/history", nil))
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	var trail struct {
		Events []domain.CertificateEvent `json:"events"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&trail))
	assert.NotEmpty(t, trail.Events)

	resp = doRequest(t, app, httptest.NewRequest("DELETE", "/certificates/"+uploaded.CertificateNumber, nil))
	resp.Body.Close()
	assert.Equal(t, 204, resp.StatusCode)

	resp = doRequest(t, app, httptest.NewRequest("DELETE", "/certificates/"+uploaded.CertificateNumber, nil))
	resp.Body.Close()
	assert.Equal(t, 404, resp.StatusCode)
}

func TestCertificateHandler_Download(t *testing.T) {
	h := newCertificateHandler()
	app := testApp(uuid.New(), domain.RoleUser)
	app.Post("/certificates/upload", h.Upload)
	app.Get("/certificates/:id/download", h.Download)

	uploadReq := multipartRequest(t, "POST", "/certificates/upload", "file",
		map[string][]byte{"diploma.pdf": []byte("%PDF-1.4 download me")}, nil)
	uploadResp := doRequest(t, app, uploadReq)
	defer uploadResp.Body.Close()

	var uploaded struct {
		DownloadID string `json:"download_id"`
	}
	require.NoError(t, json.NewDecoder(uploadResp.Body).Decode(&uploaded))
	require.NotEmpty(t, uploaded.DownloadID)

	resp := doRequest(t, app, httptest.NewRequest("GET", "/certificates/"+uploaded.DownloadID+"/download", nil))
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
