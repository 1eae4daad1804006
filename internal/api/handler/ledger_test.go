package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certverify-labs/certverify/internal/backend"
	"github.com/certverify-labs/certverify/internal/backend/stub"
	"github.com/certverify-labs/certverify/internal/domain"
)

func TestLedgerHandler_Entries(t *testing.T) {
	b := stub.New()
	h := NewLedgerHandler(b, testLogger())
	app := testApp(uuid.New(), domain.RoleUser)
	app.Get("/ledger/entries", h.Entries)

	// Seed some ledger activity through a verification.
	_, err := b.Verify(context.Background(), backend.File{
		Name:        "seed.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.4 seed"),
	}, backend.VerifyOptions{})
	require.NoError(t, err)

	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{name: "defaults", query: "", wantLimit: 50, wantOffset: 0},
		{name: "explicit", query: "?limit=10&offset=5", wantLimit: 10, wantOffset: 5},
		{name: "limit too large", query: "?limit=9999", wantLimit: 50, wantOffset: 0},
		{name: "negative offset", query: "?offset=-3", wantLimit: 50, wantOffset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, app, httptest.NewRequest("GET", "/ledger/entries"+tt.query, nil))
			defer resp.Body.Close()
			require.Equal(t, 200, resp.StatusCode)

			var body struct {
				Entries []domain.LedgerEntry `json:"entries"`
				Limit   int                  `json:"limit"`
				Offset  int                  `json:"offset"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantLimit, body.Limit)
			assert.Equal(t, tt.wantOffset, body.Offset)
		})
	}
}

func TestLedgerHandler_IntegrityAndValidate(t *testing.T) {
	b := stub.New()
	h := NewLedgerHandler(b, testLogger())
	app := testApp(uuid.New(), domain.RoleAdmin)
	app.Get("/ledger/integrity", h.Integrity)
	app.Post("/ledger/validate", h.Validate)

	resp := doRequest(t, app, httptest.NewRequest("GET", "/ledger/integrity", nil))
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	var integrity domain.LedgerIntegrity
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&integrity))
	assert.True(t, integrity.Valid)

	resp = doRequest(t, app, httptest.NewRequest("POST", "/ledger/validate", nil))
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&integrity))
	assert.True(t, integrity.Valid)
}
