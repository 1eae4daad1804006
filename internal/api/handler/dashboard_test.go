package handler

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certverify-labs/certverify/internal/backend/stub"
	"github.com/certverify-labs/certverify/internal/dashboard"
	"github.com/certverify-labs/certverify/internal/domain"
)

func newDashboardHandler() *DashboardHandler {
	service := dashboard.NewService(stub.New(), testLogger())
	refresher := dashboard.NewRefresher(service, nil, nil, time.Minute, testLogger())
	return NewDashboardHandler(refresher, testLogger())
}

func TestDashboardHandler_Get(t *testing.T) {
	h := newDashboardHandler()
	app := testApp(uuid.New(), domain.RoleUser)
	app.Get("/dashboard", h.Get)

	resp := doRequest(t, app, httptest.NewRequest("GET", "/dashboard", nil))
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	var snap dashboard.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))

	assert.NotNil(t, snap.Statistics)
	assert.NotNil(t, snap.LedgerStatistics)
	assert.NotNil(t, snap.LedgerIntegrity)
	assert.NotNil(t, snap.SystemHealth)
	assert.False(t, snap.FetchedAt.IsZero())
}

func TestDashboardHandler_Refresh(t *testing.T) {
	h := newDashboardHandler()
	app := testApp(uuid.New(), domain.RoleUser)
	app.Get("/dashboard", h.Get)
	app.Post("/dashboard/refresh", h.Refresh)

	resp := doRequest(t, app, httptest.NewRequest("GET", "/dashboard", nil))
	resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	var first, second dashboard.Snapshot

	resp = doRequest(t, app, httptest.NewRequest("POST", "/dashboard/refresh", nil))
	require.Equal(t, 200, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&first))
	resp.Body.Close()

	resp = doRequest(t, app, httptest.NewRequest("POST", "/dashboard/refresh", nil))
	require.Equal(t, 200, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&second))
	resp.Body.Close()

	assert.False(t, second.FetchedAt.Before(first.FetchedAt))
}
