package httphandler_test

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httphandler "github.com/byndhq/reportdeck/internal/adapter/driving/http"
	"github.com/byndhq/reportdeck/internal/application"
	"github.com/byndhq/reportdeck/internal/domain/model"
	"github.com/byndhq/reportdeck/internal/domain/port/driven"
)

// --- Mock implementations ---

type mockSource struct {
	mode    model.SourceMode
	records []model.ReportRecord
	err     error
	filter  model.ReportFilter
}

func (m *mockSource) FetchReports(_ context.Context, f model.ReportFilter) ([]model.ReportRecord, error) {
	m.filter = f
	return m.records, m.err
}

func (m *mockSource) Mode() model.SourceMode { return m.mode }

type mockSecrets struct {
	secrets model.SupabaseSecrets
	ok      bool
}

func (m *mockSecrets) Supabase() (model.SupabaseSecrets, bool) { return m.secrets, m.ok }

// newTestHandler wires a full handler around the given source.
func newTestHandler(t *testing.T, source driven.ReportSource, secrets *mockSecrets) http.Handler {
	t.Helper()

	// Keep host credentials out of the resolver's view.
	for _, key := range []string{application.EnvSupabaseURL, application.EnvSupabaseKey} {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}

	logger := slog.New(slog.DiscardHandler)
	desc := model.ConnectionDescriptor{Mode: source.Mode()}
	if desc.Mode != model.ModeDemo {
		desc.Endpoint = "https://x.supabase.co"
		desc.Credential = "abc"
	}

	provider := application.NewSourceProvider(source, desc)
	reportSvc := application.NewReportService(provider, logger)

	factory := func(d model.ConnectionDescriptor) driven.ReportSource {
		return &mockSource{mode: d.Mode}
	}
	refreshSvc := application.NewRefreshService(application.NewResolver(secrets, logger), provider, factory, logger)

	h := httphandler.NewHandler(reportSvc, refreshSvc, provider, logger)
	return httphandler.NewServeMux(h, logger)
}

func doRequest(t *testing.T, handler http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func sampleRecords() []model.ReportRecord {
	created := time.Date(2026, 8, 25, 14, 30, 0, 0, time.UTC)
	return []model.ReportRecord{
		{
			ID:             1,
			RequestID:      "Acme_1_aaaa",
			CompanyName:    "Acme",
			Status:         model.StatusSuccess,
			DurationMS:     12000,
			PPTXBlobPath:   "one-pagers/acme/acme.pptx",
			SectionsStatus: []byte(`{"company_overview":"success"}`),
			ProductImages:  []string{"https://blob.example.com/p1.png"},
			CreatedAt:      created,
			UpdatedAt:      created.Add(5 * time.Minute),
		},
		{
			ID:           2,
			RequestID:    "Globex_2_bbbb",
			CompanyName:  "Globex",
			Status:       model.StatusError,
			ErrorMessage: "section failed",
			CreatedAt:    created.Add(-time.Hour),
		},
	}
}

func TestListReports(t *testing.T) {
	handler := newTestHandler(t, &mockSource{mode: model.ModeEnvFile, records: sampleRecords()}, &mockSecrets{})

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/reports")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var resp struct {
		Mode     string `json:"mode"`
		DemoData bool   `json:"demo_data"`
		Records  []struct {
			ID             int64           `json:"id"`
			CompanyName    string          `json:"company_name"`
			Status         string          `json:"status"`
			PPTXBlobPath   string          `json:"pptx_blob_path"`
			SectionsStatus json.RawMessage `json:"sections_status"`
			ProductImages  []string        `json:"product_images"`
			CreatedAt      string          `json:"created_at"`
		} `json:"records"`
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "envfile", resp.Mode)
	assert.False(t, resp.DemoData)
	assert.Empty(t, resp.Error)
	require.Len(t, resp.Records, 2)
	assert.Equal(t, "Acme", resp.Records[0].CompanyName)
	assert.Equal(t, "one-pagers/acme/acme.pptx", resp.Records[0].PPTXBlobPath)
	assert.JSONEq(t, `{"company_overview":"success"}`, string(resp.Records[0].SectionsStatus))
	assert.Equal(t, []string{"https://blob.example.com/p1.png"}, resp.Records[0].ProductImages)
	assert.Equal(t, "2026-08-25T14:30:00Z", resp.Records[0].CreatedAt)
}

func TestListReports_FilterParams(t *testing.T) {
	source := &mockSource{mode: model.ModeEnvFile}
	handler := newTestHandler(t, source, &mockSecrets{})

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/reports?status=success&company=Acme&days_back=7&limit=25")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.StatusSuccess, source.filter.Status)
	assert.Equal(t, "Acme", source.filter.Company)
	assert.Equal(t, 25, source.filter.Limit)
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, -7), source.filter.Since, time.Minute)
}

func TestListReports_InvalidStatus(t *testing.T) {
	handler := newTestHandler(t, &mockSource{mode: model.ModeEnvFile}, &mockSecrets{})

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/reports?status=bogus")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "bogus")
}

func TestListReports_InvalidDaysBack(t *testing.T) {
	handler := newTestHandler(t, &mockSource{mode: model.ModeEnvFile}, &mockSecrets{})

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/reports?days_back=-3")

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListReports_DataSourceErrorDegrades(t *testing.T) {
	dse := &model.DataSourceError{
		Kind: model.ErrKindNetwork,
		Op:   "fetch reports",
		Err:  errors.New("connection refused"),
	}
	handler := newTestHandler(t, &mockSource{mode: model.ModeSecrets, err: dse}, &mockSecrets{})

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/reports")

	// Degraded, not failed: 200 with an empty table and a banner message.
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Mode    string            `json:"mode"`
		Records []json.RawMessage `json:"records"`
		Error   string            `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "secrets", resp.Mode)
	assert.NotNil(t, resp.Records)
	assert.Empty(t, resp.Records)
	assert.Contains(t, resp.Error, "connection refused")
}

func TestReportSummary(t *testing.T) {
	handler := newTestHandler(t, &mockSource{mode: model.ModeEnvFile, records: sampleRecords()}, &mockSecrets{})

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/reports/summary")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Mode    string `json:"mode"`
		Summary struct {
			Total        int            `json:"total"`
			StatusCounts map[string]int `json:"status_counts"`
			SuccessRate  float64        `json:"success_rate"`
			WithErrors   int            `json:"with_errors"`
		} `json:"summary"`
		TopCompanies []struct {
			Company  string `json:"company"`
			Requests int    `json:"requests"`
		} `json:"top_companies"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, 2, resp.Summary.Total)
	assert.Equal(t, 1, resp.Summary.StatusCounts["success"])
	assert.InDelta(t, 50.0, resp.Summary.SuccessRate, 0.001)
	assert.Equal(t, 1, resp.Summary.WithErrors)
	require.Len(t, resp.TopCompanies, 2)
}

func TestExportCSV(t *testing.T) {
	handler := newTestHandler(t, &mockSource{mode: model.ModeEnvFile, records: sampleRecords()}, &mockSecrets{})

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/reports/export")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "one_pager_reports_")

	rows, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3) // Header + 2 records.
	assert.Equal(t, "id", rows[0][0])
	assert.Equal(t, "Acme", rows[1][2])
}

func TestExportCSV_DataSourceErrorYieldsHeaderOnly(t *testing.T) {
	dse := &model.DataSourceError{Kind: model.ErrKindTimeout, Op: "fetch reports", Err: errors.New("deadline exceeded")}
	handler := newTestHandler(t, &mockSource{mode: model.ModeEnvFile, err: dse}, &mockSecrets{})

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/reports/export")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Data-Source-Error"))

	rows, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestStatus_DemoModeCarriesWarning(t *testing.T) {
	handler := newTestHandler(t, &mockSource{mode: model.ModeDemo}, &mockSecrets{})

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/status")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Mode       string `json:"mode"`
		DemoData   bool   `json:"demo_data"`
		Warning    string `json:"warning"`
		ResolvedAt string `json:"resolved_at"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "demo", resp.Mode)
	assert.True(t, resp.DemoData)
	assert.NotEmpty(t, resp.Warning)
	assert.NotEmpty(t, resp.ResolvedAt)
}

func TestStatus_LiveModeHasNoWarning(t *testing.T) {
	handler := newTestHandler(t, &mockSource{mode: model.ModeSecrets}, &mockSecrets{})

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/status")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Mode     string `json:"mode"`
		Endpoint string `json:"endpoint"`
		Warning  string `json:"warning"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "secrets", resp.Mode)
	assert.Equal(t, "https://x.supabase.co", resp.Endpoint)
	assert.Empty(t, resp.Warning)
}

func TestRefresh_SwapsToNewlyConfiguredSecrets(t *testing.T) {
	secrets := &mockSecrets{}
	handler := newTestHandler(t, &mockSource{mode: model.ModeDemo}, secrets)

	// Credentials appear after startup; a manual refresh must pick them up.
	secrets.secrets = model.SupabaseSecrets{URL: "https://x.supabase.co", Key: "abc"}
	secrets.ok = true

	rec := doRequest(t, handler, http.MethodPost, "/api/v1/refresh")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Mode     string `json:"mode"`
		DemoData bool   `json:"demo_data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "secrets", resp.Mode)
	assert.False(t, resp.DemoData)

	status := doRequest(t, handler, http.MethodGet, "/api/v1/status")
	assert.Contains(t, status.Body.String(), `"mode":"secrets"`)
}

func TestRefresh_MethodNotAllowed(t *testing.T) {
	handler := newTestHandler(t, &mockSource{mode: model.ModeDemo}, &mockSecrets{})

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/refresh")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealth(t *testing.T) {
	handler := newTestHandler(t, &mockSource{mode: model.ModeDemo}, &mockSecrets{})

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/health")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestRequestID_InboundHeaderIsHonored(t *testing.T) {
	handler := newTestHandler(t, &mockSource{mode: model.ModeDemo}, &mockSecrets{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "test-id-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "test-id-123", rec.Header().Get("X-Request-ID"))
}
