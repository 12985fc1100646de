package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/byndhq/reportdeck/internal/application"
	"github.com/byndhq/reportdeck/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// ReportResponse is the JSON representation of one report row.
type ReportResponse struct {
	ID               int64           `json:"id"`
	RequestID        string          `json:"request_id"`
	SessionID        string          `json:"session_id,omitempty"`
	CompanyName      string          `json:"company_name"`
	WebsiteURL       string          `json:"website_url"`
	Status           string          `json:"status"`
	GeneratedAt      string          `json:"generated_at"`
	DurationMS       int64           `json:"duration_ms"`
	DurationSeconds  float64         `json:"duration_seconds"`
	FolderTitle      string          `json:"folder_title"`
	BasePath         string          `json:"base_path"`
	Container        string          `json:"container"`
	PPTXFilename     string          `json:"pptx_filename"`
	PPTXBlobURL      string          `json:"pptx_blob_url"`
	PPTXBlobPath     string          `json:"pptx_blob_path,omitempty"`
	MetadataBlobURL  string          `json:"metadata_blob_url"`
	ExcelProvided    bool            `json:"excel_provided"`
	ExcelFilename    string          `json:"excel_filename"`
	ExcelSize        int64           `json:"excel_size"`
	ExcelBlobURL     string          `json:"excel_blob_url"`
	ExcelBlobPath    string          `json:"excel_blob_path,omitempty"`
	SectionsStatus   json.RawMessage `json:"sections_status,omitempty"`
	SectionsResponse json.RawMessage `json:"sections_response,omitempty"`
	SectionSources   json.RawMessage `json:"section_sources,omitempty"`
	ProductImages    []string        `json:"product_images,omitempty"`
	Products         json.RawMessage `json:"products,omitempty"`
	AzureUploadOK    bool            `json:"azure_upload_ok"`
	AzureUploadError string          `json:"azure_upload_error,omitempty"`
	CompanyLogo      string          `json:"company_logo,omitempty"`
	Warnings         []string        `json:"warnings"`
	ErrorType        string          `json:"error_type,omitempty"`
	ErrorMessage     string          `json:"error_message,omitempty"`
	CreatedAt        string          `json:"created_at"`
	UpdatedAt        string          `json:"updated_at"`
}

// ReportsResponse is the envelope for the list endpoint. Error is populated
// when the fetch degraded to an empty result; the rendering surface displays
// it as a banner.
type ReportsResponse struct {
	Mode     string           `json:"mode"`
	DemoData bool             `json:"demo_data"`
	Records  []ReportResponse `json:"records"`
	Error    string           `json:"error,omitempty"`
}

// SummaryResponse is the envelope for the summary endpoint.
type SummaryResponse struct {
	Mode         string                    `json:"mode"`
	DemoData     bool                      `json:"demo_data"`
	Summary      MetricsResponse           `json:"summary"`
	TopCompanies []CompanyActivityResponse `json:"top_companies"`
	Error        string                    `json:"error,omitempty"`
}

// MetricsResponse is the JSON representation of the key metrics block.
type MetricsResponse struct {
	Total         int            `json:"total"`
	StatusCounts  map[string]int `json:"status_counts"`
	SuccessRate   float64        `json:"success_rate"`
	TimeoutRate   float64        `json:"timeout_rate"`
	AvgDurationMS float64        `json:"avg_duration_ms"`
	MaxDurationMS int64          `json:"max_duration_ms"`
	WithPPTX      int            `json:"with_pptx"`
	WithExcel     int            `json:"with_excel"`
	AzureUploads  int            `json:"azure_uploads"`
	WithErrors    int            `json:"with_errors"`
}

// CompanyActivityResponse is one entry of the most-active-companies ranking.
type CompanyActivityResponse struct {
	Company  string `json:"company"`
	Requests int    `json:"requests"`
}

// StatusResponse reports the active source mode and resolution time.
type StatusResponse struct {
	Mode       string `json:"mode"`
	DemoData   bool   `json:"demo_data"`
	Endpoint   string `json:"endpoint,omitempty"`
	ResolvedAt string `json:"resolved_at"`
	Warning    string `json:"warning,omitempty"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// toReportResponse converts a domain record to its JSON representation.
func toReportResponse(r model.ReportRecord) ReportResponse {
	warnings := r.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	return ReportResponse{
		ID:               r.ID,
		RequestID:        r.RequestID,
		SessionID:        r.SessionID,
		CompanyName:      r.CompanyName,
		WebsiteURL:       r.WebsiteURL,
		Status:           string(r.Status),
		GeneratedAt:      formatTime(r.GeneratedAt),
		DurationMS:       r.DurationMS,
		DurationSeconds:  r.DurationSeconds(),
		FolderTitle:      r.FolderTitle,
		BasePath:         r.BasePath,
		Container:        r.Container,
		PPTXFilename:     r.PPTXFilename,
		PPTXBlobURL:      r.PPTXBlobURL,
		PPTXBlobPath:     r.PPTXBlobPath,
		MetadataBlobURL:  r.MetadataBlobURL,
		ExcelProvided:    r.ExcelProvided,
		ExcelFilename:    r.ExcelFilename,
		ExcelSize:        r.ExcelSize,
		ExcelBlobURL:     r.ExcelBlobURL,
		ExcelBlobPath:    r.ExcelBlobPath,
		SectionsStatus:   r.SectionsStatus,
		SectionsResponse: r.SectionsResponse,
		SectionSources:   r.SectionSources,
		ProductImages:    r.ProductImages,
		Products:         r.Products,
		AzureUploadOK:    r.AzureUploadOK,
		AzureUploadError: r.AzureUploadError,
		CompanyLogo:      r.CompanyLogo,
		Warnings:         warnings,
		ErrorType:        r.ErrorType,
		ErrorMessage:     r.ErrorMessage,
		CreatedAt:        formatTime(r.CreatedAt),
		UpdatedAt:        formatTime(r.UpdatedAt),
	}
}

// toReportsResponse converts a fetch result to the list envelope.
func toReportsResponse(result application.FetchResult) ReportsResponse {
	records := make([]ReportResponse, 0, len(result.Records))
	for _, r := range result.Records {
		records = append(records, toReportResponse(r))
	}

	resp := ReportsResponse{
		Mode:     string(result.Mode),
		DemoData: result.Mode == model.ModeDemo,
		Records:  records,
	}
	if result.Err != nil {
		resp.Error = result.Err.Error()
	}
	return resp
}

// toSummaryResponse computes and converts the aggregate views for a fetch result.
func toSummaryResponse(result application.FetchResult) SummaryResponse {
	sum := application.Summarize(result.Records)

	statusCounts := make(map[string]int, len(sum.StatusCounts))
	for status, count := range sum.StatusCounts {
		statusCounts[string(status)] = count
	}

	top := application.TopCompanies(result.Records, 5)
	topResp := make([]CompanyActivityResponse, 0, len(top))
	for _, c := range top {
		topResp = append(topResp, CompanyActivityResponse{Company: c.Company, Requests: c.Requests})
	}

	resp := SummaryResponse{
		Mode:     string(result.Mode),
		DemoData: result.Mode == model.ModeDemo,
		Summary: MetricsResponse{
			Total:         sum.Total,
			StatusCounts:  statusCounts,
			SuccessRate:   sum.SuccessRate,
			TimeoutRate:   sum.TimeoutRate,
			AvgDurationMS: sum.AvgDurationMS,
			MaxDurationMS: sum.MaxDurationMS,
			WithPPTX:      sum.WithPPTX,
			WithExcel:     sum.WithExcel,
			AzureUploads:  sum.AzureUploads,
			WithErrors:    sum.WithErrors,
		},
		TopCompanies: topResp,
	}
	if result.Err != nil {
		resp.Error = result.Err.Error()
	}
	return resp
}

// toStatusResponse converts a descriptor to the status envelope. The
// credential is never echoed back; only the endpoint is shown for live modes.
func toStatusResponse(desc model.ConnectionDescriptor, resolvedAt time.Time) StatusResponse {
	resp := StatusResponse{
		Mode:       string(desc.Mode),
		DemoData:   desc.Mode == model.ModeDemo,
		Endpoint:   desc.Endpoint,
		ResolvedAt: formatTime(resolvedAt),
	}
	if desc.Mode == model.ModeDemo {
		resp.Warning = "Supabase credentials not found in secrets or environment. Displaying demo data."
	}
	return resp
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
