package supabase

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/byndhq/reportdeck/internal/domain/model"
)

// reportRow is the wire representation of a one_pager_reports row. Nullable
// columns decode cleanly into zero values.
type reportRow struct {
	ID               int64           `json:"id"`
	RequestID        string          `json:"request_id"`
	SessionID        string          `json:"session_id"`
	CompanyName      string          `json:"company_name"`
	WebsiteURL       string          `json:"website_url"`
	Status           string          `json:"status"`
	GeneratedAt      string          `json:"generated_at"`
	DurationMS       int64           `json:"duration_ms"`
	FolderTitle      string          `json:"folder_title"`
	BasePath         string          `json:"base_path"`
	Container        string          `json:"container"`
	PPTXFilename     string          `json:"pptx_filename"`
	PPTXBlobURL      string          `json:"pptx_blob_url"`
	PPTXBlobPath     string          `json:"pptx_blob_path"`
	MetadataBlobURL  string          `json:"metadata_blob_url"`
	ExcelProvided    bool            `json:"excel_provided"`
	ExcelFilename    string          `json:"excel_filename"`
	ExcelSize        int64           `json:"excel_size"`
	ExcelBlobURL     string          `json:"excel_blob_url"`
	ExcelBlobPath    string          `json:"excel_blob_path"`
	SectionsStatus   json.RawMessage `json:"sections_status"`
	SectionsResponse json.RawMessage `json:"sections_response"`
	SectionSources   json.RawMessage `json:"section_sources"`
	ProductImages    []string        `json:"product_images"`
	Products         json.RawMessage `json:"products"`
	AzureUploadOK    bool            `json:"azure_upload_ok"`
	AzureUploadError string          `json:"azure_upload_error"`
	CompanyLogo      string          `json:"company_logo"`
	Warnings         []string        `json:"warnings"`
	ErrorType        string          `json:"error_type"`
	ErrorMessage     string          `json:"error_message"`
	CreatedAt        string          `json:"created_at"`
	UpdatedAt        string          `json:"updated_at"`
}

// timeFormats lists the timestamp layouts seen in the table. The writer side
// stores naive UTC isoformat strings; Postgres itself emits timestamptz.
var timeFormats = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999-07",
}

// parseTime parses a wire timestamp, returning the zero time for empty or
// unparseable values. Naive timestamps are interpreted as UTC.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// rawJSON passes a JSON-shaped column through untouched, collapsing SQL NULL
// (the literal "null") to nil so empty columns stay empty downstream.
func rawJSON(m json.RawMessage) json.RawMessage {
	if len(m) == 0 || bytes.Equal(m, []byte("null")) {
		return nil
	}
	return m
}

// mapRecord converts a wire row to the domain record.
func mapRecord(row reportRow) model.ReportRecord {
	return model.ReportRecord{
		ID:               row.ID,
		RequestID:        row.RequestID,
		SessionID:        row.SessionID,
		CompanyName:      row.CompanyName,
		WebsiteURL:       row.WebsiteURL,
		Status:           model.ReportStatus(row.Status),
		GeneratedAt:      parseTime(row.GeneratedAt),
		DurationMS:       row.DurationMS,
		FolderTitle:      row.FolderTitle,
		BasePath:         row.BasePath,
		Container:        row.Container,
		PPTXFilename:     row.PPTXFilename,
		PPTXBlobURL:      row.PPTXBlobURL,
		PPTXBlobPath:     row.PPTXBlobPath,
		MetadataBlobURL:  row.MetadataBlobURL,
		ExcelProvided:    row.ExcelProvided,
		ExcelFilename:    row.ExcelFilename,
		ExcelSize:        row.ExcelSize,
		ExcelBlobURL:     row.ExcelBlobURL,
		ExcelBlobPath:    row.ExcelBlobPath,
		SectionsStatus:   rawJSON(row.SectionsStatus),
		SectionsResponse: rawJSON(row.SectionsResponse),
		SectionSources:   rawJSON(row.SectionSources),
		ProductImages:    row.ProductImages,
		Products:         rawJSON(row.Products),
		AzureUploadOK:    row.AzureUploadOK,
		AzureUploadError: row.AzureUploadError,
		CompanyLogo:      row.CompanyLogo,
		Warnings:         row.Warnings,
		ErrorType:        row.ErrorType,
		ErrorMessage:     row.ErrorMessage,
		CreatedAt:        parseTime(row.CreatedAt),
		UpdatedAt:        parseTime(row.UpdatedAt),
	}
}
