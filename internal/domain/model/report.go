package model

import (
	"encoding/json"
	"time"
)

// ReportRecord represents one row of the one_pager_reports table. Records are
// immutable once fetched; their lifecycle is query-scoped (created per fetch,
// discarded on the next refresh).
type ReportRecord struct {
	ID               int64
	RequestID        string
	SessionID        string
	CompanyName      string
	WebsiteURL       string
	Status           ReportStatus
	GeneratedAt      time.Time
	DurationMS       int64
	FolderTitle      string
	BasePath         string
	Container        string
	PPTXFilename     string
	PPTXBlobURL      string
	PPTXBlobPath     string
	MetadataBlobURL  string
	ExcelProvided    bool
	ExcelFilename    string
	ExcelSize        int64
	ExcelBlobURL     string
	ExcelBlobPath    string
	SectionsStatus   json.RawMessage // Per-section generation state, opaque to this service.
	SectionsResponse json.RawMessage
	SectionSources   json.RawMessage
	ProductImages    []string
	Products         json.RawMessage
	AzureUploadOK    bool
	AzureUploadError string
	CompanyLogo      string
	Warnings         []string
	ErrorType        string
	ErrorMessage     string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DurationSeconds returns the generation duration in seconds, or 0 when no
// duration was recorded.
func (r ReportRecord) DurationSeconds() float64 {
	if r.DurationMS <= 0 {
		return 0
	}
	return float64(r.DurationMS) / 1000
}

// HasError returns true when the record carries an error message.
func (r ReportRecord) HasError() bool {
	return r.ErrorMessage != ""
}

// IsTerminal returns true when the record's status is a final state
// (anything other than in-progress).
func (r ReportRecord) IsTerminal() bool {
	return r.Status != StatusInProgress
}
