package application

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/byndhq/reportdeck/internal/domain/model"
)

// csvHeader is the fixed column order of the CSV export.
var csvHeader = []string{
	"id",
	"request_id",
	"company_name",
	"website_url",
	"status",
	"duration_ms",
	"created_at",
	"updated_at",
	"folder_title",
	"base_path",
	"container",
	"pptx_filename",
	"pptx_blob_url",
	"pptx_blob_path",
	"metadata_blob_url",
	"excel_provided",
	"excel_filename",
	"excel_size",
	"excel_blob_url",
	"excel_blob_path",
	"sections_status",
	"sections_response",
	"section_sources",
	"product_images",
	"products",
	"azure_upload_ok",
	"azure_upload_error",
	"error_type",
	"error_message",
	"warnings",
}

// WriteCSV writes the materialized records to w as RFC 4180 CSV with a header
// row. Rows are written unmodified in the order given; warnings are joined
// with "; " into a single cell.
func WriteCSV(w io.Writer, records []model.ReportRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, r := range records {
		row := []string{
			strconv.FormatInt(r.ID, 10),
			r.RequestID,
			r.CompanyName,
			r.WebsiteURL,
			string(r.Status),
			strconv.FormatInt(r.DurationMS, 10),
			formatCSVTime(r.CreatedAt),
			formatCSVTime(r.UpdatedAt),
			r.FolderTitle,
			r.BasePath,
			r.Container,
			r.PPTXFilename,
			r.PPTXBlobURL,
			r.PPTXBlobPath,
			r.MetadataBlobURL,
			strconv.FormatBool(r.ExcelProvided),
			r.ExcelFilename,
			strconv.FormatInt(r.ExcelSize, 10),
			r.ExcelBlobURL,
			r.ExcelBlobPath,
			string(r.SectionsStatus),
			string(r.SectionsResponse),
			string(r.SectionSources),
			strings.Join(r.ProductImages, "; "),
			string(r.Products),
			strconv.FormatBool(r.AzureUploadOK),
			r.AzureUploadError,
			r.ErrorType,
			r.ErrorMessage,
			strings.Join(r.Warnings, "; "),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row for record %d: %w", r.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatCSVTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
