// Package demo implements the ReportSource port with a locally synthesized
// dataset, used when no live database credentials are resolvable.
package demo

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/byndhq/reportdeck/internal/domain/model"
	"github.com/byndhq/reportdeck/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ReportSource = (*Source)(nil)

// recordCount is sized to exercise every rendering path (metrics, charts,
// table pagination, CSV export) without a network dependency.
const recordCount = 40

// seed fixes the generator so identical anchors produce identical datasets.
const seed = 20240117

var companies = []string{
	"Aurora Fabrication",
	"Basin Logistics",
	"Cobalt Analytics",
	"Delta Harvest Foods",
	"Ember Robotics",
	"Fairway Medical",
	"Granite Software",
	"Harbor Textiles",
}

// statusCycle guarantees every status appears in the dataset while keeping
// success the most common outcome, as in production traffic.
var statusCycle = []model.ReportStatus{
	model.StatusSuccess,
	model.StatusSuccess,
	model.StatusInProgress,
	model.StatusSuccess,
	model.StatusPartialSuccess,
	model.StatusError,
	model.StatusSuccess,
	model.StatusTimeout,
}

// Source serves a synthetic dataset generated once at construction. Records
// span the 7 days before the anchor, so repeated fetches with identical
// filters return identical results for the lifetime of the Source.
type Source struct {
	records []model.ReportRecord
}

// NewSource builds a Source anchored at the given instant, typically process
// startup time.
func NewSource(anchor time.Time) *Source {
	return &Source{records: generate(anchor.UTC())}
}

// Mode identifies this source as demo data.
func (s *Source) Mode() model.SourceMode {
	return model.ModeDemo
}

// FetchReports returns the synthetic records matching the filter, newest
// first. It never fails.
func (s *Source) FetchReports(_ context.Context, filter model.ReportFilter) ([]model.ReportRecord, error) {
	out := make([]model.ReportRecord, 0, len(s.records))
	for _, r := range s.records {
		if filter.Matches(r) {
			out = append(out, r)
		}
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func generate(anchor time.Time) []model.ReportRecord {
	rng := rand.New(rand.NewSource(seed))
	records := make([]model.ReportRecord, 0, recordCount)

	for i := 0; i < recordCount; i++ {
		company := companies[i%len(companies)]
		slug := slugify(company)
		status := statusCycle[i%len(statusCycle)]

		createdAt := anchor.
			Add(-time.Duration(rng.Intn(7*24)) * time.Hour).
			Add(-time.Duration(rng.Intn(60)) * time.Minute)
		updatedAt := createdAt.Add(time.Duration(1+rng.Intn(59)) * time.Minute)

		var durationMS int64
		if status != model.StatusInProgress {
			durationMS = 5000 + rng.Int63n(25000)
		}

		rec := model.ReportRecord{
			ID:            int64(i + 1),
			RequestID:     requestID(company, createdAt, i),
			CompanyName:   company,
			WebsiteURL:    fmt.Sprintf("https://%s.example.com", slug),
			Status:        status,
			GeneratedAt:   createdAt,
			DurationMS:    durationMS,
			FolderTitle:   slug,
			BasePath:      "one-pagers/" + slug,
			Container:     "bynd-dev",
			PPTXFilename:  slug + ".pptx",
			AzureUploadOK: true,
			CreatedAt:     createdAt,
			UpdatedAt:     updatedAt,
		}

		if rng.Intn(10) < 7 {
			rec.PPTXBlobURL = fmt.Sprintf("https://demo.blob.example.com/%s/%s.pptx", rec.BasePath, slug)
			rec.PPTXBlobPath = fmt.Sprintf("%s/%s.pptx", rec.BasePath, slug)
			rec.MetadataBlobURL = fmt.Sprintf("https://demo.blob.example.com/%s/metadata.json", rec.BasePath)
		}
		if rng.Intn(2) == 0 {
			rec.ExcelProvided = true
			rec.ExcelFilename = slug + ".xlsx"
			rec.ExcelSize = 10000 + rng.Int63n(90000)
			rec.ExcelBlobURL = fmt.Sprintf("https://demo.blob.example.com/%s/excel/%s.xlsx", rec.BasePath, slug)
			rec.ExcelBlobPath = fmt.Sprintf("%s/excel/%s.xlsx", rec.BasePath, slug)
		}
		if rng.Intn(4) == 0 {
			rec.Warnings = []string{"logo image below minimum resolution"}
		}

		switch status {
		case model.StatusSuccess:
			rec.SectionsStatus = json.RawMessage(`{"company_overview":"success","products":"success","financials":"success"}`)
			rec.ProductImages = []string{
				fmt.Sprintf("https://demo.blob.example.com/%s/products/1.png", rec.BasePath),
				fmt.Sprintf("https://demo.blob.example.com/%s/products/2.png", rec.BasePath),
			}
			rec.Products = json.RawMessage(fmt.Sprintf(`[{"name":"%s flagship","category":"core"}]`, company))
		case model.StatusError:
			rec.AzureUploadOK = false
			rec.AzureUploadError = "blob upload rejected: container quota exceeded"
			rec.ErrorType = "GenerationError"
			rec.ErrorMessage = "section generation failed for operations overview"
			rec.SectionsStatus = json.RawMessage(`{"company_overview":"success","products":"error"}`)
		case model.StatusTimeout:
			rec.ErrorType = "TimeoutError"
			rec.ErrorMessage = "generation exceeded the configured deadline"
		case model.StatusPartialSuccess:
			rec.Warnings = append(rec.Warnings, "2 of 6 sections used fallback content")
			rec.SectionsStatus = json.RawMessage(`{"company_overview":"success","products":"fallback","financials":"fallback"}`)
			rec.SectionSources = json.RawMessage(`{"company_overview":["https://demo.example.com/about"]}`)
		}

		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	return records
}

// requestID mirrors the production ID shape: sanitized company name, creation
// millis, and a short stable suffix derived from the record index.
func requestID(company string, createdAt time.Time, i int) string {
	id := uuid.NewSHA1(uuid.NameSpaceURL, fmt.Appendf(nil, "reportdeck/demo/%d", i))
	suffix := strings.ReplaceAll(id.String(), "-", "")[:8]

	safe := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, company)

	return fmt.Sprintf("%s_%d_%s", safe, createdAt.UnixMilli(), suffix)
}

func slugify(company string) string {
	return strings.ReplaceAll(strings.ToLower(company), " ", "-")
}
