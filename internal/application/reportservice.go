package application

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/byndhq/reportdeck/internal/domain/model"
	"github.com/byndhq/reportdeck/internal/metrics"
)

// FetchResult is the uniform tabular result handed to the rendering surface.
// On a data source failure Records is empty (never nil) and Err carries the
// user-visible error; demo data is never substituted for a failed live fetch
// so that real misconfiguration stays visible to the operator.
type FetchResult struct {
	Mode    model.SourceMode
	Records []model.ReportRecord
	Err     *model.DataSourceError
}

// ReportService is the data access facade. It fetches rows through the
// current report source and computes display-ready aggregates.
type ReportService struct {
	provider *SourceProvider
	logger   *slog.Logger
}

// NewReportService creates a ReportService with the required dependencies.
func NewReportService(provider *SourceProvider, logger *slog.Logger) *ReportService {
	return &ReportService{
		provider: provider,
		logger:   logger,
	}
}

// Fetch executes one query against the current source. Failures are caught
// at this boundary: the result degrades to an empty record set with the
// error attached, and the process is never terminated. No automatic retry is
// performed; a manual refresh re-invokes the full resolve+fetch path.
func (s *ReportService) Fetch(ctx context.Context, filter model.ReportFilter) FetchResult {
	source := s.provider.Get()
	mode := source.Mode()

	start := time.Now()
	records, err := source.FetchReports(ctx, filter)
	metrics.FetchDuration.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.FetchTotal.WithLabelValues(string(mode), "error").Inc()
		s.logger.Warn("report fetch failed", "mode", mode, "error", err)

		dse, ok := model.AsDataSourceError(err)
		if !ok {
			dse = &model.DataSourceError{Kind: model.ErrKindQuery, Op: "fetch reports", Err: err}
		}
		return FetchResult{Mode: mode, Records: []model.ReportRecord{}, Err: dse}
	}

	metrics.FetchTotal.WithLabelValues(string(mode), "success").Inc()
	if records == nil {
		records = []model.ReportRecord{}
	}
	return FetchResult{Mode: mode, Records: records}
}

// Summary holds the key metrics displayed above the dashboard table.
type Summary struct {
	Total         int
	StatusCounts  map[model.ReportStatus]int
	SuccessRate   float64 // Percentage 0-100.
	TimeoutRate   float64 // Percentage 0-100.
	AvgDurationMS float64 // Over records with a recorded duration.
	MaxDurationMS int64
	WithPPTX      int
	WithExcel     int
	AzureUploads  int
	WithErrors    int
}

// Summarize computes the dashboard metrics over a fetched record set.
func Summarize(records []model.ReportRecord) Summary {
	sum := Summary{
		Total:        len(records),
		StatusCounts: make(map[model.ReportStatus]int),
	}

	var durTotal int64
	var durCount int
	for _, r := range records {
		sum.StatusCounts[r.Status]++
		if r.PPTXBlobURL != "" {
			sum.WithPPTX++
		}
		if r.ExcelProvided {
			sum.WithExcel++
		}
		if r.AzureUploadOK {
			sum.AzureUploads++
		}
		if r.HasError() {
			sum.WithErrors++
		}
		if r.DurationMS > 0 {
			durTotal += r.DurationMS
			durCount++
			if r.DurationMS > sum.MaxDurationMS {
				sum.MaxDurationMS = r.DurationMS
			}
		}
	}

	if sum.Total > 0 {
		sum.SuccessRate = float64(sum.StatusCounts[model.StatusSuccess]) / float64(sum.Total) * 100
		sum.TimeoutRate = float64(sum.StatusCounts[model.StatusTimeout]) / float64(sum.Total) * 100
	}
	if durCount > 0 {
		sum.AvgDurationMS = float64(durTotal) / float64(durCount)
	}

	return sum
}

// CompanyActivity is one bar of the most-active-companies chart.
type CompanyActivity struct {
	Company  string
	Requests int
}

// TopCompanies returns the n companies with the most requests, most active
// first. Company names are trimmed before counting so that whitespace
// variants of the same name collapse into one entry; ties break
// alphabetically for stable output.
func TopCompanies(records []model.ReportRecord, n int) []CompanyActivity {
	counts := make(map[string]int)
	for _, r := range records {
		name := strings.TrimSpace(r.CompanyName)
		if name == "" {
			continue
		}
		counts[name]++
	}

	activity := make([]CompanyActivity, 0, len(counts))
	for company, requests := range counts {
		activity = append(activity, CompanyActivity{Company: company, Requests: requests})
	}

	sort.Slice(activity, func(i, j int) bool {
		if activity[i].Requests != activity[j].Requests {
			return activity[i].Requests > activity[j].Requests
		}
		return activity[i].Company < activity[j].Company
	})

	if n > 0 && len(activity) > n {
		activity = activity[:n]
	}
	return activity
}
