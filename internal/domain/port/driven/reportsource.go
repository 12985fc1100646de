// Package driven defines the outbound port interfaces implemented by driven adapters.
package driven

import (
	"context"

	"github.com/byndhq/reportdeck/internal/domain/model"
)

// ReportSource is the port for fetching one-pager report records. It is
// implemented by the Supabase adapter (live modes) and the demo adapter
// (synthetic data). Each fetch is a fresh call: implementations do not cache
// results or track staleness.
type ReportSource interface {
	// FetchReports returns records matching the filter, newest first.
	// Live implementations return a *model.DataSourceError on any remote
	// failure; they never substitute synthetic data.
	FetchReports(ctx context.Context, filter model.ReportFilter) ([]model.ReportRecord, error)

	// Mode identifies which configuration source backs this source.
	Mode() model.SourceMode
}
