// Package supabase implements the ReportSource port against a Supabase
// PostgREST endpoint using the postgrest-go client library.
package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/supabase-community/postgrest-go"

	"github.com/byndhq/reportdeck/internal/domain/model"
	"github.com/byndhq/reportdeck/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ReportSource = (*Source)(nil)

// tableName is the remote table holding one-pager report rows.
const tableName = "one_pager_reports"

// Source implements the driven.ReportSource port. It owns the network client;
// a new Source is built whenever credentials are re-resolved.
type Source struct {
	client  *postgrest.Client
	mode    model.SourceMode
	timeout time.Duration
	maxRows int
}

// NewSource creates a Source against the given Supabase project URL using the
// anon key as bearer credential. No validation of the endpoint or key happens
// here; malformed values surface as a DataSourceError on the first fetch.
func NewSource(endpoint, credential string, mode model.SourceMode, timeout time.Duration, maxRows int) *Source {
	return NewSourceWithRESTURL(restURL(endpoint), credential, mode, timeout, maxRows)
}

// NewSourceWithRESTURL creates a Source against a fully qualified PostgREST
// base URL. This constructor is intended for testing, allowing injection of
// an httptest server.
func NewSourceWithRESTURL(rawURL, credential string, mode model.SourceMode, timeout time.Duration, maxRows int) *Source {
	client := postgrest.NewClient(rawURL, "", map[string]string{
		"apikey": credential,
	})
	client.SetAuthToken(credential)

	return &Source{
		client:  client,
		mode:    mode,
		timeout: timeout,
		maxRows: maxRows,
	}
}

// Mode identifies which configuration source backs this Source.
func (s *Source) Mode() model.SourceMode {
	return s.mode
}

// FetchReports queries one_pager_reports with the given filter, newest first.
// Every failure is converted to a *model.DataSourceError; the process is
// never crashed and demo data is never substituted.
func (s *Source) FetchReports(ctx context.Context, filter model.ReportFilter) ([]model.ReportRecord, error) {
	const op = "fetch reports"

	if s.client.ClientError != nil {
		return nil, &model.DataSourceError{Kind: model.ErrKindQuery, Op: op, Err: s.client.ClientError}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	q := s.client.From(tableName).Select("*", "", false)
	if filter.Status != "" {
		q = q.Eq("status", string(filter.Status))
	}
	if filter.Company != "" {
		q = q.Eq("company_name", filter.Company)
	}
	if !filter.Since.IsZero() {
		q = q.Gte("created_at", filter.Since.UTC().Format(time.RFC3339))
	}

	limit := filter.Limit
	if limit <= 0 || limit > s.maxRows {
		limit = s.maxRows
	}
	q = q.Order("created_at", &postgrest.OrderOpts{Ascending: false}).Limit(limit, "")

	data, _, err := q.ExecuteWithContext(ctx)
	if err != nil {
		return nil, &model.DataSourceError{Kind: classify(err), Op: op, Err: err}
	}

	var rows []reportRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, &model.DataSourceError{
			Kind: model.ErrKindQuery,
			Op:   op,
			Err:  fmt.Errorf("decoding response: %w", err),
		}
	}

	records := make([]model.ReportRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, mapRecord(row))
	}

	return records, nil
}

// restURL derives the PostgREST base URL from a Supabase project URL.
func restURL(endpoint string) string {
	trimmed := strings.TrimRight(endpoint, "/")
	if strings.HasSuffix(trimmed, "/rest/v1") {
		return trimmed
	}
	return trimmed + "/rest/v1"
}

// classify maps a fetch failure to a DataSourceErrorKind. PostgREST reports
// auth and schema problems as message bodies rather than distinct Go types,
// so classification beyond timeouts and transport errors is by message
// inspection with a conservative fallback to ErrKindQuery.
func classify(err error) model.DataSourceErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return model.ErrKindTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return model.ErrKindTimeout
		}
		return model.ErrKindNetwork
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "deadline exceeded"),
		strings.Contains(msg, "timeout"):
		return model.ErrKindTimeout
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "no such host"),
		strings.Contains(msg, "unsupported protocol"):
		return model.ErrKindNetwork
	case strings.Contains(msg, "jwt"),
		strings.Contains(msg, "api key"),
		strings.Contains(msg, "unauthorized"),
		strings.Contains(msg, "permission denied"):
		return model.ErrKindAuth
	default:
		return model.ErrKindQuery
	}
}
