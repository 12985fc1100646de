package model

import "time"

// ReportFilter narrows a fetch. Zero values mean "no filter" for that field.
type ReportFilter struct {
	Status  ReportStatus // Exact status match when non-empty.
	Company string       // Exact company name match when non-empty.
	Since   time.Time    // Only records created at or after this instant when non-zero.
	Limit   int          // Maximum rows returned when positive.
}

// Matches reports whether a record passes the filter's status, company, and
// date constraints. Limit is applied by the caller after ordering.
func (f ReportFilter) Matches(r ReportRecord) bool {
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.Company != "" && r.CompanyName != f.Company {
		return false
	}
	if !f.Since.IsZero() && r.CreatedAt.Before(f.Since) {
		return false
	}
	return true
}
