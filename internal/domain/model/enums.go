package model

// ReportStatus represents the lifecycle state of a one-pager request.
type ReportStatus string

const (
	StatusInProgress     ReportStatus = "in-progress"
	StatusSuccess        ReportStatus = "success"
	StatusPartialSuccess ReportStatus = "partial-success"
	StatusError          ReportStatus = "error"
	StatusTimeout        ReportStatus = "timeout"
)

// AllStatuses lists every known report status in display order.
func AllStatuses() []ReportStatus {
	return []ReportStatus{
		StatusInProgress,
		StatusSuccess,
		StatusPartialSuccess,
		StatusError,
		StatusTimeout,
	}
}

// IsValid returns true when s is one of the known report statuses.
func (s ReportStatus) IsValid() bool {
	switch s {
	case StatusInProgress, StatusSuccess, StatusPartialSuccess, StatusError, StatusTimeout:
		return true
	}
	return false
}

// SourceMode identifies which ambient configuration source produced the
// active connection descriptor.
type SourceMode string

const (
	ModeSecrets SourceMode = "secrets"
	ModeEnvFile SourceMode = "envfile"
	ModeDemo    SourceMode = "demo"
)
