package model

import (
	"errors"
	"fmt"
)

// DataSourceErrorKind categorizes a remote fetch failure.
type DataSourceErrorKind string

const (
	ErrKindNetwork DataSourceErrorKind = "network" // Connection refused, DNS failure, broken transport.
	ErrKindTimeout DataSourceErrorKind = "timeout" // Bounded fetch deadline exceeded.
	ErrKindAuth    DataSourceErrorKind = "auth"    // Credential rejected by the remote service.
	ErrKindQuery   DataSourceErrorKind = "query"   // Missing table, malformed endpoint, or any other query failure.
)

// DataSourceError wraps a failure from the remote data source. It is caught
// at the facade boundary and surfaced as a user-visible message alongside an
// empty result set; it never terminates the process and never triggers a
// silent fallback to demo data.
type DataSourceError struct {
	Kind DataSourceErrorKind
	Op   string // The operation that failed, e.g. "fetch reports".
	Err  error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Op, e.Err, e.Kind)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}

// AsDataSourceError unwraps err into a *DataSourceError if one is present in
// its chain.
func AsDataSourceError(err error) (*DataSourceError, bool) {
	var dse *DataSourceError
	if errors.As(err, &dse) {
		return dse, true
	}
	return nil, false
}
