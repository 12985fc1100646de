package model

import "fmt"

// ConnectionDescriptor is the resolved, immutable record describing which data
// mode and which credentials (if any) a fetch should use. It is recomputed on
// every resolution and passed explicitly through function boundaries; resolved
// credentials are never written back into the process environment.
type ConnectionDescriptor struct {
	Mode       SourceMode
	Endpoint   string // Absent in demo mode.
	Credential string // Opaque bearer token; absent in demo mode.
}

// SupabaseSecrets is the typed shape of the supabase section of the secrets
// store. Both fields must be populated for the section to count as configured.
type SupabaseSecrets struct {
	URL string
	Key string
}

// IsLive returns true when the descriptor points at a remote data source
// rather than the synthetic demo dataset.
func (d ConnectionDescriptor) IsLive() bool {
	return d.Mode == ModeSecrets || d.Mode == ModeEnvFile
}

// Validate checks the descriptor invariant: endpoint and credential are both
// present iff the mode is a live mode, and both absent in demo mode.
func (d ConnectionDescriptor) Validate() error {
	switch d.Mode {
	case ModeSecrets, ModeEnvFile:
		if d.Endpoint == "" || d.Credential == "" {
			return fmt.Errorf("descriptor mode %q requires both endpoint and credential", d.Mode)
		}
	case ModeDemo:
		if d.Endpoint != "" || d.Credential != "" {
			return fmt.Errorf("demo descriptor must not carry endpoint or credential")
		}
	default:
		return fmt.Errorf("unknown source mode %q", d.Mode)
	}
	return nil
}
