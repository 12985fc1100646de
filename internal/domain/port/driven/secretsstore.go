package driven

import "github.com/byndhq/reportdeck/internal/domain/model"

// SecretsStore is the port for the deployment platform's structured secrets
// source, distinct from process environment variables.
type SecretsStore interface {
	// Supabase returns the supabase section of the store. ok is false when
	// the store is unavailable, the section is missing, or either field is
	// empty; partial shape is equivalent to "not configured".
	Supabase() (model.SupabaseSecrets, bool)
}
