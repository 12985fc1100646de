// Package application contains use-case orchestration services.
package application

import (
	"log/slog"
	"os"

	"github.com/byndhq/reportdeck/internal/domain/model"
	"github.com/byndhq/reportdeck/internal/domain/port/driven"
	"github.com/byndhq/reportdeck/internal/metrics"
)

// Environment variables consulted when the secrets store has no complete
// supabase section. Both must be non-empty to count as configured.
const (
	EnvSupabaseURL = "SUPABASE_URL"
	EnvSupabaseKey = "SUPABASE_ANON_KEY"
)

// Resolver determines which data source mode to run in. It owns no state
// beyond its collaborators; the descriptor is recomputed on every call.
type Resolver struct {
	secrets driven.SecretsStore // May be nil when no secrets store is configured.
	logger  *slog.Logger
}

// NewResolver creates a Resolver. secrets may be nil, in which case only the
// environment pair and demo mode are considered.
func NewResolver(secrets driven.SecretsStore, logger *slog.Logger) *Resolver {
	return &Resolver{
		secrets: secrets,
		logger:  logger,
	}
}

// Resolve produces a connection descriptor from ambient configuration.
// Strict priority order, first match wins:
//
//  1. A complete supabase section in the secrets store.
//  2. Both SUPABASE_URL and SUPABASE_ANON_KEY non-empty in the environment
//     (an optional .env file is loaded into the environment before this runs).
//  3. Demo mode, with a non-fatal warning logged exactly once per resolution.
//
// Values are taken exactly as found; malformed URLs or keys are only
// discovered on the first query attempt.
func (r *Resolver) Resolve() model.ConnectionDescriptor {
	if r.secrets != nil {
		if sb, ok := r.secrets.Supabase(); ok {
			r.logger.Info("using supabase credentials from secrets store")
			metrics.ResolutionsTotal.WithLabelValues(string(model.ModeSecrets)).Inc()
			return model.ConnectionDescriptor{
				Mode:       model.ModeSecrets,
				Endpoint:   sb.URL,
				Credential: sb.Key,
			}
		}
	}

	url := os.Getenv(EnvSupabaseURL)
	key := os.Getenv(EnvSupabaseKey)
	if url != "" && key != "" {
		r.logger.Info("using supabase credentials from environment")
		metrics.ResolutionsTotal.WithLabelValues(string(model.ModeEnvFile)).Inc()
		return model.ConnectionDescriptor{
			Mode:       model.ModeEnvFile,
			Endpoint:   url,
			Credential: key,
		}
	}

	r.logger.Warn("supabase credentials not found in secrets store or environment, running in demo mode")
	metrics.ResolutionsTotal.WithLabelValues(string(model.ModeDemo)).Inc()
	return model.ConnectionDescriptor{Mode: model.ModeDemo}
}
