package application

import (
	"log/slog"

	"github.com/byndhq/reportdeck/internal/domain/model"
	"github.com/byndhq/reportdeck/internal/domain/port/driven"
)

// SourceFactory builds a report source for a resolved descriptor. The
// composition root supplies the factory so the application layer stays free
// of adapter imports.
type SourceFactory func(model.ConnectionDescriptor) driven.ReportSource

// RefreshService re-runs credential resolution and hot-swaps the active
// source when the descriptor changed. It backs the manual refresh endpoint
// and the secrets-file watcher.
type RefreshService struct {
	resolver *Resolver
	provider *SourceProvider
	factory  SourceFactory
	logger   *slog.Logger
}

// NewRefreshService creates a RefreshService with the required dependencies.
func NewRefreshService(resolver *Resolver, provider *SourceProvider, factory SourceFactory, logger *slog.Logger) *RefreshService {
	return &RefreshService{
		resolver: resolver,
		provider: provider,
		factory:  factory,
		logger:   logger,
	}
}

// Refresh resolves a fresh descriptor and swaps in a newly built source when
// anything changed. An unchanged descriptor keeps the existing source, which
// preserves the demo dataset's anchor and avoids churning live clients. The
// resolved descriptor is returned either way.
func (s *RefreshService) Refresh() model.ConnectionDescriptor {
	desc := s.resolver.Resolve()

	current, _ := s.provider.Descriptor()
	if desc == current {
		s.logger.Info("refresh resolved unchanged descriptor", "mode", desc.Mode)
		return desc
	}

	s.provider.Replace(s.factory(desc), desc)
	s.logger.Info("report source swapped", "previous_mode", current.Mode, "mode", desc.Mode)
	return desc
}
