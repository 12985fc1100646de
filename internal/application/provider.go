package application

import (
	"sync"
	"time"

	"github.com/byndhq/reportdeck/internal/domain/model"
	"github.com/byndhq/reportdeck/internal/domain/port/driven"
)

// SourceProvider enables runtime hot-swap of the active report source. It
// holds a mutex-protected reference to the current driven.ReportSource and
// its descriptor, allowing credential changes (manual refresh or a rotated
// secrets file) to take effect without restarting the application.
type SourceProvider struct {
	mu         sync.RWMutex
	source     driven.ReportSource
	descriptor model.ConnectionDescriptor
	resolvedAt time.Time
}

// NewSourceProvider creates a provider with the given initial source and the
// descriptor it was built from.
func NewSourceProvider(source driven.ReportSource, descriptor model.ConnectionDescriptor) *SourceProvider {
	return &SourceProvider{
		source:     source,
		descriptor: descriptor,
		resolvedAt: time.Now().UTC(),
	}
}

// Get returns the current report source.
func (p *SourceProvider) Get() driven.ReportSource {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.source
}

// Descriptor returns the descriptor behind the current source and the time
// it was resolved.
func (p *SourceProvider) Descriptor() (model.ConnectionDescriptor, time.Time) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.descriptor, p.resolvedAt
}

// Replace swaps the current source and descriptor. The next caller of Get
// or Descriptor receives the new values.
func (p *SourceProvider) Replace(source driven.ReportSource, descriptor model.ConnectionDescriptor) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.source = source
	p.descriptor = descriptor
	p.resolvedAt = time.Now().UTC()
}
