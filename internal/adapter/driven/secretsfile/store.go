// Package secretsfile implements the SecretsStore port backed by a YAML file
// managed by the deployment platform.
package secretsfile

import (
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/byndhq/reportdeck/internal/domain/model"
	"github.com/byndhq/reportdeck/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SecretsStore = (*Store)(nil)

// Store reads the secrets file on every lookup so that credential rotation
// takes effect on the next resolution without restarting the process.
type Store struct {
	path string
}

// secretsFile is the expected document shape: {supabase: {url, key}}.
type secretsFile struct {
	Supabase struct {
		URL string `yaml:"url"`
		Key string `yaml:"key"`
	} `yaml:"supabase"`
}

// NewStore creates a Store for the given file path. The file does not need
// to exist; absence means "not configured".
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the watched file path.
func (s *Store) Path() string {
	return s.path
}

// Supabase returns the supabase section of the secrets file. A missing file,
// unreadable file, malformed document, or partially populated section all
// report ok=false; none of these are errors at resolution time.
func (s *Store) Supabase() (model.SupabaseSecrets, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("secrets file unreadable", "path", s.path, "error", err)
		}
		return model.SupabaseSecrets{}, false
	}

	var doc secretsFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		slog.Warn("secrets file malformed", "path", s.path, "error", err)
		return model.SupabaseSecrets{}, false
	}

	if doc.Supabase.URL == "" || doc.Supabase.Key == "" {
		return model.SupabaseSecrets{}, false
	}

	return model.SupabaseSecrets{
		URL: doc.Supabase.URL,
		Key: doc.Supabase.Key,
	}, true
}
