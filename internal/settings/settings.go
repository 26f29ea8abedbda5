// Package settings resolves the configuration properties that apply to a project.
package settings

import (
	"context"
	"fmt"
	"maps"
	"strings"

	"github.com/jblievremont/sonarqube/internal/contract"
)

// Properties is an immutable property map.
type Properties map[string]string

var _ contract.Settings = Properties{}

// GetString returns the trimmed value of key, or "" when it is not set.
func (p Properties) GetString(key string) string {
	return strings.TrimSpace(p[key])
}

// Repository layers store properties over configured defaults. Project properties
// win over global ones, which win over defaults.
type Repository struct {
	store    contract.ReferenceStore
	defaults map[string]string
}

var _ contract.ProjectSettingsRepository = &Repository{} // Compile-time check

func NewRepository(store contract.ReferenceStore, defaults map[string]string) *Repository {
	return &Repository{store: store, defaults: defaults}
}

func (r *Repository) GetProjectSettings(ctx context.Context, projectKey string) (contract.Settings, error) {
	props := make(Properties, len(r.defaults))
	maps.Copy(props, r.defaults)
	if r.store == nil {
		return props, nil
	}
	stored, err := r.store.SelectProperties(ctx, projectKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings of %s: %w", projectKey, err)
	}
	maps.Copy(props, stored)
	return props, nil
}
