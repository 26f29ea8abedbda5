// Package qualitygate holds the quality gate bound to the analysed project.
package qualitygate

import (
	"context"
	"errors"
	"fmt"

	"github.com/jblievremont/sonarqube/internal/contract"
	"github.com/jblievremont/sonarqube/schema"
)

var (
	// ErrAlreadyInitialized is returned when the binding is set a second time.
	ErrAlreadyInitialized = errors.New("quality gate holder has already been initialized")
	// ErrNotInitialized is returned when the binding is read before it was set.
	ErrNotInitialized = errors.New("quality gate holder has not been initialized yet")
)

// Holder is a tri-state binding: unset, no quality gate, or one quality gate.
type Holder struct {
	initialized bool
	gate        *schema.QualityGate
}

func NewHolder() *Holder {
	return &Holder{}
}

// SetQualityGate binds gate to the project.
func (h *Holder) SetQualityGate(gate schema.QualityGate) error {
	if h.initialized {
		return ErrAlreadyInitialized
	}
	h.gate = &gate
	h.initialized = true
	return nil
}

// SetNoQualityGate records that the project has no quality gate.
func (h *Holder) SetNoQualityGate() error {
	if h.initialized {
		return ErrAlreadyInitialized
	}
	h.initialized = true
	return nil
}

// QualityGate returns the bound gate. The boolean is false when the project has none.
func (h *Holder) QualityGate() (schema.QualityGate, bool, error) {
	if !h.initialized {
		return schema.QualityGate{}, false, ErrNotInitialized
	}
	if h.gate == nil {
		return schema.QualityGate{}, false, nil
	}
	return *h.gate, true, nil
}

// Service looks quality gates up in the reference store.
type Service struct {
	store contract.ReferenceStore
}

var _ contract.QualityGateService = &Service{} // Compile-time check

func NewService(store contract.ReferenceStore) *Service {
	return &Service{store: store}
}

func (s *Service) FindByID(ctx context.Context, id int64) (schema.QualityGate, bool, error) {
	gate, found, err := s.store.SelectQualityGateByID(ctx, id)
	if err != nil {
		return schema.QualityGate{}, false, fmt.Errorf("failed to select quality gate %d: %w", id, err)
	}
	return gate, found, nil
}
