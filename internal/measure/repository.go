package measure

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jblievremont/sonarqube/internal/component"
	"github.com/jblievremont/sonarqube/internal/contract"
	"github.com/jblievremont/sonarqube/schema"
)

var (
	// ErrMetricNotFound is returned for a metric key with no enabled metric.
	ErrMetricNotFound = errors.New("metric not found")
	// ErrMeasureExists is returned when a measure is added twice for the same key.
	ErrMeasureExists = errors.New("measure already exists")
)

// MetricRepository is an in-memory index of the enabled metrics.
type MetricRepository struct {
	byKey map[string]schema.Metric
}

var _ contract.MetricRepository = &MetricRepository{}

// NewMetricRepository indexes metrics by key.
func NewMetricRepository(metrics []schema.Metric) *MetricRepository {
	byKey := make(map[string]schema.Metric, len(metrics))
	for _, m := range metrics {
		byKey[m.Key] = m
	}
	return &MetricRepository{byKey: byKey}
}

// LoadMetricRepository reads the enabled metrics from the store.
func LoadMetricRepository(ctx context.Context, store contract.ReferenceStore) (*MetricRepository, error) {
	metrics, err := store.SelectEnabledMetrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load metrics: %w", err)
	}
	return NewMetricRepository(metrics), nil
}

func (r *MetricRepository) GetByKey(key string) (schema.Metric, error) {
	m, ok := r.byKey[key]
	if !ok {
		return schema.Metric{}, fmt.Errorf("%w: %s", ErrMetricNotFound, key)
	}
	return m, nil
}

// Key identifies a measure of a component.
type Key struct {
	MetricKey        string
	RuleID           int
	CharacteristicID int
}

func keyOf(metric schema.Metric, m Measure) Key {
	k := Key{MetricKey: metric.Key}
	if m.RuleID != nil {
		k.RuleID = *m.RuleID
	}
	if m.CharacteristicID != nil {
		k.CharacteristicID = *m.CharacteristicID
	}
	return k
}

// Repository holds the measures loaded for the current analysis.
type Repository struct {
	byRef map[int]map[Key]Measure
	count int
}

func NewRepository() *Repository {
	return &Repository{byRef: make(map[int]map[Key]Measure)}
}

// Add stores m for c. Each (metric, rule, characteristic) can be added once per component.
func (r *Repository) Add(c *component.Component, metric schema.Metric, m Measure) error {
	measures, ok := r.byRef[c.Ref()]
	if !ok {
		measures = make(map[Key]Measure)
		r.byRef[c.Ref()] = measures
	}
	k := keyOf(metric, m)
	if _, exists := measures[k]; exists {
		return fmt.Errorf("%w: %s on %s", ErrMeasureExists, metric.Key, c.Key())
	}
	measures[k] = m
	r.count++
	return nil
}

// Get returns the measure of metricKey on c that is bound to no rule nor characteristic.
func (r *Repository) Get(c *component.Component, metricKey string) (Measure, bool) {
	m, ok := r.byRef[c.Ref()][Key{MetricKey: metricKey}]
	return m, ok
}

// GetByKey returns the measure stored under k on c.
func (r *Repository) GetByKey(c *component.Component, k Key) (Measure, bool) {
	m, ok := r.byRef[c.Ref()][k]
	return m, ok
}

// Keys lists the measure keys of c, sorted.
func (r *Repository) Keys(c *component.Component) []Key {
	measures := r.byRef[c.Ref()]
	keys := make([]Key, 0, len(measures))
	for k := range measures {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.MetricKey != b.MetricKey {
			return a.MetricKey < b.MetricKey
		}
		if a.RuleID != b.RuleID {
			return a.RuleID < b.RuleID
		}
		return a.CharacteristicID < b.CharacteristicID
	})
	return keys
}

// Count returns the number of stored measures.
func (r *Repository) Count() int {
	return r.count
}
