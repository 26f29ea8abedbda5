// Package rule resolves rule keys to the rules stored in the database.
package rule

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jblievremont/sonarqube/internal/contract"
	"github.com/jblievremont/sonarqube/schema"
)

// ErrRuleNotFound is returned for a key with no matching rule.
var ErrRuleNotFound = errors.New("rule not found")

// ParseKey parses "repository:rule". The rule part may itself contain colons.
func ParseKey(s string) (schema.RuleKey, error) {
	repo, ruleKey, ok := strings.Cut(s, ":")
	if !ok || repo == "" {
		return schema.RuleKey{}, fmt.Errorf("invalid rule key: %s", s)
	}
	if ruleKey == "" {
		return schema.RuleKey{}, fmt.Errorf("invalid rule key: %s", s)
	}
	return schema.RuleKey{Repository: repo, Rule: ruleKey}, nil
}

// Cache memoizes rule lookups for the duration of one analysis.
// Misses are remembered too.
type Cache struct {
	store   contract.ReferenceStore
	entries map[schema.RuleKey]*schema.RuleRow
}

var _ contract.RuleCache = &Cache{}

func NewCache(store contract.ReferenceStore) *Cache {
	return &Cache{store: store, entries: make(map[schema.RuleKey]*schema.RuleRow)}
}

func (c *Cache) GetByKey(ctx context.Context, key schema.RuleKey) (schema.RuleRow, error) {
	entry, cached := c.entries[key]
	if !cached {
		row, found, err := c.store.SelectRuleByKey(ctx, key)
		if err != nil {
			return schema.RuleRow{}, fmt.Errorf("failed to select rule %s: %w", key, err)
		}
		if found {
			entry = &row
		}
		c.entries[key] = entry
	}
	if entry == nil {
		return schema.RuleRow{}, fmt.Errorf("%w: %s", ErrRuleNotFound, key)
	}
	return *entry, nil
}
