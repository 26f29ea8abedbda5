package step

import (
	"context"
	"fmt"
	"sort"

	"github.com/jblievremont/sonarqube/internal/contract"
	"github.com/jblievremont/sonarqube/internal/debt"
	"github.com/jblievremont/sonarqube/internal/logging"
	"github.com/jblievremont/sonarqube/schema"
)

// FeedDebtModelStep loads the enabled characteristics into the debt model holder.
type FeedDebtModelStep struct {
	db     contract.DbClient
	holder *debt.Holder
	groups int
}

func NewFeedDebtModelStep(db contract.DbClient, holder *debt.Holder) *FeedDebtModelStep {
	return &FeedDebtModelStep{db: db, holder: holder}
}

func (s *FeedDebtModelStep) Description() string {
	return "Feed technical debt model"
}

func (s *FeedDebtModelStep) Execute(ctx context.Context) (err error) {
	session, err := s.db.OpenSession(ctx)
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	rows, err := session.SelectEnabledCharacteristics(ctx)
	if err != nil {
		return err
	}
	groups := GroupCharacteristics(rows)
	for _, g := range groups {
		s.holder.AddCharacteristics(g.Root, g.Children)
	}
	s.groups = len(groups)
	logging.FromContext(ctx).Debug("Debt model fed", logging.FieldGroups, s.groups)
	return nil
}

func (s *FeedDebtModelStep) Counts() map[string]int {
	return map[string]int{"groups": s.groups}
}

// CharacteristicGroup is a root characteristic and the children pointing at it.
type CharacteristicGroup struct {
	Key      int
	Root     debt.Characteristic
	Children []debt.Characteristic
}

// GroupCharacteristics groups non-root rows by parent id. A child whose parent is not
// a root forms its own group, keyed by its own id, with itself as root and no children.
// Groups come sorted by key.
func GroupCharacteristics(rows []schema.CharacteristicRow) []CharacteristicGroup {
	roots := make(map[int]debt.Characteristic)
	for _, row := range rows {
		if row.ParentID == nil {
			roots[row.ID] = toCharacteristic(row)
		}
	}

	byKey := make(map[int]*CharacteristicGroup)
	for _, row := range rows {
		if row.ParentID == nil {
			continue
		}
		c := toCharacteristic(row)
		root, ok := roots[*row.ParentID]
		if !ok {
			byKey[row.ID] = &CharacteristicGroup{Key: row.ID, Root: c}
			continue
		}
		g, ok := byKey[root.ID]
		if !ok {
			g = &CharacteristicGroup{Key: root.ID, Root: root}
			byKey[root.ID] = g
		}
		g.Children = append(g.Children, c)
	}

	groups := make([]CharacteristicGroup, 0, len(byKey))
	for _, g := range byKey {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	return groups
}

func toCharacteristic(row schema.CharacteristicRow) debt.Characteristic {
	return debt.Characteristic{ID: row.ID, Key: row.Key}
}
