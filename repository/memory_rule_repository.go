package repository

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"featuredflags/entity"
)

// MemoryRuleRepository keeps rules in process, ordered by id. It applies
// the same date semantics as the SQL query via entity.Rule.ActiveAt.
type MemoryRuleRepository struct {
	mu     sync.RWMutex
	rules  []entity.Rule
	nextID int64
}

func NewMemoryRuleRepository(rules ...entity.Rule) *MemoryRuleRepository {
	repo := &MemoryRuleRepository{}
	for _, rule := range rules {
		repo.Add(rule)
	}
	return repo
}

// Add appends a rule, assigning an id when it has none.
func (m *MemoryRuleRepository) Add(rule entity.Rule) entity.Rule {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	if rule.ID == 0 {
		rule.ID = m.nextID
	} else if rule.ID > m.nextID {
		m.nextID = rule.ID
	}
	m.rules = append(m.rules, rule)
	slices.SortStableFunc(m.rules, func(a, b entity.Rule) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return rule
}

func (m *MemoryRuleRepository) FindActiveRules(ctx context.Context, name string, asOf time.Time) ([]*entity.Rule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []*entity.Rule
	for i := range m.rules {
		rule := m.rules[i]
		if rule.Name != name || !rule.Status || !rule.ActiveAt(asOf) {
			continue
		}
		matched = append(matched, &rule)
	}
	return matched, nil
}
