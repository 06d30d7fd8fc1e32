package repofake

import (
	"sort"
	"sync"

	apperrors "github.com/notagain-app/notagain-core/internal/errors"

	"github.com/notagain-app/notagain-core/blocking"
)

var _ blocking.Repo = (*FakeRuleRepo)(nil)

// FakeRuleRepo is an in-memory rule store for tests.
type FakeRuleRepo struct {
	lock  sync.RWMutex
	rules map[string]*blocking.Rule
}

func NewFakeRuleRepo() *FakeRuleRepo {
	return &FakeRuleRepo{rules: make(map[string]*blocking.Rule)}
}

func (r *FakeRuleRepo) Upsert(rule *blocking.Rule) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	stored := *rule
	r.rules[rule.ID] = &stored
	return nil
}

func (r *FakeRuleRepo) GetByID(id string) (*blocking.Rule, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	rule, ok := r.rules[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	out := *rule
	return &out, nil
}

func (r *FakeRuleRepo) ListByUser(userID string) ([]*blocking.Rule, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	out := make([]*blocking.Rule, 0)
	for _, rule := range r.rules {
		if rule.UserID == userID {
			copied := *rule
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *FakeRuleRepo) Delete(id string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.rules[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.rules, id)
	return nil
}
