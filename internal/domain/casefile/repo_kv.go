package casefile

import (
	"context"

	"github.com/livercare/livercare/internal/platform/kv"
)

type kvCaseRepo struct {
	store kv.Store
}

func NewKVCaseRepository(store kv.Store) CaseRepository {
	return &kvCaseRepo{store: store}
}

func (r *kvCaseRepo) Load(_ context.Context) ([]Case, error) {
	var cases []Case
	if err := r.store.Load(kv.CollectionCases, &cases); err != nil {
		return nil, err
	}
	return cases, nil
}

func (r *kvCaseRepo) Save(_ context.Context, cases []Case) error {
	if cases == nil {
		cases = []Case{}
	}
	return r.store.Save(kv.CollectionCases, cases)
}
