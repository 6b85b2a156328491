package casefile

import "context"

// CaseRepository persists the case collection as one snapshot. Load returns
// kv.ErrNotFound when no snapshot has ever been saved.
type CaseRepository interface {
	Load(ctx context.Context) ([]Case, error)
	Save(ctx context.Context, cases []Case) error
}
