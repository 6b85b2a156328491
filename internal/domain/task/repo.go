package task

import (
	"context"

	"github.com/livercare/livercare/internal/platform/kv"
)

// TaskRepository persists the task collection as one snapshot. Load returns
// kv.ErrNotFound when nothing has ever been saved.
type TaskRepository interface {
	Load(ctx context.Context) ([]Task, error)
	Save(ctx context.Context, tasks []Task) error
}

type kvTaskRepo struct {
	store kv.Store
}

func NewKVTaskRepository(store kv.Store) TaskRepository {
	return &kvTaskRepo{store: store}
}

func (r *kvTaskRepo) Load(_ context.Context) ([]Task, error) {
	var tasks []Task
	if err := r.store.Load(kv.CollectionTasks, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *kvTaskRepo) Save(_ context.Context, tasks []Task) error {
	if tasks == nil {
		tasks = []Task{}
	}
	return r.store.Save(kv.CollectionTasks, tasks)
}
