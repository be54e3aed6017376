package db

import (
	"context"

	"github.com/tgienger/pomolist/internal/models"
)

// LoadTodos returns the persisted task collection in display order.
// Returns an error wrapping ErrNotFound if nothing was ever saved.
func (db *DB) LoadTodos(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := db.Get(ctx, KeyTodos, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// SaveTodos replaces the persisted task collection
func (db *DB) SaveTodos(ctx context.Context, tasks []models.Task) error {
	if tasks == nil {
		tasks = []models.Task{}
	}
	return db.Set(ctx, KeyTodos, tasks)
}
