package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/imartins/task-api/internal/domain"
	"github.com/imartins/task-api/pkg/database"
)

// taskRepository implements TaskRepository interface
type taskRepository struct {
	db *database.Postgres
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *database.Postgres) TaskRepository {
	return &taskRepository{db: db}
}

// GetAllForUser retrieves all tasks belonging to a user, ordered by name
func (r *taskRepository) GetAllForUser(ctx context.Context, userID int64) ([]*domain.Task, error) {
	query := `
		SELECT id, user_id, name, priority, is_completed, created_at
		FROM tasks
		WHERE user_id = $1
		ORDER BY name
	`

	rows, err := r.db.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks for user: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return tasks, nil
}

// GetForUser retrieves a single task if it belongs to the user
func (r *taskRepository) GetForUser(ctx context.Context, id, userID int64) (*domain.Task, error) {
	query := `
		SELECT id, user_id, name, priority, is_completed, created_at
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`

	row := r.db.DB.QueryRowContext(ctx, query, id, userID)
	task, err := scanTask(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task with id %d not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// CreateForUser creates a task and fills in its generated ID
func (r *taskRepository) CreateForUser(ctx context.Context, task *domain.Task) error {
	query := `
		INSERT INTO tasks (user_id, name, priority, is_completed, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}

	err := r.db.DB.QueryRowContext(ctx, query,
		task.UserID,
		task.Name,
		task.Priority,
		task.IsCompleted,
		task.CreatedAt,
	).Scan(&task.ID)

	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// UpdateForUser applies the non-nil fields of update to a task the user owns
// and returns the number of rows changed
func (r *taskRepository) UpdateForUser(ctx context.Context, id, userID int64, update TaskUpdate) (int64, error) {
	var sets []string
	args := []interface{}{id, userID}

	addSet := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Name != nil {
		addSet("name", *update.Name)
	}
	if update.Priority != nil {
		addSet("priority", *update.Priority)
	}
	if update.IsCompleted != nil {
		addSet("is_completed", *update.IsCompleted)
	}

	if len(sets) == 0 {
		return 0, nil
	}

	query := "UPDATE tasks SET " + strings.Join(sets, ", ") + " WHERE id = $1 AND user_id = $2"

	result, err := r.db.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// DeleteForUser deletes a task the user owns and returns the number of rows
// removed
func (r *taskRepository) DeleteForUser(ctx context.Context, id, userID int64) (int64, error) {
	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2`

	result, err := r.db.DB.ExecContext(ctx, query, id, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

func scanTask(scan func(dest ...interface{}) error) (*domain.Task, error) {
	task := &domain.Task{}
	var priority sql.NullInt64

	err := scan(
		&task.ID,
		&task.UserID,
		&task.Name,
		&priority,
		&task.IsCompleted,
		&task.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if priority.Valid {
		p := int(priority.Int64)
		task.Priority = &p
	}

	return task, nil
}
