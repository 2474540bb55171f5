package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taskboard-io/taskboard-backend/internal/projects/domain"
)

const taskColumns = "id, project_id, title, description, status, created_at, updated_at"

// touchProjectSQL advances the owning project's watermark inside the same
// transaction as the task write.
const touchProjectSQL = `update projects set updated_at = now() where id = $1;`

type taskRow interface {
	Scan(dest ...any) error
}

func scanTask(row taskRow) (domain.Task, error) {
	var t domain.Task
	var status int16
	err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.Task{}, fmt.Errorf("scan task: %w", err)
	}
	t.Status = domain.Status(status)
	return t, nil
}

// ListTasks returns the tasks owned by a project, optionally restricted to an
// exact status. The caller is responsible for resolving the project first.
func (r *Repo) ListTasks(ctx context.Context, projectID int64, status *domain.Status) ([]domain.Task, error) {
	q := `select ` + taskColumns + ` from tasks where project_id = $1`
	args := []any{projectID}
	if status != nil {
		q += ` and status = $2`
		args = append(args, int16(*status))
	}
	q += ` order by id;`

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Task, 0, 8)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return out, nil
}

// GetTaskInProject resolves a task strictly within its parent: a task that
// exists under a different project is reported as not found.
func (r *Repo) GetTaskInProject(ctx context.Context, projectID, taskID int64) (*domain.Task, error) {
	const q = `select ` + taskColumns + ` from tasks where project_id = $1 and id = $2;`

	t, err := scanTask(r.db.QueryRow(ctx, q, projectID, taskID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *Repo) CreateTask(ctx context.Context, projectID int64, title, description string, status domain.Status) (*domain.Task, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create task: %w", err)
	}
	defer tx.Rollback(ctx)

	const q = `
insert into tasks (project_id, title, description, status)
values ($1, $2, $3, $4)
returning ` + taskColumns + `;
`
	t, err := scanTask(tx.QueryRow(ctx, q, projectID, title, description, int16(status)))
	if err != nil {
		if verr := asUniqueViolation(err); verr != nil {
			return nil, verr
		}
		return nil, err
	}

	if _, err := tx.Exec(ctx, touchProjectSQL, projectID); err != nil {
		return nil, fmt.Errorf("touch project: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit create task: %w", err)
	}
	return &t, nil
}

func (r *Repo) UpdateTask(ctx context.Context, projectID, taskID int64, changes domain.TaskChanges) (*domain.Task, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin update task: %w", err)
	}
	defer tx.Rollback(ctx)

	var statusArg *int16
	if changes.Status != nil {
		v := int16(*changes.Status)
		statusArg = &v
	}

	const q = `
update tasks
set title       = coalesce($3, title),
    description = coalesce($4, description),
    status      = coalesce($5, status),
    updated_at  = now()
where project_id = $1 and id = $2
returning ` + taskColumns + `;
`
	t, err := scanTask(tx.QueryRow(ctx, q, projectID, taskID, changes.Title, changes.Description, statusArg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		if verr := asUniqueViolation(err); verr != nil {
			return nil, verr
		}
		return nil, err
	}

	if _, err := tx.Exec(ctx, touchProjectSQL, projectID); err != nil {
		return nil, fmt.Errorf("touch project: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit update task: %w", err)
	}
	return &t, nil
}

func (r *Repo) DeleteTask(ctx context.Context, projectID, taskID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete task: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `delete from tasks where project_id = $1 and id = $2;`, projectID, taskID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}

	if _, err := tx.Exec(ctx, touchProjectSQL, projectID); err != nil {
		return fmt.Errorf("touch project: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete task: %w", err)
	}
	return nil
}
