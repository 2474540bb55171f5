package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskboard-io/taskboard-backend/internal/projects/domain"
)

// Repo provides persistence for projects and tasks on a shared pgx pool.
// Uniqueness and referential constraints live in the schema; this layer maps
// their violations to field-scoped validation errors.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const projectColumns = "id, title, description, created_at, updated_at"

func (r *Repo) CreateProject(ctx context.Context, title, description string) (*domain.Project, error) {
	const q = `
insert into projects (title, description)
values ($1, $2)
returning ` + projectColumns + `;
`
	var p domain.Project
	err := r.db.QueryRow(ctx, q, title, description).
		Scan(&p.ID, &p.Title, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if verr := asUniqueViolation(err); verr != nil {
			return nil, verr
		}
		return nil, fmt.Errorf("create project: %w", err)
	}
	p.Tasks = []domain.Task{}
	return &p, nil
}

func (r *Repo) GetProject(ctx context.Context, id int64) (*domain.Project, error) {
	const q = `select ` + projectColumns + ` from projects where id = $1;`

	var p domain.Project
	err := r.db.QueryRow(ctx, q, id).
		Scan(&p.ID, &p.Title, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("get project: %w", err)
	}

	tasks, err := r.ListTasks(ctx, id, nil)
	if err != nil {
		return nil, err
	}
	p.Tasks = tasks
	return &p, nil
}

func (r *Repo) ProjectExists(ctx context.Context, id int64) (bool, error) {
	const q = `select exists (select 1 from projects where id = $1);`

	var exists bool
	if err := r.db.QueryRow(ctx, q, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("project exists: %w", err)
	}
	return exists, nil
}

// ListProjectsWithTasks returns every project with its tasks attached, in two
// round trips regardless of project count.
func (r *Repo) ListProjectsWithTasks(ctx context.Context) ([]domain.Project, error) {
	const q = `select ` + projectColumns + ` from projects order by id;`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	index := make(map[int64]int)
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		p.Tasks = []domain.Task{}
		index[p.ID] = len(out)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	const tq = `select ` + taskColumns + ` from tasks order by id;`

	trows, err := r.db.Query(ctx, tq)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer trows.Close()

	for trows.Next() {
		t, err := scanTask(trows)
		if err != nil {
			return nil, err
		}
		if i, ok := index[t.ProjectID]; ok {
			out[i].Tasks = append(out[i].Tasks, t)
		}
	}
	if err := trows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return out, nil
}

func (r *Repo) UpdateProject(ctx context.Context, id int64, changes domain.ProjectChanges) (*domain.Project, error) {
	const q = `
update projects
set title       = coalesce($2, title),
    description = coalesce($3, description),
    updated_at  = now()
where id = $1
returning ` + projectColumns + `;
`
	var p domain.Project
	err := r.db.QueryRow(ctx, q, id, changes.Title, changes.Description).
		Scan(&p.ID, &p.Title, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		if verr := asUniqueViolation(err); verr != nil {
			return nil, verr
		}
		return nil, fmt.Errorf("update project: %w", err)
	}

	tasks, err := r.ListTasks(ctx, id, nil)
	if err != nil {
		return nil, err
	}
	p.Tasks = tasks
	return &p, nil
}

// DeleteProjectCascade removes the project and all of its tasks in one
// transaction so no orphan task can survive a partial failure.
func (r *Repo) DeleteProjectCascade(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete project: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `delete from tasks where project_id = $1;`, id); err != nil {
		return fmt.Errorf("delete project tasks: %w", err)
	}

	tag, err := tx.Exec(ctx, `delete from projects where id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete project: %w", err)
	}
	return nil
}

// MaxUpdatedAt returns the freshness watermark across all projects. The zero
// time means there are no projects at all.
func (r *Repo) MaxUpdatedAt(ctx context.Context) (time.Time, error) {
	const q = `select coalesce(max(updated_at), 'epoch'::timestamptz) from projects;`

	var wm time.Time
	if err := r.db.QueryRow(ctx, q).Scan(&wm); err != nil {
		return time.Time{}, fmt.Errorf("max updated_at: %w", err)
	}
	if wm.Unix() == 0 {
		return time.Time{}, nil
	}
	return wm, nil
}

// asUniqueViolation translates a Postgres unique violation into the
// field-scoped validation error the API reports, or nil for anything else.
func asUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}
	return domain.ValidationErrors{"title": {"has already been taken"}}
}
