package domain

import "time"

// Project is a top-level resource owning a set of tasks. UpdatedAt advances on
// every write to the project or to any of its tasks and drives list-cache
// freshness.
type Project struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Tasks       []Task    `json:"tasks"`
}

// Task belongs to exactly one project for its entire lifetime.
type Task struct {
	ID          int64     `json:"id"`
	ProjectID   int64     `json:"project_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProjectChanges carries a partial update; nil fields are left untouched.
type ProjectChanges struct {
	Title       *string
	Description *string
}

// TaskChanges carries a partial update; nil fields are left untouched.
// Reassigning a task to another project is not supported.
type TaskChanges struct {
	Title       *string
	Description *string
	Status      *Status
}
