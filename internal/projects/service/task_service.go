package service

import (
	"context"
	"strings"

	"github.com/taskboard-io/taskboard-backend/internal/projects/domain"
)

// TaskStore is the slice of the repository the task service needs. Every
// operation is scoped to a parent project; the store guarantees the parent's
// updated_at advances atomically with each task write.
type TaskStore interface {
	ProjectExists(ctx context.Context, projectID int64) (bool, error)
	ListTasks(ctx context.Context, projectID int64, status *domain.Status) ([]domain.Task, error)
	GetTaskInProject(ctx context.Context, projectID, taskID int64) (*domain.Task, error)
	CreateTask(ctx context.Context, projectID int64, title, description string, status domain.Status) (*domain.Task, error)
	UpdateTask(ctx context.Context, projectID, taskID int64, changes domain.TaskChanges) (*domain.Task, error)
	DeleteTask(ctx context.Context, projectID, taskID int64) error
}

// CreateTaskInput is the accepted shape for task creation. Status is the
// external string label; empty means the default ("new").
type CreateTaskInput struct {
	Title       string
	Description string
	Status      string
}

// UpdateTaskInput carries a partial task update with the status still in its
// external string form.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
}

// TaskService handles task business logic. Tasks are resolved strictly within
// the named parent project: a task owned by another project is not found here.
type TaskService struct {
	store TaskStore
}

func NewTaskService(store TaskStore) *TaskService {
	return &TaskService{store: store}
}

func (s *TaskService) resolveProject(ctx context.Context, projectID int64) error {
	exists, err := s.store.ProjectExists(ctx, projectID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrProjectNotFound
	}
	return nil
}

// List returns the project's tasks, optionally filtered by exact status match.
func (s *TaskService) List(ctx context.Context, projectID int64, statusLabel string) ([]domain.Task, error) {
	if err := s.resolveProject(ctx, projectID); err != nil {
		return nil, err
	}

	var status *domain.Status
	if statusLabel != "" {
		parsed, err := domain.ParseStatus(statusLabel)
		if err != nil {
			return nil, domain.ValidationErrors{"status": {"is not a valid status"}}
		}
		status = &parsed
	}
	return s.store.ListTasks(ctx, projectID, status)
}

func (s *TaskService) Get(ctx context.Context, projectID, taskID int64) (*domain.Task, error) {
	if err := s.resolveProject(ctx, projectID); err != nil {
		return nil, err
	}
	return s.store.GetTaskInProject(ctx, projectID, taskID)
}

func (s *TaskService) Create(ctx context.Context, projectID int64, in CreateTaskInput) (*domain.Task, error) {
	if err := s.resolveProject(ctx, projectID); err != nil {
		return nil, err
	}

	verrs := domain.ValidationErrors{}
	if strings.TrimSpace(in.Title) == "" {
		verrs.Add("title", "can't be blank")
	}

	status := domain.StatusNew
	if in.Status != "" {
		parsed, err := domain.ParseStatus(in.Status)
		if err != nil {
			verrs.Add("status", "is not a valid status")
		} else {
			status = parsed
		}
	}
	if len(verrs) > 0 {
		return nil, verrs
	}

	return s.store.CreateTask(ctx, projectID, in.Title, in.Description, status)
}

func (s *TaskService) Update(ctx context.Context, projectID, taskID int64, in UpdateTaskInput) (*domain.Task, error) {
	if err := s.resolveProject(ctx, projectID); err != nil {
		return nil, err
	}

	verrs := domain.ValidationErrors{}
	changes := domain.TaskChanges{Title: in.Title, Description: in.Description}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		verrs.Add("title", "can't be blank")
	}
	if in.Status != nil {
		parsed, err := domain.ParseStatus(*in.Status)
		if err != nil {
			verrs.Add("status", "is not a valid status")
		} else {
			changes.Status = &parsed
		}
	}
	if len(verrs) > 0 {
		return nil, verrs
	}

	return s.store.UpdateTask(ctx, projectID, taskID, changes)
}

func (s *TaskService) Destroy(ctx context.Context, projectID, taskID int64) error {
	if err := s.resolveProject(ctx, projectID); err != nil {
		return err
	}
	return s.store.DeleteTask(ctx, projectID, taskID)
}
