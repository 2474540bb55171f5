package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/taskboard-io/taskboard-backend/internal/projects/domain"
)

// ProjectStore is the slice of the repository the project service needs.
type ProjectStore interface {
	CreateProject(ctx context.Context, title, description string) (*domain.Project, error)
	GetProject(ctx context.Context, id int64) (*domain.Project, error)
	ListProjectsWithTasks(ctx context.Context) ([]domain.Project, error)
	UpdateProject(ctx context.Context, id int64, changes domain.ProjectChanges) (*domain.Project, error)
	DeleteProjectCascade(ctx context.Context, id int64) error
	MaxUpdatedAt(ctx context.Context) (time.Time, error)
}

// ListCache serves the project index keyed by the freshness watermark.
type ListCache interface {
	Get(ctx context.Context, watermark time.Time) ([]domain.Project, bool, error)
	Set(ctx context.Context, watermark time.Time, projects []domain.Project) error
}

// ProjectService handles project business logic: presence validation, the
// read-through list cache, and cascade deletion.
type ProjectService struct {
	store ProjectStore
	cache ListCache
}

func NewProjectService(store ProjectStore, cache ListCache) *ProjectService {
	return &ProjectService{store: store, cache: cache}
}

// List returns all projects with their tasks. A cache failure is logged and
// degrades to a direct store read; it never fails the request.
func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	watermark, err := s.store.MaxUpdatedAt(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		items, ok, err := s.cache.Get(ctx, watermark)
		if err != nil {
			log.Printf("projects: list cache read: %v", err)
		} else if ok {
			return items, nil
		}
	}

	items, err := s.store.ListProjectsWithTasks(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, watermark, items); err != nil {
			log.Printf("projects: list cache write: %v", err)
		}
	}
	return items, nil
}

func (s *ProjectService) Get(ctx context.Context, id int64) (*domain.Project, error) {
	return s.store.GetProject(ctx, id)
}

func (s *ProjectService) Create(ctx context.Context, title, description string) (*domain.Project, error) {
	if strings.TrimSpace(title) == "" {
		return nil, domain.ValidationErrors{"title": {"can't be blank"}}
	}
	return s.store.CreateProject(ctx, title, description)
}

func (s *ProjectService) Update(ctx context.Context, id int64, changes domain.ProjectChanges) (*domain.Project, error) {
	if changes.Title != nil && strings.TrimSpace(*changes.Title) == "" {
		return nil, domain.ValidationErrors{"title": {"can't be blank"}}
	}
	return s.store.UpdateProject(ctx, id, changes)
}

func (s *ProjectService) Destroy(ctx context.Context, id int64) error {
	return s.store.DeleteProjectCascade(ctx, id)
}
