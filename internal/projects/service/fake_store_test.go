package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/taskboard-io/taskboard-backend/internal/projects/domain"
)

// fakeStore is an in-memory stand-in for the pgx repository. It mirrors the
// store contract the services rely on: global title uniqueness, strict task
// scoping, cascade deletes, and parent touch on every task write.
type fakeStore struct {
	mu        sync.Mutex
	projects  map[int64]domain.Project
	tasks     map[int64]domain.Task
	nextID    int64
	clock     time.Time
	listCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		projects: make(map[int64]domain.Project),
		tasks:    make(map[int64]domain.Task),
		clock:    time.Date(2024, 1, 24, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStore) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeStore) titleTaken(title string, skipProject int64) bool {
	for id, p := range f.projects {
		if p.Title == title && id != skipProject {
			return true
		}
	}
	return false
}

func (f *fakeStore) taskTitleTaken(title string, skipTask int64) bool {
	for id, t := range f.tasks {
		if t.Title == title && id != skipTask {
			return true
		}
	}
	return false
}

var errTitleTaken = domain.ValidationErrors{"title": {"has already been taken"}}

func (f *fakeStore) CreateProject(_ context.Context, title, description string) (*domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.titleTaken(title, 0) {
		return nil, errTitleTaken
	}
	f.nextID++
	now := f.tick()
	p := domain.Project{
		ID:          f.nextID,
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Tasks:       []domain.Task{},
	}
	f.projects[p.ID] = p
	return &p, nil
}

func (f *fakeStore) GetProject(_ context.Context, id int64) (*domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	p.Tasks = f.tasksOf(id, nil)
	return &p, nil
}

func (f *fakeStore) ListProjectsWithTasks(_ context.Context) ([]domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listCalls++
	out := make([]domain.Project, 0, len(f.projects))
	for id := int64(1); id <= f.nextID; id++ {
		p, ok := f.projects[id]
		if !ok {
			continue
		}
		p.Tasks = f.tasksOf(id, nil)
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeStore) UpdateProject(_ context.Context, id int64, changes domain.ProjectChanges) (*domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	if changes.Title != nil {
		if f.titleTaken(*changes.Title, id) {
			return nil, errTitleTaken
		}
		p.Title = *changes.Title
	}
	if changes.Description != nil {
		p.Description = *changes.Description
	}
	p.UpdatedAt = f.tick()
	f.projects[id] = p
	p.Tasks = f.tasksOf(id, nil)
	return &p, nil
}

func (f *fakeStore) DeleteProjectCascade(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.projects[id]; !ok {
		return domain.ErrProjectNotFound
	}
	for tid, t := range f.tasks {
		if t.ProjectID == id {
			delete(f.tasks, tid)
		}
	}
	delete(f.projects, id)
	return nil
}

func (f *fakeStore) MaxUpdatedAt(_ context.Context) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var max time.Time
	for _, p := range f.projects {
		if p.UpdatedAt.After(max) {
			max = p.UpdatedAt
		}
	}
	return max, nil
}

func (f *fakeStore) ProjectExists(_ context.Context, projectID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.projects[projectID]
	return ok, nil
}

func (f *fakeStore) tasksOf(projectID int64, status *domain.Status) []domain.Task {
	out := []domain.Task{}
	for id := int64(1); id <= f.nextID; id++ {
		t, ok := f.tasks[id]
		if !ok || t.ProjectID != projectID {
			continue
		}
		if status != nil && t.Status != *status {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (f *fakeStore) ListTasks(_ context.Context, projectID int64, status *domain.Status) ([]domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.tasksOf(projectID, status), nil
}

func (f *fakeStore) GetTaskInProject(_ context.Context, projectID, taskID int64) (*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tasks[taskID]
	if !ok || t.ProjectID != projectID {
		return nil, domain.ErrTaskNotFound
	}
	return &t, nil
}

func (f *fakeStore) touch(projectID int64) {
	p := f.projects[projectID]
	p.UpdatedAt = f.tick()
	f.projects[projectID] = p
}

func (f *fakeStore) CreateTask(_ context.Context, projectID int64, title, description string, status domain.Status) (*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.taskTitleTaken(title, 0) {
		return nil, errTitleTaken
	}
	f.nextID++
	now := f.tick()
	t := domain.Task{
		ID:          f.nextID,
		ProjectID:   projectID,
		Title:       title,
		Description: description,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.tasks[t.ID] = t
	f.touch(projectID)
	return &t, nil
}

func (f *fakeStore) UpdateTask(_ context.Context, projectID, taskID int64, changes domain.TaskChanges) (*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tasks[taskID]
	if !ok || t.ProjectID != projectID {
		return nil, domain.ErrTaskNotFound
	}
	if changes.Title != nil {
		if f.taskTitleTaken(*changes.Title, taskID) {
			return nil, errTitleTaken
		}
		t.Title = *changes.Title
	}
	if changes.Description != nil {
		t.Description = *changes.Description
	}
	if changes.Status != nil {
		t.Status = *changes.Status
	}
	t.UpdatedAt = f.tick()
	f.tasks[taskID] = t
	f.touch(projectID)
	return &t, nil
}

func (f *fakeStore) DeleteTask(_ context.Context, projectID, taskID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tasks[taskID]
	if !ok || t.ProjectID != projectID {
		return domain.ErrTaskNotFound
	}
	delete(f.tasks, taskID)
	f.touch(projectID)
	return nil
}

// fakeCache is a map-backed ListCache for asserting hit/miss behavior.
type fakeCache struct {
	mu      sync.Mutex
	entries map[time.Time][]domain.Project
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[time.Time][]domain.Project)}
}

func (c *fakeCache) Get(_ context.Context, watermark time.Time) ([]domain.Project, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, ok := c.entries[watermark]
	return items, ok, nil
}

func (c *fakeCache) Set(_ context.Context, watermark time.Time, projects []domain.Project) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[watermark] = projects
	return nil
}
