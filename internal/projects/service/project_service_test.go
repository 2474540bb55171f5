package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard-io/taskboard-backend/internal/projects/domain"
	"github.com/taskboard-io/taskboard-backend/internal/projects/service"
)

func strPtr(s string) *string { return &s }

func TestProjectServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("persists a valid project and reads it back", func(t *testing.T) {
		store := newFakeStore()
		svc := service.NewProjectService(store, nil)

		created, err := svc.Create(ctx, "P1", "first project")
		require.NoError(t, err)
		assert.NotZero(t, created.ID)

		got, err := svc.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Title, got.Title)
		assert.Equal(t, created.Description, got.Description)
		assert.Equal(t, created.UpdatedAt, got.UpdatedAt)
		assert.Empty(t, got.Tasks)
	})

	t.Run("rejects a blank title", func(t *testing.T) {
		store := newFakeStore()
		svc := service.NewProjectService(store, nil)

		_, err := svc.Create(ctx, "  ", "")
		var verrs domain.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, []string{"can't be blank"}, verrs["title"])
	})

	t.Run("rejects a duplicate title and persists nothing", func(t *testing.T) {
		store := newFakeStore()
		svc := service.NewProjectService(store, nil)

		_, err := svc.Create(ctx, "P1", "")
		require.NoError(t, err)

		_, err = svc.Create(ctx, "P1", "same title again")
		var verrs domain.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, []string{"has already been taken"}, verrs["title"])

		items, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})
}

func TestProjectServiceList(t *testing.T) {
	ctx := context.Background()

	t.Run("second call with no mutation is a cache hit", func(t *testing.T) {
		store := newFakeStore()
		cache := newFakeCache()
		svc := service.NewProjectService(store, cache)

		_, err := svc.Create(ctx, "P1", "")
		require.NoError(t, err)

		first, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, store.listCalls)

		second, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, store.listCalls, "second list must come from the cache")
		assert.Equal(t, first, second)
	})

	t.Run("any mutation forces a recompute", func(t *testing.T) {
		store := newFakeStore()
		cache := newFakeCache()
		svc := service.NewProjectService(store, cache)
		tasks := service.NewTaskService(store)

		p, err := svc.Create(ctx, "P1", "")
		require.NoError(t, err)

		_, err = svc.List(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, store.listCalls)

		// A task write touches the parent, which moves the watermark.
		_, err = tasks.Create(ctx, p.ID, service.CreateTaskInput{Title: "T1"})
		require.NoError(t, err)

		items, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, store.listCalls, "mutation must invalidate the cached list")
		require.Len(t, items, 1)
		require.Len(t, items[0].Tasks, 1)
		assert.Equal(t, "T1", items[0].Tasks[0].Title)
	})

	t.Run("works without a cache", func(t *testing.T) {
		store := newFakeStore()
		svc := service.NewProjectService(store, nil)

		items, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestProjectServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("applies a partial update and bumps updated_at", func(t *testing.T) {
		store := newFakeStore()
		svc := service.NewProjectService(store, nil)

		p, err := svc.Create(ctx, "P1", "before")
		require.NoError(t, err)

		updated, err := svc.Update(ctx, p.ID, domain.ProjectChanges{Description: strPtr("after")})
		require.NoError(t, err)
		assert.Equal(t, "P1", updated.Title)
		assert.Equal(t, "after", updated.Description)
		assert.True(t, updated.UpdatedAt.After(p.UpdatedAt))
	})

	t.Run("rejects a blank title without touching the store", func(t *testing.T) {
		store := newFakeStore()
		svc := service.NewProjectService(store, nil)

		p, err := svc.Create(ctx, "P1", "")
		require.NoError(t, err)

		_, err = svc.Update(ctx, p.ID, domain.ProjectChanges{Title: strPtr("")})
		var verrs domain.ValidationErrors
		require.ErrorAs(t, err, &verrs)

		got, err := svc.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "P1", got.Title)
	})

	t.Run("reports an unknown id", func(t *testing.T) {
		svc := service.NewProjectService(newFakeStore(), nil)

		_, err := svc.Update(ctx, 99, domain.ProjectChanges{Title: strPtr("x")})
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	})
}

func TestProjectServiceDestroy(t *testing.T) {
	ctx := context.Background()

	t.Run("cascades to every owned task", func(t *testing.T) {
		store := newFakeStore()
		svc := service.NewProjectService(store, nil)
		tasks := service.NewTaskService(store)

		p, err := svc.Create(ctx, "P1", "")
		require.NoError(t, err)
		t1, err := tasks.Create(ctx, p.ID, service.CreateTaskInput{Title: "T1"})
		require.NoError(t, err)
		_, err = tasks.Create(ctx, p.ID, service.CreateTaskInput{Title: "T2", Status: "in_progress"})
		require.NoError(t, err)

		require.NoError(t, svc.Destroy(ctx, p.ID))

		_, err = svc.Get(ctx, p.ID)
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)
		_, err = tasks.Get(ctx, p.ID, t1.ID)
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)
		assert.Empty(t, store.tasks, "no task may survive its project")
	})

	t.Run("reports an unknown id", func(t *testing.T) {
		svc := service.NewProjectService(newFakeStore(), nil)
		assert.ErrorIs(t, svc.Destroy(ctx, 42), domain.ErrProjectNotFound)
	})
}
