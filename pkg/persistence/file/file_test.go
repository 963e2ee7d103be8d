package file

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poib/testflow/pkg/models"
	"github.com/poib/testflow/pkg/persistence"
)

func TestFavoriteRepository_SaveListDelete(t *testing.T) {
	ctx := context.Background()
	store := NewPersistence(t.TempDir())

	favorites, err := store.Favorites().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, favorites)

	older := &models.Favorite{
		ProjectID: "project-1",
		Name:      "Orders",
		PinnedAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	newer := &models.Favorite{
		ProjectID: "project-2",
		Name:      "Payments",
		PinnedAt:  time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}

	require.NoError(t, store.Favorites().Save(ctx, older))
	require.NoError(t, store.Favorites().Save(ctx, newer))

	favorites, err = store.Favorites().List(ctx)
	require.NoError(t, err)
	require.Len(t, favorites, 2)
	assert.Equal(t, "project-2", favorites[0].ProjectID, "most recently pinned first")

	require.NoError(t, store.Favorites().Delete(ctx, "project-1"))

	err = store.Favorites().Delete(ctx, "project-1")
	assert.ErrorIs(t, err, persistence.ErrFavoriteNotFound)
}

func TestFavoriteRepository_SaveDefaultsPinnedAt(t *testing.T) {
	ctx := context.Background()
	store := NewPersistence(t.TempDir())

	require.NoError(t, store.Favorites().Save(ctx, &models.Favorite{ProjectID: "p", Name: "P"}))

	favorites, err := store.Favorites().List(ctx)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.False(t, favorites[0].PinnedAt.IsZero())
}

func TestProjectRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewPersistence(t.TempDir())

	missing, err := store.Projects().GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	puml := "@startuml\n@enduml"
	project := &models.Project{
		ID:          "project-1",
		Name:        "Orders",
		BpmnXML:     "<definitions/>",
		OpenAPIJSON: `{"paths":{}}`,
		PumlContent: &puml,
		MappingResult: &models.MappingResult{TotalTasks: 3, MatchedTasks: 2},
	}

	require.NoError(t, store.Projects().Save(ctx, project))

	loaded, err := store.Projects().GetByID(ctx, "project-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, project.Name, loaded.Name)
	require.NotNil(t, loaded.PumlContent)
	assert.Equal(t, puml, *loaded.PumlContent)
	require.NotNil(t, loaded.MappingResult)
	assert.Equal(t, 3, loaded.MappingResult.TotalTasks)

	projects, err := store.Projects().List(ctx)
	require.NoError(t, err)
	assert.Len(t, projects, 1)

	require.NoError(t, store.Projects().Delete(ctx, "project-1"))
	assert.ErrorIs(t, store.Projects().Delete(ctx, "project-1"), persistence.ErrProjectNotFound)
}

func TestPersistence_HealthCheck(t *testing.T) {
	ctx := context.Background()

	healthy := NewPersistence(t.TempDir())
	assert.NoError(t, healthy.HealthCheck(ctx))
	assert.NoError(t, healthy.Close(ctx))

	broken := NewPersistence("/nonexistent/testflow-data")
	assert.Error(t, broken.HealthCheck(ctx))
}
