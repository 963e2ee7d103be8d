package schedule

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poib/testflow/pkg/models"
	"github.com/poib/testflow/pkg/store"
)

type fakeRunStarter struct {
	mu      sync.Mutex
	started []string
}

func (f *fakeRunStarter) StartRun(_ context.Context, scenarioID string, _ store.RunOptions) (*models.RunnerExecution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.started = append(f.started, scenarioID)

	return &models.RunnerExecution{ID: "execution-1", ScenarioID: scenarioID}, nil
}

func TestSchedulerAddValidatesCronExpression(t *testing.T) {
	scheduler := NewScheduler(&fakeRunStarter{}, slog.Default())

	err := scheduler.Add("not a cron", "scenario-1", store.RunOptions{})
	assert.Error(t, err)

	err = scheduler.Add("*/5 * * * *", "", store.RunOptions{})
	assert.Error(t, err)

	err = scheduler.Add("*/5 * * * *", "scenario-1", store.RunOptions{})
	require.NoError(t, err)
}

func TestSchedulerAddReplacesExistingEntry(t *testing.T) {
	scheduler := NewScheduler(&fakeRunStarter{}, slog.Default())

	require.NoError(t, scheduler.Add("*/5 * * * *", "scenario-1", store.RunOptions{}))
	require.NoError(t, scheduler.Add("0 * * * *", "scenario-1", store.RunOptions{}))

	scheduler.mutex.RLock()
	defer scheduler.mutex.RUnlock()
	assert.Len(t, scheduler.jobs, 1)
}

func TestSchedulerRunScenario(t *testing.T) {
	starter := &fakeRunStarter{}
	scheduler := NewScheduler(starter, slog.Default())
	scheduler.ctx = context.Background()

	scheduler.runScenario("scenario-1", store.RunOptions{})

	starter.mu.Lock()
	defer starter.mu.Unlock()
	assert.Equal(t, []string{"scenario-1"}, starter.started)
}

func TestSchedulerRemove(t *testing.T) {
	scheduler := NewScheduler(&fakeRunStarter{}, slog.Default())

	require.NoError(t, scheduler.Add("*/5 * * * *", "scenario-1", store.RunOptions{}))
	scheduler.Remove("scenario-1")
	scheduler.Remove("scenario-1")

	scheduler.mutex.RLock()
	defer scheduler.mutex.RUnlock()
	assert.Empty(t, scheduler.jobs)
}
