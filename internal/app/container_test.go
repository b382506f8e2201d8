package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/runoshun/yard-dispatch/internal/domain"
	"github.com/runoshun/yard-dispatch/internal/infra/jsonstore"
	"github.com/runoshun/yard-dispatch/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestContainer returns a container over a fresh state file with no
// simulated delay. Each call shares the same directory, like separate CLI runs.
func newTestContainer(t *testing.T, root string) *Container {
	t.Helper()
	cfg := newConfig(root)
	appConfig := domain.NewDefaultConfig()
	appConfig.Engine.SubTaskDelay = 0
	return NewWithDeps(cfg, appConfig, jsonstore.New(cfg.StatePath), domain.RealClock{}, nil)
}

func initDemo(t *testing.T, root string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(domain.YardDir(root), 0o755))
	c := newTestContainer(t, root)
	_, err := c.InitYardUseCase().Execute(context.Background(), usecase.InitYardInput{Grid: domain.DefaultGrid})
	require.NoError(t, err)
}

func TestNew(t *testing.T) {
	// Setup
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	root := t.TempDir()
	sub := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.MkdirAll(domain.YardDir(root), 0o755))

	// Execute
	c, err := New(sub)

	// Assert
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, root, c.Config.Root)
	assert.Equal(t, filepath.Join(root, ".yard", "state.json"), c.Config.StatePath)
	assert.Equal(t, domain.DefaultGrid, c.Registry.Grid())
	assert.NotNil(t, c.ConfigLoader)
	assert.NotNil(t, c.ConfigManager)
}

func TestNew_InvalidConfigFallsBack(t *testing.T) {
	// Setup
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	root := t.TempDir()
	yardDir := domain.YardDir(root)
	require.NoError(t, os.MkdirAll(yardDir, 0o755))
	require.NoError(t, os.WriteFile(domain.LocalConfigPath(yardDir), []byte("[engine]\nstrategy = \"random\"\n"), 0o644))

	// Execute
	c, err := New(root)

	// Assert
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, domain.StrategyFirstFit, c.AppConfig.Engine.Strategy)
	require.NotEmpty(t, c.AppConfig.Warnings)
	assert.Contains(t, c.AppConfig.Warnings[len(c.AppConfig.Warnings)-1], "config ignored")
}

func TestContainer_LoadNotInitialized(t *testing.T) {
	c := newTestContainer(t, t.TempDir())

	err := c.Load()

	assert.ErrorIs(t, err, domain.ErrNotInitialized)
}

func TestContainer_StatePersistsAcrossRuns(t *testing.T) {
	// Setup
	root := t.TempDir()
	initDemo(t, root)

	// Execute: create in one run, execute in the next
	first := newTestContainer(t, root)
	var taskID string
	require.NoError(t, first.Update(func() error {
		out, err := first.CreateShipTaskUseCase().Execute(context.Background(), usecase.CreateShipTaskInput{PlanID: "SP001"})
		if err != nil {
			return err
		}
		taskID = out.Task.ID
		return nil
	}))

	second := newTestContainer(t, root)
	require.NoError(t, second.Load())
	frame, ok := second.Registry.Frame("F001")
	require.True(t, ok)
	assert.Equal(t, taskID, frame.Holder(), "reservation survives the restart")

	third := newTestContainer(t, root)
	var run *usecase.ExecuteTaskOutput
	require.NoError(t, third.Update(func() error {
		var err error
		run, err = third.ExecuteTaskUseCase().Execute(context.Background(), usecase.ExecuteTaskInput{TaskID: taskID})
		return err
	}))
	require.True(t, run.Succeeded)

	// Assert
	final := newTestContainer(t, root)
	require.NoError(t, final.Load())
	task, ok := final.Registry.Task(taskID)
	require.True(t, ok)
	assert.True(t, task.IsCompleted())
	pw, _ := final.Registry.Warehouse("PW001")
	assert.Equal(t, 50, pw.Quantity("P001"))
	assert.Equal(t, 30, pw.Quantity("P002"))
	// init, created, started, six sub-tasks, completed
	assert.Equal(t, 10, final.Events.Total())
}

func TestContainer_UpdateKeepsErrorEvents(t *testing.T) {
	// Setup
	root := t.TempDir()
	initDemo(t, root)
	c := newTestContainer(t, root)

	// Execute
	err := c.Update(func() error {
		_, err := c.CreateShipTaskUseCase().Execute(context.Background(), usecase.CreateShipTaskInput{PlanID: "SP404"})
		return err
	})

	// Assert
	assert.ErrorIs(t, err, domain.ErrPlanInvalid)
	reread := newTestContainer(t, root)
	require.NoError(t, reread.Load())
	events := reread.Events.Events()
	require.Len(t, events, 2)
	assert.Equal(t, domain.LevelError, events[1].Level)
	assert.Empty(t, reread.Registry.Tasks())
}

func TestContainer_SetFailOn(t *testing.T) {
	// Setup
	root := t.TempDir()
	initDemo(t, root)
	c := newTestContainer(t, root)
	c.SetFailOn([]string{string(domain.SubTaskTransport)})

	// Execute
	var out *usecase.CreateTransferTaskOutput
	var run *usecase.ExecuteTaskOutput
	err := c.Update(func() error {
		var err error
		out, err = c.CreateTransferTaskUseCase().Execute(context.Background(), usecase.CreateTransferTaskInput{
			SourceID: "TW001",
			TargetID: "PW001",
			Products: map[string]int{"P001": 5},
		})
		if err != nil {
			return err
		}
		run, err = c.ExecuteTaskUseCase().Execute(context.Background(), usecase.ExecuteTaskInput{TaskID: out.Task.ID})
		return err
	})

	// Assert
	require.NoError(t, err)
	assert.False(t, run.Succeeded)
	assert.ErrorIs(t, run.Failure, domain.ErrSubTaskFailure)
}
