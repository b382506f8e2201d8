// Package app provides the dependency injection container for the application.
package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/runoshun/yard-dispatch/internal/domain"
	"github.com/runoshun/yard-dispatch/internal/infra/config"
	"github.com/runoshun/yard-dispatch/internal/infra/eventlog"
	"github.com/runoshun/yard-dispatch/internal/infra/jsonstore"
	"github.com/runoshun/yard-dispatch/internal/infra/layout"
	"github.com/runoshun/yard-dispatch/internal/infra/logging"
	"github.com/runoshun/yard-dispatch/internal/infra/operator"
	"github.com/runoshun/yard-dispatch/internal/infra/registry"
	"github.com/runoshun/yard-dispatch/internal/usecase"
)

// Config holds the application paths.
type Config struct {
	Root      string // Directory holding the .yard directory
	YardDir   string // Path to .yard directory
	StatePath string // Path to state.json
}

// newConfig creates a new Config for a yard rooted at root.
func newConfig(root string) Config {
	yardDir := domain.YardDir(root)
	return Config{
		Root:      root,
		YardDir:   yardDir,
		StatePath: domain.StatePath(yardDir),
	}
}

// findRoot walks up from dir to the nearest directory containing .yard.
// dir itself is returned when no parent has one.
func findRoot(dir string) string {
	for cur := dir; ; {
		if info, err := os.Stat(domain.YardDir(cur)); err == nil && info.IsDir() {
			return cur
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return dir
		}
		cur = parent
	}
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
// The registry and event log are in-memory; Load and Update move them to and
// from the state store.
type Container struct {
	// Ports (interfaces bound to implementations)
	Store         domain.StateStore
	Layouts       domain.LayoutLoader
	Clock         domain.Clock
	Operator      domain.Operator
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager
	Logger        domain.Logger

	// Pointer fields
	Registry  *registry.Registry
	Events    *eventlog.Log
	Allocator *usecase.Allocator
	AppConfig *domain.Config

	// Configuration
	Config Config
}

// New creates a new Container for the yard found at or above dir.
// An unreadable or invalid config falls back to the defaults; the reason is
// kept in AppConfig.Warnings.
func New(dir string) (*Container, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	cfg := newConfig(findRoot(abs))

	configLoader := config.NewLoader(cfg.YardDir)
	appConfig := loadAppConfig(configLoader)

	// Log files only once the yard exists
	logDir := ""
	if info, err := os.Stat(cfg.YardDir); err == nil && info.IsDir() {
		logDir = cfg.YardDir
	}
	logger := logging.New(logDir, logging.ParseLevel(appConfig.Log.Level))

	c := NewWithDeps(cfg, appConfig, jsonstore.New(cfg.StatePath), domain.RealClock{}, logger)
	c.ConfigLoader = configLoader
	c.ConfigManager = config.NewManager(cfg.YardDir)
	return c, nil
}

func loadAppConfig(loader domain.ConfigLoader) *domain.Config {
	cfg, err := loader.Load()
	if err != nil {
		def := domain.NewDefaultConfig()
		def.Warnings = append(def.Warnings, fmt.Sprintf("config ignored: %v", err))
		return def
	}
	if err := cfg.Validate(); err != nil {
		def := domain.NewDefaultConfig()
		def.Warnings = append(cfg.Warnings, fmt.Sprintf("config ignored: %v", err))
		return def
	}
	return cfg
}

// NewWithDeps creates a new Container with custom dependencies for testing.
// appConfig must be valid.
func NewWithDeps(cfg Config, appConfig *domain.Config, store domain.StateStore, clock domain.Clock, logger domain.Logger) *Container {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	strategy, err := domain.NewStrategy(appConfig.Engine.Strategy)
	if err != nil {
		strategy = domain.FirstFit{}
	}

	reg := registry.New(appConfig.Yard.Grid())
	return &Container{
		Store:     store,
		Layouts:   layout.NewLoader(),
		Clock:     clock,
		Operator:  operator.NewSimulated(reg, logger, appConfig.Engine.SubTaskDelay, nil),
		Logger:    logger,
		Registry:  reg,
		Events:    eventlog.New(appConfig.Events.Capacity, logger),
		Allocator: usecase.NewAllocator(reg, strategy),
		AppConfig: appConfig,
		Config:    cfg,
	}
}

// SetFailOn replaces the operator with one that fails the listed
// sub-task types or IDs.
func (c *Container) SetFailOn(failOn []string) {
	c.Operator = operator.NewSimulated(c.Registry, c.Logger, c.AppConfig.Engine.SubTaskDelay, failOn)
}

// Close releases log files.
func (c *Container) Close() error {
	if closer, ok := c.Logger.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// === State ===

// Load fills the registry and event log from the state store.
// Use it for commands that only read.
func (c *Container) Load() error {
	snap, err := c.Store.Load()
	if err != nil {
		return err
	}
	return c.restore(snap)
}

// Update loads the state under the store's exclusive lock, runs fn and
// writes the result back. The state is written even when fn fails, so
// partial progress and error events are kept; fn's error is returned.
func (c *Container) Update(fn func() error) error {
	var fnErr error
	err := c.Store.Update(func(snap *domain.Snapshot) (*domain.Snapshot, error) {
		if err := c.restore(snap); err != nil {
			return nil, err
		}
		fnErr = fn()
		return c.Snapshot(), nil
	})
	if err != nil {
		return err
	}
	return fnErr
}

// Snapshot captures the registry and event log.
func (c *Container) Snapshot() *domain.Snapshot {
	snap := c.Registry.Snapshot()
	snap.Saved = c.Clock.Now()
	snap.Events = c.Events.Events()
	snap.EventTotal = c.Events.Total()
	return snap
}

func (c *Container) restore(snap *domain.Snapshot) error {
	if snap == nil {
		return domain.ErrNotInitialized
	}
	if err := c.Registry.Restore(snap); err != nil {
		return fmt.Errorf("state file %s: %w", c.Config.StatePath, err)
	}
	c.Events.Restore(snap.Events, snap.EventTotal)
	return nil
}

// UseCase factory methods

// InitYardUseCase returns a new InitYard use case.
func (c *Container) InitYardUseCase() *usecase.InitYard {
	return usecase.NewInitYard(c.Store, c.Layouts, c.Registry, c.Events, c.Clock)
}

// RegisterUseCase returns a new Register use case.
func (c *Container) RegisterUseCase() *usecase.Register {
	return usecase.NewRegister(c.Registry, c.Events)
}

// CreateShipTaskUseCase returns a new CreateShipTask use case.
func (c *Container) CreateShipTaskUseCase() *usecase.CreateShipTask {
	return usecase.NewCreateShipTask(c.Registry, c.Allocator, c.Events, c.Clock)
}

// CreateTransferTaskUseCase returns a new CreateTransferTask use case.
func (c *Container) CreateTransferTaskUseCase() *usecase.CreateTransferTask {
	return usecase.NewCreateTransferTask(c.Registry, c.Allocator, c.Events, c.Clock)
}

// ExecuteTaskUseCase returns a new ExecuteTask use case.
func (c *Container) ExecuteTaskUseCase() *usecase.ExecuteTask {
	return usecase.NewExecuteTask(c.Registry, c.Operator, c.Events, c.Clock, c.Logger, c.AppConfig.Events.Tail)
}

// CancelTaskUseCase returns a new CancelTask use case.
func (c *Container) CancelTaskUseCase() *usecase.CancelTask {
	return usecase.NewCancelTask(c.Registry, c.Events, c.Clock)
}

// OptimizeScheduleUseCase returns a new OptimizeSchedule use case.
func (c *Container) OptimizeScheduleUseCase() *usecase.OptimizeSchedule {
	return usecase.NewOptimizeSchedule(c.Registry)
}

// RunScheduleUseCase returns a new RunSchedule use case.
// parallelism below one selects the configured value.
func (c *Container) RunScheduleUseCase(parallelism int) *usecase.RunSchedule {
	if parallelism < 1 {
		parallelism = c.AppConfig.Engine.Parallelism
	}
	return usecase.NewRunSchedule(c.OptimizeScheduleUseCase(), c.ExecuteTaskUseCase(), parallelism)
}

// AdjustStockUseCase returns a new AdjustStock use case.
func (c *Container) AdjustStockUseCase() *usecase.AdjustStock {
	return usecase.NewAdjustStock(c.Registry, c.Events)
}

// SetEquipmentStatusUseCase returns a new SetEquipmentStatus use case.
func (c *Container) SetEquipmentStatusUseCase() *usecase.SetEquipmentStatus {
	return usecase.NewSetEquipmentStatus(c.Registry, c.Events)
}

// GetSystemStatusUseCase returns a new GetSystemStatus use case.
func (c *Container) GetSystemStatusUseCase() *usecase.GetSystemStatus {
	return usecase.NewGetSystemStatus(c.Registry, c.Events)
}

// GetResourceStatusUseCase returns a new GetResourceStatus use case.
func (c *Container) GetResourceStatusUseCase() *usecase.GetResourceStatus {
	return usecase.NewGetResourceStatus(c.Registry, c.Allocator)
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.Registry)
}

// ShowTaskUseCase returns a new ShowTask use case.
func (c *Container) ShowTaskUseCase() *usecase.ShowTask {
	return usecase.NewShowTask(c.Registry, c.Events)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}

// ShowConfigTemplateUseCase returns a new ShowConfigTemplate use case.
func (c *Container) ShowConfigTemplateUseCase() *usecase.ShowConfigTemplate {
	return usecase.NewShowConfigTemplate()
}
