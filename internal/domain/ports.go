package domain

import (
	"context"
	"time"
)

// Registry is the authoritative store for yard entities and tasks.
// Lookups report absence with false rather than an error.
// Equipment and warehouse records are returned live and guard their own
// mutable state; task records are returned as copies and written back with SaveTask.
type Registry interface {
	// Grid returns the yard area used for parking.
	Grid() Grid

	// PutProduct inserts or replaces a product.
	PutProduct(p *Product) error
	// PutWarehouse inserts or replaces a warehouse.
	PutWarehouse(w *Warehouse) error
	// PutCrane inserts or replaces a crane. Its warehouse must exist.
	PutCrane(c *Crane) error
	// PutFrame inserts or replaces a frame.
	PutFrame(f *Frame) error
	// PutTruck inserts or replaces a frame truck.
	PutTruck(t *FrameTruck) error
	// PutPlan inserts or replaces a ship plan.
	PutPlan(p *ShipPlan) error

	Product(id string) (*Product, bool)
	Warehouse(id string) (*Warehouse, bool)
	Crane(id string) (*Crane, bool)
	Frame(id string) (*Frame, bool)
	Truck(id string) (*FrameTruck, bool)
	Plan(id string) (*ShipPlan, bool)
	// Equipment returns the shared equipment state bound to a role.
	Equipment(role Role, id string) (*Equipment, bool)

	// Listings are in insertion order.
	Products() []*Product
	Warehouses(kind WarehouseKind) []*Warehouse // empty kind = all
	Cranes() []*Crane
	Frames() []*Frame
	Trucks() []*FrameTruck
	Plans() []*ShipPlan

	// AddTask stores a new task. Returns ErrDuplicateTask if the ID is taken.
	AddTask(t *Task) error
	// SaveTask replaces an existing task. Returns ErrUnknownTask if absent.
	SaveTask(t *Task) error
	// UpdateTask applies fn to a copy of the stored task under the registry lock
	// and stores the result unless fn fails. Returns ErrUnknownTask if absent.
	UpdateTask(id string, fn func(*Task) error) (*Task, error)
	// Task returns a copy of the task.
	Task(id string) (*Task, bool)
	// Tasks returns copies of all tasks in insertion order.
	Tasks() []*Task

	// AdjustStock applies a signed quantity change to one warehouse line.
	AdjustStock(warehouseID, productID string, delta int) error
	// Withdraw takes products from all warehouses of a tier, all or nothing.
	Withdraw(kind WarehouseKind, products map[string]int) (Withdrawal, error)

	// Snapshot copies every entity for persistence.
	Snapshot() *Snapshot
	// Restore replaces the registry contents with a snapshot.
	Restore(s *Snapshot) error
}

// EventLog is the append-only record of engine actions.
type EventLog interface {
	// Append records an event.
	Append(e Event)
	// Tail returns up to n of the most recent events, oldest first.
	Tail(n int) []Event
	// Events returns every retained event, oldest first.
	Events() []Event
	// Total returns how many events were ever appended.
	Total() int
}

// Logger writes diagnostic log lines.
// taskID may be empty for yard-wide messages.
type Logger interface {
	Debug(taskID, category, msg string)
	Info(taskID, category, msg string)
	Warn(taskID, category, msg string)
	Error(taskID, category, msg string)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(_, _, _ string) {}
func (NopLogger) Info(_, _, _ string)  {}
func (NopLogger) Warn(_, _, _ string)  {}
func (NopLogger) Error(_, _, _ string) {}

// Operator performs the physical work of a sub-task.
// A non-nil error fails the sub-task.
type Operator interface {
	Perform(ctx context.Context, task *Task, sub *SubTask) error
}

// StateStore persists yard snapshots between runs.
type StateStore interface {
	// Initialize writes the initial snapshot. Returns ErrAlreadyInitialized if present.
	Initialize(s *Snapshot) error
	// IsInitialized reports whether a snapshot exists.
	IsInitialized() bool
	// Load reads the current snapshot.
	Load() (*Snapshot, error)
	// Update loads the snapshot, applies fn and writes it back under an exclusive lock.
	Update(fn func(*Snapshot) (*Snapshot, error)) error
}

// LayoutLoader reads a yard layout and converts it into a snapshot.
type LayoutLoader interface {
	// Load reads the layout at path; an empty path selects the demo layout.
	Load(path string, grid Grid) (*Snapshot, error)
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (local over global over defaults).
	Load() (*Config, error)
	// LoadGlobal returns only the global configuration.
	LoadGlobal() (*Config, error)
	// LoadLocal returns only the yard-local configuration.
	LoadLocal() (*Config, error)
}

// ConfigManager manages configuration files.
type ConfigManager interface {
	// GetLocalConfigInfo describes the yard-local config file.
	GetLocalConfigInfo() ConfigInfo
	// GetGlobalConfigInfo describes the global config file.
	GetGlobalConfigInfo() ConfigInfo
	// InitLocalConfig writes the config template to the yard directory.
	InitLocalConfig(cfg *Config) error
	// InitGlobalConfig writes the config template to the global directory.
	InitGlobalConfig(cfg *Config) error
}

// ConfigInfo describes one config file.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
