// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/runoshun/yard-dispatch/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// OperatorCall records one Perform invocation.
type OperatorCall struct {
	TaskID    string
	SubTaskID string
	Type      domain.SubTaskType
}

// MockOperator is a test double for domain.Operator.
// Errors are looked up by sub-task ID first, then by sub-task type.
// Fields are ordered to minimize memory padding.
type MockOperator struct {
	Errors map[string]error
	// Hook runs after the error lookup for sub-tasks that do not fail.
	Hook  func(ctx context.Context, task *domain.Task, sub *domain.SubTask) error
	Calls []OperatorCall
	mu    sync.Mutex
}

// NewMockOperator creates a new MockOperator that always succeeds.
func NewMockOperator() *MockOperator {
	return &MockOperator{
		Errors: make(map[string]error),
	}
}

// Ensure MockOperator implements domain.Operator interface.
var _ domain.Operator = (*MockOperator)(nil)

// Perform records the call and returns the configured error, if any.
func (m *MockOperator) Perform(ctx context.Context, task *domain.Task, sub *domain.SubTask) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, OperatorCall{TaskID: task.ID, SubTaskID: sub.ID, Type: sub.Type})
	err, ok := m.Errors[sub.ID]
	if !ok {
		err = m.Errors[string(sub.Type)]
	}
	hook := m.Hook
	m.mu.Unlock()

	if err != nil {
		return err
	}
	if hook != nil {
		return hook(ctx, task, sub)
	}
	return nil
}

// CallsFor returns the sub-task types performed for a task, in order.
func (m *MockOperator) CallsFor(taskID string) []domain.SubTaskType {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.SubTaskType
	for _, c := range m.Calls {
		if c.TaskID == taskID {
			out = append(out, c.Type)
		}
	}
	return out
}

// LogEntry is one line captured by RecordingLogger.
type LogEntry struct {
	Level    string
	TaskID   string
	Category string
	Msg      string
}

// RecordingLogger is a domain.Logger that keeps every line in memory.
type RecordingLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

// Ensure RecordingLogger implements domain.Logger interface.
var _ domain.Logger = (*RecordingLogger)(nil)

func (l *RecordingLogger) record(level, taskID, category, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, LogEntry{Level: level, TaskID: taskID, Category: category, Msg: msg})
}

// Debug records a DEBUG line.
func (l *RecordingLogger) Debug(taskID, category, msg string) { l.record("DEBUG", taskID, category, msg) }

// Info records an INFO line.
func (l *RecordingLogger) Info(taskID, category, msg string) { l.record("INFO", taskID, category, msg) }

// Warn records a WARN line.
func (l *RecordingLogger) Warn(taskID, category, msg string) { l.record("WARN", taskID, category, msg) }

// Error records an ERROR line.
func (l *RecordingLogger) Error(taskID, category, msg string) { l.record("ERROR", taskID, category, msg) }

// Lines returns the captured entries.
func (l *RecordingLogger) Lines() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]LogEntry(nil), l.Entries...)
}

// MockStateStore is an in-memory test double for domain.StateStore.
// Fields are ordered to minimize memory padding.
type MockStateStore struct {
	Snapshot  *domain.Snapshot
	InitErr   error
	LoadErr   error
	UpdateErr error
	Updates   int
	mu        sync.Mutex
}

// NewMockStateStore creates a store holding snap. A nil snap means not initialized.
func NewMockStateStore(snap *domain.Snapshot) *MockStateStore {
	return &MockStateStore{Snapshot: snap}
}

// Ensure MockStateStore implements domain.StateStore interface.
var _ domain.StateStore = (*MockStateStore)(nil)

// Initialize stores the first snapshot.
func (m *MockStateStore) Initialize(s *domain.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InitErr != nil {
		return m.InitErr
	}
	if m.Snapshot != nil {
		return domain.ErrAlreadyInitialized
	}
	m.Snapshot = s
	return nil
}

// IsInitialized reports whether a snapshot is held.
func (m *MockStateStore) IsInitialized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Snapshot != nil
}

// Load returns the held snapshot.
func (m *MockStateStore) Load() (*domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Snapshot == nil {
		return nil, domain.ErrNotInitialized
	}
	return m.Snapshot, nil
}

// Update applies fn and keeps the result unless fn fails.
func (m *MockStateStore) Update(fn func(*domain.Snapshot) (*domain.Snapshot, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	if m.Snapshot == nil {
		return domain.ErrNotInitialized
	}
	next, err := fn(m.Snapshot)
	if err != nil {
		return err
	}
	if next == nil {
		return fmt.Errorf("update returned no snapshot")
	}
	m.Snapshot = next
	m.Updates++
	return nil
}

// MockLayoutLoader is a test double for domain.LayoutLoader.
// Fields are ordered to minimize memory padding.
type MockLayoutLoader struct {
	Snapshot *domain.Snapshot
	LoadErr  error
	Path     string // Last path requested
}

// Ensure MockLayoutLoader implements domain.LayoutLoader interface.
var _ domain.LayoutLoader = (*MockLayoutLoader)(nil)

// Load returns the configured snapshot, stamped with the requested grid.
func (m *MockLayoutLoader) Load(path string, grid domain.Grid) (*domain.Snapshot, error) {
	m.Path = path
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Snapshot == nil {
		return domain.NewSnapshot(grid), nil
	}
	m.Snapshot.Grid = grid
	return m.Snapshot, nil
}

// MockConfigLoader is a test double for domain.ConfigLoader.
// Fields are ordered to minimize memory padding.
type MockConfigLoader struct {
	Config       *domain.Config
	GlobalConfig *domain.Config
	LocalConfig  *domain.Config
	LoadErr      error
	GlobalErr    error
	LocalErr     error
}

// NewMockConfigLoader creates a new MockConfigLoader with default config.
func NewMockConfigLoader() *MockConfigLoader {
	return &MockConfigLoader{
		Config: domain.NewDefaultConfig(),
	}
}

// Ensure MockConfigLoader implements domain.ConfigLoader interface.
var _ domain.ConfigLoader = (*MockConfigLoader)(nil)

// Load returns the configured config or error.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Config, nil
}

// LoadGlobal returns the configured global config or error.
func (m *MockConfigLoader) LoadGlobal() (*domain.Config, error) {
	if m.GlobalErr != nil {
		return nil, m.GlobalErr
	}
	if m.GlobalConfig != nil {
		return m.GlobalConfig, nil
	}
	return m.Config, nil
}

// LoadLocal returns the configured local config or error.
func (m *MockConfigLoader) LoadLocal() (*domain.Config, error) {
	if m.LocalErr != nil {
		return nil, m.LocalErr
	}
	if m.LocalConfig != nil {
		return m.LocalConfig, nil
	}
	return m.Config, nil
}

// MockConfigManager is a test double for domain.ConfigManager.
// Fields are ordered to minimize memory padding.
type MockConfigManager struct {
	InitLocalErr     error
	InitGlobalErr    error
	InitConfig       *domain.Config // Config passed to the last Init call
	LocalConfigInfo  domain.ConfigInfo
	GlobalConfigInfo domain.ConfigInfo
	InitLocalCalled  bool
	InitGlobalCalled bool
}

// NewMockConfigManager creates a new MockConfigManager.
func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		LocalConfigInfo: domain.ConfigInfo{
			Path:   "/test/.yard/config.toml",
			Exists: false,
		},
		GlobalConfigInfo: domain.ConfigInfo{
			Path:   "/home/test/.config/yard/config.toml",
			Exists: false,
		},
	}
}

// Ensure MockConfigManager implements domain.ConfigManager interface.
var _ domain.ConfigManager = (*MockConfigManager)(nil)

// GetLocalConfigInfo returns the configured local config info.
func (m *MockConfigManager) GetLocalConfigInfo() domain.ConfigInfo {
	return m.LocalConfigInfo
}

// GetGlobalConfigInfo returns the configured global config info.
func (m *MockConfigManager) GetGlobalConfigInfo() domain.ConfigInfo {
	return m.GlobalConfigInfo
}

// InitLocalConfig records the call and returns configured error.
func (m *MockConfigManager) InitLocalConfig(cfg *domain.Config) error {
	m.InitLocalCalled = true
	m.InitConfig = cfg
	return m.InitLocalErr
}

// InitGlobalConfig records the call and returns configured error.
func (m *MockConfigManager) InitGlobalConfig(cfg *domain.Config) error {
	m.InitGlobalCalled = true
	m.InitConfig = cfg
	return m.InitGlobalErr
}
