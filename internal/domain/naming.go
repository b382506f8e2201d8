package domain

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ShipTaskID returns the task ID for a ship plan.
// Format: ship_task_<planID>
func ShipTaskID(planID string) string {
	return "ship_task_" + planID
}

// ShipTaskAttemptID returns the task ID of a later attempt at a ship plan.
// The first attempt has the plain ShipTaskID.
// Format: ship_task_<planID>_<attempt>
func ShipTaskAttemptID(planID string, attempt int) string {
	if attempt <= 1 {
		return ShipTaskID(planID)
	}
	return fmt.Sprintf("%s_%d", ShipTaskID(planID), attempt)
}

// TransferTaskID returns a task ID for a transfer between two warehouses.
// Format: internal_<source>_<target>_<suffix>
func TransferTaskID(sourceID, targetID, suffix string) string {
	return fmt.Sprintf("internal_%s_%s_%s", sourceID, targetID, suffix)
}

// ShortID returns an 8 character random identifier.
func ShortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Sub-task ID prefixes, joined to the task ID with an underscore.
const (
	prefixPull               = "pull"
	prefixTransportTerminal  = "transport_to_terminal"
	prefixLoad               = "load"
	prefixTransportProduct   = "transport_to_product"
	prefixUnload             = "unload"
	prefixPosition           = "position"
	prefixTransportWarehouse = "transport"
)

// SubTaskID returns the ID of a sub-task within a task.
func SubTaskID(prefix, taskID string) string {
	return prefix + "_" + taskID
}

// Directory and file names for yard state.
const (
	YardDirName    = ".yard"       // Per-yard state directory
	GlobalDirName  = "yard"        // Directory under XDG_CONFIG_HOME
	ConfigFileName = "config.toml" // Config file name
	StateFileName  = "state.json"  // Yard snapshot file name
	LogsDirName    = "logs"        // Log directory name
)

// YardDir returns the state directory for a yard rooted at root.
func YardDir(root string) string {
	return filepath.Join(root, YardDirName)
}

// StatePath returns the path to the yard snapshot file.
func StatePath(yardDir string) string {
	return filepath.Join(yardDir, StateFileName)
}

// LocalConfigPath returns the yard-local config path.
func LocalConfigPath(yardDir string) string {
	return filepath.Join(yardDir, ConfigFileName)
}

// GlobalDir returns the global yard directory path.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalDir(configHome string) string {
	return filepath.Join(configHome, GlobalDirName)
}

// GlobalConfigPath returns the global config path.
func GlobalConfigPath(configHome string) string {
	return filepath.Join(GlobalDir(configHome), ConfigFileName)
}

// LogsDir returns the log directory inside the yard directory.
func LogsDir(yardDir string) string {
	return filepath.Join(yardDir, LogsDirName)
}

// GlobalLogPath returns the path to the yard-wide log file.
func GlobalLogPath(yardDir string) string {
	return filepath.Join(LogsDir(yardDir), "yard.log")
}

// TaskLogPath returns the path to a task's log file.
func TaskLogPath(yardDir, taskID string) string {
	return filepath.Join(LogsDir(yardDir), "task-"+sanitizeFileName(taskID)+".log")
}

func sanitizeFileName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', ' ':
			return '_'
		}
		return r
	}, s)
}
