package domain

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestShipTaskID(t *testing.T) {
	if got := ShipTaskID("SP001"); got != "ship_task_SP001" {
		t.Errorf("ShipTaskID() = %q, want %q", got, "ship_task_SP001")
	}
}

func TestShipTaskAttemptID(t *testing.T) {
	tests := []struct {
		want    string
		attempt int
	}{
		{"ship_task_SP001", 0},
		{"ship_task_SP001", 1},
		{"ship_task_SP001_2", 2},
		{"ship_task_SP001_10", 10},
	}

	for _, tt := range tests {
		if got := ShipTaskAttemptID("SP001", tt.attempt); got != tt.want {
			t.Errorf("ShipTaskAttemptID(%d) = %q, want %q", tt.attempt, got, tt.want)
		}
	}
}

func TestTransferTaskID(t *testing.T) {
	got := TransferTaskID("TW001", "PW001", "abcd1234")
	want := "internal_TW001_PW001_abcd1234"
	if got != want {
		t.Errorf("TransferTaskID() = %q, want %q", got, want)
	}
}

func TestShortID(t *testing.T) {
	a := ShortID()
	b := ShortID()
	if len(a) != 8 {
		t.Errorf("len(ShortID()) = %d, want 8", len(a))
	}
	if strings.Contains(a, "-") {
		t.Errorf("ShortID() = %q contains a dash", a)
	}
	if a == b {
		t.Errorf("ShortID() returned %q twice", a)
	}
}

func TestSubTaskID(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{prefixPull, "pull_ship_task_SP001"},
		{prefixTransportTerminal, "transport_to_terminal_ship_task_SP001"},
		{prefixLoad, "load_ship_task_SP001"},
		{prefixTransportProduct, "transport_to_product_ship_task_SP001"},
		{prefixUnload, "unload_ship_task_SP001"},
		{prefixPosition, "position_ship_task_SP001"},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			if got := SubTaskID(tt.prefix, "ship_task_SP001"); got != tt.want {
				t.Errorf("SubTaskID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPaths(t *testing.T) {
	yardDir := YardDir("/srv/yard")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"yard dir", yardDir, filepath.Join("/srv/yard", ".yard")},
		{"state", StatePath(yardDir), filepath.Join("/srv/yard", ".yard", "state.json")},
		{"local config", LocalConfigPath(yardDir), filepath.Join("/srv/yard", ".yard", "config.toml")},
		{"global config", GlobalConfigPath("/home/u/.config"), filepath.Join("/home/u/.config", "yard", "config.toml")},
		{"global log", GlobalLogPath(yardDir), filepath.Join("/srv/yard", ".yard", "logs", "yard.log")},
		{"task log", TaskLogPath(yardDir, "ship_task_SP001"), filepath.Join("/srv/yard", ".yard", "logs", "task-ship_task_SP001.log")},
		{"task log sanitized", TaskLogPath(yardDir, "a/b c"), filepath.Join("/srv/yard", ".yard", "logs", "task-a_b_c.log")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}
