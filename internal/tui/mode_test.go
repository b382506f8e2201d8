package tui

import "testing"

func TestMode_String(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{ModeNormal, "normal"},
		{ModeConfirm, "confirm"},
		{ModeHelp, "help"},
		{ModeDetail, "detail"},
		{Mode(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.mode.String(); got != tt.want {
				t.Errorf("Mode.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfirmAction_String(t *testing.T) {
	tests := []struct {
		action ConfirmAction
		want   string
	}{
		{ConfirmNone, ""},
		{ConfirmCancel, "cancel"},
		{ConfirmRunAll, "run all"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.action.String(); got != tt.want {
				t.Errorf("ConfirmAction.String() = %v, want %v", got, tt.want)
			}
		})
	}
}
