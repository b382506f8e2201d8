package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStrategy(t *testing.T) {
	tests := []struct {
		name    string
		want    SelectionStrategy
		wantErr bool
	}{
		{"", FirstFit{}, false},
		{StrategyFirstFit, FirstFit{}, false},
		{StrategyNearest, Nearest{}, false},
		{"random", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewStrategy(tt.name)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownStrategy)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStrategy_Choose(t *testing.T) {
	candidates := []Candidate{
		{ID: "F001", Position: Position{X: 9, Y: 9}},
		{ID: "F002", Position: Position{X: 1, Y: 1}},
		{ID: "F003", Position: Position{X: 1, Y: 1}},
	}
	anchor := Position{}

	got, ok := FirstFit{}.Choose(candidates, anchor)
	require.True(t, ok)
	assert.Equal(t, "F001", got.ID)

	got, ok = Nearest{}.Choose(candidates, anchor)
	require.True(t, ok)
	assert.Equal(t, "F002", got.ID, "earliest candidate wins ties")

	_, ok = Nearest{}.Choose(nil, anchor)
	assert.False(t, ok)
	_, ok = FirstFit{}.Choose(nil, anchor)
	assert.False(t, ok)
}
