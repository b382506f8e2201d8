package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarehouse_AddRemove(t *testing.T) {
	w := NewWarehouse("TW001", "Terminal 1", WarehouseTerminal, Position{}, 100)

	require.NoError(t, w.AddProduct("P001", 30))
	require.NoError(t, w.AddProduct("P002", 20))
	assert.Equal(t, 50, w.Load())
	assert.Equal(t, 30, w.Quantity("P001"))

	require.NoError(t, w.RemoveProduct("P001", 30))
	assert.Equal(t, 0, w.Quantity("P001"))
	_, present := w.Stock()["P001"]
	assert.False(t, present, "zero quantity entries are deleted")
	assert.Equal(t, 20, w.Load())
}

func TestWarehouse_RemoveInsufficient(t *testing.T) {
	w := NewWarehouse("TW001", "Terminal 1", WarehouseTerminal, Position{}, 0)
	require.NoError(t, w.AddProduct("P001", 5))

	err := w.RemoveProduct("P001", 6)

	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 5, w.Quantity("P001"))
	assert.Equal(t, 5, w.Load())
}

func TestWarehouse_Capacity(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		add      int
		wantErr  error
	}{
		{"fits exactly", 10, 10, nil},
		{"over capacity", 10, 11, ErrCapacityExceeded},
		{"unbounded", 0, 100000, nil},
		{"zero quantity", 10, 0, ErrInvalidQuantity},
		{"negative quantity", 10, -1, ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWarehouse("W", "W", WarehouseProduct, Position{}, tt.capacity)
			err := w.AddProduct("P001", tt.add)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, 0, w.Load())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.add, w.Load())
		})
	}
}

func TestWarehouse_Adjust(t *testing.T) {
	w := NewWarehouse("W", "W", WarehouseTerminal, Position{}, 0)

	require.NoError(t, w.Adjust("P001", 10))
	require.NoError(t, w.Adjust("P001", -4))
	assert.Equal(t, 6, w.Quantity("P001"))
	assert.ErrorIs(t, w.Adjust("P001", 0), ErrInvalidQuantity)
	assert.ErrorIs(t, w.Adjust("P001", -7), ErrInsufficientStock)
}

func TestWarehouse_Normalize(t *testing.T) {
	t.Run("recomputes load and drops zeros", func(t *testing.T) {
		w := &Warehouse{ID: "W", Products: map[string]int{"P001": 3, "P002": 0}, CurrentLoad: 99}
		require.NoError(t, w.Normalize())
		assert.Equal(t, 3, w.Load())
		assert.Equal(t, map[string]int{"P001": 3}, w.Stock())
	})

	t.Run("rejects negative", func(t *testing.T) {
		w := &Warehouse{ID: "W", Products: map[string]int{"P001": -1}}
		assert.ErrorIs(t, w.Normalize(), ErrInvalidQuantity)
	})

	t.Run("rejects over capacity", func(t *testing.T) {
		w := &Warehouse{ID: "W", Capacity: 2, Products: map[string]int{"P001": 3}}
		assert.ErrorIs(t, w.Normalize(), ErrCapacityExceeded)
	})
}

func TestWithdraw(t *testing.T) {
	newTerminals := func() []*Warehouse {
		a := NewWarehouse("TW001", "A", WarehouseTerminal, Position{}, 0)
		b := NewWarehouse("TW002", "B", WarehouseTerminal, Position{}, 0)
		_ = a.AddProduct("P001", 10)
		_ = b.AddProduct("P001", 10)
		_ = b.AddProduct("P002", 5)
		return []*Warehouse{a, b}
	}

	t.Run("drains in order", func(t *testing.T) {
		ws := newTerminals()
		got, err := Withdraw(ws, map[string]int{"P001": 15, "P002": 5})
		require.NoError(t, err)
		assert.Equal(t, Withdrawal{
			"TW001": {"P001": 10},
			"TW002": {"P001": 5, "P002": 5},
		}, got)
		assert.Equal(t, 0, ws[0].Load())
		assert.Equal(t, 5, ws[1].Load())
	})

	t.Run("all or nothing", func(t *testing.T) {
		ws := newTerminals()
		_, err := Withdraw(ws, map[string]int{"P001": 5, "P002": 6})
		require.ErrorIs(t, err, ErrInsufficientStock)
		assert.Equal(t, 20, TotalStock(ws, "P001"))
		assert.Equal(t, 5, TotalStock(ws, "P002"))
	})

	t.Run("rejects non-positive", func(t *testing.T) {
		ws := newTerminals()
		_, err := Withdraw(ws, map[string]int{"P001": 0})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})
}

func TestWarehouse_Deposit(t *testing.T) {
	w := NewWarehouse("PW001", "Product 1", WarehouseProduct, Position{}, 10)
	require.NoError(t, w.AddProduct("P001", 4))

	err := w.Deposit(map[string]int{"P001": 3, "P002": 4})
	require.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, 4, w.Load(), "nothing is added on failure")

	require.NoError(t, w.Deposit(map[string]int{"P001": 3, "P002": 3}))
	assert.Equal(t, map[string]int{"P001": 7, "P002": 3}, w.Stock())
	assert.Equal(t, 10, w.Load())

	assert.ErrorIs(t, w.Deposit(map[string]int{"P003": 0}), ErrInvalidQuantity)
}
