package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCartTotal_SingleItem(t *testing.T) {
	c := &Cart{
		Items: []CartItem{
			{Price: 1999, Quantity: 2},
		},
	}
	assert.Equal(t, int64(3998), c.Total())
}

func TestCartTotal_MultipleItems(t *testing.T) {
	c := &Cart{
		Items: []CartItem{
			{Price: 1000, Quantity: 2},
			{Price: 500, Quantity: 3},
			{Price: 2500, Quantity: 1},
		},
	}
	// 2000 + 1500 + 2500 = 6000
	assert.Equal(t, int64(6000), c.Total())
}

func TestCartTotal_EmptyAndNil(t *testing.T) {
	assert.Equal(t, int64(0), (&Cart{Items: []CartItem{}}).Total())
	assert.Equal(t, int64(0), (&Cart{}).Total())
}

func TestItemCount_SumsQuantities(t *testing.T) {
	c := &Cart{
		Items: []CartItem{
			{Quantity: 2},
			{Quantity: 3},
		},
	}
	assert.Equal(t, 5, c.ItemCount())
}

func TestItemCount_Empty(t *testing.T) {
	assert.Equal(t, 0, (&Cart{}).ItemCount())
}

func TestFindItemIndex(t *testing.T) {
	c := &Cart{
		Items: []CartItem{
			{ID: "p-1"},
			{ID: "p-2"},
		},
	}
	assert.Equal(t, 0, c.FindItemIndex("p-1"))
	assert.Equal(t, 1, c.FindItemIndex("p-2"))
	assert.Equal(t, -1, c.FindItemIndex("p-3"))
}
