package budget

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReserveWithinBudget(t *testing.T) {
	a := NewAllocator(100)
	assert.Equal(t, 40, a.Reserve(40))
	assert.Equal(t, 60, a.Remaining())
	assert.Equal(t, 60, a.Reserve(60))
	assert.Equal(t, 0, a.Remaining())
}

func TestReserveOverdraw(t *testing.T) {
	a := NewAllocator(100)
	assert.Equal(t, 100, a.Reserve(500), "grant is capped at the remainder")
	assert.Equal(t, 0, a.Remaining())
	assert.Equal(t, 0, a.Reserve(1), "exhausted allocator grants nothing")
}

func TestReserveNeverNegative(t *testing.T) {
	a := NewAllocator(10)
	a.Reserve(7)
	a.Reserve(7)
	a.Reserve(7)
	assert.GreaterOrEqual(t, a.Remaining(), 0)
}

func TestReserveNonPositive(t *testing.T) {
	a := NewAllocator(50)
	assert.Equal(t, 0, a.Reserve(0))
	assert.Equal(t, 0, a.Reserve(-5))
	assert.Equal(t, 50, a.Remaining())
}

func TestNegativeTotal(t *testing.T) {
	a := NewAllocator(-1)
	assert.Equal(t, 0, a.Remaining())
	assert.Equal(t, 0, a.Reserve(10))
}

func TestTotalGrantsConserved(t *testing.T) {
	a := NewAllocator(1000)
	total := 0
	for _, n := range []int{300, 300, 300, 300, 300} {
		total += a.Reserve(n)
	}
	assert.Equal(t, 1000, total, "grants sum to exactly the budget, never more")
}
