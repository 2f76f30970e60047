// Package budget tracks a shrinking character allowance for one
// selection pass. An Allocator is created per request and discarded
// with it; it is not safe for concurrent use and is only ever touched
// by the single pass that owns it.
package budget

// Allocator hands out character grants until the budget is exhausted.
// It never overdraws: a reservation larger than the remainder is
// granted only the remainder.
type Allocator struct {
	remaining int
}

func NewAllocator(total int) *Allocator {
	if total < 0 {
		total = 0
	}
	return &Allocator{remaining: total}
}

// Reserve grants min(n, remaining) characters and deducts the grant.
func (a *Allocator) Reserve(n int) int {
	if n <= 0 {
		return 0
	}
	granted := n
	if granted > a.remaining {
		granted = a.remaining
	}
	a.remaining -= granted
	return granted
}

// Remaining reports the characters still available.
func (a *Allocator) Remaining() int {
	return a.remaining
}
