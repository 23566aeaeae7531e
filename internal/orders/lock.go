package orders

import "sync"

// orderLocks serializes mutations per order id. Operations that read an
// order's items and write back its total must not interleave for the same
// order, or a stale read produces a lost update.
type orderLocks struct {
	locks sync.Map // int64 -> *sync.Mutex
}

// Acquire blocks until the lock for the given order id is held and returns
// the release function. Mutexes are kept for the life of the process; the
// per-order footprint is one mutex.
func (l *orderLocks) Acquire(orderID int64) func() {
	v, _ := l.locks.LoadOrStore(orderID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
