package services

import (
	"sync"
)

// RideLocks hands out one mutex per ride so the seat capacity
// check-and-decrement in accept runs as a critical section even before
// the database row lock is taken. Locks are created on first use and
// kept for the lifetime of the process; ride churn is low enough that
// no eviction is needed.
type RideLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewRideLocks() *RideLocks {
	return &RideLocks{locks: make(map[uint]*sync.Mutex)}
}

// Lock acquires the mutex for a ride, creating it if needed.
func (r *RideLocks) Lock(rideID uint) {
	r.mu.Lock()
	l, ok := r.locks[rideID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[rideID] = l
	}
	r.mu.Unlock()

	l.Lock()
}

// Unlock releases the mutex for a ride. Must follow a Lock for the same ride.
func (r *RideLocks) Unlock(rideID uint) {
	r.mu.Lock()
	l := r.locks[rideID]
	r.mu.Unlock()

	if l != nil {
		l.Unlock()
	}
}
