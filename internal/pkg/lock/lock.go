// Package lock provides tree-level locking for evaluation and point updates.
// No two evaluations may read the same care-log window for one tree; every
// read-evaluate-write unit runs under that tree's lock.
package lock

import "sync"

// treeMutex wraps a mutex with reference counting for cleanup.
type treeMutex struct {
	mu       sync.Mutex
	refCount int
}

// TreeLock provides per-tree locking to serialize round evaluations and
// point mutations against the same tree record.
type TreeLock struct {
	locks sync.Map // map[int64]*treeMutex
	pool  sync.Pool
}

// NewTreeLock creates a new TreeLock instance.
func NewTreeLock() *TreeLock {
	return &TreeLock{
		pool: sync.Pool{
			New: func() any {
				return &treeMutex{}
			},
		},
	}
}

// getLock retrieves or creates a mutex for the given tree ID.
func (tl *TreeLock) getLock(treeID int64) *treeMutex {
	if v, ok := tl.locks.Load(treeID); ok {
		return v.(*treeMutex)
	}

	newLock := tl.pool.Get().(*treeMutex)
	newLock.refCount = 0

	// Store or load existing (handles race condition)
	actual, loaded := tl.locks.LoadOrStore(treeID, newLock)
	if loaded {
		// Another goroutine created the lock first, return ours to pool
		tl.pool.Put(newLock)
	}
	return actual.(*treeMutex)
}

// Lock acquires the lock for a tree.
func (tl *TreeLock) Lock(treeID int64) {
	lock := tl.getLock(treeID)
	lock.mu.Lock()
	lock.refCount++
}

// Unlock releases the lock for a tree.
func (tl *TreeLock) Unlock(treeID int64) {
	if v, ok := tl.locks.Load(treeID); ok {
		lock := v.(*treeMutex)
		lock.refCount--
		lock.mu.Unlock()
	}
}

// TryLock attempts to acquire the lock without blocking.
// Returns true if the lock was acquired, false otherwise.
func (tl *TreeLock) TryLock(treeID int64) bool {
	lock := tl.getLock(treeID)
	if lock.mu.TryLock() {
		lock.refCount++
		return true
	}
	return false
}

// WithLock executes a function while holding the tree's lock.
func (tl *TreeLock) WithLock(treeID int64, fn func() error) error {
	tl.Lock(treeID)
	defer tl.Unlock(treeID)
	return fn()
}
