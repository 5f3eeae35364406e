package chainmap

import (
	"sync"
	"sync/atomic"
	"time"
	_ "unsafe"
)

// Locker is the lock policy a Table embeds once per bucket.
// Lock/Unlock give exclusive access, RLock/RUnlock shared access.
// The zero value of L must be an unlocked lock.
type Locker[L any] interface {
	*L
	Lock()
	Unlock()
	RLock()
	RUnlock()
}

// NoLock performs no synchronization at all.
// Only use it when the table is never touched by more than one goroutine.
type NoLock struct{}

func (*NoLock) Lock()    {}
func (*NoLock) Unlock()  {}
func (*NoLock) RLock()   {}
func (*NoLock) RUnlock() {}

// MutexLock maps shared and exclusive access onto the same sync.Mutex,
// so readers also block each other.
type MutexLock struct {
	mu sync.Mutex
}

func (l *MutexLock) Lock()    { l.mu.Lock() }
func (l *MutexLock) Unlock()  { l.mu.Unlock() }
func (l *MutexLock) RLock()   { l.mu.Lock() }
func (l *MutexLock) RUnlock() { l.mu.Unlock() }

// RWLock provides reader/writer semantics: any number of shared holders
// or a single exclusive holder.
type RWLock struct {
	mu sync.RWMutex
}

func (l *RWLock) Lock()    { l.mu.Lock() }
func (l *RWLock) Unlock()  { l.mu.Unlock() }
func (l *RWLock) RLock()   { l.mu.RLock() }
func (l *RWLock) RUnlock() { l.mu.RUnlock() }

// SpinLock is an exclusive-only lock that busy-waits instead of parking
// the goroutine. Suited to very short critical sections.
//
// Partially references:
// [https://github.com/facebook/folly/blob/main/folly/synchronization/PicoSpinLock.h]
type SpinLock struct {
	state uint32
}

const (
	spinUnlocked uint32 = 0
	spinLocked   uint32 = 1
)

// Lock acquires the lock. This function can be inlined.
func (l *SpinLock) Lock() {
	if atomic.CompareAndSwapUint32(&l.state, spinUnlocked, spinLocked) {
		return
	}
	l.slowLock()
}

func (l *SpinLock) slowLock() {
	spins := 0
	for !l.TryLock() {
		delay(&spins)
	}
}

// TryLock acquires the lock if it is free and reports whether it did.
func (l *SpinLock) TryLock() bool {
	// test-and-test-and-set
	return atomic.LoadUint32(&l.state) == spinUnlocked &&
		atomic.CompareAndSwapUint32(&l.state, spinUnlocked, spinLocked)
}

func (l *SpinLock) Unlock() {
	atomic.StoreUint32(&l.state, spinUnlocked)
}

func (l *SpinLock) RLock()   { l.Lock() }
func (l *SpinLock) RUnlock() { l.Unlock() }

// enableSpin controls whether waiting calls runtime_doSpin (PAUSE) before
// falling back to sleeping.
const enableSpin = true

func delay(spins *int) {
	const yieldSleep = 500 * time.Microsecond
	if //goland:noinspection ALL
	enableSpin && runtime_canSpin(*spins) {
		runtime_doSpin()
		*spins++
	} else {
		// time.Sleep with non-zero duration works effectively
		// as backoff under high concurrency.
		time.Sleep(yieldSleep)
		*spins = 0
	}
}

// nolint:all
//
//go:linkname runtime_canSpin sync.runtime_canSpin
//go:nosplit
func runtime_canSpin(i int) bool

// nolint:all
//
//go:linkname runtime_doSpin sync.runtime_doSpin
//go:nosplit
func runtime_doSpin()
