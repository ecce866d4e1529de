// Package lock provides a mutex that owns the value it guards.
//
// Locking the same Mutex twice from one goroutine deadlocks. With re-entrancy
// checks on (always in uimemdebug builds) it panics instead, naming the problem.
package lock

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/krisalay/ui-memory/internal/buildmode"
)

// ReentrantPanic is the panic value of a re-entrant Lock.
const ReentrantPanic = "lock: recursively locking a Mutex in the same goroutine is not supported"

// Mutex guards a value of type T. The zero value is not usable; use New.
type Mutex[T any] struct {
	mu     sync.Mutex
	holder atomic.Uint64
	check  bool
	value  T
}

// Option configures a Mutex.
type Option func(*options)

type options struct {
	check bool
}

// WithReentrancyCheck turns the re-entrancy panic on or off. It is on by default only in uimemdebug builds.
func WithReentrancyCheck(on bool) Option {
	return func(o *options) { o.check = on }
}

// New returns a Mutex guarding v.
func New[T any](v T, opts ...Option) *Mutex[T] {
	o := options{check: buildmode.Debug}
	for _, opt := range opts {
		opt(&o)
	}
	return &Mutex[T]{value: v, check: o.check}
}

// Lock calls fn with exclusive access to the value. The pointer must not escape fn.
func (m *Mutex[T]) Lock(fn func(*T)) {
	var g uint64
	if m.check {
		g = goroutineID()
		if m.holder.Load() == g {
			panic(ReentrantPanic)
		}
	}

	m.mu.Lock()
	if m.check {
		m.holder.Store(g)
	}
	defer func() {
		if m.check {
			m.holder.Store(0)
		}
		m.mu.Unlock()
	}()

	fn(&m.value)
}

// With calls fn with exclusive access to the value and returns its result.
func With[T, R any](m *Mutex[T], fn func(*T) R) R {
	var out R
	m.Lock(func(v *T) { out = fn(v) })
	return out
}

// goroutineID parses the current goroutine id from the stack header "goroutine 42 [running]:".
func goroutineID() uint64 {
	var buf [64]byte
	b := buf[:runtime.Stack(buf[:], false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	n, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
