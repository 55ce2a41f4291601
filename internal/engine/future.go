// Package engine models asynchronous command execution: submit without
// blocking, observe the outcome later.
package engine

import (
	"sync"

	"github.com/azsu/crossfwd/internal/identity"
)

// Result is one terminal execution outcome. Err set means the engine itself
// blew up; OK reflects what the command reported.
type Result struct {
	OK  bool
	Err error
}

// Future is a single-assignment execution outcome. Completing more than once
// is a no-op.
type Future struct {
	once sync.Once
	done chan Result
}

func NewFuture() *Future {
	return &Future{done: make(chan Result, 1)}
}

func (f *Future) Complete(ok bool) {
	f.once.Do(func() {
		f.done <- Result{OK: ok}
		close(f.done)
	})
}

func (f *Future) Fail(err error) {
	f.once.Do(func() {
		f.done <- Result{Err: err}
		close(f.done)
	})
}

// Done yields exactly one Result and then closes.
func (f *Future) Done() <-chan Result {
	return f.done
}

// Completed returns an already-settled future, mostly for tests and
// synchronous engines.
func Completed(ok bool) *Future {
	f := NewFuture()
	f.Complete(ok)
	return f
}

// Failed returns an already-failed future.
func Failed(err error) *Future {
	f := NewFuture()
	f.Fail(err)
	return f
}

// Submitter accepts a command string plus the identity it executes as and
// reports the outcome through the returned future.
type Submitter interface {
	Submit(as identity.Executor, command string) *Future
}
