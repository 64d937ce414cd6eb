package pool

import "github.com/fanoutlabs/fanout/runner"

// Promise is the handle to one submitted task's eventual result.
type Promise[T any] struct {
	done chan struct{}
	res  runner.Result[T]
}

func newPromise[T any]() *Promise[T] {
	return &Promise[T]{done: make(chan struct{})}
}

// Done returns a channel closed when the task reaches a terminal state.
func (pr *Promise[T]) Done() <-chan struct{} {
	return pr.done
}

// Wait blocks until the task reaches a terminal state and returns its
// result. It is safe to call from multiple goroutines.
func (pr *Promise[T]) Wait() runner.Result[T] {
	<-pr.done
	return pr.res
}

// settle records the result and releases waiters. Called exactly once per
// promise, from the worker that executed the task.
func (pr *Promise[T]) settle(r runner.Result[T]) {
	pr.res = r
	close(pr.done)
}
