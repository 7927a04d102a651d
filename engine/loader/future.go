package loader

import (
	"context"

	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
)

// Future is the pending result of an asynchronous model load.
// It completes after the load callbacks have been handed to the dispatcher.
type Future struct {
	done chan struct{}
	node *scene.Node
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// resolve records the outcome and releases waiters. Must be called exactly once.
func (f *Future) resolve(node *scene.Node, err error) {
	f.node = node
	f.err = err
	close(f.done)
}

// Done returns a channel that is closed when the load has finished.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Result blocks until the load finishes and returns its outcome.
//
// Returns:
//   - *scene.Node: the model root, or nil on failure
//   - error: the load error, or nil on success
func (f *Future) Result() (*scene.Node, error) {
	<-f.done
	return f.node, f.err
}

// Wait is Result bounded by ctx.
//
// Parameters:
//   - ctx: context controlling how long to wait
//
// Returns:
//   - *scene.Node: the model root, or nil on failure
//   - error: the load error, or ctx.Err() if the context ended first
func (f *Future) Wait(ctx context.Context) (*scene.Node, error) {
	select {
	case <-f.done:
		return f.node, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
