package anim

import (
	"context"
)

// Loop is the single-threaded run loop the whole presentation runs on.
// Every mutation of navigation or line state happens as a task posted here,
// so the components themselves need no locking.
type Loop struct {
	tasks chan func()
}

func NewLoop() *Loop {
	return &Loop{
		tasks: make(chan func(), 64),
	}
}

// Post queues fn for execution on the loop goroutine.
func (l *Loop) Post(fn func()) {
	l.tasks <- fn
}

// Run executes posted tasks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.tasks:
			fn()
		}
	}
}
