package runtime

import (
	"errors"
	"fmt"
	"sync"
)

// Call is the handle of an asynchronous request. It completes exactly once.
type Call struct {
	done  chan struct{}
	once  sync.Once
	value any
	err   error
}

// NewCall returns an incomplete call.
func NewCall() *Call {
	return &Call{done: make(chan struct{})}
}

// Go runs fn on a new goroutine and returns the call it completes. A panic
// in fn fails the call with an *ExecutionError.
func Go(fn func() (any, error)) *Call {
	c := NewCall()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				c.Complete(nil, &ExecutionError{Err: fmt.Errorf("panic: %v", r)})
			}
		}()
		c.Complete(fn())
	}()
	return c
}

// Complete resolves the call. Calls after the first are ignored.
func (c *Call) Complete(value any, err error) {
	c.once.Do(func() {
		c.value, c.err = value, err
		close(c.done)
	})
}

// Done is closed once the call completes.
func (c *Call) Done() <-chan struct{} { return c.done }

// Result blocks until the call completes and returns its outcome.
func (c *Call) Result() (any, error) {
	<-c.done
	return c.value, c.err
}

// Block waits for call and returns its result as a T. Execution errors are
// unwrapped to their cause.
func Block[T any](call *Call) (T, error) {
	var zero T
	v, err := call.Result()
	if err != nil {
		return zero, unwrapExecution(err)
	}
	if v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected call result %T, want %T", v, zero)
	}
	return t, nil
}

// Wait waits for call and returns its error, unwrapped like Block.
func Wait(call *Call) error {
	if _, err := call.Result(); err != nil {
		return unwrapExecution(err)
	}
	return nil
}

func unwrapExecution(err error) error {
	var ee *ExecutionError
	for errors.As(err, &ee) && ee.Err != nil {
		err = ee.Err
	}
	return err
}
