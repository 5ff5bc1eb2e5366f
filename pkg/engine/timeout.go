package engine

import (
	"errors"
	"fmt"
	"time"
)

// EvalTimeout is the default hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when a call outlives its time limit.
	ErrTimeout = errors.New("timed out")
	// ErrSuperseded is returned when a newer evaluation started while this
	// one was running.
	ErrSuperseded = errors.New("evaluation superseded by newer request")
)

// outcome is the internal type used to pass results through channels.
type outcome[T any] struct {
	val T
	err error
}

// RunWithTimeout runs fn on its own goroutine and waits at most d for it.
// A panic in fn is returned as an error.
//
// On timeout the goroutine may still be running; its result is discarded
// when it eventually completes.
func RunWithTimeout[T any](d time.Duration, fn func() (T, error)) (T, error) {
	ch := make(chan outcome[T], 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- outcome[T]{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()
		v, err := fn()
		ch <- outcome[T]{val: v, err: err}
	}()

	return waitWithTimeout(ch, d)
}

// waitWithTimeout waits for a result from ch, but returns ErrTimeout if
// none arrives within d.
func waitWithTimeout[T any](ch <-chan outcome[T], d time.Duration) (T, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case res := <-ch:
		return res.val, res.err
	case <-timer.C:
		var zero T
		return zero, fmt.Errorf("%w after %s", ErrTimeout, d)
	}
}
