package workflows

import "context"

type outcome[T any] struct {
	val T
	err error
}

// runInBackground runs fn on its own goroutine so the caller can keep a
// spinner going and can stop waiting when ctx is cancelled. If the caller
// stops waiting, discard (when non-nil) receives the eventual value.
func runInBackground[T any](ctx context.Context, fn func() (T, error), discard func(T)) (T, error) {
	// Unbuffered: a result is either received by the caller or discarded, never both.
	done := make(chan outcome[T])
	abandoned := make(chan struct{})

	go func() {
		val, err := fn()
		select {
		case done <- outcome[T]{val, err}:
		case <-abandoned:
			if err == nil && discard != nil {
				discard(val)
			}
		}
	}()

	select {
	case r := <-done:
		return r.val, r.err
	case <-ctx.Done():
		close(abandoned)
		var zero T
		return zero, ctx.Err()
	}
}
