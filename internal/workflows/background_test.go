package workflows

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRunInBackgroundReturnsValue(t *testing.T) {
	got, err := runInBackground(context.Background(), func() (int, error) {
		return 42, nil
	}, nil)
	if err != nil || got != 42 {
		t.Fatalf("Expected 42, nil; got %d, %v", got, err)
	}

	sentinel := errors.New("boom")
	_, err = runInBackground(context.Background(), func() (int, error) {
		return 0, sentinel
	}, nil)
	if !errors.Is(err, sentinel) {
		t.Fatalf("Expected sentinel error, got %v", err)
	}
}

func TestRunInBackgroundCancelDiscardsResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	discarded := make(chan []byte, 1)

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := runInBackground(ctx, func() ([]byte, error) {
		<-release
		return []byte("plaintext"), nil
	}, func(b []byte) {
		discarded <- b
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}

	close(release)
	select {
	case b := <-discarded:
		if string(b) != "plaintext" {
			t.Errorf("Discarded unexpected value %q", b)
		}
	case <-time.After(time.Second):
		t.Fatal("Abandoned result was never discarded")
	}
}
