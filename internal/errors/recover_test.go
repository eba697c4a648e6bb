package errors

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRecover(t *testing.T) {
	t.Run("no panic passes error through", func(t *testing.T) {
		want := errors.New("plain failure")
		err := Recover(func() error { return want })
		if !errors.Is(err, want) {
			t.Errorf("expected %v, got %v", want, err)
		}
	})

	t.Run("panic becomes PanicError", func(t *testing.T) {
		err := Recover(func() error { panic("boom") })
		var pe *PanicError
		if !errors.As(err, &pe) {
			t.Fatalf("expected PanicError, got %T", err)
		}
		if pe.Value != "boom" {
			t.Errorf("expected panic value 'boom', got %v", pe.Value)
		}
		if !strings.Contains(pe.StackTrace, "recover_test.go") {
			t.Error("expected stack trace to reference test file")
		}
	})
}

func TestSafeGo(t *testing.T) {
	t.Run("panic delivered to channel", func(t *testing.T) {
		errChan := make(chan error, 1)
		SafeGo(func() error { panic("stream reader died") }, errChan)

		select {
		case err := <-errChan:
			var pe *PanicError
			if !errors.As(err, &pe) {
				t.Fatalf("expected PanicError, got %T", err)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for panic error")
		}
	})

	t.Run("error delivered to channel", func(t *testing.T) {
		errChan := make(chan error, 1)
		want := errors.New("stream closed")
		SafeGo(func() error { return want }, errChan)

		select {
		case err := <-errChan:
			if !errors.Is(err, want) {
				t.Errorf("expected %v, got %v", want, err)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for error")
		}
	})
}
