package builder

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewDefaultsCommand(t *testing.T) {
	b := New("", []string{"-s"}, nil)
	if b.Command != "makepkg" {
		t.Errorf("Command = %q", b.Command)
	}
	if len(b.Args) != 1 || b.Args[0] != "-s" {
		t.Errorf("Args = %v", b.Args)
	}
}

func TestRunSuccess(t *testing.T) {
	b := New("true", nil, nil)
	if err := b.Run(context.Background(), t.TempDir()); err != nil {
		t.Errorf("Run failed: %v", err)
	}
}

func TestRunNonZeroExit(t *testing.T) {
	b := New("false", nil, nil)
	err := b.Run(context.Background(), t.TempDir())
	if !errors.Is(err, ErrBuildFailed) {
		t.Errorf("Expected ErrBuildFailed, got %v", err)
	}
}

func TestRunMissingCommand(t *testing.T) {
	b := New("kforge-no-such-tool", nil, nil)
	err := b.Run(context.Background(), t.TempDir())
	if !errors.Is(err, ErrBuildFailed) {
		t.Errorf("Expected ErrBuildFailed, got %v", err)
	}
}

func TestRunCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	b := New("sleep", []string{"10"}, nil)
	start := time.Now()
	err := b.Run(ctx, t.TempDir())
	if !errors.Is(err, ErrBuildFailed) {
		t.Errorf("Expected ErrBuildFailed on cancellation, got %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("Cancellation did not kill the build")
	}
}
