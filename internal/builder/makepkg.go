// Package builder shells out to the external package build tool.
package builder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/kernelforge/kforge/internal/common/logger"
)

// ErrBuildFailed is returned when the build command exits non-zero
var ErrBuildFailed = errors.New("package build failed")

// Builder runs the configured build command in a package directory
type Builder struct {
	// Command is the build tool, default "makepkg"
	Command string
	// Args are extra arguments passed through to the tool
	Args []string
	// Env holds KEY=VALUE pairs added to the build environment
	Env []string
}

// New creates a Builder, defaulting the command to makepkg
func New(command string, args, env []string) *Builder {
	if command == "" {
		command = "makepkg"
	}
	return &Builder{
		Command: command,
		Args:    args,
		Env:     env,
	}
}

// Run invokes the build tool in dir with inherited stdio. The build's exit
// status surfaces as the returned error; context cancellation kills the
// process.
func (b *Builder) Run(ctx context.Context, dir string) error {
	logger.Command(b.Command, b.Args...)

	cmd := exec.CommandContext(ctx, b.Command, b.Args...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), b.Env...)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrBuildFailed, b.Command, err)
	}

	return nil
}
