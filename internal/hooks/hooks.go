// Package hooks invokes an external command after an export is written.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Options configures a hook invocation.
type Options struct {
	Command   string
	Label     string // export kind, e.g. "html" or "json"
	OutputDir string
	WorkDir   string
	Stdout    io.Writer
	Stderr    io.Writer
}

// Result captures the outcome of a hook invocation.
type Result struct {
	Ran      bool
	Command  []string
	ExitCode int
}

// Invoke runs the hook command as `<command> <label> <output_dir>`. An empty
// command is a no-op.
func Invoke(ctx context.Context, opts Options) (Result, error) {
	if opts.Command == "" {
		return Result{}, nil
	}
	if opts.OutputDir == "" {
		return Result{}, errors.New("hook output dir is empty")
	}

	info, err := os.Stat(opts.OutputDir)
	if err != nil {
		return Result{}, fmt.Errorf("stat hook output dir: %w", err)
	}
	if !info.IsDir() {
		return Result{}, fmt.Errorf("hook output path is not a directory: %s", opts.OutputDir)
	}

	if ctx == nil {
		ctx = context.Background()
	}

	cmd := exec.CommandContext(ctx, opts.Command, opts.Label, opts.OutputDir)
	if opts.WorkDir != "" {
		cmd.Dir = opts.WorkDir
	}
	cmd.Stdout = writerOr(opts.Stdout, os.Stdout)
	cmd.Stderr = writerOr(opts.Stderr, os.Stderr)

	err = cmd.Run()
	result := Result{
		Ran:      true,
		Command:  cmd.Args,
		ExitCode: exitCodeFromError(err),
	}
	if err != nil {
		return result, fmt.Errorf("hook command failed: %w", err)
	}
	return result, nil
}

func writerOr(w, fallback io.Writer) io.Writer {
	if w == nil {
		return fallback
	}
	return w
}

func exitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
