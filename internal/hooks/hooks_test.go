package hooks

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("hook scripts are POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "hook.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInvoke(t *testing.T) {
	t.Run("empty command returns success without running", func(t *testing.T) {
		result, err := Invoke(context.Background(), Options{OutputDir: t.TempDir()})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Ran {
			t.Error("expected Ran to be false")
		}
	})

	t.Run("empty output dir returns error", func(t *testing.T) {
		_, err := Invoke(context.Background(), Options{Command: "echo"})
		if err == nil {
			t.Fatal("expected error for empty output dir")
		}
	})

	t.Run("missing output dir returns error", func(t *testing.T) {
		result, err := Invoke(context.Background(), Options{
			Command:   "echo",
			OutputDir: filepath.Join(t.TempDir(), "missing"),
		})
		if !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("expected not-exist error, got %v", err)
		}
		if result.Ran {
			t.Error("expected Ran to be false")
		}
	})

	t.Run("output path is a file returns error", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "out.html")
		if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		_, err := Invoke(context.Background(), Options{Command: "echo", OutputDir: file})
		if err == nil || !strings.Contains(err.Error(), "not a directory") {
			t.Fatalf("expected not a directory error, got %v", err)
		}
	})
}

func TestInvokePassesLabelAndDir(t *testing.T) {
	script := writeScript(t, `echo "$1|$2"`)
	outDir := t.TempDir()
	var stdout bytes.Buffer

	result, err := Invoke(context.Background(), Options{
		Command:   script,
		Label:     "html",
		OutputDir: outDir,
		Stdout:    &stdout,
	})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if !result.Ran {
		t.Error("expected Ran to be true")
	}
	if result.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", result.ExitCode)
	}
	if got, want := strings.TrimSpace(stdout.String()), "html|"+outDir; got != want {
		t.Errorf("hook output = %q, want %q", got, want)
	}
	if len(result.Command) != 3 || result.Command[1] != "html" {
		t.Errorf("Command = %v", result.Command)
	}
}

func TestInvokeHookFailure(t *testing.T) {
	script := writeScript(t, "exit 42")

	result, err := Invoke(context.Background(), Options{
		Command:   script,
		Label:     "json",
		OutputDir: t.TempDir(),
		Stderr:    &bytes.Buffer{},
	})
	if err == nil {
		t.Fatal("expected error for failed hook")
	}
	if !result.Ran {
		t.Error("expected Ran to be true")
	}
	if result.ExitCode != 42 {
		t.Errorf("ExitCode = %d, want 42", result.ExitCode)
	}
}

func TestInvokeWithWorkDir(t *testing.T) {
	script := writeScript(t, "pwd")
	workDir := t.TempDir()
	var stdout bytes.Buffer

	if _, err := Invoke(context.Background(), Options{
		Command:   script,
		Label:     "html",
		OutputDir: t.TempDir(),
		WorkDir:   workDir,
		Stdout:    &stdout,
	}); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	got, _ := filepath.EvalSymlinks(strings.TrimSpace(stdout.String()))
	want, _ := filepath.EvalSymlinks(workDir)
	if got != want {
		t.Errorf("hook ran in %q, want %q", got, want)
	}
}

func TestInvokeWithContextCancellation(t *testing.T) {
	script := writeScript(t, "exec sleep 10")

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	result, err := Invoke(ctx, Options{Command: script, Label: "html", OutputDir: t.TempDir()})
	if err == nil {
		t.Fatal("expected error for cancelled hook")
	}
	if !result.Ran {
		t.Error("expected Ran to be true")
	}
	if time.Since(start) > 5*time.Second {
		t.Error("hook was not killed on cancellation")
	}
}
