package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

const todoList = `(A) Buy milk +home
Write post +Blog
Secret +home h:1
Loose end
`

const doneList = `x 2099-01-01 From the future +home
x 2000-01-01 Old news +archive
`

// setup isolates config lookup, writes both lists and captures output.
func setup(t *testing.T) (dir string, out *bytes.Buffer) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("PRJCT_CONFIG", "")
	t.Setenv("PRJCT_HOOK", "")

	dir = t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, "todo.txt"), todoList)
	writeFile(t, filepath.Join(dir, "done.txt"), doneList)

	out = &bytes.Buffer{}
	oldOut, oldErr := stdout, stderr
	stdout, stderr = out, &bytes.Buffer{}
	t.Cleanup(func() { stdout, stderr = oldOut, oldErr })
	return dir, out
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestRun(t *testing.T) {
	t.Run("help flag", func(t *testing.T) {
		_, out := setup(t)
		if err := Run(context.Background(), []string{"-h"}); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if !strings.Contains(out.String(), "Commands:") {
			t.Errorf("usage not printed: %q", out.String())
		}
	})

	t.Run("help command", func(t *testing.T) {
		_, out := setup(t)
		if err := Run(context.Background(), []string{"help"}); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if !strings.Contains(out.String(), "html") {
			t.Errorf("usage not printed: %q", out.String())
		}
	})

	t.Run("version", func(t *testing.T) {
		_, out := setup(t)
		if err := Run(context.Background(), []string{"-v"}); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if !strings.Contains(out.String(), "prjct version "+Version) {
			t.Errorf("version output = %q", out.String())
		}
	})

	t.Run("unknown command", func(t *testing.T) {
		setup(t)
		err := Run(context.Background(), []string{"frobnicate"})
		if err == nil || !strings.Contains(err.Error(), "unknown command") {
			t.Fatalf("expected unknown command error, got %v", err)
		}
	})

	t.Run("invalid config is fatal", func(t *testing.T) {
		setup(t)
		err := Run(context.Background(), []string{"-cutoff", "-1", "projects"})
		if err == nil || !strings.Contains(err.Error(), "invalid configuration") {
			t.Fatalf("expected configuration error, got %v", err)
		}
	})

	t.Run("missing list is fatal", func(t *testing.T) {
		dir, _ := setup(t)
		if err := os.Remove(filepath.Join(dir, "done.txt")); err != nil {
			t.Fatal(err)
		}
		if err := Run(context.Background(), []string{"projects"}); err == nil {
			t.Fatal("expected error for missing done list")
		}
	})
}

func TestHTMLCommand(t *testing.T) {
	dir, _ := setup(t)
	outDir := filepath.Join(dir, "out")

	if err := Run(context.Background(), []string{"html", "-output", outDir}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	home, err := os.ReadFile(filepath.Join(outDir, "home.todo.html"))
	if err != nil {
		t.Fatalf("read home fragment: %v", err)
	}
	want := `<ul class="prjct-task-list">
    <li class="prjct-task-list-item"><i class="fa fa-square-o"></i> (A) Buy milk +home</li>
</ul>
`
	if string(home) != want {
		t.Errorf("home.todo.html =\n%s\nwant\n%s", home, want)
	}
	if _, err := os.Stat(filepath.Join(outDir, "blog.todo.html")); err != nil {
		t.Errorf("expected lower-cased blog fragment: %v", err)
	}
	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".done.html") {
			t.Errorf("unexpected done fragment %s: nothing completed in the window", e.Name())
		}
	}
}

func TestHTMLCommandPrint(t *testing.T) {
	_, out := setup(t)

	if err := Run(context.Background(), []string{"html", "-print"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	var got map[string]map[string]string
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if _, ok := got["todo"]["home"]; !ok {
		t.Errorf("missing todo/home in %v", got)
	}
	if len(got["done"]) != 0 {
		t.Errorf("done = %v, want empty", got["done"])
	}
}

func TestHTMLCommandRunsHook(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("hook script is POSIX shell")
	}
	dir, out := setup(t)
	hook := filepath.Join(dir, "hook.sh")
	if err := os.WriteFile(hook, []byte("#!/bin/sh\necho \"hook $1\"\n"), 0755); err != nil {
		t.Fatal(err)
	}

	if err := Run(context.Background(), []string{"-hook", hook, "html"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "hook html") {
		t.Errorf("hook output missing: %q", out.String())
	}
}

func TestJSONCommand(t *testing.T) {
	_, out := setup(t)

	if err := Run(context.Background(), []string{"json"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	var doc struct {
		Active    map[string][]string `json:"active"`
		Completed map[string][]string `json:"completed"`
		Projects  []string            `json:"projects"`
	}
	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if _, ok := doc.Active["Blog"]; !ok {
		t.Errorf("JSON keys should keep their case: %v", doc.Active)
	}
	if len(doc.Active["home"]) != 1 {
		t.Errorf("hidden task leaked into export: %v", doc.Active["home"])
	}
	if len(doc.Completed) != 0 {
		t.Errorf("Completed = %v, want empty", doc.Completed)
	}
	if strings.Join(doc.Projects, ",") != "archive,Blog,home" {
		t.Errorf("Projects = %v", doc.Projects)
	}
}

func TestJSONCommandToFile(t *testing.T) {
	dir, out := setup(t)

	if err := Run(context.Background(), []string{"json", "-o", "export/prjct.json"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("stdout should be empty, got %q", out.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "export", "prjct.json")); err != nil {
		t.Errorf("json file not written: %v", err)
	}
}

func TestProjectsCommand(t *testing.T) {
	_, out := setup(t)

	if err := Run(context.Background(), []string{"projects"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got, want := out.String(), "archive\nBlog\nhome\n"; got != want {
		t.Errorf("projects = %q, want %q", got, want)
	}
}

func TestEntryCommand(t *testing.T) {
	_, out := setup(t)

	if err := Run(context.Background(), []string{"entry"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "tags: archive, Blog, home\n") {
		t.Errorf("entry = %q", out.String())
	}
}

func TestConfigCommand(t *testing.T) {
	t.Run("effective", func(t *testing.T) {
		_, out := setup(t)
		if err := Run(context.Background(), []string{"-cutoff", "3", "config"}); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if !strings.Contains(out.String(), "completion_cutoff = 3") {
			t.Errorf("config output = %q", out.String())
		}
	})

	t.Run("example", func(t *testing.T) {
		_, out := setup(t)
		if err := Run(context.Background(), []string{"config", "-example"}); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if !strings.Contains(out.String(), "[html]") {
			t.Errorf("example output = %q", out.String())
		}
	})
}

func TestDoctorCommand(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		_, out := setup(t)
		if err := Run(context.Background(), []string{"doctor"}); err != nil {
			t.Fatalf("doctor: %v\n%s", err, out.String())
		}
		if !strings.Contains(out.String(), "All checks passed.") {
			t.Errorf("doctor output = %q", out.String())
		}
	})

	t.Run("reports problems", func(t *testing.T) {
		dir, out := setup(t)
		if err := os.Remove(filepath.Join(dir, "todo.txt")); err != nil {
			t.Fatal(err)
		}
		err := Run(context.Background(), []string{"-log-level", "loud", "doctor"})
		if err == nil {
			t.Fatal("expected doctor to fail")
		}
		if !strings.Contains(out.String(), "log_level") {
			t.Errorf("doctor should report invalid log level: %q", out.String())
		}
	})
}

func TestSlugs(t *testing.T) {
	got := slugs(map[string]string{"a/b": "", "a_b": "", "home": ""})
	if got["home"] != "home" {
		t.Errorf("home slug = %q", got["home"])
	}
	if got["a/b"] == got["a_b"] {
		t.Errorf("colliding slugs not disambiguated: %v", got)
	}
	if got["a/b"] != "a_b" || got["a_b"] != "a_b-2" {
		t.Errorf("slugs = %v", got)
	}
}

func TestDoctorVerbose(t *testing.T) {
	_, out := setup(t)
	if err := Run(context.Background(), []string{"doctor", "-v"}); err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if !strings.Contains(out.String(), "Sort: desc:importance, asc:due, desc:priority") {
		t.Errorf("doctor -v output = %q", out.String())
	}
	if !strings.Contains(out.String(), "+Blog") {
		t.Errorf("doctor -v should list projects: %q", out.String())
	}
}

func TestHTMLCommandRemovesStaleFragments(t *testing.T) {
	dir, _ := setup(t)
	outDir := filepath.Join(dir, "out")
	today := time.Now().Format("2006-01-02")
	writeFile(t, filepath.Join(dir, "done.txt"), "x "+today+" Paint fence +home\n")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(outDir, "notes.txt"), "keep me")

	if err := Run(context.Background(), []string{"html", "-output", outDir}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	for _, name := range []string{"blog.todo.html", "home.done.html"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("first run should write %s: %v", name, err)
		}
	}

	writeFile(t, filepath.Join(dir, "todo.txt"), "(A) Buy milk +home\n")
	writeFile(t, filepath.Join(dir, "done.txt"), "x 2000-01-01 Old news +archive\n")
	if err := Run(context.Background(), []string{"html", "-output", outDir}); err != nil {
		t.Fatalf("second run: %v", err)
	}

	for _, name := range []string{"blog.todo.html", "home.done.html"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); !os.IsNotExist(err) {
			t.Errorf("%s should be removed, stat err = %v", name, err)
		}
	}
	for _, name := range []string{"home.todo.html", "notes.txt"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("%s should remain: %v", name, err)
		}
	}
}

func TestEntryCommandToFileRunsHook(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("hook script is POSIX shell")
	}
	dir, out := setup(t)
	hook := filepath.Join(dir, "hook.sh")
	if err := os.WriteFile(hook, []byte("#!/bin/sh\necho \"hook $1 $2\"\n"), 0755); err != nil {
		t.Fatal(err)
	}

	if err := Run(context.Background(), []string{"-hook", hook, "entry", "-o", "posts/all.md"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "posts", "all.md"))
	if err != nil {
		t.Fatalf("entry not written under project root: %v", err)
	}
	if !strings.Contains(string(data), "title: All Projects") {
		t.Errorf("entry = %q", data)
	}
	if !strings.Contains(out.String(), "hook entry ") || !strings.Contains(out.String(), string(filepath.Separator)+"posts\n") {
		t.Errorf("hook output = %q", out.String())
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (stand-in for testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
