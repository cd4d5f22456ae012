// Package cmd implements the CLI command structure for prjct.
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/prjct-go/internal/config"
	"github.com/nibzard/prjct-go/internal/export"
	"github.com/nibzard/prjct-go/internal/hooks"
	"github.com/nibzard/prjct-go/internal/logging"
	"github.com/nibzard/prjct-go/internal/render"
	"github.com/nibzard/prjct-go/internal/todotxt"
	"github.com/nibzard/prjct-go/internal/ui"
	"github.com/nibzard/prjct-go/internal/utils"
	"github.com/nibzard/prjct-go/internal/watch"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Output streams, swapped in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Run executes the prjct CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("prjct", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	subcommand := "html"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	// Commands that inspect or describe the configuration run before it is
	// validated.
	switch subcommand {
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	case "config":
		return configCommand(cfg, remainingArgs)
	case "doctor":
		return doctorCommand(ctx, cfg, remainingArgs)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger := newLogger(cfg)

	switch subcommand {
	case "html":
		return htmlCommand(ctx, cfg, logger, remainingArgs)
	case "json":
		return jsonCommand(ctx, cfg, logger, remainingArgs)
	case "projects":
		return projectsCommand(ctx, cfg, logger, remainingArgs)
	case "entry":
		return entryCommand(ctx, cfg, logger, remainingArgs)
	case "tui":
		return tuiCommand(ctx, cfg, logger, remainingArgs)
	case "watch":
		return watchCommand(ctx, cfg, logger, remainingArgs)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

func newLogger(cfg *config.Config) *log.Logger {
	return logging.New(stderr, logging.Options{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		Timestamps: cfg.LogTimestamps,
		Prefix:     logging.DefaultPrefix,
	})
}

func newExporter(cfg *config.Config, logger *log.Logger) (*export.Exporter, error) {
	return export.New(cfg, export.WithLogger(logger))
}

// htmlCommand writes one todo and one done fragment per project.
func htmlCommand(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("prjct html", flag.ContinueOnError)
	fs.SetOutput(stderr)
	outputDir := fs.String("output", cfg.HTML.OutputDir, "Directory for the HTML fragments")
	printOnly := fs.Bool("print", false, "Print fragments as JSON instead of writing files")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	exp, err := newExporter(cfg, logger)
	if err != nil {
		return err
	}
	out, err := exp.HTML(ctx)
	if err != nil {
		return err
	}

	if *printOnly {
		return writeJSON(stdout, map[string]map[string]string{
			render.Open.String(): out.Todo,
			render.Done.String(): out.Done,
		})
	}

	written, err := writeHTML(*outputDir, out)
	if err != nil {
		return err
	}
	logger.Info("wrote html fragments", "dir", *outputDir, "files", written)
	return runHook(ctx, cfg, logger, "html", *outputDir)
}

// writeHTML writes <slug>.todo.html and <slug>.done.html for every project
// and returns the number of files written. Fragments left over from an
// earlier run whose project is no longer in the index are removed.
func writeHTML(dir string, out *export.HTML) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("create output dir: %w", err)
	}

	written := 0
	keep := make(map[string]bool)
	for _, part := range []struct {
		kind      render.Kind
		fragments map[string]string
	}{
		{render.Open, out.Todo},
		{render.Done, out.Done},
	} {
		for name, slug := range slugs(part.fragments) {
			path := filepath.Join(dir, fmt.Sprintf("%s.%s.html", slug, part.kind))
			if err := os.WriteFile(path, []byte(part.fragments[name]+"\n"), 0644); err != nil {
				return written, fmt.Errorf("write %s: %w", path, err)
			}
			keep[path] = true
			written++
		}
	}
	return written, removeStale(dir, keep)
}

// removeStale deletes fragment files in dir that are not in keep.
func removeStale(dir string, keep map[string]bool) error {
	for _, kind := range []render.Kind{render.Open, render.Done} {
		matches, err := filepath.Glob(filepath.Join(dir, "*."+kind.String()+".html"))
		if err != nil {
			return fmt.Errorf("list fragments: %w", err)
		}
		for _, path := range matches {
			if keep[path] {
				continue
			}
			if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("remove stale fragment: %w", err)
			}
		}
	}
	return nil
}

// slugs maps each key to a unique file-name slug. Keys are visited in sorted
// order so collisions resolve the same way on every run.
func slugs(fragments map[string]string) map[string]string {
	names := make([]string, 0, len(fragments))
	for name := range fragments {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]string, len(names))
	used := make(map[string]bool, len(names))
	for _, name := range names {
		base := utils.Slugify(name)
		slug := base
		for i := 2; used[slug]; i++ {
			slug = fmt.Sprintf("%s-%d", base, i)
		}
		used[slug] = true
		out[name] = slug
	}
	return out
}

// jsonCommand writes the validated JSON document.
func jsonCommand(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("prjct json", flag.ContinueOnError)
	fs.SetOutput(stderr)
	outFile := fs.String("o", "", "Write to file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	exp, err := newExporter(cfg, logger)
	if err != nil {
		return err
	}
	doc, err := exp.Document(ctx)
	if err != nil {
		return err
	}
	data, err := doc.MarshalIndent()
	if err != nil {
		return err
	}

	if *outFile == "" || *outFile == "-" {
		_, err := stdout.Write(data)
		return err
	}
	path, err := writeOutput(cfg, *outFile, data)
	if err != nil {
		return err
	}
	logger.Info("wrote json export", "path", path)
	return runHook(ctx, cfg, logger, "json", filepath.Dir(path))
}

// writeOutput writes data to name, resolved against the project root, and
// returns the path written.
func writeOutput(cfg *config.Config, name string, data []byte) (string, error) {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.ProjectRoot, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func projectsCommand(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("prjct projects", flag.ContinueOnError)
	fs.SetOutput(stderr)
	asJSON := fs.Bool("json", false, "Print a JSON array")
	if err := fs.Parse(args); err != nil {
		return err
	}

	exp, err := newExporter(cfg, logger)
	if err != nil {
		return err
	}
	projects, err := exp.Projects(ctx)
	if err != nil {
		return err
	}
	if *asJSON {
		return writeJSON(stdout, projects)
	}
	for _, p := range projects {
		fmt.Fprintln(stdout, p)
	}
	return nil
}

func entryCommand(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("prjct entry", flag.ContinueOnError)
	fs.SetOutput(stderr)
	outFile := fs.String("o", "", "Write to file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	exp, err := newExporter(cfg, logger)
	if err != nil {
		return err
	}
	entry, err := exp.Entry(ctx, Version)
	if err != nil {
		return err
	}
	if *outFile == "" || *outFile == "-" {
		_, err := io.WriteString(stdout, entry)
		return err
	}
	path, err := writeOutput(cfg, *outFile, []byte(entry))
	if err != nil {
		return err
	}
	logger.Info("wrote all-projects entry", "path", path)
	return runHook(ctx, cfg, logger, "entry", filepath.Dir(path))
}

func tuiCommand(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("prjct tui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	refresh := fs.Duration("refresh", ui.DefaultRefresh, "Auto-refresh interval")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Log records would corrupt the alternate screen.
	exp, err := newExporter(cfg, logging.Discard())
	if err != nil {
		return err
	}
	return ui.RunTUI(ctx, exp, ui.WithRefresh(*refresh))
}

// watchCommand runs the html export now and after every change to either list.
func watchCommand(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("prjct watch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	debounce := fs.Duration("debounce", watch.DefaultDebounce, "Quiet period before re-exporting")
	if err := fs.Parse(args); err != nil {
		return err
	}

	exportOnce := func(ctx context.Context) error {
		return htmlCommand(ctx, cfg, logger, nil)
	}
	if err := exportOnce(ctx); err != nil {
		logger.Error("export failed", "err", err)
	}

	w, err := watch.New([]string{cfg.TodoFile, cfg.DoneFile}, watch.Options{
		Debounce: *debounce,
		Logger:   logger,
		OnReady: func() {
			logger.Info("watching for changes", "todo", cfg.TodoFile, "done", cfg.DoneFile)
		},
	})
	if err != nil {
		return err
	}
	return w.Run(ctx, exportOnce)
}

func runHook(ctx context.Context, cfg *config.Config, logger *log.Logger, label, dir string) error {
	result, err := hooks.Invoke(ctx, hooks.Options{
		Command:   cfg.HookCommand,
		Label:     label,
		OutputDir: dir,
		WorkDir:   cfg.ProjectRoot,
		Stdout:    stdout,
		Stderr:    stderr,
	})
	if result.Ran {
		logger.Debug("hook finished", "command", result.Command, "exit_code", result.ExitCode)
	}
	return err
}

// configCommand prints the effective configuration or an example file.
func configCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("prjct config", flag.ContinueOnError)
	fs.SetOutput(stderr)
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *example {
		_, err := io.WriteString(stdout, config.ExampleConfig())
		return err
	}

	if len(cfg.Files) == 0 {
		fmt.Fprintln(stdout, "# No config files found; showing defaults with overrides")
	}
	for _, f := range cfg.Files {
		fmt.Fprintf(stdout, "# Loaded: %s\n", f)
	}
	return cfg.Encode(stdout)
}

// doctorCommand checks configuration, input lists and the hook command.
func doctorCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("prjct doctor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	fmt.Fprintln(stdout, "prjct doctor")
	fmt.Fprintln(stdout, "============")
	fmt.Fprintln(stdout)

	allOK := true

	fmt.Fprintln(stdout, "Config:")
	for _, f := range cfg.Files {
		fmt.Fprintf(stdout, "  Loaded %s\n", f)
	}
	if err := cfg.Validate(); err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			fmt.Fprintf(stdout, "  ❌ %s\n", line)
		}
		allOK = false
	} else {
		fmt.Fprintln(stdout, "  ✅ Valid")
		if *verbose {
			sorter, _ := todotxt.NewSorter(cfg.SortString)
			fmt.Fprintf(stdout, "  Sort: %s\n", strings.Join(sorter.Fields(), ", "))
			fmt.Fprintf(stdout, "  Completion cutoff: %d days\n", cfg.CompletionCutoff)
		}
	}
	fmt.Fprintln(stdout)

	now := time.Now()
	for _, list := range []struct {
		label string
		path  string
	}{
		{"Todo file", cfg.TodoFile},
		{"Done file", cfg.DoneFile},
	} {
		if !checkList(ctx, list.label, list.path, cfg, now, *verbose) {
			allOK = false
		}
	}

	fmt.Fprintf(stdout, "Output dir: %s\n", cfg.HTML.OutputDir)
	if info, err := os.Stat(cfg.HTML.OutputDir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(stdout, "  ⚠️  Not found (created on export)")
		} else {
			fmt.Fprintf(stdout, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if !info.IsDir() {
		fmt.Fprintln(stdout, "  ❌ Error: path is not a directory")
		allOK = false
	} else {
		fmt.Fprintln(stdout, "  ✅ OK")
	}
	fmt.Fprintln(stdout)

	if cfg.HookCommand != "" {
		fmt.Fprintf(stdout, "Hook: %s\n", cfg.HookCommand)
		if resolved, err := exec.LookPath(cfg.HookCommand); err != nil {
			fmt.Fprintf(stdout, "  ❌ Not found: %v\n", err)
			allOK = false
		} else {
			fmt.Fprintf(stdout, "  ✅ OK (%s)\n", resolved)
		}
		fmt.Fprintln(stdout)
	}

	if !allOK {
		return errors.New("doctor found problems")
	}
	fmt.Fprintln(stdout, "All checks passed.")
	return nil
}

func checkList(ctx context.Context, label, path string, cfg *config.Config, now time.Time, verbose bool) bool {
	fmt.Fprintf(stdout, "%s: %s\n", label, path)
	defer fmt.Fprintln(stdout)

	if err := ctx.Err(); err != nil {
		fmt.Fprintf(stdout, "  ❌ %v\n", err)
		return false
	}
	list, err := todotxt.Load(path)
	if err != nil {
		fmt.Fprintf(stdout, "  ❌ %v\n", err)
		return false
	}

	tasks := list.Tasks()
	res := export.Group(tasks, nil, cfg.CompletionCutoff, now)
	fmt.Fprintf(stdout, "  ✅ %d tasks, %d projects\n", list.Len(), len(list.Projects()))
	for _, w := range res.Warnings {
		fmt.Fprintf(stdout, "  ⚠️  %v\n", w)
	}
	if verbose {
		hidden := len(tasks) - len(todotxt.HiddenFilter{Tag: cfg.HiddenTag}.Filter(tasks))
		fmt.Fprintf(stdout, "  Hidden: %d\n", hidden)
		for _, p := range list.Projects() {
			fmt.Fprintf(stdout, "    +%s\n", p)
		}
	}
	return true
}

func versionCommand() error {
	fmt.Fprintf(stdout, "prjct version %s\n", Version)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "prjct - per-project HTML and JSON exports of a todo.txt list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  prjct [global options] [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  html          Write per-project HTML fragments (default command)")
	fmt.Fprintln(w, "  json          Print the per-project JSON document")
	fmt.Fprintln(w, "  projects      List every project on the todo and done lists")
	fmt.Fprintln(w, "  entry         Print the all-projects placeholder entry")
	fmt.Fprintln(w, "  watch         Re-export HTML whenever a list changes")
	fmt.Fprintln(w, "  tui           Browse projects in the terminal")
	fmt.Fprintln(w, "  doctor        Check config and input lists")
	fmt.Fprintln(w, "  config        Show the effective configuration")
	fmt.Fprintln(w, "  version       Show version information")
	fmt.Fprintln(w, "  help          Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Html Options:")
	fmt.Fprintln(w, "  -output string")
	fmt.Fprintln(w, "        Directory for the HTML fragments")
	fmt.Fprintln(w, "  -print")
	fmt.Fprintln(w, "        Print fragments as JSON instead of writing files")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Json/Entry Options:")
	fmt.Fprintln(w, "  -o string")
	fmt.Fprintln(w, "        Write to file instead of stdout")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options:")
	fmt.Fprintln(w, "  -example")
	fmt.Fprintln(w, "        Print an example config file")
}
