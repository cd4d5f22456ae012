package config

import "flag"

// parseFlags defines the global flags on fs and parses args into cfg.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet("prjct", flag.ContinueOnError)
	}

	fs.StringVar(&cfg.TodoFile, "todo", cfg.TodoFile, "Path to the todo.txt list")
	fs.StringVar(&cfg.DoneFile, "done", cfg.DoneFile, "Path to the done.txt list")
	fs.IntVar(&cfg.CompletionCutoff, "cutoff", cfg.CompletionCutoff, "Days of completed tasks to include")
	fs.StringVar(&cfg.SortString, "sort", cfg.SortString, "Sort expression, e.g. desc:importance,due")
	fs.StringVar(&cfg.HTML.OutputDir, "output", cfg.HTML.OutputDir, "Directory for exported files")
	fs.StringVar(&cfg.HookCommand, "hook", cfg.HookCommand, "Command to run after an export is written")

	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Include timestamps in log output")

	return fs.Parse(args)
}
