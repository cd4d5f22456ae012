package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/prjct-go/internal/render"
	"github.com/nibzard/prjct-go/internal/todotxt"
)

// Default values.
const (
	DefaultTodoFile         = "todo.txt"
	DefaultDoneFile         = "done.txt"
	DefaultCompletionCutoff = 14
	DefaultHiddenTag        = "h"
	DefaultAllProjectsDate  = "1970-01-01"
	DefaultOutputDir        = "prjct-html"
)

// Config holds the full configuration for prjct.
type Config struct {
	// Input lists
	TodoFile string `toml:"todo_file" env:"PRJCT_TODO"`
	DoneFile string `toml:"done_file" env:"PRJCT_DONE"`

	// Days of completed work kept in the done index
	CompletionCutoff int `toml:"completion_cutoff" env:"PRJCT_COMPLETION_CUTOFF"`

	SortString string `toml:"sort_string" env:"PRJCT_SORT"`
	HiddenTag  string `toml:"hidden_tag" env:"PRJCT_HIDDEN_TAG"`

	// Date stamped on the all-projects entry
	AllProjectsDate string `toml:"all_projects_date" env:"PRJCT_ALL_PROJECTS_DATE"`

	HTML HTMLConfig `toml:"html" envPrefix:"PRJCT_HTML_"`

	// Hooks
	HookCommand string `toml:"hook_command" env:"PRJCT_HOOK"`

	// Logging configuration
	LogLevel      string `toml:"log_level" env:"PRJCT_LOG_LEVEL"`
	LogFormat     string `toml:"log_format" env:"PRJCT_LOG_FORMAT"`
	LogTimestamps bool   `toml:"log_timestamps" env:"PRJCT_LOG_TIMESTAMPS"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
	// Config files applied, lowest priority first (computed)
	Files []string `toml:"-"`
}

// HTMLConfig controls the HTML fragments.
type HTMLConfig struct {
	Indent    string `toml:"indent" env:"INDENT"` // prefix for each line
	OpenIcon  string `toml:"open_icon" env:"OPEN_ICON"`
	DoneIcon  string `toml:"done_icon" env:"DONE_ICON"`
	Sanitize  bool   `toml:"sanitize" env:"SANITIZE"`
	OutputDir string `toml:"output_dir" env:"OUTPUT_DIR"`
}

// RenderOptions converts the HTML settings into renderer options.
func (h HTMLConfig) RenderOptions() render.Options {
	return render.Options{
		Indent:   h.Indent,
		OpenIcon: h.OpenIcon,
		DoneIcon: h.DoneIcon,
		Sanitize: h.Sanitize,
	}
}

// Default returns a config populated with built-in defaults.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.TodoFile = DefaultTodoFile
	cfg.DoneFile = DefaultDoneFile
	cfg.CompletionCutoff = DefaultCompletionCutoff
	cfg.SortString = todotxt.DefaultSortString
	cfg.HiddenTag = DefaultHiddenTag
	cfg.AllProjectsDate = DefaultAllProjectsDate

	opts := render.DefaultOptions()
	cfg.HTML = HTMLConfig{
		Indent:    opts.Indent,
		OpenIcon:  opts.OpenIcon,
		DoneIcon:  opts.DoneIcon,
		Sanitize:  opts.Sanitize,
		OutputDir: DefaultOutputDir,
	}

	cfg.LogLevel = "info"
	cfg.LogFormat = "text"
}

// Load loads configuration from defaults, config files, the environment
// and the flags in args, in that order.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := Default()

	if userConfigFile := findUserConfigFile(); userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
	}

	projectConfigFile, err := findProjectConfigFile()
	if err != nil {
		return nil, err
	}
	if projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}

	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cfg, nil
}

// loadConfigFile decodes TOML from path over the current values.
func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown keys: %v", undecoded)
	}
	cfg.Files = append(cfg.Files, path)
	return nil
}

// finalizeConfig expands ~ and resolves relative paths against the project root.
func finalizeConfig(cfg *Config) error {
	if cfg.ProjectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.ProjectRoot = wd
	}

	cfg.TodoFile = resolvePath(cfg.ProjectRoot, cfg.TodoFile)
	cfg.DoneFile = resolvePath(cfg.ProjectRoot, cfg.DoneFile)
	cfg.HTML.OutputDir = resolvePath(cfg.ProjectRoot, cfg.HTML.OutputDir)
	return nil
}

func resolvePath(root, p string) string {
	p = expandPath(p)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// Encode writes the effective configuration as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
