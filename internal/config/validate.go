package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nibzard/prjct-go/internal/logging"
	"github.com/nibzard/prjct-go/internal/todotxt"
)

// ValidationError reports an invalid config field.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Err)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks the loaded config. All problems are returned together.
func (c *Config) Validate() error {
	var errs []error
	add := func(field string, err error) {
		errs = append(errs, &ValidationError{Field: field, Err: err})
	}

	if strings.TrimSpace(c.TodoFile) == "" {
		add("todo_file", errors.New("must not be empty"))
	}
	if strings.TrimSpace(c.DoneFile) == "" {
		add("done_file", errors.New("must not be empty"))
	}
	if c.CompletionCutoff < 0 {
		add("completion_cutoff", fmt.Errorf("must be >= 0, got %d", c.CompletionCutoff))
	}
	if _, err := todotxt.NewSorter(c.SortString); err != nil {
		add("sort_string", err)
	}
	if c.HiddenTag == "" || strings.ContainsAny(c.HiddenTag, ": \t") {
		add("hidden_tag", fmt.Errorf("invalid tag key %q", c.HiddenTag))
	}
	if _, err := time.Parse(todotxt.DateLayout, c.AllProjectsDate); err != nil {
		add("all_projects_date", fmt.Errorf("want YYYY-MM-DD: %w", err))
	}
	if strings.Trim(c.HTML.Indent, " \t") != "" {
		add("html.indent", fmt.Errorf("must be spaces or tabs, got %q", c.HTML.Indent))
	}
	if strings.TrimSpace(c.HTML.OutputDir) == "" {
		add("html.output_dir", errors.New("must not be empty"))
	}
	if err := logging.ValidateLevel(c.LogLevel); err != nil {
		add("log_level", err)
	}
	if err := logging.ValidateFormat(c.LogFormat); err != nil {
		add("log_format", err)
	}

	return errors.Join(errs...)
}
