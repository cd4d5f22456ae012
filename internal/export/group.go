package export

import (
	"fmt"
	"time"

	"github.com/nibzard/prjct-go/internal/todotxt"
)

// ProjectIndex maps a project name, cased as in the source, to task source
// lines in input order.
type ProjectIndex map[string][]string

func (p ProjectIndex) add(projects []string, source string) {
	for _, project := range projects {
		p[project] = append(p[project], source)
	}
}

// SkipError records a task left out of the export because its completion
// date could not be read.
type SkipError struct {
	Source string
	Err    error
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("skipped %q: %s", e.Source, e.Err)
}

// Unwrap returns the underlying error.
func (e *SkipError) Unwrap() error {
	return e.Err
}

// Result holds the grouped indices and any recoverable warnings.
type Result struct {
	Active    ProjectIndex
	Completed ProjectIndex
	Warnings  []error
}

// Group builds the active and completed project indices.
//
// Both inputs are processed in order, active first. Each task is placed by
// its own Completed flag. A completed task whose completion date is missing
// or unparsable is skipped and reported in Result.Warnings.
func Group(active, completed []todotxt.Task, cutoffDays int, now time.Time) Result {
	window := NewWindow(now, cutoffDays)
	res := Result{
		Active:    ProjectIndex{},
		Completed: ProjectIndex{},
	}

	for _, tasks := range [][]todotxt.Task{active, completed} {
		for _, task := range tasks {
			if !task.Completed {
				if task.HasProjects() {
					res.Active.add(task.Projects, task.Source)
				}
				continue
			}

			doneAt, err := task.CompletedAt(now.Location())
			if err != nil {
				res.Warnings = append(res.Warnings, &SkipError{
					Source: task.Source,
					Err:    fmt.Errorf("completion date %q: %w", task.CompletionDate, err),
				})
				continue
			}
			if !window.Contains(doneAt) || !task.HasProjects() {
				continue
			}
			res.Completed.add(task.Projects, task.Source)
		}
	}

	return res
}
