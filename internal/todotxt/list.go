package todotxt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// List is an ordered collection of tasks read from one file.
type List struct {
	Path  string
	tasks []Task
}

// NewList wraps tasks in a List. The slice is copied.
func NewList(tasks []Task) *List {
	l := &List{tasks: make([]Task, len(tasks))}
	copy(l.tasks, tasks)
	return l
}

// Load reads and parses a todo.txt file from path.
func Load(path string) (*List, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	l, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	l.Path = path
	return l, nil
}

// Parse reads todo.txt lines from r. Blank lines are skipped.
func Parse(r io.Reader) (*List, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	l := &List{}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		l.tasks = append(l.tasks, ParseLine(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return l, nil
}

// Tasks returns a copy of the tasks in file order.
func (l *List) Tasks() []Task {
	if l == nil {
		return nil
	}
	out := make([]Task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

// Len returns the number of tasks.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.tasks)
}

// Projects returns every project name in the list in first-seen order.
func (l *List) Projects() []string {
	if l == nil {
		return nil
	}
	seen := make(map[string]bool)
	var projects []string
	for _, task := range l.tasks {
		for _, p := range task.Projects {
			if !seen[p] {
				seen[p] = true
				projects = append(projects, p)
			}
		}
	}
	return projects
}
