package export

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/prjct-go/internal/config"
	"github.com/nibzard/prjct-go/internal/logging"
	"github.com/nibzard/prjct-go/internal/render"
	"github.com/nibzard/prjct-go/internal/todotxt"
)

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets the logger used for skipped-task warnings.
func WithLogger(logger *log.Logger) Option {
	return func(e *Exporter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock sets the clock used for the completion window and importance.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) {
		if now != nil {
			e.now = now
		}
	}
}

// Exporter reads the configured todo and done lists and produces the
// per-project exports.
type Exporter struct {
	cfg      *config.Config
	sorter   *todotxt.Sorter
	hidden   todotxt.HiddenFilter
	renderer *render.Renderer
	logger   *log.Logger
	now      func() time.Time
}

// New creates an Exporter for cfg.
func New(cfg *config.Config, opts ...Option) (*Exporter, error) {
	if cfg == nil {
		return nil, errors.New("export: nil config")
	}
	sorter, err := todotxt.NewSorter(cfg.SortString)
	if err != nil {
		return nil, fmt.Errorf("sort string: %w", err)
	}
	e := &Exporter{
		cfg:      cfg,
		sorter:   sorter,
		hidden:   todotxt.HiddenFilter{Tag: cfg.HiddenTag},
		renderer: render.New(cfg.HTML.RenderOptions()),
		logger:   logging.Discard(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Lists reads the todo and done files. A missing or unreadable file is an
// error.
func (e *Exporter) Lists(ctx context.Context) (todo, done *todotxt.List, err error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	todo, err = todotxt.Load(e.cfg.TodoFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load todo list: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	done, err = todotxt.Load(e.cfg.DoneFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load done list: %w", err)
	}
	e.logger.Debug("loaded lists", "todo", todo.Len(), "done", done.Len())
	return todo, done, nil
}

// ByProject loads both lists and groups them by project.
func (e *Exporter) ByProject(ctx context.Context) (Result, error) {
	todo, done, err := e.Lists(ctx)
	if err != nil {
		return Result{}, err
	}
	return e.group(todo, done, e.now()), nil
}

func (e *Exporter) group(todo, done *todotxt.List, now time.Time) Result {
	res := Group(e.prepare(todo, now), e.prepare(done, now), e.cfg.CompletionCutoff, now)
	for _, w := range res.Warnings {
		var skip *SkipError
		if errors.As(w, &skip) {
			e.logger.Warn("skipping task", "line", skip.Source, "err", skip.Err)
			continue
		}
		e.logger.Warn("skipping task", "err", w)
	}
	return res
}

// prepare sorts a list and drops hidden tasks.
func (e *Exporter) prepare(l *todotxt.List, now time.Time) []todotxt.Task {
	return e.hidden.Filter(e.sorter.Sort(l.Tasks(), now))
}

// HTML holds rendered fragments keyed by lower-cased project name.
type HTML struct {
	Todo map[string]string
	Done map[string]string
}

// HTML loads, groups and renders both indices.
func (e *Exporter) HTML(ctx context.Context) (*HTML, error) {
	res, err := e.ByProject(ctx)
	if err != nil {
		return nil, err
	}
	return e.render(res), nil
}

func (e *Exporter) render(res Result) *HTML {
	return &HTML{
		Todo: e.renderer.Render(res.Active, render.Open),
		Done: e.renderer.Render(res.Completed, render.Done),
	}
}

// Projects lists every project named on either list.
func (e *Exporter) Projects(ctx context.Context) ([]string, error) {
	todo, done, err := e.Lists(ctx)
	if err != nil {
		return nil, err
	}
	return ProjectList(todo, done), nil
}

// Entry renders the all-projects entry.
func (e *Exporter) Entry(ctx context.Context, version string) (string, error) {
	projects, err := e.Projects(ctx)
	if err != nil {
		return "", err
	}
	return AllProjectsEntry(projects, e.cfg.AllProjectsDate, version)
}

// Document builds and validates the JSON export from a single read of both
// lists.
func (e *Exporter) Document(ctx context.Context) (*Document, error) {
	todo, done, err := e.Lists(ctx)
	if err != nil {
		return nil, err
	}
	now := e.now()
	res := e.group(todo, done, now)
	doc := &Document{
		GeneratedAt:      now.UTC().Truncate(time.Second),
		CompletionCutoff: e.cfg.CompletionCutoff,
		Active:           res.Active,
		Completed:        res.Completed,
		Projects:         ProjectList(todo, done),
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("export document: %w", err)
	}
	return doc, nil
}

// Snapshot is one consistent view of both lists for interactive use.
type Snapshot struct {
	Result
	HTML     *HTML
	Projects []string
	TakenAt  time.Time
}

// Snapshot reads both lists once and derives every export from them.
func (e *Exporter) Snapshot(ctx context.Context) (*Snapshot, error) {
	todo, done, err := e.Lists(ctx)
	if err != nil {
		return nil, err
	}
	now := e.now()
	res := e.group(todo, done, now)
	return &Snapshot{
		Result:   res,
		HTML:     e.render(res),
		Projects: ProjectList(todo, done),
		TakenAt:  now,
	}, nil
}
