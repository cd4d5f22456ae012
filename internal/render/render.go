// Package render turns per-project todo lists into HTML fragments.
package render

import (
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/nibzard/prjct-go/internal/todotxt"
)

// Default icon markup. They expect FontAwesome on the page.
const (
	DefaultOpenIcon = `<i class="fa fa-square-o"></i> `
	DefaultDoneIcon = `<i class="fa fa-check-square-o"></i> `
)

// CSS classes on the generated list.
const (
	ListClass = "prjct-task-list"
	ItemClass = "prjct-task-list-item"
)

// Kind selects how list items are rendered.
type Kind int

const (
	// Open renders active items with the open icon.
	Open Kind = iota
	// Done renders completed items with the done icon, without the
	// completion marker.
	Done
)

// String returns the kind name used in file names.
func (k Kind) String() string {
	if k == Done {
		return "done"
	}
	return "todo"
}

// Options configures a Renderer.
type Options struct {
	Indent   string
	OpenIcon string
	DoneIcon string
	// Sanitize strips unsafe markup from todo text. Icons are not sanitized.
	Sanitize bool
}

// DefaultOptions returns the stock icons with sanitizing enabled.
func DefaultOptions() Options {
	return Options{
		OpenIcon: DefaultOpenIcon,
		DoneIcon: DefaultDoneIcon,
		Sanitize: true,
	}
}

// Renderer renders project lists as unordered HTML lists.
type Renderer struct {
	opts   Options
	policy *bluemonday.Policy
}

// New creates a Renderer.
func New(opts Options) *Renderer {
	r := &Renderer{opts: opts}
	if opts.Sanitize {
		r.policy = bluemonday.UGCPolicy()
	}
	return r
}

// Render returns one HTML fragment per project, keyed by lower-cased project
// name. Projects whose names differ only in case share one fragment.
func (r *Renderer) Render(index map[string][]string, kind Kind) map[string]string {
	out := make(map[string]string, len(index))
	for key, items := range mergeByLowerKey(index) {
		out[key] = r.fragment(items, kind)
	}
	return out
}

func (r *Renderer) fragment(items []string, kind Kind) string {
	icon := r.opts.OpenIcon
	if kind == Done {
		icon = r.opts.DoneIcon
	}
	indent := r.opts.Indent

	var b strings.Builder
	b.WriteString(indent + `<ul class="` + ListClass + `">` + "\n")
	for _, item := range items {
		if kind == Done {
			item = todotxt.StripCompletionMarker(item)
		}
		b.WriteString(indent + `    <li class="` + ItemClass + `">`)
		b.WriteString(icon)
		b.WriteString(r.text(item))
		b.WriteString("</li>\n")
	}
	b.WriteString(indent + "</ul>")
	return b.String()
}

func (r *Renderer) text(s string) string {
	if r.policy == nil {
		return s
	}
	return r.policy.Sanitize(s)
}

// mergeByLowerKey folds keys to lower case. Items of colliding keys are
// concatenated in byte order of the original keys.
func mergeByLowerKey(index map[string][]string) map[string][]string {
	keys := make([]string, 0, len(index))
	for k := range index {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	merged := make(map[string][]string, len(index))
	for _, k := range keys {
		lower := strings.ToLower(k)
		merged[lower] = append(merged[lower], index[k]...)
	}
	return merged
}
