package export

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/nibzard/prjct-go/internal/todotxt"
)

// ProjectList returns the sorted union of project names across lists. It
// ignores completion dates and hidden tags.
func ProjectList(lists ...*todotxt.List) []string {
	seen := make(map[string]bool)
	projects := []string{}
	for _, l := range lists {
		for _, p := range l.Projects() {
			if !seen[p] {
				seen[p] = true
				projects = append(projects, p)
			}
		}
	}
	SortProjects(projects)
	return projects
}

// SortProjects sorts names in place, case-insensitively by the root Unicode
// collation. Names equal under collation fall back to byte order.
func SortProjects(names []string) {
	c := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(names, func(i, j int) bool {
		if r := c.CompareString(names[i], names[j]); r != 0 {
			return r < 0
		}
		return names[i] < names[j]
	})
}
