package todotxt

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/nibzard/prjct-go/internal/utils"
)

// DefaultSortString orders by importance, then due date, then priority.
const DefaultSortString = "desc:importance,due,desc:priority"

// missingLast sorts after any real date or name in ascending order.
const missingLast = "\U0010FFFF"

type compareFunc func(a, b Task, now time.Time) int

var sortFields = map[string]compareFunc{
	"completed": func(a, b Task, _ time.Time) int {
		return compareInt(boolInt(a.Completed), boolInt(b.Completed))
	},
	"importance": func(a, b Task, now time.Time) int {
		return compareInt(Importance(a, now), Importance(b, now))
	},
	"priority": func(a, b Task, _ time.Time) int {
		return compareInt(priorityRank(a.Priority), priorityRank(b.Priority))
	},
	"created": func(a, b Task, _ time.Time) int {
		return strings.Compare(orMissing(a.CreationDate), orMissing(b.CreationDate))
	},
	"completion": func(a, b Task, _ time.Time) int {
		return strings.Compare(orMissing(a.CompletionDate), orMissing(b.CompletionDate))
	},
	"due": func(a, b Task, _ time.Time) int {
		da, _ := a.TagValue(TagDue)
		db, _ := b.TagValue(TagDue)
		return strings.Compare(orMissing(da), orMissing(db))
	},
	"text": func(a, b Task, _ time.Time) int {
		return strings.Compare(strings.ToLower(a.Text), strings.ToLower(b.Text))
	},
	"project": func(a, b Task, _ time.Time) int {
		return strings.Compare(firstLower(a.Projects), firstLower(b.Projects))
	},
	"context": func(a, b Task, _ time.Time) int {
		return strings.Compare(firstLower(a.Contexts), firstLower(b.Contexts))
	},
	"length": func(a, b Task, _ time.Time) int {
		return compareInt(len(a.Text), len(b.Text))
	},
}

var sortAliases = map[string]string{
	"creation":       "created",
	"completed_date": "completion",
	"projects":       "project",
	"contexts":       "context",
}

type sortKey struct {
	field string
	desc  bool
	cmp   compareFunc
}

// Sorter orders tasks according to a sort string such as
// "desc:importance,due,desc:priority".
type Sorter struct {
	keys []sortKey
}

// NewSorter parses a comma separated sort string. Each entry is a field name
// optionally prefixed with "asc:" or "desc:".
func NewSorter(sortString string) (*Sorter, error) {
	s := &Sorter{}
	for _, part := range utils.SplitAndTrim(sortString, ",") {
		desc := false
		field := strings.ToLower(part)
		if order, name, ok := strings.Cut(field, ":"); ok {
			switch order {
			case "asc":
			case "desc":
				desc = true
			default:
				return nil, fmt.Errorf("invalid sort order %q in %q", order, part)
			}
			field = name
		}
		if alias, ok := sortAliases[field]; ok {
			field = alias
		}
		cmp, ok := sortFields[field]
		if !ok {
			return nil, fmt.Errorf("unknown sort field %q", field)
		}
		s.keys = append(s.keys, sortKey{field: field, desc: desc, cmp: cmp})
	}
	return s, nil
}

// Fields returns the parsed sort fields with their direction.
func (s *Sorter) Fields() []string {
	fields := make([]string, 0, len(s.keys))
	for _, k := range s.keys {
		dir := "asc"
		if k.desc {
			dir = "desc"
		}
		fields = append(fields, dir+":"+k.field)
	}
	return fields
}

// Sort returns a stably sorted copy of tasks. now is used for fields that
// depend on the current date.
func (s *Sorter) Sort(tasks []Task, now time.Time) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	if s == nil || len(s.keys) == 0 {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		for _, k := range s.keys {
			c := k.cmp(out[i], out[j], now)
			if k.desc {
				c = -c
			}
			if c != 0 {
				return c < 0
			}
		}
		return false
	})
	return out
}

// Importance scores a task from its priority, due date, and star tag.
// Completed tasks always score 0.
func Importance(t Task, now time.Time) int {
	if t.Completed {
		return 0
	}

	score := 2
	switch t.Priority {
	case "A":
		score += 3
	case "B":
		score += 2
	case "C":
		score++
	}

	if due, ok := t.DueAt(now.Location()); ok {
		days := daysUntil(now, due)
		switch {
		case days < 0:
			score += 6
		case days < 1:
			score += 5
		case days < 2:
			score += 3
		case days < 7:
			score += 2
		case days < 14:
			score++
		}
	}

	if t.HasTag(TagStar, "1") {
		score++
	}
	return score
}

func daysUntil(now, due time.Time) int {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return int(math.Round(due.Sub(today).Hours() / 24))
}

// priorityRank maps A to the highest rank and no priority to 0.
func priorityRank(p string) int {
	if len(p) != 1 || p[0] < 'A' || p[0] > 'Z' {
		return 0
	}
	return int('Z'-p[0]) + 1
}

func orMissing(s string) string {
	if s == "" {
		return missingLast
	}
	return s
}

func firstLower(values []string) string {
	if len(values) == 0 {
		return missingLast
	}
	return strings.ToLower(values[0])
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
