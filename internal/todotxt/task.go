package todotxt

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

// CompletionMarker prefixes every completed line in a todo.txt file.
const CompletionMarker = "x "

// DateLayout is the todo.txt date format.
const DateLayout = "2006-01-02"

// Well-known tag keys.
const (
	TagDue    = "due"
	TagStar   = "star"
	TagHidden = "h"
)

var (
	datePrefix     = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})(?:\s+|$)`)
	priorityPrefix = regexp.MustCompile(`^\(([A-Z])\)(?:\s+|$)`)
)

// Tag is a key:value pair found in the task text.
type Tag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Task is a single parsed todo.txt line.
type Task struct {
	Source         string   `json:"source"`
	Text           string   `json:"text"`
	Completed      bool     `json:"completed"`
	CompletionDate string   `json:"completion_date,omitempty"`
	CreationDate   string   `json:"creation_date,omitempty"`
	Priority       string   `json:"priority,omitempty"`
	Projects       []string `json:"projects"`
	Contexts       []string `json:"contexts"`
	Tags           []Tag    `json:"tags"`
}

// ParseLine parses a single todo.txt line. Leading and trailing whitespace is
// not part of the source text.
func ParseLine(line string) Task {
	source := strings.TrimSpace(line)
	task := Task{
		Source:   source,
		Projects: []string{},
		Contexts: []string{},
		Tags:     []Tag{},
	}

	rest := source
	if strings.HasPrefix(rest, CompletionMarker) || rest == strings.TrimSpace(CompletionMarker) {
		task.Completed = true
		rest = strings.TrimLeft(strings.TrimPrefix(rest, strings.TrimSpace(CompletionMarker)), " \t")
		if m := datePrefix.FindStringSubmatch(rest); m != nil {
			task.CompletionDate = m[1]
			rest = rest[len(m[0]):]
		}
	} else if m := priorityPrefix.FindStringSubmatch(rest); m != nil {
		task.Priority = m[1]
		rest = rest[len(m[0]):]
	}

	if m := datePrefix.FindStringSubmatch(rest); m != nil {
		task.CreationDate = m[1]
		rest = rest[len(m[0]):]
	}

	task.Text = strings.TrimSpace(rest)
	parseWords(&task)
	return task
}

func parseWords(task *Task) {
	seenProjects := make(map[string]bool)
	seenContexts := make(map[string]bool)
	for _, word := range strings.Fields(task.Text) {
		switch {
		case word[0] == '+':
			if name := wordName(word[1:]); name != "" && !seenProjects[name] {
				seenProjects[name] = true
				task.Projects = append(task.Projects, name)
			}
		case word[0] == '@':
			if name := wordName(word[1:]); name != "" && !seenContexts[name] {
				seenContexts[name] = true
				task.Contexts = append(task.Contexts, name)
			}
		default:
			if tag, ok := parseTag(word); ok {
				task.Tags = append(task.Tags, tag)
			}
		}
	}
}

// wordName drops trailing punctuation so "+home." names the project "home".
// A name must end in a letter, digit or underscore.
func wordName(s string) string {
	return strings.TrimRightFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}

func parseTag(word string) (Tag, bool) {
	idx := strings.IndexByte(word, ':')
	if idx <= 0 || idx == len(word)-1 {
		return Tag{}, false
	}
	value := word[idx+1:]
	if strings.HasPrefix(value, "//") {
		return Tag{}, false
	}
	return Tag{Key: word[:idx], Value: value}, true
}

// HasProjects reports whether the task belongs to at least one project.
func (t Task) HasProjects() bool {
	return len(t.Projects) > 0
}

// TagValue returns the first value for key.
func (t Task) TagValue(key string) (string, bool) {
	for _, tag := range t.Tags {
		if tag.Key == key {
			return tag.Value, true
		}
	}
	return "", false
}

// HasTag reports whether the task carries key:value.
func (t Task) HasTag(key, value string) bool {
	for _, tag := range t.Tags {
		if tag.Key == key && tag.Value == value {
			return true
		}
	}
	return false
}

// CompletedAt parses the completion date in loc.
func (t Task) CompletedAt(loc *time.Location) (time.Time, error) {
	return parseDate(t.CompletionDate, loc)
}

// DueAt parses the due tag in loc.
func (t Task) DueAt(loc *time.Location) (time.Time, bool) {
	v, ok := t.TagValue(TagDue)
	if !ok {
		return time.Time{}, false
	}
	due, err := parseDate(v, loc)
	if err != nil {
		return time.Time{}, false
	}
	return due, true
}

// StripCompletionMarker removes the completion marker from a completed source
// line. Lines without the marker are returned unchanged.
func StripCompletionMarker(source string) string {
	return strings.TrimPrefix(source, CompletionMarker)
}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateLayout, s, loc)
}
