package todotxt

// HiddenFilter drops tasks tagged <Tag>:1.
type HiddenFilter struct {
	Tag string
}

// Filter returns the tasks that are not hidden, preserving order.
func (f HiddenFilter) Filter(tasks []Task) []Task {
	key := f.Tag
	if key == "" {
		key = TagHidden
	}
	out := make([]Task, 0, len(tasks))
	for _, task := range tasks {
		if task.HasTag(key, "1") {
			continue
		}
		out = append(out, task)
	}
	return out
}
