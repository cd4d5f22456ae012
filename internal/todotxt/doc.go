// Package todotxt parses, filters, and sorts todo.txt task lists.
//
// A todo.txt line has the shape:
//
//	x 2024-03-02 2024-02-28 Call the plumber +home @phone due:2024-03-01
//	(A) 2024-02-28 Buy milk +home
//
// # Completed Tasks
//
// A completed task starts with the CompletionMarker ("x ") followed by an
// optional completion date and an optional creation date. Completed tasks
// carry no priority.
//
// # Active Tasks
//
// An active task may start with a priority "(A)".."(Z)" followed by an
// optional creation date.
//
// # Words
//
//   - "+name": project
//   - "@name": context
//   - "key:value": tag (values starting with "//" are URLs, not tags)
//
// Tasks are immutable once parsed; filters and sorters return new slices.
package todotxt
