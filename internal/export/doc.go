// Package export groups todo.txt tasks by project for static site embedding.
//
// The central operation is Group, which splits tasks into an active and a
// completed ProjectIndex:
//
//   - tasks without a project are dropped
//   - a task with several projects is listed once under each of them
//   - completed tasks are kept only when their completion date falls inside
//     the completion Window ending now
//   - a task's own completed flag decides where it goes, not the file it
//     was read from
//
// Exporter wires Group to configuration and the todo and done files, and
// produces HTML fragments, a JSON Document, the project list, and the
// all-projects entry.
package export
