package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# prjct configuration file
# Values can be overridden by PRJCT_* environment variables or CLI flags

# Input lists (relative to the working directory, ~ is expanded)
todo_file = "todo.txt"
done_file = "done.txt"

# Completed tasks older than this many days are left out
completion_cutoff = 14

# Sort expression applied before grouping
sort_string = "desc:importance,due,desc:priority"

# Tasks tagged <hidden_tag>:1 are not exported
hidden_tag = "h"

# Date written on the all-projects entry
all_projects_date = "1970-01-01"

# Command run after html/json exports as: <hook> <label> <output_dir>
# hook_command = "/path/to/hook.sh"

log_level = "info"    # debug, info, warn, error
log_format = "text"   # text, json, logfmt
log_timestamps = false

[html]
indent = ""            # spaces or tabs before each line
open_icon = '<i class="fa fa-square-o"></i> '
done_icon = '<i class="fa fa-check-square-o"></i> '
sanitize = true
output_dir = "prjct-html"
`
}
