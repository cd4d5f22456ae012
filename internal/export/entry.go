package export

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

const entryTemplate = `title: All Projects
date: {{.Date}}
tags: {{.Tags}}

This is a placeholder entry created by *prjct* v.{{.Version}}, tagged with all projects
listed on your todo and done lists.
`

var entryTmpl = template.Must(template.New("entry").Option("missingkey=error").Parse(entryTemplate))

// AllProjectsEntry renders a markdown entry whose tags are every project.
func AllProjectsEntry(projects []string, date, version string) (string, error) {
	data := struct {
		Date    string
		Tags    string
		Version string
	}{
		Date:    date,
		Tags:    strings.Join(projects, ", "),
		Version: version,
	}

	var buf bytes.Buffer
	if err := entryTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render all-projects entry: %w", err)
	}
	return buf.String(), nil
}
