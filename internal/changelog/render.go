package changelog

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
)

const templateName = "changelog"

// funcMap returns the sprig helpers plus the changelog specific functions.
func funcMap() template.FuncMap {
	fm := sprig.FuncMap()
	fm["newestFirst"] = NewestFirst
	return fm
}

// Render executes the template source with data and writes the result to w.
// data is usually the value returned by TemplateData.
func Render(w io.Writer, source string, data map[string]any) error {
	tmpl, err := template.New(templateName).Funcs(funcMap()).Parse(source)
	if err != nil {
		return fmt.Errorf("parsing changelog template: %w", err)
	}
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("rendering changelog template: %w", err)
	}
	return nil
}

// RenderString is a convenience function that renders to a string.
func RenderString(source string, data map[string]any) (string, error) {
	var b strings.Builder
	if err := Render(&b, source, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
