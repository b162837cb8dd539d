package render

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"blockcss/config"
)

// Values is a struct that holds variables we make available for template
// expansion.
type Values struct {
	Context    string
	Title      string
	SourceFile string
	Blocks     int
	Names      []string
}

func blockNames(blocks []*Block) []string {
	names := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b != nil && b.Name != "" {
			names = append(names, b.Name)
		}
	}
	return names
}

func expandTemplate(doc *Document, src string, name config.TemplateFieldName, field string) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values := Values{
		Context:    string(name),
		Title:      doc.Title,
		SourceFile: strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)),
		Blocks:     len(doc.Blocks),
		Names:      blockNames(doc.Blocks),
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
