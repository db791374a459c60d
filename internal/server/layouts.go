package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
)

// DefaultLayout is used when no layout matches the first URL segment.
const DefaultLayout = "default"

//go:embed layouts/*.html
var embeddedLayouts embed.FS

// Layouts holds the page templates by name. Files whose name starts with
// "_" are partials shared by every layout.
type Layouts struct {
	pages map[string]*template.Template
}

// LoadLayouts parses the embedded layouts, then overlays the *.html files in
// dir when dir is not empty. A file in dir replaces the embedded file of the
// same name.
func LoadLayouts(dir string) (*Layouts, error) {
	files, err := readLayouts(embeddedLayouts, "layouts")
	if err != nil {
		return nil, err
	}
	if dir != "" {
		overrides, err := readLayouts(os.DirFS(dir), ".")
		if err != nil {
			return nil, err
		}
		for name, text := range overrides {
			files[name] = text
		}
	}

	partials := make([]string, 0)
	for name := range files {
		if strings.HasPrefix(name, "_") {
			partials = append(partials, name)
		}
	}
	sort.Strings(partials)

	l := &Layouts{pages: make(map[string]*template.Template)}
	for name, text := range files {
		if strings.HasPrefix(name, "_") {
			continue
		}
		tmpl := template.New(name)
		for _, p := range partials {
			if _, err := tmpl.New(p).Parse(files[p]); err != nil {
				return nil, fmt.Errorf("failed to parse partial %s: %w", p, err)
			}
		}
		if _, err := tmpl.Parse(text); err != nil {
			return nil, fmt.Errorf("failed to parse layout %s: %w", name, err)
		}
		l.pages[name] = tmpl
	}

	if _, ok := l.pages[DefaultLayout]; !ok {
		return nil, fmt.Errorf("missing %q layout", DefaultLayout)
	}
	return l, nil
}

// readLayouts returns the contents of the *.html files in dir keyed by
// name without extension.
func readLayouts(fsys fs.FS, dir string) (map[string]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read layouts: %w", err)
	}
	files := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".html" {
			continue
		}
		raw, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read layout %s: %w", entry.Name(), err)
		}
		files[strings.TrimSuffix(entry.Name(), ".html")] = string(raw)
	}
	return files, nil
}

// Pick returns the layout named after the first URL segment, or the default.
func (l *Layouts) Pick(segments []string) string {
	if len(segments) > 0 {
		if _, ok := l.pages[segments[0]]; ok {
			return segments[0]
		}
	}
	return DefaultLayout
}

// Names returns the layout names, sorted.
func (l *Layouts) Names() []string {
	names := make([]string, 0, len(l.pages))
	for name := range l.pages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render executes the named layout. Output is buffered so a template error
// never leaves a half written page.
func (l *Layouts) Render(w io.Writer, name string, data any) error {
	tmpl, ok := l.pages[name]
	if !ok {
		return fmt.Errorf("unknown layout %q", name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render layout %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
