package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/leapstack-labs/docsite/pkg/core"
	"gopkg.in/yaml.v3"
)

// sidecar is the YAML metadata stored next to a document or in a folder.
//
//	name: 01 - Setup (draft)
//	pretty_name: Setup
//	sort: 1
//	edit_link: https://docs.google.com/document/d/...
//	author: Ada Lovelace
//	created_by: Charles Babbage
//	created: 2024-01-02T15:04:05Z
type sidecar struct {
	Name       string    `yaml:"name"`
	PrettyName string    `yaml:"pretty_name"`
	Sort       string    `yaml:"sort"`
	EditLink   string    `yaml:"edit_link"`
	Author     string    `yaml:"author"`
	CreatedBy  string    `yaml:"created_by"`
	Created    time.Time `yaml:"created"`
	Modified   time.Time `yaml:"modified"`
}

// readSidecar loads the sidecar at path. A missing file yields an empty sidecar.
func readSidecar(path string) (sidecar, error) {
	var sc sidecar
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is derived from the content root
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return sc, nil
		}
		return sc, fmt.Errorf("failed to read metadata %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return sc, fmt.Errorf("failed to parse metadata %s: %w", path, err)
	}
	return sc, nil
}

// apply overlays the sidecar's non-empty fields onto defaults.
func (sc sidecar) apply(m core.Meta) core.Meta {
	if sc.Name != "" {
		m.Name = sc.Name
		if sc.PrettyName == "" {
			m.PrettyName = sc.Name
		}
	}
	if sc.PrettyName != "" {
		m.PrettyName = sc.PrettyName
	}
	if sc.Sort != "" {
		m.Sort = sc.Sort
	}
	if sc.EditLink != "" {
		m.WebViewLink = sc.EditLink
	}
	if sc.Author != "" {
		m.LastModifyingUser.DisplayName = sc.Author
	}
	if !sc.Created.IsZero() {
		m.CreatedTime = sc.Created
	}
	if !sc.Modified.IsZero() {
		m.ModifiedTime = sc.Modified
	}
	return m
}
