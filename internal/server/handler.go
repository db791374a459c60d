package server

import (
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/leapstack-labs/docsite/internal/content"
	"github.com/leapstack-labs/docsite/internal/nav"
	"github.com/leapstack-labs/docsite/internal/resolver"
	"github.com/leapstack-labs/docsite/pkg/core"
)

// Messages sent with 404 responses.
const (
	msgNotFound    = "Not found."
	msgFolder      = "Can't render contents of a folder yet."
	msgEmptyFolder = "It looks like this folder is empty..."
)

// Page is the data handed to a layout.
type Page struct {
	URL           string
	Title         string
	Content       template.HTML
	LastUpdatedBy string
	LastUpdated   string
	CreatedAt     string
	CreatedBy     string
	EditLink      string
	Sections      []core.Section
	ParentLinks   []nav.Link
	Siblings      []nav.Sibling
	Dev           bool
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	url := r.URL.Path
	s.logger.Debug("GET", "path", url)

	if target, ok := resolver.IndexRedirect(url); ok {
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusMovedPermanently)
		return
	}

	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		s.fail(w, "failed to load tree", err)
		return
	}

	res, ok := resolver.Resolve(url, snap.Root)
	if !ok {
		http.Error(w, msgNotFound, http.StatusNotFound)
		return
	}

	meta, ok := snap.Lookup(res.Node.NodeID())
	if !ok {
		s.fail(w, "failed to load metadata", core.ErrMetaNotFound)
		return
	}

	if _, isBranch := res.Node.(*core.Branch); isBranch {
		http.Error(w, msgFolder, http.StatusNotFound)
		return
	}
	if meta.IsFolder() {
		http.Error(w, msgEmptyFolder, http.StatusNotFound)
		return
	}

	doc, err := s.source.Fetch(ctx, meta.ID)
	if errors.Is(err, core.ErrDocumentNotFound) {
		http.Error(w, msgNotFound, http.StatusNotFound)
		return
	}
	if err != nil {
		s.fail(w, "failed to fetch document", err)
		return
	}

	if r.URL.Query().Get("format") == "md" {
		md, err := content.Markdown(doc.HTML)
		if err != nil {
			s.fail(w, "failed to convert document", err)
			return
		}
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = w.Write([]byte(md))
		return
	}

	processed, err := content.Process(doc.HTML)
	if err != nil {
		s.fail(w, "failed to process document", err)
		return
	}

	navigation, err := nav.NewBuilder(snap).Build(url, res.Node.Ancestors(), res.Parent, meta.Slug)
	if err != nil {
		s.fail(w, "failed to build navigation", err)
		return
	}

	now := s.now()
	page := Page{
		URL:           url,
		Title:         meta.PrettyName,
		Content:       template.HTML(processed.HTML), //nolint:gosec // G203: documents are trusted site content
		LastUpdatedBy: meta.LastModifyingUser.DisplayName,
		LastUpdated:   relTime(meta.ModifiedTime, now),
		CreatedAt:     relTime(meta.CreatedTime, now),
		CreatedBy:     doc.OriginalRevision.LastModifyingUser.DisplayName,
		EditLink:      meta.WebViewLink,
		Sections:      processed.Sections,
		ParentLinks:   navigation.ParentLinks,
		Siblings:      navigation.Siblings,
		Dev:           s.dev,
	}

	layout := s.layouts.Pick(resolver.Segments(url))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.layouts.Render(w, layout, page); err != nil {
		s.fail(w, "failed to render page", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, msg string, err error) {
	s.logger.Error(msg, "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func relTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
