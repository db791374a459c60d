package core

import (
	"strings"
	"time"
)

// FolderMimeType marks metadata that describes a folder.
const FolderMimeType = "application/vnd.google-apps.folder"

// User identifies the author of a revision.
type User struct {
	DisplayName string `json:"displayName" yaml:"display_name"`
}

// Meta holds the metadata of a document or folder, keyed by node id.
type Meta struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	PrettyName        string    `json:"prettyName"`
	Slug              string    `json:"slug"`
	Sort              string    `json:"sort"`
	MimeType          string    `json:"mimeType"`
	WebViewLink       string    `json:"webViewLink"`
	CreatedTime       time.Time `json:"createdTime"`
	ModifiedTime      time.Time `json:"modifiedTime"`
	LastModifyingUser User      `json:"lastModifyingUser"`
}

// IsFolder reports whether the metadata describes a folder.
// Only the last dot-separated component of the mime type is considered.
func (m Meta) IsFolder() bool {
	parts := strings.Split(m.MimeType, ".")
	return parts[len(parts)-1] == "folder"
}
