package filesystem

import (
	"net/url"
	"path/filepath"
	"strings"
)

// ResolvePath converts a document URI to a clean local path.
// Handles file:// URIs and bare paths.
func ResolvePath(uri string) string {
	if strings.HasPrefix(uri, "file://") {
		if u, err := url.Parse(uri); err == nil && u.Path != "" {
			return filepath.Clean(filepath.FromSlash(u.Path))
		}
		return filepath.Clean(strings.TrimPrefix(uri, "file://"))
	}
	if uri == "" {
		return ""
	}
	return filepath.Clean(uri)
}
