package library

import (
	"net/url"
	"path/filepath"
	"strings"
)

// DecodeLocation converts an export location value into a filesystem path.
//
// Export locations are file:// URIs with percent-encoded characters
// (e.g. "file://localhost/Users/a/Music/Song%20A.m4a"). Plain paths pass
// through with percent-escapes decoded.
func DecodeLocation(loc string) string {
	if loc == "" {
		return ""
	}

	p := loc
	if strings.HasPrefix(p, "file://") {
		p = strings.TrimPrefix(p, "file://")
		p = strings.TrimPrefix(p, "localhost")
	}

	if decoded, err := url.PathUnescape(p); err == nil {
		p = decoded
	}

	// Windows exports yield "/C:/Users/..."; drop the leading slash so the
	// drive letter anchors the path.
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}

	return p
}

// CanonicalPath reduces a location to its canonical form for exact-match
// grouping: URI-decoded, cleaned, slash-normalized. Case is preserved; on
// case-sensitive filesystems distinct-case paths are distinct files.
func CanonicalPath(loc string) string {
	p := DecodeLocation(loc)
	if p == "" {
		return ""
	}
	return filepath.ToSlash(filepath.Clean(p))
}
