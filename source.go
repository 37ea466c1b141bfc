package tablex

import (
	"net/url"
	"path/filepath"
	"strings"
)

// MaxFileSize is the largest accepted input document, in bytes.
const MaxFileSize = 10 << 20

// FileExtensions lists the accepted input file extensions.
var FileExtensions = []string{".html", ".htm", ".xhtml", ".xml", ".txt"}

// ValidateURL returns an error unless raw is an absolute http(s) URL.
func ValidateURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Errorf(EINVALID, "URL required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Errorf(EINVALID, "invalid URL %q: %v", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Errorf(EINVALID, "invalid URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return Errorf(EINVALID, "invalid URL %q: host required", raw)
	}
	return nil
}

// IsURL reports whether s looks like an http(s) URL rather than a path.
func IsURL(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// ValidateFile returns an error if a file of the given name and size
// cannot be used as input.
func ValidateFile(name string, size int64) error {
	ext := strings.ToLower(filepath.Ext(name))
	supported := false
	for _, e := range FileExtensions {
		if ext == e {
			supported = true
			break
		}
	}
	if !supported {
		return Errorf(EINVALID, "unsupported file type %q (expected one of %s)", ext, strings.Join(FileExtensions, ", "))
	}
	if size <= 0 {
		return Errorf(EINVALID, "file %q is empty", filepath.Base(name))
	}
	if size > MaxFileSize {
		return Errorf(EINVALID, "file %q is %d bytes, limit is %d", filepath.Base(name), size, MaxFileSize)
	}
	return nil
}

// ValidateText returns an error if pasted HTML text is blank.
func ValidateText(s string) error {
	if strings.TrimSpace(s) == "" {
		return Errorf(EINVALID, "HTML input is empty")
	}
	if len(s) > MaxFileSize {
		return Errorf(EINVALID, "HTML input is %d bytes, limit is %d", len(s), MaxFileSize)
	}
	return nil
}
