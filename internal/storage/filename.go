package storage

import (
	"regexp"
	"strings"
)

var filenamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidFilename reports whether name is safe to join onto the storage root.
// It rejects empty names, traversal sequences, path separators, and any
// character outside [A-Za-z0-9._-]. Retrieval and deletion both run every
// client-supplied name through this check before touching the filesystem.
func ValidFilename(name string) bool {
	if name == "" {
		return false
	}
	if strings.Contains(name, "..") {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return filenamePattern.MatchString(name)
}
