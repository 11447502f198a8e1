package storage

import "strings"

// Mode decides where generated image bytes end up: written to local disk,
// or handed back inline for the browser to keep in IndexedDB.
type Mode string

const (
	ModeFS        Mode = "fs"
	ModeIndexedDB Mode = "indexeddb"
)

// SelectMode resolves the effective storage mode. An explicit configured
// value wins when it is one of the two valid modes; otherwise serverless
// deployments (read-only filesystems) fall back to client-side storage and
// everything else gets the filesystem. Pure, no I/O.
func SelectMode(explicit string, serverless bool) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(explicit))) {
	case ModeFS:
		return ModeFS
	case ModeIndexedDB:
		return ModeIndexedDB
	}
	if serverless {
		return ModeIndexedDB
	}
	return ModeFS
}
