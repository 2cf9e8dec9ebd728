package storage

import "strings"

// isBusyError reports a SQLITE_BUSY error.
func isBusyError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "SQLITE_BUSY")
}

// isLockedError reports a "database is locked" error.
func isLockedError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "database is locked")
}

// isConflictError reports either form of SQLite lock contention.
// Both are transient and worth retrying.
func isConflictError(err error) bool {
	return isBusyError(err) || isLockedError(err)
}
