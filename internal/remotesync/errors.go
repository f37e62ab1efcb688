package remotesync

import "errors"

var (
	// ErrConflict indicates the remote file changed since it was last
	// fetched. The push is not retried.
	ErrConflict = errors.New("remote data changed since last fetch")

	// ErrTransient wraps network and API failures other than conflicts
	// and rejected credentials.
	ErrTransient = errors.New("remote sync failed")

	// ErrSyncInFlight indicates a push was dropped because another one
	// was still running.
	ErrSyncInFlight = errors.New("sync already in progress")

	// ErrInvalidRemote indicates the remote file is not a valid Export
	// Document.
	ErrInvalidRemote = errors.New("remote data is not a valid export document")
)
