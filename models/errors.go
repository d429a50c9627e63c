package models

import "errors"

var (
	// ErrNotFound covers both genuinely absent rows and rows not owned
	// by the caller; the two are indistinguishable to the client.
	ErrNotFound = errors.New("not found")

	// ErrStorageLimitExceeded rejects a commit whose size would push the
	// owner past the subscription quota.
	ErrStorageLimitExceeded = errors.New("storage limit exceeded")

	// ErrInvalidState rejects a lifecycle transition from the wrong
	// state, e.g. restoring an item that is not archived.
	ErrInvalidState = errors.New("invalid state for operation")
)
