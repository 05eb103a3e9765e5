package index

import "errors"

var (
	// ErrIndexNotReady is returned when a newly created index never
	// became query-able within the readiness wait.
	ErrIndexNotReady = errors.New("vector index not ready")

	// ErrConnection is returned when the vector database is unreachable.
	ErrConnection = errors.New("vector database connection failed")
)
