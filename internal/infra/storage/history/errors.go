package history

import "errors"

var (
	ErrBuildQuery = errors.New("history.repository: failed to build query")
	ErrExecQuery  = errors.New("history.repository: failed to execute query")
)
