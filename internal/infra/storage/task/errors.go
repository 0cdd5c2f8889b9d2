package task

import "errors"

var (
	ErrBuildQuery = errors.New("task.repository: failed to build query")
	ErrExecQuery  = errors.New("task.repository: failed to execute query")
	ErrScanRow    = errors.New("task.repository: failed to scan row")
)
