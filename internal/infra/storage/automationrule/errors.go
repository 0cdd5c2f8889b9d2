package automationrule

import "errors"

var (
	ErrBuildQuery = errors.New("automationrule.repository: failed to build query")
	ErrExecQuery  = errors.New("automationrule.repository: failed to execute query")
	ErrScanRow    = errors.New("automationrule.repository: failed to scan row")
)
