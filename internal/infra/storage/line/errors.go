package line

import "errors"

var (
	// ErrLineNotFound возвращается, когда линия не найдена
	ErrLineNotFound = errors.New("line.repository: line not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("line.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("line.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("line.repository: failed to scan row")
)
