package skipledger

import "errors"

var (
	// ErrSkipNotFound возвращается, когда запись о пропуске не найдена
	ErrSkipNotFound = errors.New("skipledger.repository: skip record not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("skipledger.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("skipledger.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("skipledger.repository: failed to scan row")
)
