package conflicts

import "errors"

var (
	// ErrInvalidInterval возвращается при некорректном интервале времени
	ErrInvalidInterval = errors.New("conflicts service: invalid time interval")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("conflicts service: internal error")
)
