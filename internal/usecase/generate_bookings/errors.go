package generate_bookings

import (
	"errors"
	"fmt"

	"github.com/m04kA/PARK-RecurringService/internal/domain"
)

var (
	// ErrInternal возвращается при внутренних ошибках use case
	ErrInternal = errors.New("generate_bookings: internal error")
)

// skipError прерывает обработку пары (шаблон, дата) с причиной пропуска.
// Возврат skipError из транзакционной функции откатывает транзакцию,
// после чего причина записывается в журнал пропусков вне транзакции.
type skipError struct {
	reason  domain.SkipReason
	details string
}

func (e *skipError) Error() string {
	return fmt.Sprintf("skip: %s: %s", e.reason, e.details)
}

func skip(reason domain.SkipReason, format string, args ...any) *skipError {
	return &skipError{reason: reason, details: fmt.Sprintf(format, args...)}
}
