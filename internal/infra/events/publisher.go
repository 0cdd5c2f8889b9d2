package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/m04kA/PARK-RecurringService/internal/domain"
)

var (
	ErrConnect = errors.New("events.publisher: failed to connect to nats")
	ErrPublish = errors.New("events.publisher: failed to publish event")
)

// BookingCreatedEvent событие создания бронирования генератором
type BookingCreatedEvent struct {
	BookingID   string    `json:"booking_id"`
	TemplateID  int64     `json:"template_id"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	LineID      string    `json:"line_id"`
	ProgramID   int64     `json:"program_id"`
	ProgramName string    `json:"program_name,omitempty"`
	Status      string    `json:"status"`
	LinkedTo    string    `json:"linked_to,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewBookingCreatedEvent собирает событие из бронирования
func NewBookingCreatedEvent(b *domain.Booking) BookingCreatedEvent {
	ev := BookingCreatedEvent{
		BookingID: b.ID,
		Date:      b.Date.Format(domain.DateFormat),
		Time:      string(b.Time),
		LineID:    b.LineID,
		ProgramID: b.ProgramID,
		Status:    string(b.Status),
		CreatedAt: time.Now().UTC(),
	}
	if b.RecurringTemplateID != nil {
		ev.TemplateID = *b.RecurringTemplateID
	}
	if b.ProgramName != nil {
		ev.ProgramName = *b.ProgramName
	}
	if b.LinkedTo != nil {
		ev.LinkedTo = *b.LinkedTo
	}
	return ev
}

// Publisher публикует события сервиса во внешнюю шину
type Publisher interface {
	Publish(event BookingCreatedEvent) error
	Close()
}

// NATSPublisher публикует события в NATS. Доставка best-effort:
// генерация бронирований не зависит от доступности шины.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher подключается к NATS и создает публикатор
func NewNATSPublisher(url, subject string, timeout time.Duration) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Timeout(timeout),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: NewNATSPublisher - connect: %v", ErrConnect, err)
	}

	return &NATSPublisher{conn: conn, subject: subject}, nil
}

// Publish сериализует событие и отправляет его в топик
func (p *NATSPublisher) Publish(event BookingCreatedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: Publish - marshal event: %v", ErrPublish, err)
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("%w: Publish - send: %v", ErrPublish, err)
	}

	return nil
}

// Close закрывает соединение с NATS, дожидаясь отправки буфера
func (p *NATSPublisher) Close() {
	if p.conn == nil {
		return
	}
	_ = p.conn.Drain()
}

// NopPublisher заглушка для окружений без шины событий
type NopPublisher struct{}

func (NopPublisher) Publish(BookingCreatedEvent) error { return nil }
func (NopPublisher) Close()                            {}
