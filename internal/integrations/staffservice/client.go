package staffservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/m04kA/PARK-RecurringService/internal/domain"
)

// Client клиент для работы со StaffService (график работы аниматоров)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента StaffService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetAvailability получает статус сотрудника на дату
func (c *Client) GetAvailability(ctx context.Context, name string, date time.Time) (*Availability, error) {
	reqURL := fmt.Sprintf("%s/internal/staff/availability?name=%s&date=%s",
		c.baseURL, url.QueryEscape(name), date.Format(domain.DateFormat))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		// Сотрудник без графика считается работающим
		return &Availability{Name: name, Date: date.Format(domain.DateFormat), Status: domain.StaffStatusWorking}, nil
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var availability Availability
	if err := json.NewDecoder(resp.Body).Decode(&availability); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &availability, nil
}

// IsAvailable проверяет, работает ли сотрудник в указанную дату.
// При недоступности StaffService применяется graceful degradation:
// сотрудник считается работающим, чтобы шина не блокировала генерацию.
func (c *Client) IsAvailable(ctx context.Context, name string, date time.Time) bool {
	availability, err := c.GetAvailability(ctx, name, date)
	if err != nil {
		c.log.Warn("StaffService unavailable, assuming %s is working on %s: %v",
			name, date.Format(domain.DateFormat), err)
		return true
	}

	return availability.Status == domain.StaffStatusWorking
}
