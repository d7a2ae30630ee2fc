package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
)

// Client отправляет уведомления о записях во внешний сервис (рассылки, мессенджеры)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
	now        func() time.Time
}

// NewClient создает новый экземпляр клиента уведомлений.
// Пустой baseURL отключает отправку.
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
		now: time.Now,
	}
}

// Notify отправляет событие о записи
func (c *Client) Notify(ctx context.Context, event EventType, appointment *domain.Appointment) error {
	if c.baseURL == "" {
		return nil
	}

	body, err := json.Marshal(newAppointmentEvent(event, appointment, c.now()))
	if err != nil {
		return fmt.Errorf("%w: failed to encode event: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/appointments", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	return nil
}

// NotifyWithGracefulDegradation отправляет событие, ошибки только логируются.
// Запись уже сохранена, недоступность получателя не должна её откатывать.
func (c *Client) NotifyWithGracefulDegradation(ctx context.Context, event EventType, appointment *domain.Appointment) {
	if err := c.Notify(ctx, event, appointment); err != nil {
		c.log.Error("Notifier unavailable, event=%s appointment_id=%d dropped: %v", event, appointment.ID, err)
		return
	}
	if c.baseURL != "" {
		c.log.Info("Notification sent: event=%s appointment_id=%d", event, appointment.ID)
	}
}
