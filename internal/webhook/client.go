package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"time"
)

// Outcome — закрытый набор исходов отправки. Каждому исходу соответствует
// фиксированное сообщение для пользователя.
type Outcome string

const (
	OutcomeDelivered      Outcome = "delivered"
	OutcomeNotFound       Outcome = "not_found"
	OutcomeRateLimited    Outcome = "rate_limited"
	OutcomeRemoteError    Outcome = "remote_error"
	OutcomeUnexpected     Outcome = "unexpected_status"
	OutcomeTimeout        Outcome = "timeout"
	OutcomeConnFailed     Outcome = "connection_failed"
	OutcomeTransportError Outcome = "transport_error"
)

const maxBodyPreview = 200

// Result — классифицированный итог одной попытки отправки.
type Result struct {
	Outcome    Outcome
	StatusCode int
	// RawBody — тело ответа, усечённое до maxBodyPreview байт.
	RawBody []byte
	// Parsed — JSON тела ответа при успехе; nil, если тело не распарсилось.
	Parsed  map[string]any
	Message string
}

// Delivered сообщает, дошла ли заявка до автоматизации.
func (r *Result) Delivered() bool {
	return r.Outcome == OutcomeDelivered
}

// HasBody сообщает, вернула ли автоматизация непустое тело ответа.
func (r *Result) HasBody() bool {
	return len(bytes.TrimSpace(r.RawBody)) > 0
}

// Client отправляет собранный payload на вебхук автоматизации.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient создаёт клиент с ограниченным временем ожидания.
func NewClient(webhookURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		url: webhookURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Dispatch делает ровно одну попытку POST без ретраев и бэкоффа —
// восстановление всегда ручное, пользователь нажимает кнопку ещё раз.
// Ошибки не возвращаются: классификация и есть результат.
func (c *Client) Dispatch(ctx context.Context, payload any) *Result {
	body, err := json.Marshal(payload)
	if err != nil {
		return &Result{
			Outcome: OutcomeTransportError,
			Message: "не удалось сериализовать данные заявки",
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return &Result{
			Outcome: OutcomeTransportError,
			Message: "не удалось сформировать запрос к вебхуку",
		}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	return classifyResponse(resp.StatusCode, raw)
}

// classifyResponse переводит HTTP статус в исход с фиксированным сообщением.
func classifyResponse(statusCode int, raw []byte) *Result {
	result := &Result{
		StatusCode: statusCode,
		RawBody:    truncate(raw),
	}

	switch statusCode {
	case http.StatusOK:
		result.Outcome = OutcomeDelivered
		result.Message = "заявка успешно отправлена в автоматизацию"
		// Нечитаемый JSON не считается ошибкой, тело просто остаётся сырым.
		var parsed map[string]any
		if err := json.Unmarshal(raw, &parsed); err == nil {
			result.Parsed = parsed
		}
	case http.StatusNotFound:
		result.Outcome = OutcomeNotFound
		result.Message = "вебхук не найден, проверьте URL в настройках"
	case http.StatusTooManyRequests:
		result.Outcome = OutcomeRateLimited
		result.Message = "слишком много запросов к вебхуку, повторите попытку позже"
	case http.StatusInternalServerError:
		result.Outcome = OutcomeRemoteError
		result.Message = "ошибка на стороне автоматизации"
	default:
		result.Outcome = OutcomeUnexpected
		result.Message = fmt.Sprintf("неожиданный ответ %d: %s", statusCode, string(result.RawBody))
	}

	return result
}

// classifyTransportError различает таймаут, отказ соединения и прочие сетевые ошибки.
func classifyTransportError(err error) *Result {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return &Result{
			Outcome: OutcomeTimeout,
			Message: "превышено время ожидания ответа вебхука",
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Result{
			Outcome: OutcomeTimeout,
			Message: "превышено время ожидания ответа вебхука",
		}
	}

	var opErr *net.OpError
	if errors.Is(err, syscall.ECONNREFUSED) || (errors.As(err, &opErr) && opErr.Op == "dial") {
		return &Result{
			Outcome: OutcomeConnFailed,
			Message: "не удалось подключиться к вебхуку",
		}
	}

	return &Result{
		Outcome: OutcomeTransportError,
		Message: "ошибка при отправке запроса к вебхуку",
	}
}

func truncate(raw []byte) []byte {
	if len(raw) > maxBodyPreview {
		return raw[:maxBodyPreview]
	}
	return raw
}
