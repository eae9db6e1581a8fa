package webhook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testPayload() map[string]any {
	return map[string]any{"client": map[string]any{"name": "DBS Bank"}}
}

func TestDispatch_DeliveredWithJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	result := client.Dispatch(context.Background(), testPayload())

	assert.Equal(t, OutcomeDelivered, result.Outcome)
	assert.True(t, result.Delivered())
	assert.True(t, result.HasBody())
	assert.Equal(t, true, result.Parsed["ok"])
}

func TestDispatch_DeliveredEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	result := client.Dispatch(context.Background(), testPayload())

	assert.True(t, result.Delivered())
	assert.False(t, result.HasBody())
	assert.Nil(t, result.Parsed)
}

func TestDispatch_DeliveredUnparsableBody(t *testing.T) {
	// Нечитаемый JSON не ошибка: тело остаётся сырым, Parsed пустой.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Accepted"))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	result := client.Dispatch(context.Background(), testPayload())

	assert.True(t, result.Delivered())
	assert.True(t, result.HasBody())
	assert.Nil(t, result.Parsed)
}

func TestDispatch_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	result := client.Dispatch(context.Background(), testPayload())

	assert.Equal(t, OutcomeNotFound, result.Outcome)
	assert.Contains(t, result.Message, "не найден")
}

func TestDispatch_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	result := client.Dispatch(context.Background(), testPayload())

	assert.Equal(t, OutcomeRateLimited, result.Outcome)
	assert.Contains(t, result.Message, "повторите")
}

func TestDispatch_RemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	result := client.Dispatch(context.Background(), testPayload())

	assert.Equal(t, OutcomeRemoteError, result.Outcome)
}

func TestDispatch_UnexpectedStatusTruncatesBody(t *testing.T) {
	long := make([]byte, 1000)
	for i := range long {
		long[i] = 'x'
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write(long)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	result := client.Dispatch(context.Background(), testPayload())

	assert.Equal(t, OutcomeUnexpected, result.Outcome)
	assert.Equal(t, http.StatusTeapot, result.StatusCode)
	assert.LessOrEqual(t, len(result.RawBody), maxBodyPreview)
	assert.Contains(t, result.Message, "418")
}

func TestDispatch_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(server.URL, 50*time.Millisecond)
	result := client.Dispatch(context.Background(), testPayload())

	assert.Equal(t, OutcomeTimeout, result.Outcome)
	assert.Contains(t, result.Message, "время ожидания")
}

func TestDispatch_ConnectionFailed(t *testing.T) {
	// Закрытый сервер — соединение отклоняется.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url, 5*time.Second)
	result := client.Dispatch(context.Background(), testPayload())

	assert.Equal(t, OutcomeConnFailed, result.Outcome)
	assert.Contains(t, result.Message, "подключиться")
}

func TestDispatch_UnserializablePayload(t *testing.T) {
	client := NewClient("http://localhost:1", 5*time.Second)
	result := client.Dispatch(context.Background(), map[string]any{"bad": make(chan int)})

	assert.Equal(t, OutcomeTransportError, result.Outcome)
}
