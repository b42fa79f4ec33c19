package response

import (
	"encoding/json"
	"net/http"
	"stayledger/shared/constant"
	"stayledger/shared/failure"
	"stayledger/shared/logger"
)

type Data[T any] struct {
	Data *T `json:"data,omitempty"`
}

// Error is the body of every failed request. Reason is stable across releases; Retryable tells
// the client it may repeat the same request, keeping its Idempotency-Key.
type Error struct {
	Error     *string `json:"error,omitempty"`
	Kind      string  `json:"kind,omitempty"`
	Reason    string  `json:"reason,omitempty"`
	Retryable bool    `json:"retryable,omitempty"`
}

type Message struct {
	Message *string `json:"message,omitempty"`
}

func WithMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, Message{Message: &message})
}

func WithJSON(writer http.ResponseWriter, code int, payload any) {
	write(writer, code, Data[any]{Data: &payload})
}

// WithError maps err to its status. Unclassified server errors are logged and their text is
// replaced with the status text.
func WithError(writer http.ResponseWriter, err error) {
	code := failure.GetCode(err)
	body := Error{
		Kind:      failure.GetKind(err),
		Reason:    failure.GetReason(err),
		Retryable: failure.IsRetryable(err),
	}

	text := err.Error()
	if code >= http.StatusInternalServerError && body.Kind == constant.Empty {
		logger.ErrorWithStack(err)

		text = http.StatusText(code)
	}

	body.Error = &text

	write(writer, code, body)
}

func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func write(writer http.ResponseWriter, code int, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)
		writer.WriteHeader(http.StatusInternalServerError)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err = writer.Write(raw); err != nil {
		logger.ErrorWithStack(err)
	}
}
