package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// 入力が不正（リトライしても同じ）
	ErrInvalidRequest = errors.New("invalid request")

	// ストレージがタイムアウト/接続不可（リトライ可）
	ErrStorageUnavailable = errors.New("storage unavailable")
)

type HTTPError struct {
	Status  int
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

// 400 InvalidRequest
func NewInvalidRequest(message string) error {
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Message: message,
		Err:     ErrInvalidRequest,
	}
}

// 503 StorageUnavailable。causeは残す。
func NewStorageUnavailable(cause error) error {
	err := ErrStorageUnavailable
	if cause != nil {
		err = fmt.Errorf("%w: %w", ErrStorageUnavailable, cause)
	}
	return &HTTPError{
		Status:  http.StatusServiceUnavailable,
		Message: "storage unavailable",
		Err:     err,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}
