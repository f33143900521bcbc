package backend

import (
	"errors"
	"fmt"
)

// Kind классифицирует сбой обращения к бэкенду
type Kind int

const (
	KindUnknown Kind = iota
	// NetworkFailure — соединение, таймаут, обрыв чтения ответа
	NetworkFailure
	// ProtocolFailure — неожиданная форма ответа
	ProtocolFailure
	// ApplicationFailure — status != "success" или HTTP ошибка с сообщением сервера
	ApplicationFailure
	// InputFailure — не хватает входных данных (например, идентификатора кандидата)
	InputFailure
)

func (k Kind) String() string {
	switch k {
	case NetworkFailure:
		return "network"
	case ProtocolFailure:
		return "protocol"
	case ApplicationFailure:
		return "application"
	case InputFailure:
		return "input"
	default:
		return "unknown"
	}
}

// Error описывает сбой одной операции
type Error struct {
	Op         string
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s failure (HTTP %d): %s", e.Op, e.Kind, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s: %s failure: %s", e.Op, e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable сообщает, имеет ли смысл повторить операцию без новых входных данных
func (e *Error) Retryable() bool {
	return e.Kind != InputFailure
}

// KindOf возвращает вид сбоя или KindUnknown, если err не *Error
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindUnknown
}

// IsRetryable сообщает, можно ли повторить операцию
func IsRetryable(err error) bool {
	var be *Error
	if errors.As(err, &be) {
		return be.Retryable()
	}
	return false
}

// UserMessage формирует текст для показа кандидату
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var be *Error
	if !errors.As(err, &be) {
		return "Something went wrong. Please try again."
	}
	switch be.Kind {
	case NetworkFailure:
		return "Could not reach the interview service. Please try again."
	case ProtocolFailure:
		return "The interview service sent an unexpected response. Please try again."
	case ApplicationFailure:
		if be.Message != "" {
			return be.Message
		}
		return "The interview service could not complete the request. Please try again."
	case InputFailure:
		if be.Message != "" {
			return be.Message
		}
		return "Some required information is missing."
	default:
		return "Something went wrong. Please try again."
	}
}

func networkError(op string, err error) *Error {
	return &Error{Op: op, Kind: NetworkFailure, Err: err}
}

func protocolError(op string, format string, args ...any) *Error {
	return &Error{Op: op, Kind: ProtocolFailure, Err: fmt.Errorf(format, args...)}
}
