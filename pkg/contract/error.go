package contract

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type ErrorCode string

const (
	ErrorCodeInternal              ErrorCode = "INTERNAL_ERROR"
	ErrorCodeBadRequest            ErrorCode = "BAD_REQUEST"
	ErrorCodeInvalidParameterValue ErrorCode = "INVALID_PARAMETER_VALUE"
	ErrorCodeResourceDoesNotExist  ErrorCode = "RESOURCE_DOES_NOT_EXIST"
	ErrorCodeEndpointNotFound      ErrorCode = "ENDPOINT_NOT_FOUND"
	ErrorCodeFetchFailed           ErrorCode = "FETCH_FAILED"
	ErrorCodeServiceUnavailable    ErrorCode = "SERVICE_UNAVAILABLE"
)

type Error struct {
	Code    ErrorCode
	Message string
	Inner   error
}

func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func NewErrorWith(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Inner:   err,
	}
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Inner != nil {
		return fmt.Sprintf("%s: %s", msg, e.Inner)
	}

	return msg
}

func (e *Error) Unwrap() error {
	return e.Inner
}

func (e *Error) MarshalJSON() ([]byte, error) {
	message := e.Message
	if e.Inner != nil {
		message = fmt.Sprintf("%s: %s", message, e.Inner)
	}

	return json.Marshal(struct {
		Code    ErrorCode `json:"error_code"`
		Message string    `json:"message"`
	}{
		Code:    e.Code,
		Message: message,
	})
}

func (e *Error) StatusCode() int {
	switch e.Code {
	case ErrorCodeBadRequest, ErrorCodeInvalidParameterValue:
		return fiber.StatusBadRequest
	case ErrorCodeResourceDoesNotExist, ErrorCodeEndpointNotFound:
		return fiber.StatusNotFound
	case ErrorCodeFetchFailed:
		return fiber.StatusBadGateway
	case ErrorCodeServiceUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
