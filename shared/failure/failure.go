package failure

import (
	"errors"
	"net/http"
)

const (
	KindValidation = "validation"
	KindConflict   = "conflict"
	KindState      = "state"
	KindTransient  = "transient"
	KindInvariant  = "invariant"
	KindNotFound   = "not_found"
)

// Failure is an error that knows its HTTP status. Reason is a stable machine readable
// identifier such as "overlap_conflict"; two failures with the same non-empty Reason match
// under errors.Is.
type Failure struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message"`
}

var (
	ForbiddenError          = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}
	ResourceRestrictedError = &Failure{Code: http.StatusForbidden, Reason: "not_owner", Message: "You don't have permission to access this resource"}
)

func (e *Failure) Error() string {
	return e.Message
}

// Is reports whether target carries the same reason.
func (e *Failure) Is(target error) bool {
	t, ok := target.(*Failure)
	if !ok {
		return false
	}

	return e.Reason != "" && e.Reason == t.Reason
}

func New(code int, kind, reason, message string) *Failure {
	return &Failure{
		Code:    code,
		Kind:    kind,
		Reason:  reason,
		Message: message,
	}
}

func Validation(reason, message string) *Failure {
	return New(http.StatusBadRequest, KindValidation, reason, message)
}

func StateConflict(reason, message string) *Failure {
	return New(http.StatusConflict, KindState, reason, message)
}

// Transient returns a Failure the caller may retry with the same input.
func Transient(code int, reason, message string) *Failure {
	return New(code, KindTransient, reason, message)
}

// InvariantViolation signals that a guarantee the system relies on is not in place.
func InvariantViolation(message string) error {
	return New(http.StatusInternalServerError, KindInvariant, "invariant_violation", message)
}

func NotFound(message string) error {
	return New(http.StatusNotFound, KindNotFound, "not_found", message)
}

// BadRequest keeps the message of err. A nil err stays nil.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return BadRequestFromString(err.Error())
}

func BadRequestFromString(msg string) error {
	return New(http.StatusBadRequest, KindValidation, "", msg)
}

func Unauthorized(msg string) error {
	return &Failure{Code: http.StatusUnauthorized, Message: msg}
}

func as(err error) *Failure {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail
	}

	return nil
}

// GetCode returns the status of the wrapped Failure, 500 for anything else.
func GetCode(err error) int {
	if fail := as(err); fail != nil {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetKind is empty when err is not a Failure.
func GetKind(err error) string {
	if fail := as(err); fail != nil {
		return fail.Kind
	}

	return ""
}

func GetReason(err error) string {
	if fail := as(err); fail != nil {
		return fail.Reason
	}

	return ""
}

// IsRetryable reports whether the same request may succeed when repeated.
func IsRetryable(err error) bool {
	return GetKind(err) == KindTransient
}
