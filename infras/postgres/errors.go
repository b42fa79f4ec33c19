package postgres

import (
	"errors"
	"stayledger/shared/constant"

	"github.com/lib/pq"
)

// ErrorCode returns the SQLSTATE of a postgres error anywhere in the chain, empty otherwise.
func ErrorCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}

	return constant.Empty
}

// ConstraintName returns the name of the constraint a postgres error refers to.
func ConstraintName(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}

	return constant.Empty
}

func IsExclusionViolation(err error) bool {
	return ErrorCode(err) == constant.PqErrorCodeExclusionViolation
}

func IsUniqueViolation(err error) bool {
	return ErrorCode(err) == constant.PqErrorCodeUniqueViolation
}

func IsSerializationFailure(err error) bool {
	code := ErrorCode(err)

	return code == constant.PqErrorCodeSerializationFailure || code == constant.PqErrorCodeDeadlockDetected
}
