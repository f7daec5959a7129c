// Package errors provides structured error handling for the game service.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Validation errors
	CodeInvalidArgument Code = "INVALID_ARGUMENT"

	// Auth errors
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	CodeTokenExpired    Code = "TOKEN_EXPIRED"

	// PK errors
	CodeSelfKill           Code = "PK_SELF_KILL"
	CodeOnCooldown         Code = "PK_ON_COOLDOWN"
	CodeHourlyLimitReached Code = "PK_HOURLY_LIMIT_REACHED"

	// Combat errors
	CodeAlreadyDead            Code = "CHARACTER_ALREADY_DEAD"
	CodeNotDead                Code = "CHARACTER_NOT_DEAD"
	CodeInvalidDeathReason     Code = "COMBAT_INVALID_DEATH_REASON"
	CodeInvalidRespawnLocation Code = "COMBAT_INVALID_RESPAWN_LOCATION"

	// Storage errors
	CodeNotFound      Code = "NOT_FOUND"
	CodeAlreadyExists Code = "ALREADY_EXISTS"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// Bad request - validation failures, bad input
	case CodeInvalidArgument,
		CodeSelfKill,
		CodeInvalidDeathReason,
		CodeInvalidRespawnLocation:
		return http.StatusBadRequest

	// Unauthorized - missing or invalid credentials
	case CodeUnauthenticated,
		CodeTokenExpired:
		return http.StatusUnauthorized

	// Not found - resource doesn't exist
	case CodeNotFound:
		return http.StatusNotFound

	// Conflict - state doesn't allow operation
	case CodeAlreadyDead,
		CodeNotDead,
		CodeAlreadyExists:
		return http.StatusConflict

	// Too many requests - policy throttles
	case CodeOnCooldown,
		CodeHourlyLimitReached:
		return http.StatusTooManyRequests

	default:
		return http.StatusInternalServerError
	}
}
