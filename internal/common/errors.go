// Package common defines shared constants and sentinel errors used across
// client and server layers of timevault. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Instruction validation errors.
	ErrInvalidAccountBinding = errors.New("invalid account binding")
	ErrMintMismatch          = errors.New("mint mismatch")
	ErrOverflow              = errors.New("arithmetic overflow")
	ErrLockNotExpired        = errors.New("lock not expired")
	ErrTransferFailed        = errors.New("transfer failed")
	ErrInvalidAmount         = errors.New("invalid amount")

	// Auth errors (invalid or malformed token, bad login proof).
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrLoginExpired     = errors.New("login proof outside allowed window")
	ErrLoginReplayed    = errors.New("login proof already used")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// Transport errors.
	ErrRateLimited = errors.New("rate limited")
)

// InstructionErrors lists the sentinel errors an instruction can return to a
// caller. Transport layers use it to map wire errors back to sentinels.
var InstructionErrors = []error{
	ErrorNotFound,
	ErrorAlreadyExists,
	ErrorUnauthorized,
	ErrInvalidAccountBinding,
	ErrMintMismatch,
	ErrOverflow,
	ErrLockNotExpired,
	ErrTransferFailed,
	ErrInvalidAmount,
}
