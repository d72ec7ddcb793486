package apperrors

import "net/http"

// Predefined account lifecycle errors. Messages intentionally mirror what
// the client shows to users; internal state never leaks through them.
var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// the response cannot be used to enumerate accounts.
	ErrInvalidCredentials = New(
		CodeInvalidCredentials,
		"auth",
		"Invalid credentials",
		http.StatusBadRequest,
	)

	ErrUserNotFound = New(
		CodeNotFound,
		"account",
		"User not found",
		http.StatusNotFound,
	)

	// ErrEmailAlreadyExists is a 400 rather than a 409; the registration
	// form treats it like any other rejected input.
	ErrEmailAlreadyExists = New(
		CodeAlreadyExists,
		"account",
		"User already exists",
		http.StatusBadRequest,
	)

	ErrNotVerified = New(
		CodeNotVerified,
		"auth",
		"Please verify your email before logging in",
		http.StatusUnauthorized,
	)

	ErrAccountRemoved = New(
		CodeAccountRemoved,
		"auth",
		"This account has been removed. Contact support for assistance.",
		http.StatusForbidden,
	)

	ErrAccountBanned = New(
		CodeAccountBanned,
		"auth",
		"Your account has been deactivated. Contact support for more information.",
		http.StatusForbidden,
	)

	// ErrInvalidVerification is returned for both "no such artifact" and
	// "artifact expired" to avoid a token-guessing side channel.
	ErrInvalidVerification = New(
		CodeInvalidToken,
		"verification",
		"Invalid or expired token",
		http.StatusBadRequest,
	)

	ErrInvalidVerificationCode = New(
		CodeInvalidToken,
		"verification",
		"Invalid or expired code",
		http.StatusBadRequest,
	)

	ErrAlreadyVerified = New(
		CodeInvalidOperation,
		"verification",
		"User already verified",
		http.StatusBadRequest,
	)

	ErrInvalidUserRole = New(
		CodeInvalidOperation,
		"account",
		"Invalid role",
		http.StatusBadRequest,
	)
)

// ErrAccountSuspended carries the suspension end so the client can show it.
func ErrAccountSuspended(until string) *AppError {
	return New(
		CodeAccountSuspended,
		"auth",
		"Your account is suspended until "+until+".",
		http.StatusForbidden,
	)
}
