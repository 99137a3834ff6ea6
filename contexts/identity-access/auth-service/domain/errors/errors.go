package errors

import "errors"

type Kind string

const (
	KindInternal     Kind = "internal"
	KindInvalid      Kind = "invalid"
	KindNotFound     Kind = "not_found"
	KindForbidden    Kind = "forbidden"
	KindInvalidState Kind = "invalid_state"
	KindConflict     Kind = "conflict"
	KindUnauthorized Kind = "unauthorized"
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, code string, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

var (
	ErrInvalidInput        = newError(KindInvalid, "invalid_input", "invalid input")
	ErrInvalidRole         = newError(KindInvalid, "invalid_role", "role must be student or admin")
	ErrWeakPassword        = newError(KindInvalid, "weak_password", "password must be at least 8 characters")
	ErrUnauthenticated     = newError(KindUnauthorized, "not_authenticated", "not authenticated")
	ErrInvalidCredentials  = newError(KindUnauthorized, "invalid_credentials", "invalid credentials")
	ErrInvalidToken        = newError(KindUnauthorized, "invalid_token", "invalid token")
	ErrTokenUserMissing    = newError(KindUnauthorized, "user_not_found", "user not found")
	ErrUserNotFound        = newError(KindNotFound, "user_not_found", "user not found")
	ErrAdminOnly           = newError(KindForbidden, "admin_only", "admin only")
	ErrInvalidResetToken   = newError(KindInvalidState, "invalid_reset_token", "invalid or expired token")
	ErrCannotChangeOwnRole = newError(KindInvalidState, "cannot_change_own_role", "cannot change own role")
	ErrCannotDeleteSelf    = newError(KindInvalidState, "cannot_delete_self", "cannot delete own account")
	ErrEmailTaken          = newError(KindConflict, "email_taken", "email already registered")
	ErrConflict            = newError(KindConflict, "conflict", "conflicting write")
)

func KindOf(err error) Kind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return KindInternal
}

func CodeOf(err error) string {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return "internal_error"
}
