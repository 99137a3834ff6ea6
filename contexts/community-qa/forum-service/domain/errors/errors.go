package errors

import "errors"

// Kind classifies domain failures so transports can map them exhaustively.
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

// Error is a classified domain failure. Sentinels are compared by identity.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	parent  *Error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap lets a specialised sentinel also match its broader family.
func (e *Error) Unwrap() error {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

func newError(kind Kind, code string, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func newVariant(parent *Error, kind Kind, code string, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message, parent: parent}
}

var (
	ErrInvalidInput        = newError(KindInvalid, "invalid_input", "invalid input")
	ErrInvalidVoteValue    = newError(KindInvalid, "invalid_vote_value", "value must be -1 or 1")
	ErrUnauthenticated     = newError(KindUnauthorized, "not_authenticated", "not authenticated")
	ErrQuestionNotFound    = newError(KindNotFound, "question_not_found", "question not found")
	ErrAnswerNotFound      = newError(KindNotFound, "answer_not_found", "answer not found")
	ErrTargetNotFound      = newError(KindNotFound, "target_not_found", "target not found")
	ErrTagNotFound         = newError(KindNotFound, "tag_not_found", "tag not found")
	ErrFlagNotFound        = newError(KindNotFound, "flag_not_found", "flag not found")
	ErrFAQNotFound         = newError(KindNotFound, "faq_not_found", "faq not found")
	ErrSelfVoteNotAllowed  = newError(KindForbidden, "self_vote_not_allowed", "self vote not allowed")
	ErrSelfFlagNotAllowed  = newError(KindForbidden, "self_flag_not_allowed", "self-flag not allowed")
	ErrNotOwner            = newError(KindForbidden, "not_question_owner", "not question owner")
	ErrAdminOnly           = newError(KindForbidden, "admin_only", "admin only")
	ErrAnswerNotInQuestion = newError(KindInvalidState, "answer_not_in_question", "answer not in question")
	ErrSelfLinkNotAllowed  = newError(KindInvalidState, "self_link_not_allowed", "self-linking not allowed")
	ErrRelatedNotFound     = newError(KindInvalidState, "related_question_not_found", "related question not found")
	ErrAlreadyFlagged      = newError(KindConflict, "already_flagged", "already flagged")
	ErrTagExists           = newError(KindConflict, "tag_exists", "tag already exists")
	ErrConflict            = newError(KindConflict, "conflict", "conflicting write")

	// ErrUnknownTargetType is a TargetNotFound failure whose message does not
	// say "not found", so it is surfaced as a bad request.
	ErrUnknownTargetType = newVariant(ErrTargetNotFound, KindInvalid, "unknown_target_type", "unknown target type")
)

// KindOf returns the classification of err, or KindInternal when err carries
// no domain kind.
func KindOf(err error) Kind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return KindInternal
}

// CodeOf returns the stable machine code of a domain error.
func CodeOf(err error) string {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return "internal_error"
}
