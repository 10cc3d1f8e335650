// Package roster holds the scheduling rule core: week arithmetic, the
// availability submission window, availability consolidation, shift catalog
// resolution, staffing classification, exchange eligibility and the
// consolidated week views. Everything here is pure; persistence and
// orchestration live in internal/repository and internal/service.
package roster

import "errors"

type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindStateConflict ErrorKind = "state_conflict"
	KindPolicy        ErrorKind = "policy"
	KindNotFound      ErrorKind = "not_found"
)

const (
	CodeInvalidRange       = "InvalidRange"
	CodeMissingCustomTime  = "MissingCustomTime"
	CodeUnknownViewType    = "UnknownViewType"
	CodeInvalidInput       = "InvalidInput"
	CodeAlreadyResolved    = "AlreadyResolved"
	CodeAlreadyInExchange  = "AlreadyInExchange"
	CodeIneligibleCoverer  = "IneligibleCoverer"
	CodeNotAVolunteer      = "NotAVolunteer"
	CodeAlreadyVolunteered = "AlreadyVolunteered"
	CodeNotCancellable     = "NotCancellable"
	CodeStaleDraft         = "StaleDraft"
	CodeWindowClosed       = "WindowClosed"
	CodeShiftInPast        = "ShiftInPast"
	CodeNotOwner           = "NotOwner"
	CodeNotFound           = "NotFound"
)

// Error is the typed failure every rule and workflow operation returns.
// Callers branch on Kind (retry advice) and Code (the exact rule violated).
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NewValidation(code string, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

func NewStateConflict(code string, message string) *Error {
	return &Error{Kind: KindStateConflict, Code: code, Message: message}
}

func NewPolicy(code string, message string) *Error {
	return &Error{Kind: KindPolicy, Code: code, Message: message}
}

func NewNotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Code: CodeNotFound, Message: message}
}

// CodeOf returns the rule code carried by err, or "" for foreign errors.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// KindOf returns the taxonomy kind carried by err, or "" for foreign errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}
