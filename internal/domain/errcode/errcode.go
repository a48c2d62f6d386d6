// Package errcode holds the user-facing failure taxonomy. Each value carries a
// stable machine reason, the wire code and a fixed message; compare with errors.Is.
package errcode

import "errors"

type Error struct {
	Reason  string
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Reason + ": " + e.Message
}

func newError(reason, code, message string) *Error {
	return &Error{Reason: reason, Code: code, Message: message}
}

var (
	ErrEmailRequired         = newError("EMAIL_REQUIRED", "USER_001", "email is required")
	ErrInvalidEmailFormat    = newError("INVALID_EMAIL_FORMAT", "USER_002", "email format is invalid")
	ErrPasswordRequired      = newError("PASSWORD_REQUIRED", "USER_003", "password is required")
	ErrPasswordLengthInvalid = newError("PASSWORD_LENGTH_INVALID", "USER_004", "password must be between 10 and 20 characters")
	ErrNameRequired          = newError("NAME_REQUIRED", "USER_005", "name is required")
	ErrNameTooLong           = newError("NAME_TOO_LONG", "USER_006", "name must be at most 20 characters")
	ErrPhoneRequired         = newError("PHONE_REQUIRED", "USER_007", "phone is required")
	ErrInvalidPhoneFormat    = newError("INVALID_PHONE_FORMAT", "USER_008", "phone must be 10 or 11 digits")
	ErrDuplicateEmail        = newError("DUPLICATE_EMAIL", "USER_009", "email is already in use")
)

// Transport-level codes; these never come out of the domain.
const (
	CodeInvalidInput = "INVALID_INPUT"
	CodeInternal     = "SYS_001"
	CodeRateLimited  = "RATE_LIMITED"
)

// As extracts the domain failure from err, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsValidation reports whether err is one of the input rule violations.
func IsValidation(err error) bool {
	e, ok := As(err)
	return ok && e != ErrDuplicateEmail
}
