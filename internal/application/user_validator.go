package application

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/tikkit/tikkit-api/internal/domain/errcode"
)

const (
	PasswordMinLength = 10
	PasswordMaxLength = 20
	NameMaxLength     = 20
)

var (
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10,11}$`)
)

// RegisterInput is the unvalidated registration candidate.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
}

// ValidateUser checks email, password, name and phone in that order and
// returns the first violated rule as an *errcode.Error.
func ValidateUser(in RegisterInput) error {
	if err := validateEmail(in.Email); err != nil {
		return err
	}
	if err := validatePassword(in.Password); err != nil {
		return err
	}
	if err := validateName(in.Name); err != nil {
		return err
	}
	return validatePhone(in.Phone)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func validateEmail(email string) error {
	if isBlank(email) {
		return errcode.ErrEmailRequired
	}
	if !emailPattern.MatchString(email) {
		return errcode.ErrInvalidEmailFormat
	}
	return nil
}

func validatePassword(password string) error {
	if isBlank(password) {
		return errcode.ErrPasswordRequired
	}
	// length of the raw value, surrounding spaces included
	if n := utf8.RuneCountInString(password); n < PasswordMinLength || n > PasswordMaxLength {
		return errcode.ErrPasswordLengthInvalid
	}
	return nil
}

func validateName(name string) error {
	if isBlank(name) {
		return errcode.ErrNameRequired
	}
	if utf8.RuneCountInString(strings.TrimSpace(name)) > NameMaxLength {
		return errcode.ErrNameTooLong
	}
	return nil
}

func validatePhone(phone string) error {
	if isBlank(phone) {
		return errcode.ErrPhoneRequired
	}
	if !phonePattern.MatchString(phone) {
		return errcode.ErrInvalidPhoneFormat
	}
	return nil
}
