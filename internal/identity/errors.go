package identity

import (
	"strings"
)

// Identity error codes reported by CreateUser.
const (
	CodeDuplicateEmail                  = "DuplicateEmail"
	CodePasswordTooShort                = "PasswordTooShort"
	CodePasswordTooLong                 = "PasswordTooLong"
	CodePasswordRequiresNonAlphanumeric = "PasswordRequiresNonAlphanumeric"
	CodePasswordRequiresDigit           = "PasswordRequiresDigit"
	CodePasswordRequiresLower           = "PasswordRequiresLower"
	CodePasswordRequiresUpper           = "PasswordRequiresUpper"
	CodePasswordTooWeak                 = "PasswordTooWeak"
)

// IdentityError is one reason a credential was rejected.
type IdentityError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// CredentialError is returned by CreateUser when the email is taken or the
// password violates policy. Errors lists every reason found.
type CredentialError struct {
	Errors []IdentityError
}

func (e *CredentialError) Error() string {
	descs := make([]string, 0, len(e.Errors))
	for _, ie := range e.Errors {
		descs = append(descs, ie.Description)
	}
	return "credential rejected: " + strings.Join(descs, " ")
}
