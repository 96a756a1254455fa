package identity

import (
	"fmt"
	"unicode"

	zxcvbn "github.com/nbutton23/zxcvbn-go"
)

// bcrypt only considers the first 72 bytes of a password.
const maxPasswordBytes = 72

// PasswordOptions configures the password policy applied on user creation.
type PasswordOptions struct {
	RequiredLength         int
	RequireDigit           bool
	RequireLowercase       bool
	RequireUppercase       bool
	RequireNonAlphanumeric bool
	// MinStrength is the minimum zxcvbn score (0-4). Zero disables the check.
	MinStrength int
}

// DefaultPasswordOptions mirrors the classic identity defaults.
func DefaultPasswordOptions() PasswordOptions {
	return PasswordOptions{
		RequiredLength:         6,
		RequireDigit:           true,
		RequireLowercase:       true,
		RequireUppercase:       true,
		RequireNonAlphanumeric: true,
	}
}

// CheckPassword returns every policy violation for password, in a stable
// order. An empty result means the password is acceptable. userInputs
// (such as the email) penalise passwords derived from them.
func (o PasswordOptions) CheckPassword(password string, userInputs ...string) []IdentityError {
	var errs []IdentityError

	if len([]rune(password)) < o.RequiredLength {
		errs = append(errs, IdentityError{
			Code:        CodePasswordTooShort,
			Description: fmt.Sprintf("Passwords must be at least %d characters.", o.RequiredLength),
		})
	}
	if len(password) > maxPasswordBytes {
		errs = append(errs, IdentityError{
			Code:        CodePasswordTooLong,
			Description: fmt.Sprintf("Passwords must be at most %d bytes.", maxPasswordBytes),
		})
	}

	var hasDigit, hasLower, hasUpper, hasOther bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case !unicode.IsLetter(r):
			hasOther = true
		}
	}

	if o.RequireNonAlphanumeric && !hasOther {
		errs = append(errs, IdentityError{
			Code:        CodePasswordRequiresNonAlphanumeric,
			Description: "Passwords must have at least one non alphanumeric character.",
		})
	}
	if o.RequireDigit && !hasDigit {
		errs = append(errs, IdentityError{
			Code:        CodePasswordRequiresDigit,
			Description: "Passwords must have at least one digit ('0'-'9').",
		})
	}
	if o.RequireLowercase && !hasLower {
		errs = append(errs, IdentityError{
			Code:        CodePasswordRequiresLower,
			Description: "Passwords must have at least one lowercase ('a'-'z').",
		})
	}
	if o.RequireUppercase && !hasUpper {
		errs = append(errs, IdentityError{
			Code:        CodePasswordRequiresUpper,
			Description: "Passwords must have at least one uppercase ('A'-'Z').",
		})
	}

	if o.MinStrength > 0 && len(errs) == 0 {
		min := o.MinStrength
		if min > 4 {
			min = 4
		}
		if zxcvbn.PasswordStrength(password, userInputs).Score < min {
			errs = append(errs, IdentityError{
				Code:        CodePasswordTooWeak,
				Description: "Password is too easy to guess; choose a less predictable one.",
			})
		}
	}

	return errs
}
