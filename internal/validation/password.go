package validation

import (
	"fmt"
	"strings"
	"unicode"
)

// Password applies the account password policy. username and email are the
// owner's identifiers; neither may appear in the password.
func (v *Validator) Password(field, password, username, email string) {
	v.MinLength(field, password, MinPasswordLength)
	v.MaxLength(field, password, MaxPasswordLength)

	var (
		hasUpper   bool
		hasLower   bool
		hasSpecial bool
		digits     int
	)
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			digits++
		case !unicode.IsLetter(char) && !unicode.IsNumber(char):
			hasSpecial = true
		}
	}

	v.Check(hasUpper, field, "must contain at least one uppercase letter")
	v.Check(hasLower, field, "must contain at least one lowercase letter")
	v.Check(digits >= MinPasswordDigits, field, fmt.Sprintf("must contain at least %d digits", MinPasswordDigits))
	v.Check(hasSpecial, field, "must contain at least one special character")

	lower := strings.ToLower(password)
	if username != "" {
		v.Check(!strings.Contains(lower, strings.ToLower(username)), field, "must not contain your username")
	}
	if local, _, ok := strings.Cut(email, "@"); ok && local != "" {
		v.Check(!strings.Contains(lower, strings.ToLower(local)), field, "must not contain your email address")
	}
	for _, word := range commonPasswordWords {
		if strings.Contains(lower, word) {
			v.AddError(field, "must not contain common words or patterns")
			break
		}
	}
}
