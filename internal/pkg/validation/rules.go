package validation

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Email validation pattern
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,4}$`

	// College register number, e.g. 21CB001
	RegisterNoPattern = `^[A-Za-z0-9]{5,20}$`

	// Password min length
	PasswordMinLength = 8
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Email      *regexp.Regexp
	RegisterNo *regexp.Regexp
}{
	Email:      regexp.MustCompile(EmailPattern),
	RegisterNo: regexp.MustCompile(RegisterNoPattern),
}

// IsStrongPassword requires the minimum length, a letter and a digit
func IsStrongPassword(password string) bool {
	if len(password) < PasswordMinLength {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

// HasEmailDomain reports whether email ends with domain, case-insensitively. An empty domain allows any address.
func HasEmailDomain(email, domain string) bool {
	if domain == "" {
		return true
	}
	if !strings.HasPrefix(domain, "@") {
		domain = "@" + domain
	}
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(email)), strings.ToLower(domain))
}

// Register adds the custom binding tags to v
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("registerno", func(fl validator.FieldLevel) bool {
		return CompiledPatterns.RegisterNo.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})
}
