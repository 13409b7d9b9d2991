package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Rule limits shared by request binding and services
const (
	NameMinLength     = 3
	NameMaxLength     = 120
	PasswordMinLength = 6
	MessageMaxLength  = 2000
	AccessCodeLength  = 5
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email      *regexp.Regexp
	NonDigit   *regexp.Regexp
	Whitespace *regexp.Regexp
}{
	Email:      regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`),
	NonDigit:   regexp.MustCompile(`\D`),
	Whitespace: regexp.MustCompile(`\s+`),
}

// StringValidation checks a single string value against length and pattern rules
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a required string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    strings.TrimSpace(value),
		Required: true,
	}
}

// WithMinLength sets minimum length in characters
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length in characters
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	if v.Value == "" {
		return !v.Required
	}

	length := utf8.RuneCountInString(v.Value)
	if v.MinLen > 0 && length < v.MinLen {
		return false
	}
	if v.MaxLen > 0 && length > v.MaxLen {
		return false
	}

	return v.Pattern == nil || v.Pattern.MatchString(v.Value)
}

// NormalizeEmail trims and lower-cases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsEmail reports whether email (already normalized) looks like an address
func IsEmail(email string) bool {
	return CompiledPatterns.Email.MatchString(email)
}

// NormalizeName composes accents into NFC form and collapses inner whitespace,
// so "José  Silva" and "José Silva" are stored identically
func NormalizeName(name string) string {
	name = norm.NFC.String(strings.TrimSpace(name))
	return CompiledPatterns.Whitespace.ReplaceAllString(name, " ")
}

// DigitsOnly strips every non-digit character
func DigitsOnly(s string) string {
	return CompiledPatterns.NonDigit.ReplaceAllString(s, "")
}

// IsAccessCode reports whether code has exactly length characters
func IsAccessCode(code string, length int) bool {
	return utf8.RuneCountInString(code) == length
}
