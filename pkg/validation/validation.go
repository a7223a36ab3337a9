// Package validation checks argument shapes shared by event types and
// property names.
package validation

import (
	"strings"
	"unicode"

	apperrors "github.com/jtomasevic/observable/pkg/errors"
)

// Rule validates a named string argument.
type Rule func(name, value string) error

// Validate applies rules in order and returns the first failure.
func Validate(name, value string, rules ...Rule) error {
	for _, rule := range rules {
		if err := rule(name, value); err != nil {
			return err
		}
	}
	return nil
}

// Required fails with InvalidArgument on an empty value.
func Required(name, value string) error {
	if value == "" {
		return apperrors.InvalidArgument(name, "must not be empty")
	}
	return nil
}

// Present fails with ArgumentUndefined on an empty value.
func Present(name, value string) error {
	if value == "" {
		return apperrors.ArgumentUndefined(name)
	}
	return nil
}

// NoWhitespace fails when the value contains any whitespace.
func NoWhitespace(name, value string) error {
	if strings.IndexFunc(value, unicode.IsSpace) >= 0 {
		return apperrors.InvalidArgument(name, "must not contain whitespace")
	}
	return nil
}

// Identifier fails unless value matches [A-Za-z_$][A-Za-z0-9_$]*.
func Identifier(name, value string) error {
	if !IsIdentifier(value) {
		return apperrors.InvalidArgument(name, "must be an identifier")
	}
	return nil
}

// Name is the rule set applied to event types and property names.
var Name = []Rule{Required, NoWhitespace, Identifier}

// IsIdentifier reports whether s is a non-empty ASCII identifier.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_', c == '$':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
