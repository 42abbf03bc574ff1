package validator

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

// Required validates that a string is not empty after trimming whitespace.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: newError(field, "field is required", "validation.required", nil),
	}
}

// MaxLen counts runes, not bytes.
func MaxLen(field, value string, max int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) <= max },
		Error: newError(field, fmt.Sprintf("must be at most %d characters long", max),
			"validation.max_length", map[string]any{"max": max}),
	}
}

// ValidEmail accepts empty values; combine with Required when mandatory.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if value == "" {
				return true
			}
			addr, err := mail.ParseAddress(value)
			return err == nil && addr.Address == value
		},
		Error: newError(field, "must be a valid email address", "validation.email", nil),
	}
}

// ValidEmailList validates a comma or semicolon separated address list.
func ValidEmailList(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if strings.TrimSpace(value) == "" {
				return true
			}
			_, err := mail.ParseAddressList(strings.ReplaceAll(value, ";", ","))
			return err == nil
		},
		Error: newError(field, "must be a list of valid email addresses", "validation.email_list", nil),
	}
}

// ValidDate checks value against layout. Empty values pass.
func ValidDate(field, value, layout string) Rule {
	return Rule{
		Check: func() bool {
			if value == "" {
				return true
			}
			_, err := time.Parse(layout, value)
			return err == nil
		},
		Error: newError(field, fmt.Sprintf("must be a date in %s format", layout),
			"validation.date", map[string]any{"layout": layout}),
	}
}

func OneOf(field, value string, allowed ...string) Rule {
	return Rule{
		Check: func() bool { return slices.Contains(allowed, value) },
		Error: newError(field, fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
			"validation.one_of", map[string]any{"allowed": strings.Join(allowed, ", ")}),
	}
}

// MaxItems bounds a collection length. A negative max disables the check.
func MaxItems[T any](field string, items []T, max int) Rule {
	return Rule{
		Check: func() bool { return max < 0 || len(items) <= max },
		Error: newError(field, fmt.Sprintf("must contain at most %d items", max),
			"validation.max_items", map[string]any{"max": max}),
	}
}
