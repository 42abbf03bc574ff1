// Package sanitizer normalizes free-form input before it is validated and
// rendered. Functions are pure string transforms that compose with Apply:
//
//	name := sanitizer.Apply(raw, sanitizer.Trim, sanitizer.SingleLine)
package sanitizer
