package errors

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxSourceSize bounds recipe source accepted from untrusted callers.
const MaxSourceSize = 1 << 20

// ValidateSource checks recipe text before parsing. It rejects empty input,
// input over max bytes, invalid UTF-8 and NUL bytes.
func ValidateSource(src string, max int) error {
	if strings.TrimSpace(src) == "" {
		return New(ErrCodeInvalidInput, "recipe source is empty")
	}
	if max > 0 && len(src) > max {
		return New(ErrCodeSourceTooLarge, "recipe source too large (%d bytes, max %d)", len(src), max)
	}
	if !utf8.ValidString(src) {
		return New(ErrCodeInvalidInput, "recipe source is not valid UTF-8")
	}
	if strings.ContainsRune(src, 0) {
		return New(ErrCodeInvalidInput, "recipe source contains a NUL byte")
	}
	return nil
}

// classNameRegex matches a single CSS class identifier.
var classNameRegex = regexp.MustCompile(`^-?[_a-zA-Z][_a-zA-Z0-9-]*$`)

// ValidateClassName validates a CSS class name used in HTML output. Class
// names are written into attributes unescaped, so anything beyond a plain
// identifier is rejected.
func ValidateClassName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidOption, "CSS class name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidOption, "CSS class name too long (max 64 characters)")
	}
	if !classNameRegex.MatchString(name) {
		return New(ErrCodeInvalidOption, "invalid CSS class name: %q", name)
	}
	return nil
}

// ValidateKeyPrefix validates a cache key prefix or collection name.
//
// Validation rules:
//   - Prefix cannot be empty
//   - Maximum length of 64 characters
//   - No whitespace or control characters
//   - No '$' or NUL (reserved by MongoDB)
func ValidateKeyPrefix(prefix string) error {
	if prefix == "" {
		return New(ErrCodeInvalidOption, "key prefix cannot be empty")
	}
	if len(prefix) > 64 {
		return New(ErrCodeInvalidOption, "key prefix too long (max 64 characters)")
	}
	for _, r := range prefix {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidOption, "key prefix contains whitespace or control characters")
		}
	}
	if strings.ContainsAny(prefix, "$\x00") {
		return New(ErrCodeInvalidOption, "key prefix cannot contain '$'")
	}
	return nil
}

// ValidatePath validates a relative file path for safety.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
