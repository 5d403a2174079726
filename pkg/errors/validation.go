package errors

import (
	"strings"
	"unicode"
)

// ValidatePackageName validates a package name for safety and correctness.
// It rejects names that could be used for path traversal or injection attacks.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - No null bytes
//   - Maximum length of 256 characters
//
// Registry-specific normalization (PEP 503 and friends) is done separately
// by the installer clients.
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidPackage, "package name too long (max 256 characters)")
	}

	// Check for control characters and null bytes
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "package name contains invalid control characters")
		}
	}

	// Check for path traversal patterns
	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
		"/",    // Package names never contain separators
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidPackage, "package name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateModuleName validates an import module name.
// Module names are dotted identifiers; only the root segment matters for
// installation, but the whole name must still be well-formed.
func ValidateModuleName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidSource, "module name cannot be empty")
	}
	for _, seg := range strings.Split(name, ".") {
		if seg == "" {
			return New(ErrCodeInvalidSource, "module name %q has an empty segment", name)
		}
		for i, r := range seg {
			if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
				continue
			}
			return New(ErrCodeInvalidSource, "module name %q contains invalid character %q", name, r)
		}
	}
	return nil
}
