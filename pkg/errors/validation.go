package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateAssetPath validates an image path stored on a scene node.
//
// The rules are conservative because the path ends up inside a JSON
// document that is shared between machines:
//   - Path cannot be empty
//   - Maximum length of 1024 characters
//   - No null bytes or control characters
func ValidateAssetPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "image path cannot be empty")
	}

	const maxPathLength = 1024
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "image path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "image path contains invalid characters")
		}
	}
	return nil
}

// ValidateProjectDir validates a project directory argument.
// It rejects empty paths and paths containing control characters.
func ValidateProjectDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return New(ErrCodeInvalidPath, "project directory cannot be empty")
	}
	for _, r := range dir {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "project directory contains invalid characters")
		}
	}
	return nil
}

// variableNameRegex matches identifiers usable on the left of an assignment.
var variableNameRegex = regexp.MustCompile(`^[\p{L}_][\p{L}\p{N}_]*$`)

// ValidateVariableName validates the name part of a variable assignment.
func ValidateVariableName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidExpression, "variable name cannot be empty")
	}
	if !variableNameRegex.MatchString(name) {
		return New(ErrCodeInvalidExpression, "invalid variable name: %q", name)
	}
	return nil
}
