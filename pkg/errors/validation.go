package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxIdentifierLength bounds labels and relationship types.
const maxIdentifierLength = 128

// identifierRegex matches identifiers that can be spliced into Cypher as a
// label or relationship type without quoting surprises.
var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateLabel validates a node label taken from a record's "type" field.
//
// Labels come from untrusted scanner output and end up inside query text,
// so only [A-Za-z_][A-Za-z0-9_]* is accepted:
//   - No empty labels
//   - Maximum length of 128 characters
//   - No whitespace, punctuation, backticks or control characters
func ValidateLabel(label string) error {
	if label == "" {
		return New(ErrCodeInvalidLabel, "label cannot be empty")
	}
	if len(label) > maxIdentifierLength {
		return New(ErrCodeInvalidLabel, "label too long (max %d characters)", maxIdentifierLength)
	}
	if !identifierRegex.MatchString(label) {
		return New(ErrCodeInvalidLabel, "invalid label: %q", label)
	}
	return nil
}

// ValidateRelationshipType validates an edge's relationship type.
// The rules are the same as [ValidateLabel].
func ValidateRelationshipType(relType string) error {
	if relType == "" {
		return New(ErrCodeInvalidRelationship, "relationship type cannot be empty")
	}
	if len(relType) > maxIdentifierLength {
		return New(ErrCodeInvalidRelationship, "relationship type too long (max %d characters)", maxIdentifierLength)
	}
	if !identifierRegex.MatchString(relType) {
		return New(ErrCodeInvalidRelationship, "invalid relationship type: %q", relType)
	}
	return nil
}

// ValidateNodeID validates a node's natural key.
// IDs are passed as query parameters, never spliced, so only emptiness and
// control characters are rejected. Move ids such as "0x1::coin::Coin" are valid.
func ValidateNodeID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidNode, "node id cannot be empty")
	}
	for _, r := range id {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidNode, "node id %q contains control characters", id)
		}
	}
	return nil
}

// ValidatePath validates a local file path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//
// "-" is accepted and means standard input.
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}
