package exchange

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidDocument is matched by every *ValidationError.
	ErrInvalidDocument = errors.New("invalid export document")

	// ErrSchemaMismatch is matched by every *SchemaMismatchError.
	ErrSchemaMismatch = errors.New("export document schema mismatch")
)

// Problem is a single validation failure located by a JSON path.
type Problem struct {
	Path    string
	Message string
}

func (p Problem) String() string {
	if p.Path == "" {
		return p.Message
	}
	return p.Path + ": " + p.Message
}

// ValidationError reports a malformed or incomplete document. State is
// never modified when it is returned.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.String()
	}
	return fmt.Sprintf("%s: %s", ErrInvalidDocument, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidDocument
}

// SchemaMismatchError reports a document written under another schema.
// The caller decides whether to proceed.
type SchemaMismatchError struct {
	Found     string
	Supported string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("document has schema version %s, but current version is %s", e.Found, e.Supported)
}

func (e *SchemaMismatchError) Is(target error) bool {
	return target == ErrSchemaMismatch
}
