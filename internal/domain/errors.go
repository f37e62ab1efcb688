package domain

import "errors"

var (
	// ErrInvalid indicates a value failed domain validation.
	ErrInvalid = errors.New("invalid value")

	ErrSubjectNotFound  = errors.New("subject not found")
	ErrProjectNotFound  = errors.New("project not found")
	ErrResourceNotFound = errors.New("resource not found")

	// ErrDuplicateSubject indicates a subject with the same id already exists.
	ErrDuplicateSubject = errors.New("subject already exists")

	// ErrNotCustom indicates an operation reserved for custom subjects was
	// attempted on a catalog subject.
	ErrNotCustom = errors.New("subject is not custom")
)
