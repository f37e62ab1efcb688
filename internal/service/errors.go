package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/polymath/internal/domain"
)

// ResetPhrase must be typed to confirm a reset to catalog defaults.
const ResetPhrase = "Polymathica"

var (
	// ErrReadOnly is returned for edits attempted by anyone but the
	// repository owner. It is checked before any network call.
	ErrReadOnly = errors.New("read-only: sign in as the repository owner to edit")

	// ErrRemoteDisabled is returned by sync operations when no repository
	// owner is configured.
	ErrRemoteDisabled = errors.New("remote sync is not configured")

	// ErrResetPhrase is returned when the reset confirmation phrase does
	// not match.
	ErrResetPhrase = errors.New("reset confirmation phrase does not match")

	// ErrHasDependents is returned when deleting a subject other subjects
	// still reference, unless forced.
	ErrHasDependents = errors.New("subject has dependents")
)

// DependentsError lists the subjects blocking a delete.
type DependentsError struct {
	SubjectID  string
	Dependents []domain.SubjectRef
}

func (e *DependentsError) Error() string {
	names := make([]string, len(e.Dependents))
	for i, d := range e.Dependents {
		names[i] = d.Name
	}
	return fmt.Sprintf("%q is referenced by %s", e.SubjectID, strings.Join(names, ", "))
}

func (e *DependentsError) Is(target error) bool {
	return target == ErrHasDependents
}
