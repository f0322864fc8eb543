package repository

import "errors"

// Sentinel kinds for collaborator lookups. Callers match with errors.Is.
var (
	ErrVolunteerNotFound  = errors.New("volunteer not found")
	ErrEventNotFound      = errors.New("event not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrAssignmentExists   = errors.New("assignment already exists")
)

// IsNotFound reports whether err wraps any of the lookup sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrVolunteerNotFound) ||
		errors.Is(err, ErrEventNotFound) ||
		errors.Is(err, ErrAssignmentNotFound)
}

// IsConflict reports whether err wraps ErrAssignmentExists.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAssignmentExists)
}
