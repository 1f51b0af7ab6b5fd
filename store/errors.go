package store

import "fmt"

// NotFoundError is an error used to encode when a record id
// is outside of the store's collection
type NotFoundError struct {
	Kind string
	ID   int
}

// NewNotFoundError constructs a new NotFoundError
func NewNotFoundError(kind string, id int) *NotFoundError {
	return &NotFoundError{
		Kind: kind,
		ID:   id,
	}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found in the store", e.Kind, e.ID)
}

// InconsistentIDError is an error used to encode when a record's id
// does not match its position in the collection
type InconsistentIDError struct {
	Kind     string
	Position int
	ID       int
}

// NewInconsistentIDError constructs a new InconsistentIDError
func NewInconsistentIDError(kind string, position int, id int) *InconsistentIDError {
	return &InconsistentIDError{
		Kind:     kind,
		Position: position,
		ID:       id,
	}
}

func (e *InconsistentIDError) Error() string {
	return fmt.Sprintf("%s at position %d has id %d; ids must equal their positions",
		e.Kind, e.Position, e.ID)
}
