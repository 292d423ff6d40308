package application

import "fmt"

// NotFoundError reports a missing user id. The boundary maps it to 404.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("User not found with id: %d", e.ID)
}

// ConflictError reports an email already held by another user. The boundary
// maps it to 409.
type ConflictError struct {
	Email string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("User with email %s already exists", e.Email)
}
