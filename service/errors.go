package services

import "fmt"

// ValidationError reports invalid caller input. It is returned before any
// side effect occurs.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NotFoundError reports a missing deal, template, item or custom value.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// DuplicateValueError reports a custom taxonomy value that already exists in
// its namespace, either as a built-in or as another custom value.
type DuplicateValueError struct {
	Namespace string
	Value     string
}

func (e *DuplicateValueError) Error() string {
	return fmt.Sprintf("value %q already exists in namespace %q", e.Value, e.Namespace)
}
