package models

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// Validate checks the entry's structural constraints. Callers apply
// defaults and Normalize first; an empty entry type is not valid here.
func (e *Entry) Validate() error {
	return validate.Struct(e)
}

// Validate checks the task's structural constraints.
func (t *Task) Validate() error {
	return validate.Struct(t)
}
