package statement

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is against the structured error types below.
var (
	ErrMapping   = errors.New("mapping error")
	ErrIngestion = errors.New("ingestion error")
	ErrNotFound  = errors.New("not found")
)

// MappingError reports that input could not be mapped onto the canonical model.
type MappingError struct {
	Message string
	Fields  map[string]interface{}
}

func (e *MappingError) Error() string { return e.Message }

func (e *MappingError) Is(target error) bool { return target == ErrMapping }

// Details implements the HTTP layer's details contract.
func (e *MappingError) Details() map[string]interface{} { return e.Fields }

// IngestionError reports insufficient or unusable stored data.
type IngestionError struct {
	Message string
	Fields  map[string]interface{}
}

func (e *IngestionError) Error() string { return e.Message }

func (e *IngestionError) Is(target error) bool { return target == ErrIngestion }

func (e *IngestionError) Details() map[string]interface{} { return e.Fields }

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Message string
	Fields  map[string]interface{}
}

func (e *NotFoundError) Error() string { return e.Message }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func (e *NotFoundError) Details() map[string]interface{} { return e.Fields }

// NewMappingError builds a MappingError; details may be nil.
func NewMappingError(details map[string]interface{}, format string, args ...interface{}) *MappingError {
	return &MappingError{Message: fmt.Sprintf(format, args...), Fields: details}
}

func NewIngestionError(details map[string]interface{}, format string, args ...interface{}) *IngestionError {
	return &IngestionError{Message: fmt.Sprintf(format, args...), Fields: details}
}

func NewNotFoundError(details map[string]interface{}, format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...), Fields: details}
}
