/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrConnection is returned when the backing store cannot be reached at startup
	ErrConnection = errors.New("store connection failed")

	// ErrWrite is returned when a primary record write fails
	ErrWrite = errors.New("store write failed")

	// ErrIndexUpdate is returned when the secondary index batch fails after a successful record write
	ErrIndexUpdate = errors.New("index update failed")

	// ErrRead is returned when a lookup or key enumeration fails
	ErrRead = errors.New("store read failed")

	// ErrNotFound is returned when a model has not been defined
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// ConnectionError wraps the store client's failure to connect.
type ConnectionError struct {
	Backend string
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect to %s store: %v", e.Backend, e.Err)
}

func (e *ConnectionError) Is(target error) bool {
	return target == ErrConnection
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// WriteError represents a failed primary write (counter, hash set or delete).
type WriteError struct {
	Op  string
	Key string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

func (e *WriteError) Is(target error) bool {
	return target == ErrWrite
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// IndexUpdateError is returned after the record at Key was written but its index
// batch failed. The record stays persisted; index lookups may miss it.
type IndexUpdateError struct {
	Key     string
	Indexes []string
	Err     error
}

func (e *IndexUpdateError) Error() string {
	return fmt.Sprintf("update %d index set(s) for %q: %v", len(e.Indexes), e.Key, e.Err)
}

func (e *IndexUpdateError) Is(target error) bool {
	return target == ErrIndexUpdate
}

func (e *IndexUpdateError) Unwrap() error {
	return e.Err
}

// ReadError represents a failed lookup or enumeration
type ReadError struct {
	Op  string
	Key string
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

func (e *ReadError) Is(target error) bool {
	return target == ErrRead
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Helper functions for creating errors

// NewConnectionError creates a new ConnectionError
func NewConnectionError(backend string, err error) error {
	return &ConnectionError{Backend: backend, Err: err}
}

// NewWriteError creates a new WriteError
func NewWriteError(op, key string, err error) error {
	return &WriteError{Op: op, Key: key, Err: err}
}

// NewIndexUpdateError creates a new IndexUpdateError
func NewIndexUpdateError(key string, indexes []string, err error) error {
	return &IndexUpdateError{Key: key, Indexes: indexes, Err: err}
}

// NewReadError creates a new ReadError
func NewReadError(op, key string, err error) error {
	return &ReadError{Op: op, Key: key, Err: err}
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(entityType, key string) error {
	return &NotFoundError{Type: entityType, Key: key}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsConnectionError checks if an error is a connection error
func IsConnectionError(err error) bool {
	return errors.Is(err, ErrConnection)
}

// IsWriteError checks if an error is a primary write error
func IsWriteError(err error) bool {
	return errors.Is(err, ErrWrite)
}

// IsIndexUpdateError checks if an error is an index update error
func IsIndexUpdateError(err error) bool {
	return errors.Is(err, ErrIndexUpdate)
}

// IsReadError checks if an error is a read error
func IsReadError(err error) bool {
	return errors.Is(err, ErrRead)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
