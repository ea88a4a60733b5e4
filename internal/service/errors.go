package service

import (
	"errors"
	"fmt"
)

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrStudentInactive = errors.New("student is not active")
	ErrAlreadyInactive = errors.New("student is already inactive")
	ErrPaymentNotFound = errors.New("payment not found")
)

// ValidationError is a client-side check that failed before any write was sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// DuplicatePaymentError rejects a second payment for the same student and semester.
type DuplicatePaymentError struct {
	NIM      string
	Semester int
}

func (e *DuplicatePaymentError) Error() string {
	return fmt.Sprintf("Mahasiswa ini sudah membayar SPP untuk semester %d. Tidak dapat menambahkan pembayaran duplikat.", e.Semester)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
