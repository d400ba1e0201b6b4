package model

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("account not found")
	ErrIdentifierRequired = errors.New("either an email or a phone number is required")
	ErrDuplicate          = errors.New("account already exists")
)

// Fields that carry a uniqueness constraint
const (
	FieldEmail       = "email"
	FieldPhoneNumber = "phone_number"
)

// UniquenessError reports that another account already uses Field.
// It matches ErrDuplicate with errors.Is.
type UniquenessError struct {
	Field string
	Err   error
}

func (e *UniquenessError) Error() string {
	if e.Field == "" {
		return ErrDuplicate.Error()
	}
	return fmt.Sprintf("account with this %s already exists", e.Field)
}

func (e *UniquenessError) Is(target error) bool {
	return target == ErrDuplicate
}

func (e *UniquenessError) Unwrap() error {
	return e.Err
}
