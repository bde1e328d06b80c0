package storage

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Code categorizes store faults.
type Code string

const (
	// CodeConstraintViolation is a uniqueness or foreign-key violation
	// detected at commit time.
	CodeConstraintViolation Code = "CONSTRAINT_VIOLATION"

	// CodeQueryConstruction is a malformed join or filter specification
	// caught while rendering a query.
	CodeQueryConstruction Code = "QUERY_CONSTRUCTION"

	// CodeRelationshipAbsent is an access to a relationship that was
	// expected to be populated but is not.
	CodeRelationshipAbsent Code = "RELATIONSHIP_ABSENT"
)

// Error is a coded store fault. Faults are never retried or recovered
// locally; they propagate and abort the run.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ConstraintViolation wraps err as a commit-time constraint fault.
func ConstraintViolation(message string, err error) error {
	return &Error{Code: CodeConstraintViolation, Message: message, Err: err}
}

// QueryConstruction wraps err as a query-building fault.
func QueryConstruction(message string, err error) error {
	return &Error{Code: CodeQueryConstruction, Message: message, Err: err}
}

// RelationshipAbsent reports a missing relationship by name.
func RelationshipAbsent(relation string) error {
	return &Error{Code: CodeRelationshipAbsent, Message: "relationship not populated: " + relation}
}

// IsConstraintViolation reports whether err carries CodeConstraintViolation.
func IsConstraintViolation(err error) bool {
	return hasCode(err, CodeConstraintViolation)
}

// IsQueryConstruction reports whether err carries CodeQueryConstruction.
func IsQueryConstruction(err error) bool {
	return hasCode(err, CodeQueryConstruction)
}

// IsRelationshipAbsent reports whether err carries CodeRelationshipAbsent.
func IsRelationshipAbsent(err error) bool {
	return hasCode(err, CodeRelationshipAbsent)
}

func hasCode(err error, code Code) bool {
	var se *Error
	return errors.As(err, &se) && se.Code == code
}

// translate maps GORM's translated driver errors onto the store
// taxonomy. Anything unrecognized passes through untouched.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ConstraintViolation("duplicate key", err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ConstraintViolation("foreign key violated", err)
	default:
		return err
	}
}
