package circuit

import (
	"errors"
	"fmt"
)

// QubitErrorCode categorizes target-set errors raised while building.
type QubitErrorCode string

const (
	// ErrCodeDuplicateQubit indicates the same physical qubit appears twice
	// in one instruction's target list.
	ErrCodeDuplicateQubit QubitErrorCode = "DUPLICATE_QUBIT"

	// ErrCodeInvalidQubit indicates a qubit that is not registered on the
	// container, or whose index is out of range.
	ErrCodeInvalidQubit QubitErrorCode = "INVALID_QUBIT"

	// ErrCodeEmptyTarget indicates an instruction with no qubits at all.
	ErrCodeEmptyTarget QubitErrorCode = "EMPTY_TARGET"
)

// QubitError is returned when an instruction's targets are rejected.
// Nothing is attached when a QubitError is returned.
type QubitError struct {
	Code        QubitErrorCode
	Instruction string
	Qubit       Qubit
	Message     string
}

func (e *QubitError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Instruction, e.Message)
}

// IsDuplicateQubit reports whether err is a duplicate-qubit QubitError.
func IsDuplicateQubit(err error) bool {
	var qe *QubitError
	return errors.As(err, &qe) && qe.Code == ErrCodeDuplicateQubit
}

// IsInvalidQubit reports whether err is an invalid-qubit QubitError.
func IsInvalidQubit(err error) bool {
	var qe *QubitError
	return errors.As(err, &qe) && qe.Code == ErrCodeInvalidQubit
}

// ErrNoInverse is returned by Inverse for non-unitary instructions.
var ErrNoInverse = errors.New("instruction has no inverse")

// ErrUnsupportedContainer is returned when an instruction cannot be
// reapplied to the given container type.
var ErrUnsupportedContainer = errors.New("instruction not supported by container")

// ErrRegisterExists is returned when a register name is already in use.
var ErrRegisterExists = errors.New("register name already in use")

// ErrInvalidCondition is returned for a condition value outside its
// register's range.
var ErrInvalidCondition = errors.New("condition value out of range")

// ErrInvalidClbit is returned for classical bits that are not registered.
var ErrInvalidClbit = errors.New("classical bit not registered")
