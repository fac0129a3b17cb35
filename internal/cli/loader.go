package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/roach88/qobj/internal/describe"
	"github.com/roach88/qobj/internal/qobj"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric        = "E001" // Generic/unknown error
	ErrCodeReadFailed     = "E002" // File could not be read
	ErrCodeDecodeFailed   = "E003" // Payload or description could not be decoded
	ErrCodeSchemaInvalid  = "E004" // Payload rejected by the schema
	ErrCodeNotFound       = "E005" // Path or record not found
	ErrCodeBuildFailed    = "E006" // Circuit could not be built
	ErrCodeArchiveFailed  = "E007" // Archive open/read/write error
	ErrCodeAssembleFailed = "E008" // Circuits could not be assembled
)

// LoadError represents a failure to load an input file.
type LoadError struct {
	Code    string
	Message string
	Exit    int
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("file not found: %s", path), Exit: ExitCommandError, Err: err}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("error reading %s: %v", path, err), Exit: ExitCommandError, Err: err}
	}
	return data, nil
}

// LoadPayload reads and decodes a payload file. A file that is not a
// payload is a rejected input (exit 1), not a command error.
func LoadPayload(path string) (qobj.Qobj, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	q, err := qobj.Decode(data)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeDecodeFailed, Message: err.Error(), Exit: ExitFailure, Err: err}
	}
	return q, nil
}

// LoadDescription reads and parses a circuit description file.
func LoadDescription(path string) (*describe.File, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	f, err := describe.Parse(data)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeDecodeFailed, Message: err.Error(), Exit: ExitCommandError, Err: err}
	}
	return f, nil
}

// failLoad reports a load error through the formatter.
func failLoad(f *OutputFormatter, err error) error {
	var le *LoadError
	if errors.As(err, &le) {
		_ = f.Error(le.Code, le.Message, nil)
		return WrapExitError(le.Exit, le.Error(), le.Err)
	}
	return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), err)
}
