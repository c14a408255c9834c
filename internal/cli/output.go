package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/mmynk/lifesync/internal/gate"
	"github.com/mmynk/lifesync/internal/linking"
	"github.com/mmynk/lifesync/internal/models"
	"github.com/mmynk/lifesync/internal/service"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Rejected operation (bad partner code, unknown id, invalid input)
	ExitCommandError = 2 // Command error (database unavailable, bad configuration)
)

// Error codes used in JSON output.
const (
	ErrCodeGeneric        = "E000"
	ErrCodeNotInitialized = "E001"
	ErrCodeDecode         = "E002"
	ErrCodeValidation     = "E003"
	ErrCodeNotFound       = "E004"
	ErrCodeInvalidInput   = "E005"
	ErrCodeStorage        = "E006"
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)

	reported bool
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Reported is true when the error has already been written to the output.
func (e *ExitError) Reported() bool {
	return e.reported
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// classify maps a domain error to an error code and exit code.
func classify(err error) (string, int) {
	var (
		decodeErr     *linking.DecodeError
		validationErr *linking.ValidationError
		exitErr       *ExitError
	)
	switch {
	case errors.As(err, &exitErr):
		return ErrCodeStorage, exitErr.Code
	case errors.Is(err, service.ErrNotInitialized):
		return ErrCodeNotInitialized, ExitFailure
	case errors.As(err, &decodeErr):
		return ErrCodeDecode, ExitFailure
	case errors.As(err, &validationErr):
		return ErrCodeValidation, ExitFailure
	case errors.Is(err, service.ErrNotFound):
		return ErrCodeNotFound, ExitFailure
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, gate.ErrEmptyName),
		errors.Is(err, gate.ErrAlreadyInitialized),
		errors.Is(err, models.ErrUnknownCategory):
		return ErrCodeInvalidInput, ExitFailure
	default:
		return ErrCodeGeneric, ExitFailure
	}
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

// Result outputs a successful result: data as JSON, or text rendered by fn.
func (f *OutputFormatter) Result(data any, text func(w io.Writer)) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}
	text(f.Writer)
	return nil
}

// Fail outputs err in the configured format and returns an ExitError
// carrying the matching exit code.
func (f *OutputFormatter) Fail(err error) error {
	code, exit := classify(err)

	var validationErr *linking.ValidationError
	reason := ""
	if errors.As(err, &validationErr) {
		reason = string(validationErr.Reason)
	}

	if f.Format == "json" {
		json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: err.Error(), Reason: reason},
		})
	} else {
		fmt.Fprintf(f.errWriter(), "Error [%s]: %s\n", code, err)
	}
	exitErr := WrapExitError(exit, code, err)
	exitErr.reported = true
	return exitErr
}

// VerboseLog outputs a message only if verbose mode is enabled.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.errWriter(), format+"\n", args...)
}

func (f *OutputFormatter) errWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
