package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/corvid-labs/stanza/internal/ledger"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // successful execution
	ExitFailure      = 1 // ledger rejection or failed scenario
	ExitCommandError = 2 // command error (bad flags, unreadable database, etc.)
)

// ExitError carries a specific exit code out of a command.
type ExitError struct {
	Code    int
	Message string
	Err     error
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

// NewExitError creates an ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error. Ledger rejections
// map to ExitFailure; anything else unrecognized does too.
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

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // diagnostic output, defaults to Writer
	Verbose   bool
}

// Response is the standard JSON envelope for CLI output.
type Response struct {
	Status string         `json:"status"` // "ok" or "error"
	Data   any            `json:"data,omitempty"`
	Error  *ResponseError `json:"error,omitempty"`
}

// ResponseError is the error structure inside a Response.
type ResponseError struct {
	Code    string `json:"code"`  // ledger rejection code or "COMMAND_ERROR"
	Class   string `json:"class"` // rejection class for coarse branching
	Message string `json:"message"`
}

// Success emits a successful result. In text mode, data is printed
// with fmt; commands wanting richer text output should print directly
// and call SuccessJSON only in JSON mode.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(Response{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// JSON reports whether the formatter is in JSON mode.
func (f *OutputFormatter) JSON() bool { return f.Format == "json" }

// Reject emits a ledger rejection in the configured format and
// returns an ExitError carrying ExitFailure.
func (f *OutputFormatter) Reject(err error) error {
	code := string(ledger.CodeOf(err))
	class := string(ledger.ClassOf(err))
	if code == "" {
		code = "COMMAND_ERROR"
	}

	if f.Format == "json" {
		_ = json.NewEncoder(f.Writer).Encode(Response{
			Status: "error",
			Error:  &ResponseError{Code: code, Class: class, Message: err.Error()},
		})
	} else {
		fmt.Fprintf(f.Writer, "rejected [%s]: %v\n", code, err)
	}
	return WrapExitError(ExitFailure, "operation rejected", err)
}

// VerboseLog emits a message only in verbose mode. Diagnostics go to
// ErrWriter so JSON output stays parseable.
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
