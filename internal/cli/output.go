package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Exit codes for storefrontctl.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // the operation ran and reported failure
	ExitCommandError = 2 // bad arguments or unreachable database
)

// ExitError carries the process exit code for a failed command.
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

func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error, defaulting to ExitFailure.
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

// OutputFormatter renders command results as text or JSON.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// Response is the JSON envelope for --format=json.
type Response struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Success prints text in text mode and data in JSON mode.
func (f *OutputFormatter) Success(text string, data any) error {
	if f.Format == "json" {
		return f.writeJSON(Response{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(f.Writer, text)
	return err
}

// Failure returns err for the exit code. In JSON mode the failure is also
// written to the output; text mode leaves reporting to main.
func (f *OutputFormatter) Failure(err error, data any) error {
	if f.Format == "json" {
		if writeErr := f.writeJSON(Response{Status: "error", Data: data, Error: err.Error()}); writeErr != nil {
			return writeErr
		}
	}
	return err
}

func (f *OutputFormatter) writeJSON(v any) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
