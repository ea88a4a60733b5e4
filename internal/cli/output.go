package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/inovasi-informatika/spp-admin/internal/handler"
	"github.com/inovasi-informatika/spp-admin/internal/response"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Rejected operation (validation, duplicate payment, API refusal)
	ExitCommandError = 2 // Records API unreachable or command error
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error

	// reported is set once the error has already been written for the user.
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

// GetExitCode extracts the exit code from an error.
// Returns ExitCommandError (2) if the error is not an ExitError, which covers
// bad flags, wrong argument counts and unknown commands.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string      `json:"status"` // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`
	Error  *CLIError   `json:"error,omitempty"`
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    response.ErrCode `json:"code"`
	Message string           `json:"message"`
}

// Success writes data as JSON, or calls text to render it for humans.
func (f *OutputFormatter) Success(data interface{}, text func(w io.Writer) error) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	}
	return text(f.Writer)
}

// Fail reports err in the configured format and returns the ExitError the
// command should return.
func (f *OutputFormatter) Fail(err error) error {
	status, code, message := handler.Classify(err)
	if message == "" {
		message = response.GetMessage(code)
	}

	exitCode := ExitFailure
	if status >= http.StatusInternalServerError {
		exitCode = ExitCommandError
	}
	return f.report(exitCode, code, message, err)
}

// Refuse reports a command that was not run at all, such as a destructive
// action without confirmation.
func (f *OutputFormatter) Refuse(code response.ErrCode, message string) error {
	if message == "" {
		message = response.GetMessage(code)
	}
	return f.report(ExitCommandError, code, message, nil)
}

func (f *OutputFormatter) report(exitCode int, code response.ErrCode, message string, err error) error {
	if f.Format == "json" {
		_ = json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message},
		})
	} else {
		w := f.ErrWriter
		if w == nil {
			w = f.Writer
		}
		fmt.Fprintf(w, "Error [%s]: %s\n", code, message)
	}
	return &ExitError{Code: exitCode, Message: message, Err: err, reported: true}
}
