package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/maticai/matic/internal/logger"
)

// transient is implemented by errors that may succeed when retried later,
// such as an AI provider reporting that it is overloaded.
type transient interface {
	Temporary() bool
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	if IsTransient(err) {
		return fmt.Sprintf("Error: %v (temporary, try again in a moment)", err)
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// IsTransient reports whether any error in err's chain declares itself temporary.
func IsTransient(err error) bool {
	var t transient
	if stderrors.As(err, &t) {
		return t.Temporary()
	}
	return false
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
