// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Catalog operations
	OpCatalogOpen   Op = "open catalog"
	OpCatalogAdd    Op = "add track"
	OpCatalogUpload Op = "attach upload"
	OpCatalogImport Op = "import"
	OpCatalogList   Op = "list tracks"
	OpCatalogSearch Op = "search catalog"
	OpCatalogRemove Op = "remove track"

	// Playback operations
	OpQueueBuild    Op = "build queue"
	OpPlaybackStart Op = "start playback"

	// Integrations
	OpMediaKeys Op = "register media keys"

	// Initialization
	OpConfigLoad Op = "load configuration"
	OpLogSetup   Op = "set up logging"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}

// Error wraps err so that its message is the formatted one while errors.Is
// still sees the cause.
func Error(op Op, context string, err error) error {
	if err == nil {
		return nil
	}
	return &opError{msg: FormatWith(op, context, err), err: err}
}

type opError struct {
	msg string
	err error
}

func (e *opError) Error() string { return e.msg }
func (e *opError) Unwrap() error { return e.err }
