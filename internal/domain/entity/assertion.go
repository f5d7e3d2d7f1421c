package entity

import "fmt"

// AssertionError is raised by page-load assertions when an expectation is not met.
type AssertionError struct {
	Page    string
	Message string
}

func NewAssertionError(page, format string, args ...any) *AssertionError {
	return &AssertionError{Page: page, Message: fmt.Sprintf(format, args...)}
}

func (e *AssertionError) Error() string {
	if e.Page == "" {
		return "assertion failed: " + e.Message
	}
	return fmt.Sprintf("assertion failed on %s: %s", e.Page, e.Message)
}

func (e *AssertionError) Is(target error) bool {
	return target == ErrAssertion
}
