package taskmanager

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tebeka/selenium"
)

// LookupError is returned when an element required by a flow is absent at
// the moment it is queried.
type LookupError struct {
	By, Value string
	Err       error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("element %s=%q not found: %v", e.By, e.Value, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// TimeoutError is returned when a guarded wait does not observe its
// condition within the policy timeout.
type TimeoutError struct {
	Condition string
	Timeout   time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %v waiting for %s", e.Timeout, e.Condition)
}

// SessionError is returned when a browser session cannot be started.
type SessionError struct {
	Err error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("unable to start browser session: %v", e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }

// W3C error codes the suite tells apart.
const (
	noSuchElement = "no such element"
	staleElement  = "stale element reference"
)

// IsNoSuchElement reports whether err is the driver telling us that an
// element lookup matched nothing.
func IsNoSuchElement(err error) bool {
	if err == nil {
		return false
	}
	var se *selenium.Error
	if errors.As(err, &se) {
		return se.Err == noSuchElement
	}
	// Legacy (non-W3C) drivers only give us the message.
	return strings.Contains(err.Error(), noSuchElement)
}

// IsStaleElement reports whether err says an element is no longer attached
// to the DOM.
func IsStaleElement(err error) bool {
	if err == nil {
		return false
	}
	var se *selenium.Error
	if errors.As(err, &se) {
		return se.Err == staleElement
	}
	return strings.Contains(err.Error(), staleElement)
}
