// Package coorerr defines the error taxonomy shared by every orchestration
// component: registries, the graph, the workflow service and the
// evaluation harness all report failures through the same Kind set so
// callers can branch on cause instead of parsing strings.
package coorerr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure the way the orchestration engine needs to act
// on it (terminate the run, feed it back into a Proxy loop, or surface it
// as a management-endpoint response).
type Kind string

const (
	ValidationError Kind = "ValidationError"
	NotFound        Kind = "NotFound"
	AlreadyExists   Kind = "AlreadyExists"
	ProtocolError   Kind = "ProtocolError"
	ToolError       Kind = "ToolError"
	LMError         Kind = "LMError"
	Cancelled       Kind = "Cancelled"
	Internal        Kind = "Internal"
)

// Error is the concrete error type returned by every component in this
// module. Component/Action describe where the failure happened, Message
// is a human-readable summary, and Err (when present) is the wrapped
// cause.
type Error struct {
	Kind      Kind
	Component string
	Action    string
	Message   string
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Component, e.Action, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Component, e.Action, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match on Kind alone: a target of
// &Error{Kind: NotFound} matches any *Error of that kind regardless of
// which component produced it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind != "" && t.Kind == e.Kind
}

// New constructs an *Error for the given kind/component/action.
func New(kind Kind, component, action, message string, err error) *Error {
	return &Error{Kind: kind, Component: component, Action: action, Message: message, Err: err}
}

// KindOf returns the Kind of err, or Internal if err is not a *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}
