// Package errkind classifies failures into a closed set of kinds and maps each
// kind to the message shown to the user.
package errkind

import (
	"context"
	"errors"
	"fmt"
)

// Kind is a user-facing failure category.
type Kind int

const (
	Unknown Kind = iota
	EmptyInput
	InvalidURL
	InvalidAlias
	AliasTaken
	Network
	Service
	Persistence
	InvalidCredentials
	EmailInUse
	WeakPassword
	InvalidEmail
	TooManyAttempts
	UserDisabled
	Cancelled
	SessionExpired
	NotConfigured
)

var names = map[Kind]string{
	Unknown:            "unknown",
	EmptyInput:         "empty_input",
	InvalidURL:         "invalid_url",
	InvalidAlias:       "invalid_alias",
	AliasTaken:         "alias_taken",
	Network:            "network",
	Service:            "service",
	Persistence:        "persistence",
	InvalidCredentials: "invalid_credentials",
	EmailInUse:         "email_in_use",
	WeakPassword:       "weak_password",
	InvalidEmail:       "invalid_email",
	TooManyAttempts:    "too_many_attempts",
	UserDisabled:       "user_disabled",
	Cancelled:          "cancelled",
	SessionExpired:     "session_expired",
	NotConfigured:      "not_configured",
}

func (k Kind) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	return names[Unknown]
}

// Message returns the user-facing text for a kind.
func Message(k Kind) string {
	switch k {
	case EmptyInput:
		return "Please enter a URL"
	case InvalidURL:
		return "Invalid URL. Please enter a valid URL with a proper domain."
	case InvalidAlias:
		return "Custom alias may only use letters, digits, '-' and '_' (3-64 characters)."
	case AliasTaken:
		return "That custom alias is already taken."
	case Network:
		return "Could not reach the server. Check your connection and try again."
	case Service:
		return "Failed to shorten URL. Please try again."
	case Persistence:
		return "History could not be saved on this machine."
	case InvalidCredentials:
		return "Incorrect email or password."
	case EmailInUse:
		return "An account with this email already exists."
	case WeakPassword:
		return "Password should be at least 6 characters."
	case InvalidEmail:
		return "Please enter a valid email address."
	case TooManyAttempts:
		return "Too many attempts. Please wait a moment and try again."
	case UserDisabled:
		return "This account has been disabled."
	case Cancelled:
		return "Sign-in was cancelled."
	case SessionExpired:
		return "Your session has expired. Please sign in again."
	case NotConfigured:
		return "Sign-in is not configured. Set identity.api_key in config.yaml."
	default:
		return "Something went wrong. Please try again."
	}
}

// Error tags an underlying error with a Kind and the operation that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// New wraps err with kind and op.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Err != nil:
		return e.Err.Error()
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Of returns the kind of the outermost tagged error in err's chain, or
// Unknown. Context cancellation is reported as Cancelled.
func Of(err error) Kind {
	if err == nil {
		return Unknown
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, context.Canceled) {
		return Cancelled
	}
	return Unknown
}

// Is reports whether err carries kind k.
func Is(err error, k Kind) bool {
	return Of(err) == k
}

// UserMessage is shorthand for Message(Of(err)).
func UserMessage(err error) string {
	return Message(Of(err))
}
