package errors

import (
	"context"
	stderrors "errors"
	"fmt"
)

// Families. Every specific error below wraps exactly one of them so callers
// can branch with errors.Is on the family alone.
var (
	ErrValidation        = fmt.Errorf("validation error")
	ErrNotFound          = fmt.Errorf("not found")
	ErrPermissionDenied  = fmt.Errorf("permission denied")
	ErrStaleReactivation = fmt.Errorf("post is too old to be reactivated")
	ErrTransientStore    = fmt.Errorf("store unavailable")
	ErrConflict          = fmt.Errorf("concurrent modification")
)

var (
	ErrMissingFields    = fmt.Errorf("%w: please fill out all fields", ErrValidation)
	ErrWeakPassword     = fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	ErrPasswordMismatch = fmt.Errorf("%w: passwords do not match", ErrValidation)
	ErrInvalidEmail     = fmt.Errorf("%w: invalid email address", ErrValidation)
	ErrEmptyMessage     = fmt.Errorf("%w: message text is empty", ErrValidation)
	ErrEmptyDescription = fmt.Errorf("%w: description is empty", ErrValidation)
	ErrUnknownCategory  = fmt.Errorf("%w: unknown category", ErrValidation)
	ErrUnknownStatus    = fmt.Errorf("%w: unknown status", ErrValidation)
	ErrInvalidChannel   = fmt.Errorf("%w: a channel needs two distinct participants", ErrValidation)
	ErrInvalidBlob      = fmt.Errorf("%w: unsupported file type", ErrValidation)
	ErrInvalidDocument  = fmt.Errorf("%w: invalid document", ErrValidation)

	ErrPostNotFound    = fmt.Errorf("%w: post", ErrNotFound)
	ErrChannelNotFound = fmt.Errorf("%w: channel", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("%w: user", ErrNotFound)

	ErrNotCreator           = fmt.Errorf("%w: only the post creator can do this", ErrPermissionDenied)
	ErrSelfInterest         = fmt.Errorf("%w: you cannot accept your own post", ErrPermissionDenied)
	ErrPostNotActive        = fmt.Errorf("%w: post is no longer active", ErrPermissionDenied)
	ErrNotInterested        = fmt.Errorf("%w: user has not expressed interest", ErrPermissionDenied)
	ErrNotParticipant       = fmt.Errorf("%w: sender is not a participant of this chat", ErrPermissionDenied)
	ErrAwaitingConfirmation = fmt.Errorf("%w: waiting for confirmation from the post owner", ErrPermissionDenied)

	ErrAlreadyExists      = fmt.Errorf("document already exists")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrNotSignedIn        = fmt.Errorf("not signed in")

	ErrWorkerPanic = fmt.Errorf("worker panic")
	ErrEmptyWords  = fmt.Errorf("no words have been found")
)

// Transient wraps a backend failure so it classifies as ErrTransientStore.
// Context deadlines are folded in as well since every store call runs under a timeout.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, ErrTransientStore) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrTransientStore, err)
}

// IsRetryable reports whether retrying the same operation may succeed.
func IsRetryable(err error) bool {
	return stderrors.Is(err, ErrTransientStore) ||
		stderrors.Is(err, ErrConflict) ||
		stderrors.Is(err, context.DeadlineExceeded)
}

// Notification is what the presentation layer shows when an action fails.
type Notification struct {
	Title     string
	Message   string
	Retryable bool
}

// Notify converts a failure caught at the point of user action into a
// user-facing notification. action is the fallback title, e.g. "Accept Failed".
func Notify(err error, action string) Notification {
	if action == "" {
		action = "Error"
	}
	switch {
	case stderrors.Is(err, ErrMissingFields):
		return Notification{Title: "Missing Fields", Message: "Please fill out all fields."}
	case stderrors.Is(err, ErrWeakPassword):
		return Notification{Title: "Weak Password", Message: "Password must be at least 6 characters."}
	case stderrors.Is(err, ErrPasswordMismatch):
		return Notification{Title: "Password Mismatch", Message: "Passwords do not match."}
	case stderrors.Is(err, ErrUserAlreadyExists):
		return Notification{Title: "Sign Up Failed", Message: "That email address is already in use."}
	case stderrors.Is(err, ErrInvalidCredentials):
		return Notification{Title: "Login Failed", Message: "Invalid email or password."}
	case stderrors.Is(err, ErrAwaitingConfirmation):
		return Notification{Title: "Chat Locked", Message: "Waiting for confirmation from the post owner."}
	case stderrors.Is(err, ErrStaleReactivation):
		return Notification{Title: action, Message: "Posts older than two hours cannot be reactivated."}
	case stderrors.Is(err, ErrValidation),
		stderrors.Is(err, ErrNotFound),
		stderrors.Is(err, ErrPermissionDenied),
		stderrors.Is(err, ErrNotSignedIn):
		return Notification{Title: action, Message: err.Error()}
	case IsRetryable(err):
		return Notification{Title: action, Message: "The service is unreachable, please try again.", Retryable: true}
	case err == nil:
		return Notification{}
	default:
		return Notification{Title: action, Message: "An unknown error occurred."}
	}
}

// Is mirrors the standard library so callers importing this package keep errors.Is at hand.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}
