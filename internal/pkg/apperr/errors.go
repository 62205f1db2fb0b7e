// Package apperr holds the error outcomes shared by services and the HTTP edge.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("admin access required")
	// ErrNotFoundOrDenied covers both a missing row and a row the caller does
	// not own, so non-owners cannot probe for existence.
	ErrNotFoundOrDenied = errors.New("not found or access denied")

	ErrInvalidRepositoryURL = errors.New("invalid repository url")
	ErrTokenMissing         = errors.New("repository token not found")
	ErrNotConnected         = errors.New("project not connected to a repository")
	ErrProviderUnavailable  = errors.New("repository provider unavailable")
	ErrOAuthExchangeFailed  = errors.New("oauth code exchange failed")
	ErrInvalidState         = errors.New("invalid oauth state")

	ErrInvalidInput        = errors.New("invalid input")
	ErrAttachmentsDisabled = errors.New("attachments are not enabled")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailTaken          = errors.New("email already registered")
)

// OAuthError is the provider's rejection of an authorization code.
type OAuthError struct {
	Code        string
	Description string
}

func (e *OAuthError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("oauth error: %s", e.Code)
	}
	return fmt.Sprintf("oauth error: %s: %s", e.Code, e.Description)
}

func (e *OAuthError) Is(target error) bool {
	return target == ErrOAuthExchangeFailed
}

// Provider marks err as a repository provider failure while keeping the cause.
func Provider(err error) error {
	if err == nil || errors.Is(err, ErrProviderUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
}

// Invalid wraps a validation message as ErrInvalidInput.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
