package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const minPostContentLength = 10

// ErrValidation is the root of every field-level validation failure. Callers
// classify with a single errors.Is(err, ErrValidation); the specific sentinel
// carries the user-facing message.
var (
	ErrValidation      = errors.New("validation failed")
	ErrInvalidID       = fmt.Errorf("%w: invalid id", ErrValidation)
	ErrInvalidUserID   = fmt.Errorf("%w: invalid user id", ErrValidation)
	ErrEmptyTitle      = fmt.Errorf("%w: title cannot be empty", ErrValidation)
	ErrContentTooShort = fmt.Errorf("%w: content must be at least 10 characters long", ErrValidation)
	ErrMissingFields   = fmt.Errorf("%w: missing required fields", ErrValidation)
	ErrUnknownRole     = fmt.Errorf("%w: unknown role", ErrValidation)
)

// ValidateID checks a client-supplied numeric identifier. Zero and negative
// values never identify a persisted entity.
func ValidateID(id int64) error {
	if id < 1 {
		return ErrInvalidID
	}
	return nil
}

// ValidateNewPost enforces the creation rules for a post: a non-empty title
// and at least 10 characters of content, both measured after trimming, and a
// positive authoring user id.
func ValidateNewPost(title, content string, userID int64) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(strings.TrimSpace(content)) < minPostContentLength {
		return ErrContentTooShort
	}
	if userID < 1 {
		return ErrInvalidUserID
	}
	return nil
}

// ValidateSignUp checks that every mandatory sign-up field is present.
func ValidateSignUp(name, email, password string) error {
	if name == "" || email == "" || password == "" {
		return ErrMissingFields
	}
	return nil
}
