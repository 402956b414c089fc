package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
	ErrInvalidInput       = errors.New("invalid_input")
	ErrCodeSpaceExhausted = errors.New("could not allocate a unique link code")
)

// LinkErrorKind names why a link code was rejected.
type LinkErrorKind string

const (
	LinkCodeNotFound     LinkErrorKind = "code_not_found"
	LinkIdentityMismatch LinkErrorKind = "identity_mismatch"
	LinkAlreadyUsed      LinkErrorKind = "already_used"
	LinkExpired          LinkErrorKind = "expired"
)

// LinkError is a link-code verification failure. Message is safe to show
// to the end user.
type LinkError struct {
	Kind    LinkErrorKind
	Message string
}

func (e *LinkError) Error() string { return string(e.Kind) + ": " + e.Message }

// Is matches any *LinkError of the same Kind.
func (e *LinkError) Is(target error) bool {
	t, ok := target.(*LinkError)
	return ok && t.Kind == e.Kind
}

var (
	ErrCodeNotFound     = &LinkError{Kind: LinkCodeNotFound, Message: "link code not found"}
	ErrIdentityMismatch = &LinkError{Kind: LinkIdentityMismatch, Message: "link code was issued to a different account"}
	ErrAlreadyUsed      = &LinkError{Kind: LinkAlreadyUsed, Message: "link code has already been used"}
	ErrExpired          = &LinkError{Kind: LinkExpired, Message: "link code has expired"}
)

// LinkErrorKindOf returns the kind carried by err, or "" when err is not a
// link error.
func LinkErrorKindOf(err error) LinkErrorKind {
	var le *LinkError
	if errors.As(err, &le) {
		return le.Kind
	}
	return ""
}
