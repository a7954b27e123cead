package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy. Handlers map these to HTTP status codes; services wrap
// them with context via fmt.Errorf("%w: ...").
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrInternal        = errors.New("internal error")
)

// Auth errors
var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrTokenInvalid       = fmt.Errorf("%w: invalid or expired token", ErrUnauthorized)
	ErrUsernameTaken      = fmt.Errorf("%w: username already exists", ErrInvalidArgument)
	ErrEmailTaken         = fmt.Errorf("%w: email already exists", ErrInvalidArgument)
)

// User errors
var (
	ErrUserNotFound = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrSelfFollow   = fmt.Errorf("%w: cannot follow yourself", ErrInvalidArgument)
)

// Blog errors
var (
	ErrBlogNotFound = fmt.Errorf("%w: blog not found", ErrNotFound)
	ErrNotBlogOwner = fmt.Errorf("%w: only the owner can modify this blog", ErrForbidden)
	ErrNoContext    = fmt.Errorf("%w: no relevant context found", ErrInvalidArgument)
)
