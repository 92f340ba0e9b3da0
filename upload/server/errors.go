package server

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvalidArgument is returned for a nil or malformed client.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDisposed is returned by mutating calls made after Dispose.
	ErrDisposed = errors.New("already disposed")
)
