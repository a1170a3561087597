package main

import (
	"context"
	"errors"

	"github.com/isseis/go-passgen/internal/digest"
	"github.com/isseis/go-passgen/internal/expansion"
	"github.com/isseis/go-passgen/internal/mask"
	"github.com/isseis/go-passgen/internal/table"
)

// Process exit codes
const (
	exitSuccess            = 0
	exitFailure            = 1
	exitNoTablesFound      = 1
	exitNoPasswordProvided = 2
	exitUnknownCharacter   = 3
	exitMalformedTable     = 4
	exitMaskError          = 5
	exitUnsupportedHash    = 6
	exitInterrupted        = 130
)

// exitCodeFor maps a pipeline error to the process exit code.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	case errors.Is(err, expansion.ErrEmptyBase):
		return exitNoPasswordProvided
	case errors.Is(err, table.ErrUnknownCharacter):
		return exitUnknownCharacter
	case errors.Is(err, table.ErrMalformedTable), errors.Is(err, table.ErrUnsupportedFormat):
		return exitMalformedTable
	case errors.Is(err, mask.ErrMaskTooLong), errors.Is(err, mask.ErrInvalidMask):
		return exitMaskError
	case errors.Is(err, digest.ErrUnsupportedAlgorithm):
		return exitUnsupportedHash
	case errors.Is(err, table.ErrNoTables):
		return exitNoTablesFound
	default:
		return exitFailure
	}
}
