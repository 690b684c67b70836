package main

import (
	"context"
	"errors"
	"strings"

	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/app"
	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/domain"
)

const (
	exitOK         = 0
	exitIncomplete = 1
	exitUsage      = 2
	exitFatal      = 3
)

type codedError struct {
	code int
	err  error
}

func (e *codedError) Error() string {
	return e.err.Error()
}

func (e *codedError) Unwrap() error {
	return e.err
}

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &codedError{code: code, err: err}
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}

	var coded *codedError
	switch {
	case errors.As(err, &coded):
		return coded.code
	case errors.Is(err, app.ErrUsage):
		return exitUsage
	case errors.Is(err, domain.ErrRunIncomplete),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return exitIncomplete
	case isCobraUsage(err):
		return exitUsage
	default:
		return exitFatal
	}
}

// cobra reports argument and required-flag problems as plain errors.
var cobraUsagePrefixes = []string{
	"required flag(s)",
	"unknown command",
	"unknown flag",
	"unknown shorthand flag",
	"accepts ",
	"invalid argument",
}

func isCobraUsage(err error) bool {
	msg := err.Error()
	for _, p := range cobraUsagePrefixes {
		if strings.HasPrefix(msg, p) {
			return true
		}
	}
	return false
}
