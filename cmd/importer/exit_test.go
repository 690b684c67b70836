package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/app"
	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/domain"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "success", err: nil, want: exitOK},
		{name: "incomplete run", err: fmt.Errorf("%w: 1 partial, 0 unreadable", domain.ErrRunIncomplete), want: exitIncomplete},
		{name: "canceled", err: context.Canceled, want: exitIncomplete},
		{name: "usage", err: fmt.Errorf("%w: dataset \"x\" not defined", app.ErrUsage), want: exitUsage},
		{name: "explicit code", err: withCode(exitUsage, errors.New("bad flag")), want: exitUsage},
		{name: "cobra required flag", err: errors.New(`required flag(s) "dataset" not set`), want: exitUsage},
		{name: "auth", err: &domain.AuthError{Reason: "login rejected"}, want: exitFatal},
		{name: "discovery", err: fmt.Errorf("%w: open /data: no such file", domain.ErrDiscovery), want: exitFatal},
		{name: "progress mismatch", err: domain.ErrProgressMismatch, want: exitFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestRootCmd_FlagErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing dataset", args: []string{"run"}},
		{name: "unknown flag", args: []string{"status", "--bogus"}},
		{name: "bad index", args: []string{"truncate", "--dataset", "x", "--index", "abc"}},
		{name: "unknown command", args: []string{"frobnicate"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newRootCmd()
			cmd.SetArgs(tt.args)
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})

			err := cmd.ExecuteContext(context.Background())
			assert.Error(t, err)
			assert.Equal(t, exitUsage, exitCode(err))
		})
	}
}
