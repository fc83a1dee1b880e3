// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"nimbus-cli/internal/issue"
)

func TestNewServiceError_PanicsOnNilErr(t *testing.T) {
	t.Parallel()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on nil Err, got none")
		}
		msg, ok := r.(string)
		if !ok {
			t.Fatalf("expected string panic, got %T", r)
		}
		if msg != "ServiceError: Err must not be nil" {
			t.Fatalf("unexpected panic message: %s", msg)
		}
	}()

	newServiceError(nil, 0, "")
}

func TestServiceError_ErrorAndUnwrap(t *testing.T) {
	t.Parallel()

	underlying := errors.New("underlying error")
	svcErr := newServiceError(underlying, issue.CommandNotFoundId, "styled")

	if svcErr.Error() != "underlying error" {
		t.Errorf("Error() = %q, want %q", svcErr.Error(), "underlying error")
	}
	if !errors.Is(svcErr, underlying) {
		t.Error("errors.Is should find underlying error via Unwrap")
	}
	if svcErr.IssueID != issue.CommandNotFoundId {
		t.Errorf("IssueID = %d, want %d", svcErr.IssueID, issue.CommandNotFoundId)
	}
}

func TestRenderServiceError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		svcErr     *ServiceError
		verbose    bool
		wantExact  string
		wantLonger bool
	}{
		{name: "nil", svcErr: nil, wantExact: ""},
		{
			name:      "styled message only",
			svcErr:    newServiceError(errors.New("test"), 0, "styled output\n"),
			wantExact: "styled output\n",
		},
		{
			name:      "catalog skipped without verbose",
			svcErr:    newServiceError(errors.New("test"), issue.CommandNotFoundId, "only this"),
			wantExact: "only this",
		},
		{
			name:      "zero issue skips catalog in verbose mode",
			svcErr:    newServiceError(errors.New("test"), 0, "only this"),
			verbose:   true,
			wantExact: "only this",
		},
		{
			name:       "catalog rendered in verbose mode",
			svcErr:     newServiceError(errors.New("test"), issue.CommandNotFoundId, "styled: "),
			verbose:    true,
			wantLonger: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			renderServiceError(&buf, tt.svcErr, tt.verbose)
			if tt.wantLonger {
				if !strings.HasPrefix(buf.String(), "styled: ") || buf.Len() <= len("styled: ") {
					t.Errorf("expected styled message + issue content, got %q", buf.String())
				}
				return
			}
			if buf.String() != tt.wantExact {
				t.Errorf("output = %q, want %q", buf.String(), tt.wantExact)
			}
		})
	}
}

func TestFormatErrorForDisplay(t *testing.T) {
	t.Parallel()

	plain := errors.New("plain failure")
	if got := formatErrorForDisplay(plain, false); got != "plain failure" {
		t.Errorf("formatErrorForDisplay(plain) = %q", got)
	}

	actionable := issue.NewErrorContext().
		WithOperation("load plugins").
		WithSuggestion("Check the plugin directory").
		Wrap(errors.New("boom")).
		BuildError()
	got := formatErrorForDisplay(actionable, false)
	for _, want := range []string{"load plugins", "Check the plugin directory"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatErrorForDisplay(actionable) = %q, want it to contain %q", got, want)
		}
	}

	styled := styledMessage(plain, false)
	if !strings.Contains(styled, "Error:") || !strings.Contains(styled, "plain failure") {
		t.Errorf("styledMessage() = %q", styled)
	}
}
