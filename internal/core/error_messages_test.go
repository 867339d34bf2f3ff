package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/martyvasquez/lineupai-sub000/internal/gamechanger"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{name: "nil error returns empty", err: nil, wantCode: ""},
		{name: "header not found", err: &gamechanger.HeaderNotFoundError{RowsScanned: 5}, wantCode: "IMP001"},
		{name: "wrapped header not found", err: fmt.Errorf("parse export: %w", gamechanger.ErrHeaderNotFound), wantCode: "IMP001"},
		{name: "no player rows", err: ErrNoPlayerRows, wantCode: "IMP002"},
		{name: "preview not found", err: fmt.Errorf("commit: %w", ErrPreviewNotFound), wantCode: "IMP003"},
		{name: "invalid resolution", err: fmt.Errorf("%w: row 9 does not exist", ErrInvalidResolution), wantCode: "IMP004"},
		{name: "too many imports", err: ErrTooManyImports, wantCode: "IMP005"},
		{name: "invalid request", err: fmt.Errorf("%w: season required", ErrInvalidRequest), wantCode: "IMP006"},
		{name: "text only header not found", err: errors.New("remote: Header Not Found"), wantCode: "IMP001"},
		{name: "file too large", err: errors.New("file too large: 9000000 bytes exceeds 5242880"), wantCode: "FILE001"},
		{name: "invalid csv", err: errors.New("parse export: invalid csv: bare quote"), wantCode: "FILE002"},
		{name: "no file", err: errors.New("no file provided"), wantCode: "FILE004"},
		{name: "empty file", err: ErrEmptyFile, wantCode: "FILE005"},
		{name: "duplicate key", err: errors.New(`ERROR: duplicate key value violates unique constraint "players_pkey"`), wantCode: "DB001"},
		{name: "foreign key", err: errors.New("violates foreign key constraint"), wantCode: "DB002"},
		{name: "connection refused", err: errors.New("dial tcp 127.0.0.1:5432: connection refused"), wantCode: "DB003"},
		{name: "deadline exceeded", err: fmt.Errorf("save season stats: %w", context.DeadlineExceeded), wantCode: "DB006"},
		{name: "rate limit", err: errors.New("rate limit exceeded"), wantCode: "RATE001"},
		{name: "case insensitive", err: errors.New("DUPLICATE KEY value"), wantCode: "DB001"},
		{name: "unknown", err: errors.New("some random internal error"), wantCode: "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if tt.err != nil && got.Message == "" {
				t.Error("MapError() returned an empty message")
			}
		})
	}
}

func TestMapError_HeaderNotFoundMessage(t *testing.T) {
	got := MapError(&gamechanger.HeaderNotFoundError{RowsScanned: 3})
	if got.Message != "File is not a recognized GameChanger export" {
		t.Errorf("Message = %q", got.Message)
	}
}

func TestMapError_UserErrorPassesThrough(t *testing.T) {
	ue := &UserError{Technical: errors.New("boom"), User: UserMessage{Message: "custom", Code: "X1"}}
	if got := MapError(fmt.Errorf("wrapped: %w", ue)); got.Code != "X1" {
		t.Errorf("MapError() code = %q, want X1", got.Code)
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(ErrPreviewNotFound)
	want := "Import preview not found or expired (Code: IMP003). Upload the export again to start a new preview"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}
	if FormatUserError(nil) != "" {
		t.Error("FormatUserError(nil) should be empty")
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error is not user facing", err: nil, want: false},
		{name: "known error is user facing", err: ErrTooManyImports, want: true},
		{name: "unknown error is not user facing", err: errors.New("random internal error xyz"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if got := NewUserError(nil); got != nil {
			t.Errorf("NewUserError(nil) = %v, want nil", got)
		}
	})

	t.Run("wraps technical error with user message", func(t *testing.T) {
		techErr := fmt.Errorf("parse export: %w", gamechanger.ErrHeaderNotFound)
		userErr := NewUserError(techErr)

		if userErr.Error() != "File is not a recognized GameChanger export" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}
		if !errors.Is(userErr, gamechanger.ErrHeaderNotFound) {
			t.Error("Unwrap() should expose the original error")
		}
	})
}
