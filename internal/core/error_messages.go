package core

// error_messages.go turns technical errors into messages a coach can act on.
//
// Every message carries a code that can be quoted when asking for help:
//
//	IMP001  File is not a recognized GameChanger export     (gamechanger.ErrHeaderNotFound)
//	IMP002  The export has no player rows                   (ErrNoPlayerRows)
//	IMP003  Import preview not found or expired             (ErrPreviewNotFound)
//	IMP004  One of the row decisions is not valid           (ErrInvalidResolution)
//	IMP005  Too many imports running                        (ErrTooManyImports)
//	IMP006  Request is missing the team, season or name     (ErrInvalidRequest)
//	FILE001 File too large                                  "file too large"
//	FILE002 File is not valid CSV                           "invalid csv"
//	FILE003 File contains invalid characters                "encoding error"
//	FILE004 No file selected                                "no file provided"
//	FILE005 File is empty                                   "empty file"
//	DB001   Record already exists                           "duplicate key"
//	DB002   Referenced player or team does not exist        "foreign key"
//	DB003   Database unreachable                            "connection refused"
//	DB004   Database connection interrupted                 "connection reset"
//	DB005   Database busy                                   "deadlock"
//	DB006   Operation timed out                             "timeout", "deadline exceeded"
//	RATE001 Too many requests                               "rate limit"
//	ERR000  Anything else
//
// Sentinel errors are matched with errors.Is first; the remaining codes fall
// back to a case-insensitive substring match on the error text, first match
// wins.

import (
	"errors"
	"fmt"
	"strings"

	"github.com/martyvasquez/lineupai-sub000/internal/gamechanger"
)

// UserMessage is what the UI shows for an error.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action"`
	Code    string `json:"code"`
}

var (
	msgHeaderNotFound = UserMessage{
		Message: "File is not a recognized GameChanger export",
		Action:  "Export season stats from GameChanger as CSV and upload that file without editing the header row",
		Code:    "IMP001",
	}
	msgNoPlayerRows = UserMessage{
		Message: "The export has no player rows",
		Action:  "Check that the season has recorded games before exporting",
		Code:    "IMP002",
	}
	msgPreviewNotFound = UserMessage{
		Message: "Import preview not found or expired",
		Action:  "Upload the export again to start a new preview",
		Code:    "IMP003",
	}
	msgInvalidResolution = UserMessage{
		Message: "One of the row decisions is not valid",
		Action:  "Review the highlighted rows and choose a roster player for each one only once",
		Code:    "IMP004",
	}
	msgTooManyImports = UserMessage{
		Message: "Other imports are still being processed",
		Action:  "Please wait a moment and try again",
		Code:    "IMP005",
	}
	msgInvalidRequest = UserMessage{
		Message: "The request is missing required information",
		Action:  "Pick a season and fill in every required field",
		Code:    "IMP006",
	}
)

// typedErrors are checked with errors.Is before any text matching.
var typedErrors = []struct {
	target error
	msg    UserMessage
}{
	{gamechanger.ErrHeaderNotFound, msgHeaderNotFound},
	{ErrNoPlayerRows, msgNoPlayerRows},
	{ErrPreviewNotFound, msgPreviewNotFound},
	{ErrInvalidResolution, msgInvalidResolution},
	{ErrTooManyImports, msgTooManyImports},
	{ErrInvalidRequest, msgInvalidRequest},
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns is ordered specific to general.
var errorPatterns = []errorPattern{
	// Import
	{"header not found", msgHeaderNotFound},
	{"no player rows", msgNoPlayerRows},
	{"preview not found", msgPreviewNotFound},
	{"invalid resolution", msgInvalidResolution},
	{"too many imports", msgTooManyImports},
	{"invalid import request", msgInvalidRequest},

	// File
	{"file too large", UserMessage{
		Message: "File exceeds the maximum upload size",
		Action:  "GameChanger season exports are small; make sure you picked the right file",
		Code:    "FILE001",
	}},
	{"invalid csv", UserMessage{
		Message: "File is not a valid CSV",
		Action:  "Upload the CSV exactly as GameChanger exported it",
		Code:    "FILE002",
	}},
	{"encoding error", UserMessage{
		Message: "File contains invalid characters",
		Action:  "Save the file with UTF-8 encoding",
		Code:    "FILE003",
	}},
	{"no file provided", UserMessage{
		Message: "No file was selected",
		Action:  "Choose a GameChanger CSV export to upload",
		Code:    "FILE004",
	}},
	{"empty file", UserMessage{
		Message: "The uploaded file is empty",
		Action:  "Upload a GameChanger export that contains player rows",
		Code:    "FILE005",
	}},

	// Database
	{"duplicate key", UserMessage{
		Message: "A record with this ID already exists",
		Action:  "Refresh the roster and try the import again",
		Code:    "DB001",
	}},
	{"foreign key", UserMessage{
		Message: "A referenced player or team does not exist",
		Action:  "Refresh the roster; a player may have been removed",
		Code:    "DB002",
	}},
	{"connection refused", UserMessage{
		Message: "Unable to connect to database",
		Action:  "Please try again in a few moments",
		Code:    "DB003",
	}},
	{"connection reset", UserMessage{
		Message: "Database connection was interrupted",
		Action:  "Please try again",
		Code:    "DB004",
	}},
	{"deadlock", UserMessage{
		Message: "Database was busy with conflicting operations",
		Action:  "Please try again",
		Code:    "DB005",
	}},
	{"deadline exceeded", UserMessage{
		Message: "Operation timed out",
		Action:  "Please try again later",
		Code:    "DB006",
	}},
	{"timeout", UserMessage{
		Message: "Operation timed out",
		Action:  "Please try again later",
		Code:    "DB006",
	}},

	// Rate limiting
	{"rate limit", UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError returns the user message for err. A nil error maps to the zero
// UserMessage.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var ue *UserError
	if errors.As(err, &ue) {
		return ue.User
	}

	for _, te := range typedErrors {
		if errors.Is(err, te.target) {
			return te.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders err as a single line for plain-text responses.
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to something more specific than
// ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs the technical error (for logs) with its user message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError wraps err with its mapped message. Returns nil for nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
