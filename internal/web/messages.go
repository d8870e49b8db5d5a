package web

// messages.go maps errors to user-facing messages with support codes.
//
// Codes are grouped by category:
//
//	VIEW001 - Invalid date: a date value or date filter could not be parsed
//	VIEW002 - Unknown column: the column is not part of the view's schema
//	VIEW003 - View not found: the view expired or never existed
//	VIEW004 - Too many views: the server's open view limit was reached
//	VIEW005 - Invalid position: a row position or page number is not a number
//	VIEW006 - Invalid page action: the pager action is not recognised
//	DATA001 - Dataset not found: no dataset is registered under the key
//	DATA002 - Invalid body: the request body is not a JSON object or form
//	RATE001 - Rate limited: too many requests
//	ERR000  - Unknown error: check the server log for the request ID
//
// Sentinel errors are matched with errors.Is first; the text patterns
// catch errors that cross package boundaries as plain strings.

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/tableview/internal/dataset"
	"github.com/JonMunkholm/tableview/internal/view"
)

var (
	ErrViewNotFound      = errors.New("view not found")
	ErrTooManyViews      = errors.New("too many open views")
	ErrInvalidPosition   = errors.New("invalid position")
	ErrInvalidPageAction = errors.New("invalid page action")
	ErrInvalidBody       = errors.New("invalid request body")
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var (
	msgInvalidDate = UserMessage{
		Message: "A date value could not be read",
		Action:  "Use YYYY-MM-DD, MM/DD/YYYY, or Jan 15, 2024",
		Code:    "VIEW001",
	}
	msgUnknownColumn = UserMessage{
		Message: "That column is not part of this table",
		Action:  "Pick one of the table's columns",
		Code:    "VIEW002",
	}
	msgViewNotFound = UserMessage{
		Message: "This view has expired",
		Action:  "Open the dataset again from the dashboard",
		Code:    "VIEW003",
	}
	msgTooManyViews = UserMessage{
		Message: "Too many views are open",
		Action:  "Please wait a moment and try again",
		Code:    "VIEW004",
	}
	msgInvalidPosition = UserMessage{
		Message: "Row or page number is not valid",
		Action:  "Refresh the view and try again",
		Code:    "VIEW005",
	}
	msgInvalidPageAction = UserMessage{
		Message: "Unknown pager action",
		Action:  "Refresh the view and try again",
		Code:    "VIEW006",
	}
	msgDatasetNotFound = UserMessage{
		Message: "Dataset not found",
		Action:  "Verify the dataset name is correct",
		Code:    "DATA001",
	}
	msgInvalidBody = UserMessage{
		Message: "The request could not be read",
		Action:  "Send a JSON object or form fields named after the columns",
		Code:    "DATA002",
	}
	msgRateLimited = UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}
)

// errorTargets is checked in order with errors.Is.
var errorTargets = []struct {
	target error
	msg    UserMessage
}{
	{view.ErrInvalidDateValue, msgInvalidDate},
	{view.ErrUnknownColumn, msgUnknownColumn},
	{ErrViewNotFound, msgViewNotFound},
	{ErrTooManyViews, msgTooManyViews},
	{ErrInvalidPosition, msgInvalidPosition},
	{ErrInvalidPageAction, msgInvalidPageAction},
	{dataset.ErrNotFound, msgDatasetNotFound},
	{ErrInvalidBody, msgInvalidBody},
}

// errorPatterns maps lower-case substrings to messages. The first match wins.
var errorPatterns = []struct {
	pattern string
	msg     UserMessage
}{
	{"invalid date", msgInvalidDate},
	{"rate limit", msgRateLimited},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. A nil
// error maps to the zero UserMessage.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}
	for _, t := range errorTargets {
		if errors.Is(err, t.target) {
			return t.msg
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

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
