package query

import (
	"errors"
	"strings"

	ts3 "github.com/multiplay/go-ts3"
)

// emptyResultID is the ServerQuery error for "database empty result set".
// List commands raise it when no rows exist, which callers must treat as a
// successful empty list rather than a failure.
const emptyResultID = 1281

// IsEmptyResult reports whether err is the empty-result-set protocol error.
func IsEmptyResult(err error) bool {
	if err == nil {
		return false
	}

	var qerr *ts3.Error
	if errors.As(err, &qerr) && qerr.ID == emptyResultID {
		return true
	}

	msg := strings.ToLower(err.Error())

	return strings.Contains(msg, "empty result") || strings.Contains(msg, "database empty")
}
