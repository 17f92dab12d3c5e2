package handlers

import "github.com/eridehero/eridehero/internal/shared/errors"

// publicErrorMessage extracts a user-facing message from an application
// error for flows that surface errors via redirect instead of JSON.
// Unknown errors get a generic message to avoid leaking internals.
func publicErrorMessage(err error) string {
	if appErr := errors.GetAppError(err); appErr != nil {
		return appErr.Message
	}
	return "Something went wrong. Please try again."
}
