package tui

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/streamix/streamix/internal/catalog"
)

// wrapErr formats an error with a contextual prefix, translating known
// catalog failures into something readable on the status bar.
func wrapErr(context string, err error) error {
	if err == nil {
		return nil
	}

	var reqErr *catalog.RequestError
	if errors.As(err, &reqErr) {
		switch reqErr.StatusCode {
		case http.StatusForbidden, http.StatusUnauthorized:
			return fmt.Errorf("%s: catalog rejected the API key", context)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%s: catalog quota exceeded, try later", context)
		}
	}

	return fmt.Errorf("%s: %w", context, err)
}
