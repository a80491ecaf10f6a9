package middleware

import (
	"net/http"

	"gomart/pkg/logger"
	jsonres "gomart/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler converts anything that escapes a handler into the uniform
// failure envelope without leaking internals.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "internal server error"

	if httpErr, ok := err.(*echo.HTTPError); ok {
		code = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}
	} else {
		logger.Error("Unhandled error", err, "path", c.Path())
	}

	if err := c.JSON(code, jsonres.Error(http.StatusText(code), message, nil)); err != nil {
		logger.Error("Failed to write error response", err)
	}
}
