package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"recommendationService/pkg/logger"

	"github.com/labstack/echo/v4"
)

type errorBody struct {
	Error string `json:"error"`
}

// ErrorHandler renders errors that escape the handlers as {"error": "..."}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		message = fmt.Sprint(he.Message)
	} else {
		logger.Error("unhandled request error", err, "path", c.Path())
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(code)
	} else {
		writeErr = c.JSON(code, errorBody{Error: message})
	}
	if writeErr != nil {
		logger.Error("failed to write error response", writeErr)
	}
}
