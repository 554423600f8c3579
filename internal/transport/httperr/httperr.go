// Package httperr renders errors as the JSON error body shared by every endpoint.
package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/alanyang/taskboard/internal/cerr"
)

type Response struct {
	Status  int      `json:"status"`
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Path    string   `json:"path"`
	Details []string `json:"details"`
}

// Write maps err to its HTTP status and aborts the request. Internal errors are logged
// and only reach the client as "server error".
func Write(c *gin.Context, err error) {
	var e *cerr.Error
	if !errors.As(err, &e) {
		e = cerr.NewError(cerr.Internal, "server error", err)
	}
	if e.Code == cerr.Internal {
		slog.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err,
		)
		abort(c, http.StatusInternalServerError, "server error", nil)
		return
	}
	abort(c, e.Code.HTTPCode(), e.Msg, nil)
}

func BadRequest(c *gin.Context, msg string, details ...string) {
	abort(c, http.StatusBadRequest, msg, details)
}

func Unprocessable(c *gin.Context, msg string, details ...string) {
	abort(c, http.StatusUnprocessableEntity, msg, details)
}

// Bind reports a request body that failed to decode or validate.
func Bind(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, fmt.Sprintf("%s: failed on the '%s' rule", fe.Field(), fe.Tag()))
		}
		abort(c, http.StatusBadRequest, "request validation failed", details)
		return
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		abort(c, http.StatusBadRequest, "malformed JSON body", []string{err.Error()})
		return
	}
	abort(c, http.StatusBadRequest, "invalid request body", []string{err.Error()})
}

func abort(c *gin.Context, status int, msg string, details []string) {
	if details == nil {
		details = []string{}
	}
	c.AbortWithStatusJSON(status, Response{
		Status:  status,
		Error:   http.StatusText(status),
		Message: msg,
		Path:    c.Request.URL.Path,
		Details: details,
	})
}
