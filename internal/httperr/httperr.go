package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

// Respond writes err using the status it carries. Errors without a known
// status are attached to the gin context so the exception reporter sees
// them, and answered with 500.
func Respond(c *gin.Context, err error) {
	var se *StatusError
	var be BusinessError
	switch {
	case errors.As(err, &se):
		Write(c, se.Status, se.Code, se.Message)
	case errors.As(err, &be):
		Write(c, be.StatusCode(), be.Code, be.Code)
	case errors.Is(err, ErrNotFound):
		NotFound(c, "not_found", "Registro não encontrado.")
	case errors.Is(err, ErrForbidden):
		Forbidden(c, "forbidden", "Acesso negado.")
	case errors.Is(err, ErrUnauthenticated):
		Unauthorized(c, "unauthenticated", "Autenticação necessária.")
	default:
		_ = c.Error(err)
		Internal(c, "internal_error", "Erro interno.")
	}
}
