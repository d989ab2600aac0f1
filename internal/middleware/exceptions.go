package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/club-admin/internal/audit"
	"github.com/BruksfildServices01/club-admin/internal/httperr"
)

const boundParamPrefix = "audit.param."

// BindRecord attaches the record loaded for a route parameter so failures on
// this request can be filed under its id.
func BindRecord(c *gin.Context, param string, record any) {
	c.Set(boundParamPrefix+param, record)
}

// ReportExceptions hands unexpected handler errors and panics to the
// exception reporter. It replaces gin's recovery middleware.
func ReportExceptions(reporter *audit.ExceptionReporter, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			err := panicError(rec)
			log.Error("panic recovered",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
			)
			reporter.Report(c.Request.Context(), failure(c, err))

			if !c.Writer.Written() {
				httperr.Internal(c, "internal_error", "Erro interno.")
			}
			c.Abort()
		}()

		c.Next()

		for _, ge := range c.Errors.ByType(gin.ErrorTypePrivate) {
			reporter.Report(c.Request.Context(), failure(c, ge.Err))
		}
	}
}

func failure(c *gin.Context, err error) audit.Failure {
	params := make([]audit.Param, 0, len(c.Params))
	for _, p := range c.Params {
		var value any = p.Value
		if bound, ok := c.Get(boundParamPrefix + p.Key); ok {
			value = bound
		}
		params = append(params, audit.Param{Name: p.Key, Value: value})
	}
	return audit.Failure{
		Err:     err,
		Request: c.Request,
		Route:   c.FullPath(),
		Params:  params,
	}
}

func panicError(rec any) error {
	if err, ok := rec.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", rec)
}
