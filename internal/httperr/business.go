package httperr

import (
	"errors"
	"net/http"
)

// BusinessError is a rule violation the client can fix (duplicate slug,
// member already active, ...). It always answers 422.
type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func (e BusinessError) StatusCode() int {
	return http.StatusUnprocessableEntity
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}
