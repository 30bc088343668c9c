package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopscribe/shopscribe-backend/internal/domain/pos"
)

var (
	errInvalidBody      = errors.New("invalid request body")
	errInvalidID        = errors.New("invalid id")
	errInvalidPrice     = errors.New("invalid price")
	errInvalidQuantity  = errors.New("invalid quantity")
	errInvalidThreshold = errors.New("invalid threshold")
	errInvalidDays      = errors.New("invalid days")
	errInvalidLimit     = errors.New("invalid limit")
	errLogoTooLarge     = errors.New("logo image too large")
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondDomainError maps a domain error code onto the HTTP status the
// storefront expects. Anything unrecognized is treated as internal.
func RespondDomainError(c *gin.Context, err error) {
	code := pos.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case pos.CodeValidation, pos.CodeEmptyCart:
		status = http.StatusBadRequest
	case pos.CodeNotFound:
		status = http.StatusNotFound
	case pos.CodeInsufficientStock:
		status = http.StatusUnprocessableEntity
	case pos.CodeConflict:
		status = http.StatusConflict
	case pos.CodeRetryable:
		status = http.StatusServiceUnavailable
	}
	RespondError(c, status, string(code), err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
