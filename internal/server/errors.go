package server

import (
	"errors"
	"net/http"

	authdomain "github.com/cemcalis/chiptunnig/internal/auth/domain"
	"github.com/cemcalis/chiptunnig/internal/authorization"
	catalogdomain "github.com/cemcalis/chiptunnig/internal/catalog/domain"
	ecudomain "github.com/cemcalis/chiptunnig/internal/ecu/domain"
	filedomain "github.com/cemcalis/chiptunnig/internal/filerequest/domain"
	ledgerdomain "github.com/cemcalis/chiptunnig/internal/ledger/domain"
	messagingdomain "github.com/cemcalis/chiptunnig/internal/messaging/domain"
	paymentdomain "github.com/cemcalis/chiptunnig/internal/payment/domain"
	"github.com/cemcalis/chiptunnig/internal/ratelimit"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type      string            `json:"type"`
	Message   string            `json:"message"`
	Errors    []ValidationError `json:"errors,omitempty"`
	Required  *int64            `json:"required,omitempty"`
	Available *int64            `json:"available,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	var balanceErr *ledgerdomain.InsufficientBalanceError
	if errors.As(err, &balanceErr) {
		return http.StatusBadRequest, errorPayload{
			Type:      "insufficient_balance",
			Message:   "insufficient balance",
			Required:  &balanceErr.Required,
			Available: &balanceErr.Available,
		}
	}

	var rejectedErr *authdomain.AccountRejectedError
	if errors.As(err, &rejectedErr) {
		return http.StatusForbidden, errorPayload{
			Type:    "account_rejected",
			Message: rejectedErr.Error(),
		}
	}

	if isValidationError(err) {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
			Errors: []ValidationError{
				{Field: "request", Code: "invalid", Message: err.Error()},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrInvalidSession),
		errors.Is(err, authdomain.ErrSessionExpired),
		errors.Is(err, authdomain.ErrSessionRevoked),
		errors.Is(err, authdomain.ErrSessionNotFound):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, authdomain.ErrAccountPending):
		return http.StatusForbidden, errorPayload{
			Type:    "account_pending",
			Message: "account pending approval",
		}
	case isForbiddenError(err):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ratelimit.ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many attempts",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, authdomain.ErrInvalidInput),
		errors.Is(err, catalogdomain.ErrInvalidInput),
		errors.Is(err, filedomain.ErrInvalidInput),
		errors.Is(err, filedomain.ErrInvalidStatus),
		errors.Is(err, ledgerdomain.ErrInvalidAmount),
		errors.Is(err, ledgerdomain.ErrInvalidAction),
		errors.Is(err, paymentdomain.ErrInvalidAmount),
		errors.Is(err, paymentdomain.ErrInvalidDecision),
		errors.Is(err, messagingdomain.ErrEmptyBody),
		errors.Is(err, ecudomain.ErrEmptyBosch):
		return true
	default:
		return false
	}
}

func isForbiddenError(err error) bool {
	switch {
	case errors.Is(err, ErrForbidden),
		errors.Is(err, authorization.ErrForbidden),
		errors.Is(err, authdomain.ErrSelfDelete),
		errors.Is(err, filedomain.ErrForbidden),
		errors.Is(err, messagingdomain.ErrForbidden):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, authdomain.ErrUserExists),
		errors.Is(err, catalogdomain.ErrServiceExists),
		errors.Is(err, ecudomain.ErrDuplicate),
		errors.Is(err, paymentdomain.ErrAlreadyProcessed):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, authdomain.ErrUserNotFound),
		errors.Is(err, catalogdomain.ErrNotFound),
		errors.Is(err, filedomain.ErrNotFound),
		errors.Is(err, filedomain.ErrNoResult),
		errors.Is(err, ledgerdomain.ErrUserNotFound),
		errors.Is(err, paymentdomain.ErrNotFound),
		errors.Is(err, messagingdomain.ErrFileMissing),
		errors.Is(err, ecudomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

// classifyErrorForLog feeds the request logger with a coarse error type
// and code without leaking messages.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	switch {
	case status >= 500:
		return "server_error", payload.Type
	case status >= 400:
		return "client_error", payload.Type
	default:
		return "none", ""
	}
}
