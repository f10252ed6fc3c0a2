package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fedeciancaglini/trip-ai/internal/planner"
)

const (
	CodeValidationError    = "VALIDATION_ERROR"
	CodeTimeout            = "TIMEOUT"
	CodeInternalError      = "INTERNAL_ERROR"
	CodePlanningIncomplete = "PLANNING_INCOMPLETE"
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeRateLimited        = "RATE_LIMITED"
	CodeBadRequest         = "BAD_REQUEST"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Code    string      `json:"code,omitempty"`
	Error   string      `json:"error,omitempty"`
	Timeout int64       `json:"timeout,omitempty"`
	TraceID string      `json:"traceId,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, APIResponse{
		Success: true,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func RespondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, APIResponse{
		Success: false,
		Code:    code,
		Error:   message,
		TraceID: c.GetString("trace_id"),
	})
}

// RespondPartial reports a failure that still carries usable data.
func RespondPartial(c *gin.Context, status int, code, message string, data interface{}) {
	c.JSON(status, APIResponse{
		Success: false,
		Code:    code,
		Error:   message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func HandleServiceError(c *gin.Context, err error) {
	var ve *planner.ValidationError
	var te *planner.TimeoutError

	switch {
	case errors.As(err, &ve):
		RespondError(c, http.StatusBadRequest, CodeValidationError, ve.Error())
	case errors.As(err, &te):
		c.JSON(http.StatusGatewayTimeout, APIResponse{
			Success: false,
			Code:    CodeTimeout,
			Error:   "Trip planning took too long. Please try again.",
			Timeout: te.TimeoutMs(),
			TraceID: c.GetString("trace_id"),
		})
	case errors.Is(err, ErrTripNotFound):
		RespondError(c, http.StatusNotFound, CodeNotFound, "Trip not found")
	case errors.Is(err, ErrInvalidTripID):
		RespondError(c, http.StatusBadRequest, CodeBadRequest, "Trip id must be a valid UUID")
	case errors.Is(err, ErrInvalidPage):
		RespondError(c, http.StatusBadRequest, CodeBadRequest, "Page must be greater than 0")
	case errors.Is(err, ErrInvalidPageSize):
		RespondError(c, http.StatusBadRequest, CodeBadRequest, "Page size must be between 1 and 100")
	case errors.Is(err, ErrInvalidRequest):
		RespondError(c, http.StatusBadRequest, CodeBadRequest, err.Error())
	case errors.Is(err, ErrUnauthorized):
		RespondError(c, http.StatusUnauthorized, CodeUnauthorized, "Unauthorized")
	case errors.Is(err, ErrDatabaseError):
		zap.L().Error("database error", zap.String("trace_id", c.GetString("trace_id")), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, CodeInternalError, "Internal server error")
	default:
		zap.L().Error("unhandled error", zap.String("trace_id", c.GetString("trace_id")), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, CodeInternalError, "Internal server error")
	}
}
