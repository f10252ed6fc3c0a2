package utils

import "errors"

var (
	ErrTripNotFound          = errors.New("trip not found")
	ErrInvalidTripID         = errors.New("invalid trip id")
	ErrInvalidPage           = errors.New("invalid page parameter")
	ErrInvalidPageSize       = errors.New("invalid page size parameter")
	ErrInvalidRequest        = errors.New("invalid request body")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDatabaseError         = errors.New("database error")
	ErrPlanningIncomplete    = errors.New("planning finished with errors")
	ErrProviderNotConfigured = errors.New("provider not configured")
)
