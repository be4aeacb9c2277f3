package errors

import (
	"time"
)

// TracedError is an AppError enriched with request context
type TracedError struct {
	*AppError
	Labels    map[string]string
	Timestamp time.Time
	Context   ErrorContext
}

// ErrorContext describes the request an error happened in
type ErrorContext struct {
	RequestID string
	UserID    string
	Path      string
	Method    string
}

// NewTracedError wraps err with request context. Plain errors become ErrInternal.
func NewTracedError(err error, ctx ErrorContext) *TracedError {
	appErr, ok := As(err)
	if !ok {
		appErr = &AppError{
			Code:    ErrInternal,
			Message: err.Error(),
			Err:     err,
		}
	}

	return &TracedError{
		AppError:  appErr,
		Labels:    make(map[string]string),
		Timestamp: time.Now(),
		Context:   ctx,
	}
}

// AddLabel attaches a label
func (e *TracedError) AddLabel(key, value string) *TracedError {
	e.Labels[key] = value
	return e
}
