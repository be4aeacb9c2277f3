package errors

import (
	"fmt"
	"sync"
	"time"
)

// ErrorAnalytics aggregates errors seen by the HTTP layer
type ErrorAnalytics struct {
	mu            sync.RWMutex
	totalErrors   int
	errorsByCode  map[ErrorCode]int
	errorsByPath  map[string]int
	errorPatterns map[string]int
	lastErrorTime time.Time
}

// NewErrorAnalytics creates an empty aggregator
func NewErrorAnalytics() *ErrorAnalytics {
	return &ErrorAnalytics{
		errorsByCode:  make(map[ErrorCode]int),
		errorsByPath:  make(map[string]int),
		errorPatterns: make(map[string]int),
	}
}

// Record counts one error
func (a *ErrorAnalytics) Record(err *TracedError) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.totalErrors++
	a.errorsByCode[err.Code]++
	a.errorsByPath[err.Context.Path]++
	a.lastErrorTime = err.Timestamp
	a.errorPatterns[identifyPattern(err)]++
}

// identifyPattern groups errors by route and code, e.g. "PATCH /api/orders/:id/status 2001"
func identifyPattern(err *TracedError) string {
	return fmt.Sprintf("%s %s %d", err.Context.Method, err.Context.Path, err.Code)
}

// CountFor returns how many errors with code were recorded
func (a *ErrorAnalytics) CountFor(code ErrorCode) int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.errorsByCode[code]
}

// GetStats returns a snapshot
func (a *ErrorAnalytics) GetStats() map[string]interface{} {
	a.mu.RLock()
	defer a.mu.RUnlock()

	byCode := make(map[string]int, len(a.errorsByCode))
	for code, n := range a.errorsByCode {
		byCode[fmt.Sprintf("%d", code)] = n
	}
	byPath := make(map[string]int, len(a.errorsByPath))
	for path, n := range a.errorsByPath {
		byPath[path] = n
	}
	patterns := make(map[string]int, len(a.errorPatterns))
	for p, n := range a.errorPatterns {
		patterns[p] = n
	}

	stats := map[string]interface{}{
		"totalErrors":   a.totalErrors,
		"errorsByCode":  byCode,
		"errorsByPath":  byPath,
		"errorPatterns": patterns,
	}
	if !a.lastErrorTime.IsZero() {
		stats["lastError"] = a.lastErrorTime
	}
	return stats
}
