package util

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Pagination is returned alongside every list response
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

func NewPagination(page, limit int, total int64) Pagination {
	totalPages := int64(0)
	if limit > 0 {
		totalPages = (total + int64(limit) - 1) / int64(limit)
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// ListResponse is the data of every list endpoint
type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination Pagination  `json:"pagination"`
}

func NewListResponse(items interface{}, page, limit int, total int64) ListResponse {
	return ListResponse{Items: items, Pagination: NewPagination(page, limit, total)}
}

// ParsePagination reads page and limit query parameters with sane bounds
func ParsePagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(DefaultPage)))
	if err != nil || page < 1 {
		page = DefaultPage
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))
	if err != nil || limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// ParseSort turns "-createdAt" into ("createdAt", true). Fields outside
// allowed fall back to fallback.
func ParseSort(raw string, allowed []string, fallback string) (string, bool) {
	raw = strings.TrimSpace(raw)
	field := strings.TrimPrefix(raw, "-")
	for _, a := range allowed {
		if a == field {
			return field, strings.HasPrefix(raw, "-")
		}
	}
	return strings.TrimPrefix(fallback, "-"), strings.HasPrefix(fallback, "-")
}

// ParseFloatQuery returns nil when the parameter is missing or malformed
func ParseFloatQuery(c *gin.Context, key string) *float64 {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ParseBoolQuery returns nil when the parameter is missing or malformed
func ParseBoolQuery(c *gin.Context, key string) *bool {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}
