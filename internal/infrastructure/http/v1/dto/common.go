// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"time"

	"fakturo/internal/core/id"
	"fakturo/internal/domain"
)

// --- List ---

// ListRequest contains common list query parameters. Status, customerId and
// the date bounds only apply to document lists; other lists ignore them.
type ListRequest struct {
	Search     string `form:"search"`
	Status     string `form:"status"`
	CustomerID string `form:"customerId" binding:"omitempty,uuid"`
	DateFrom   string `form:"dateFrom" binding:"omitempty,datetime=2006-01-02"`
	DateTo     string `form:"dateTo" binding:"omitempty,datetime=2006-01-02"`
	OrderBy    string `form:"orderBy"`
	Limit      int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset     int    `form:"offset" binding:"omitempty,min=0"`
}

// ToFilter converts the request into a domain list filter. Binding already
// validated the formats, so parse failures fall through as unset.
func (r *ListRequest) ToFilter() domain.ListFilter {
	f := domain.DefaultListFilter()
	f.Search = r.Search
	f.Status = r.Status
	f.OrderBy = r.OrderBy
	if r.CustomerID != "" {
		if customerID, err := id.Parse(r.CustomerID); err == nil {
			f.CustomerID = &customerID
		}
	}
	if r.DateFrom != "" {
		if from, err := time.Parse("2006-01-02", r.DateFrom); err == nil {
			f.DateFrom = &from
		}
	}
	if r.DateTo != "" {
		if to, err := time.Parse("2006-01-02", r.DateTo); err == nil {
			f.DateTo = &to
		}
	}
	if r.Limit > 0 {
		f.Limit = r.Limit
	}
	f.Offset = r.Offset
	return f
}

// ListResponse wraps list results with pagination.
type ListResponse struct {
	Items      any   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// --- ID Response ---

// IDResponse for create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// NewIDResponse creates ID response.
func NewIDResponse(i id.ID) IDResponse {
	return IDResponse{ID: i.String()}
}

// --- Success Response ---

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// --- Error Response ---

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
