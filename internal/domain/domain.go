// Package domain provides shared types for list operations.
package domain

import (
	"time"

	"fakturo/internal/core/id"
)

// ListFilter contains common filtering options for list operations.
type ListFilter struct {
	// Search performs a substring match on the document number
	Search string

	// Status filters documents by lifecycle state (repositories that have no
	// status column ignore it)
	Status string

	// CustomerID narrows documents to one customer
	CustomerID *id.ID

	// DateFrom and DateTo bound the issue date, inclusive
	DateFrom *time.Time
	DateTo   *time.Time

	// OrderBy specifies sorting (e.g., "issue_date", "-created_at")
	OrderBy string

	// Pagination
	Limit  int
	Offset int
}

// DefaultListFilter returns sensible defaults.
func DefaultListFilter() ListFilter {
	return ListFilter{
		Limit: 50,
	}
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}
