package dto

import (
	"fakturo/internal/core/apperror"
	"fakturo/internal/core/id"
)

// parseID parses a UUID path or body value into an ID, reporting the field on
// failure.
func parseID(raw, field string) (id.ID, error) {
	parsed, err := id.Parse(raw)
	if err != nil {
		return id.Nil(), apperror.NewValidation("invalid identifier").
			WithDetail("field", field).
			WithDetail("value", raw)
	}
	return parsed, nil
}

// ParseID parses a UUID value for handlers.
func ParseID(raw, field string) (id.ID, error) {
	return parseID(raw, field)
}
