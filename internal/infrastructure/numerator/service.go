// Package numerator implements document numbering on PostgreSQL.
package numerator

import (
	"context"
	"fmt"
	"time"

	"fakturo/internal/core/numerator"
	"fakturo/internal/infrastructure/storage/postgres"
)

// Service allocates sequence values with an atomic UPSERT + RETURNING on the
// sys_sequences table. The row update locks the (sequence_type, year) row, so
// two concurrent allocations for the same key serialize inside PostgreSQL and
// can never observe the same value.
//
// The querier comes from the caller's context: allocations made inside a
// transaction roll back with it, leaving a gap instead of a duplicate.
type Service struct {
	source QuerierSource
}

// QuerierSource yields the querier for the current context, joining the
// active transaction when one exists. Satisfied by postgres.TxManager.
type QuerierSource interface {
	GetQuerier(ctx context.Context) postgres.Querier
}

var _ numerator.Generator = (*Service)(nil)

// New creates a numbering service.
func New(source QuerierSource) *Service {
	return &Service{source: source}
}

// NextYearly implements numerator.Generator.
func (s *Service) NextYearly(ctx context.Context, kind numerator.Kind, period time.Time) (string, error) {
	seq, err := s.nextVal(ctx, numerator.YearlyKey(kind), period.Year())
	if err != nil {
		return "", err
	}
	return numerator.FormatYearly(kind, period, seq), nil
}

// NextDaily implements numerator.Generator.
// The day is part of the sequence key, so the year column carries the
// calendar year only for bookkeeping.
func (s *Service) NextDaily(ctx context.Context, kind numerator.Kind, period time.Time) (string, error) {
	seq, err := s.nextVal(ctx, numerator.DailyKey(kind, period), period.Year())
	if err != nil {
		return "", err
	}
	return numerator.FormatDaily(kind, period, seq), nil
}

func (s *Service) nextVal(ctx context.Context, sequenceType string, year int) (int64, error) {
	querier := s.source.GetQuerier(ctx)

	var val int64
	err := querier.QueryRow(ctx, `
		INSERT INTO sys_sequences (sequence_type, year, current_val)
		VALUES ($1, $2, 1)
		ON CONFLICT (sequence_type, year) DO UPDATE SET current_val = sys_sequences.current_val + 1
		RETURNING current_val
	`, sequenceType, year).Scan(&val)
	if err != nil {
		return 0, fmt.Errorf("next sequence value for %s/%d: %w", sequenceType, year, err)
	}
	return val, nil
}
