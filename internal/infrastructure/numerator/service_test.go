package numerator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"fakturo/internal/core/numerator"
	"fakturo/internal/infrastructure/storage/postgres"
)

// Mock objects
type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates the sys_sequences UPSERT: one counter per
// (sequence_type, year) pair, incremented on every call.
type mockQuerier struct {
	mu   sync.Mutex
	seqs map[string]int64
}

func newMockQuerier() *mockQuerier {
	return &mockQuerier{seqs: make(map[string]int64)}
}

func (m *mockQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (m *mockQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := ""
	if len(args) >= 1 {
		if s, ok := args[0].(string); ok {
			key = s
		}
	}
	m.seqs[key]++
	return &mockRow{val: m.seqs[key]}
}

type mockSource struct {
	q postgres.Querier
}

func (s *mockSource) GetQuerier(ctx context.Context) postgres.Querier {
	return s.q
}

func TestNextYearly(t *testing.T) {
	svc := New(&mockSource{q: newMockQuerier()})
	ctx := context.Background()
	period := time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)

	num, err := svc.NextYearly(ctx, numerator.KindInvoice, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "INV-2025-0001" {
		t.Errorf("expected INV-2025-0001, got %s", num)
	}

	num, err = svc.NextYearly(ctx, numerator.KindInvoice, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "INV-2025-0002" {
		t.Errorf("expected INV-2025-0002, got %s", num)
	}

	// Receipts run on their own sequence
	num, err = svc.NextYearly(ctx, numerator.KindReceipt, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "RCT-2025-0001" {
		t.Errorf("expected RCT-2025-0001, got %s", num)
	}
}

func TestNextDaily(t *testing.T) {
	svc := New(&mockSource{q: newMockQuerier()})
	ctx := context.Background()
	day := time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)

	num, err := svc.NextDaily(ctx, numerator.KindQuote, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "QT-20250830-001" {
		t.Errorf("expected QT-20250830-001, got %s", num)
	}

	num, err = svc.NextDaily(ctx, numerator.KindQuote, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "QT-20250830-002" {
		t.Errorf("expected QT-20250830-002, got %s", num)
	}

	// Next day restarts at 1 because the day is folded into the key
	nextDay := day.AddDate(0, 0, 1)
	num, err = svc.NextDaily(ctx, numerator.KindQuote, nextDay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "QT-20250831-001" {
		t.Errorf("expected QT-20250831-001, got %s", num)
	}
}

func TestNextDaily_InvoiceConversionSequence(t *testing.T) {
	svc := New(&mockSource{q: newMockQuerier()})
	ctx := context.Background()
	day := time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)

	// The daily invoice sequence is independent of the yearly one
	daily, err := svc.NextDaily(ctx, numerator.KindInvoice, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	yearly, err := svc.NextYearly(ctx, numerator.KindInvoice, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if daily != "INV-20250830-001" {
		t.Errorf("expected INV-20250830-001, got %s", daily)
	}
	if yearly != "INV-2025-0001" {
		t.Errorf("expected INV-2025-0001, got %s", yearly)
	}
}

func TestNextYearly_Concurrent(t *testing.T) {
	svc := New(&mockSource{q: newMockQuerier()})
	ctx := context.Background()
	period := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	const workers = 20
	results := make(chan string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num, err := svc.NextYearly(ctx, numerator.KindInvoice, period)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			results <- num
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool)
	for num := range results {
		if seen[num] {
			t.Errorf("duplicate number issued: %s", num)
		}
		seen[num] = true
	}
	if len(seen) != workers {
		t.Errorf("expected %d distinct numbers, got %d", workers, len(seen))
	}
}
