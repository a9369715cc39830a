package postgres

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fakturo/internal/core/id"
)

// auditQuerier captures inserted audit rows and replays them for History
// queries, newest first.
type auditQuerier struct {
	rows [][]any
}

func (q *auditQuerier) Exec(_ context.Context, _ string, arguments ...any) (pgconn.CommandTag, error) {
	q.rows = append(q.rows, arguments)
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (q *auditQuerier) Query(_ context.Context, _ string, args ...any) (pgx.Rows, error) {
	businessID := args[0].(id.ID)
	entityType := args[1].(string)
	entityID := args[2].(id.ID)
	limit := args[3].(int)

	var matched [][]any
	for i := len(q.rows) - 1; i >= 0; i-- {
		row := q.rows[i]
		if row[1] == businessID && row[2] == entityType && row[3] == entityID {
			matched = append(matched, row)
		}
		if len(matched) == limit {
			break
		}
	}
	return &auditRows{rows: matched, idx: -1}, nil
}

func (q *auditQuerier) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	panic("not used")
}

func (q *auditQuerier) GetQuerier(_ context.Context) Querier { return q }

type auditRows struct {
	rows [][]any
	idx  int
}

func (r *auditRows) Close()                                       {}
func (r *auditRows) Err() error                                   { return nil }
func (r *auditRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *auditRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *auditRows) Values() ([]any, error)                       { return r.rows[r.idx], nil }
func (r *auditRows) RawValues() [][]byte                          { return nil }
func (r *auditRows) Conn() *pgx.Conn                              { return nil }

func (r *auditRows) Next() bool {
	r.idx++
	return r.idx < len(r.rows)
}

func (r *auditRows) Scan(dest ...any) error {
	row := r.rows[r.idx]
	*dest[0].(*id.ID) = row[0].(id.ID)
	*dest[1].(*id.ID) = row[1].(id.ID)
	*dest[2].(*string) = row[2].(string)
	*dest[3].(*id.ID) = row[3].(id.ID)
	*dest[4].(*string) = row[4].(string)
	*dest[5].(*string) = row[5].(string)
	if raw, ok := row[6].(json.RawMessage); ok {
		*dest[6].(*json.RawMessage) = raw
	}
	if compressed, ok := row[7].([]byte); ok {
		*dest[7].(*[]byte) = compressed
	}
	*dest[8].(*CompressionAlgo) = row[8].(CompressionAlgo)
	*dest[9].(*time.Time) = row[9].(time.Time)
	return nil
}

func newAuditFixture(t *testing.T) (*AuditService, *auditQuerier) {
	t.Helper()
	querier := &auditQuerier{}
	svc, err := NewAuditService(querier)
	require.NoError(t, err)
	return svc, querier
}

func TestAudit_RecordAndHistory(t *testing.T) {
	svc, _ := newAuditFixture(t)
	ctx := context.Background()
	businessID := id.New()
	invoiceID := id.New()

	payload := map[string]any{"number": "INV-2025-0001", "status": "SENT"}
	require.NoError(t, svc.Record(ctx, businessID, "create", "invoice", invoiceID, payload))
	require.NoError(t, svc.Record(ctx, businessID, "apply_payment", "invoice", invoiceID, map[string]any{"status": "PAID"}))

	entries, err := svc.History(ctx, businessID, "invoice", invoiceID, 50)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "apply_payment", entries[0].Action)
	assert.Equal(t, "create", entries[1].Action)
	assert.Equal(t, businessID, entries[1].BusinessID)
	assert.Equal(t, invoiceID, entries[1].EntityID)
	assert.Equal(t, CompressionNone, entries[1].CompressionAlgo)

	var got map[string]any
	require.NoError(t, json.Unmarshal(entries[1].Payload, &got))
	assert.Equal(t, "INV-2025-0001", got["number"])
}

func TestAudit_LargePayloadCompressedRoundTrip(t *testing.T) {
	svc, querier := newAuditFixture(t)
	ctx := context.Background()
	businessID := id.New()
	invoiceID := id.New()

	payload := map[string]any{"notes": strings.Repeat("x", 20*1024)}
	require.NoError(t, svc.Record(ctx, businessID, "update", "invoice", invoiceID, payload))

	// Stored compressed, no plain payload column.
	stored := querier.rows[0]
	assert.Nil(t, stored[6])
	assert.NotEmpty(t, stored[7].([]byte))
	assert.Equal(t, CompressionZstd, stored[8].(CompressionAlgo))

	// History transparently decompresses.
	entries, err := svc.History(ctx, businessID, "invoice", invoiceID, 50)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].PayloadCompressed)

	var got map[string]any
	require.NoError(t, json.Unmarshal(entries[0].Payload, &got))
	assert.Equal(t, payload["notes"], got["notes"])
}

func TestAudit_HistoryScopedByBusiness(t *testing.T) {
	svc, _ := newAuditFixture(t)
	ctx := context.Background()
	invoiceID := id.New()

	require.NoError(t, svc.Record(ctx, id.New(), "create", "invoice", invoiceID, nil))

	entries, err := svc.History(ctx, id.New(), "invoice", invoiceID, 50)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAudit_HistoryLimit(t *testing.T) {
	svc, _ := newAuditFixture(t)
	ctx := context.Background()
	businessID := id.New()
	invoiceID := id.New()

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.Record(ctx, businessID, "update", "invoice", invoiceID, nil))
	}

	entries, err := svc.History(ctx, businessID, "invoice", invoiceID, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
