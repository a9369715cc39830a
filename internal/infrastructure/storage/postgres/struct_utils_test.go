package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fakturo/internal/core/entity"
	"fakturo/internal/core/id"
	"fakturo/internal/core/types"
)

type mockDocument struct {
	entity.BaseDocument
	Number string      `db:"number" json:"number"`
	Amount types.Money `db:"amount" json:"amount"`
	Items  []string    `db:"-" json:"items"`
	Loaded bool
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[mockDocument]()

	expectedCols := []string{
		"id", "version", "business_id", "created_at", "updated_at", "number", "amount",
	}
	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}

	assert.NotContains(t, cols, "-", "db:\"-\" fields are skipped")
	assert.Len(t, cols, len(expectedCols), "untagged fields are skipped")
}

func TestStructToMap(t *testing.T) {
	now := time.Now().UTC()
	doc := mockDocument{
		BaseDocument: entity.BaseDocument{
			BaseEntity: entity.BaseEntity{
				ID:      id.New(),
				Version: 5,
			},
			BusinessID: id.New(),
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		Number: "INV-2025-0001",
		Amount: types.MustMoney("70800"),
		Items:  []string{"skipped"},
		Loaded: true,
	}

	m := StructToMap(doc)

	assert.Equal(t, doc.ID, m["id"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, doc.BusinessID, m["business_id"])
	assert.Equal(t, now, m["created_at"])
	assert.Equal(t, "INV-2025-0001", m["number"])
	assert.Equal(t, doc.Amount, m["amount"])

	_, hasItems := m["items"]
	assert.False(t, hasItems, "db:\"-\" fields are excluded")
	assert.Len(t, m, 7)
}

func TestStructToMap_Pointer(t *testing.T) {
	doc := &mockDocument{Number: "QT-20250830-001"}
	m := StructToMap(doc)
	assert.Equal(t, "QT-20250830-001", m["number"])
}

func TestStructToMap_NonStruct(t *testing.T) {
	assert.Nil(t, StructToMap(42))
	assert.Nil(t, StructToMap("not a struct"))
}
