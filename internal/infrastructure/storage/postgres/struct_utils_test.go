package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ibeer/internal/core/entity"
)

type mockCatalog struct {
	entity.BaseEntity
	Name    string `db:"name"`
	Active  bool   `db:"active"`
	Ignored string `db:"-"`
	NoTag   string
}

func TestExtractDBColumns_Embedded(t *testing.T) {
	cols := ExtractDBColumns[mockCatalog]()

	assert.Equal(t, []string{"id", "version", "created_at", "updated_at", "name", "active"}, cols)
}

func TestExtractDBColumns_Pointer(t *testing.T) {
	assert.Equal(t, ExtractDBColumns[mockCatalog](), ExtractDBColumns[*mockCatalog]())
}

func TestStructToMap(t *testing.T) {
	now := time.Now().UTC()
	cat := mockCatalog{
		BaseEntity: entity.BaseEntity{ID: 12, Version: 5, CreatedAt: now},
		Name:       "Heineken",
		Active:     true,
		Ignored:    "x",
	}

	m := StructToMap(&cat)

	assert.Equal(t, int64(12), m["id"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, now, m["created_at"])
	assert.Equal(t, "Heineken", m["name"])
	assert.Equal(t, true, m["active"])
	assert.NotContains(t, m, "-")
	assert.Len(t, m, 6)
}

func TestStructToMap_NonStruct(t *testing.T) {
	assert.Nil(t, StructToMap(42))
}

func TestWritableColumns(t *testing.T) {
	data := map[string]any{"id": int64(1), "version": 2, "name": "Ambev", "active": true, "extra": "x"}

	out := WritableColumns(data, []string{"id", "version", "name", "active"}, "id", "version")

	assert.Equal(t, map[string]any{"name": "Ambev", "active": true}, out)
}
