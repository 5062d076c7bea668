package models

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func columnType(t *testing.T, model any, field string) string {
	t.Helper()
	s, err := schema.Parse(model, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)
	f := s.LookUpField(field)
	require.NotNil(t, f, field)
	return f.TagSettings["TYPE"]
}

func TestMoneyColumns(t *testing.T) {
	assert.Equal(t, "decimal(6,2)", columnType(t, &MenuItem{}, "Price"))
	assert.Equal(t, "decimal(6,2)", columnType(t, &CartLine{}, "UnitPrice"))
	assert.Equal(t, "decimal(6,2)", columnType(t, &OrderLine{}, "UnitPrice"))

	// 1000 units of a 9999.99 item
	assert.Equal(t, "decimal(12,2)", columnType(t, &CartLine{}, "Price"))
	assert.Equal(t, "decimal(12,2)", columnType(t, &OrderLine{}, "Price"))
	assert.Equal(t, "decimal(12,2)", columnType(t, &Order{}, "Total"))
}
