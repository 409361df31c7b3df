package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type row struct {
	ID    string
	Value int
}

func TestDedupeByIDKeepsFirst(t *testing.T) {
	rows := []row{
		{ID: "a", Value: 1},
		{ID: "b", Value: 2},
		{ID: "a", Value: 3},
		{ID: "c", Value: 4},
	}

	got := DedupeByID(rows, func(r row) string { return r.ID })

	assert.Equal(t, []row{{ID: "a", Value: 1}, {ID: "b", Value: 2}, {ID: "c", Value: 4}}, got)
}

func TestDedupeByKeyEmpty(t *testing.T) {
	got := DedupeByKey([]row{}, func(r row) string { return r.ID })
	assert.Empty(t, got)
}
