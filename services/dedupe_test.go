package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"financeiro-backend/models"
)

const knownUUID = "7f9c24e5-2f8a-4b3d-9c6e-1a2b3c4d5e6f"

func TestCheckSaleByID(t *testing.T) {
	store := newFakeStore()
	store.sales[knownUUID] = &models.Sale{ID: knownUUID, Client: "Maria"}
	guard := NewDuplicateGuard(store)

	dup := guard.CheckSale(&models.Sale{ID: knownUUID, Client: "Outra"})
	assert.True(t, dup.IsDuplicate)
	assert.Equal(t, knownUUID, dup.ExistingID)
}

func TestCheckSaleByNaturalKey(t *testing.T) {
	store := newFakeStore()
	store.sales["existing"] = &models.Sale{
		ID: "existing", Client: "Maria", Date: date("2026-01-10"), TotalValue: 500,
	}
	guard := NewDuplicateGuard(store)

	dup := guard.CheckSale(&models.Sale{Client: "Maria", Date: date("2026-01-10"), TotalValue: 500})
	assert.True(t, dup.IsDuplicate)
	assert.Equal(t, "existing", dup.ExistingID)

	// Different total: not a duplicate.
	dup = guard.CheckSale(&models.Sale{Client: "Maria", Date: date("2026-01-10"), TotalValue: 600})
	assert.False(t, dup.IsDuplicate)
}

func TestCheckSaleIgnoresNonUUIDIDs(t *testing.T) {
	store := newFakeStore()
	store.sales["local-42"] = &models.Sale{ID: "local-42", Client: "Maria"}
	guard := NewDuplicateGuard(store)

	dup := guard.CheckSale(&models.Sale{ID: "local-42", Client: "Pedro", Date: date("2026-01-10"), TotalValue: 1})
	assert.False(t, dup.IsDuplicate)
}

func TestCheckDebtByNaturalKey(t *testing.T) {
	store := newFakeStore()
	store.debts["existing"] = &models.Debt{
		ID: "existing", Company: "Fornecedor SA", Date: date("2026-01-10"), TotalValue: 300,
	}
	guard := NewDuplicateGuard(store)

	dup := guard.CheckDebt(&models.Debt{Company: "Fornecedor SA", Date: date("2026-01-10"), TotalValue: 300})
	assert.True(t, dup.IsDuplicate)
}

func TestCheckEmployeeByNaturalKey(t *testing.T) {
	store := newFakeStore()
	store.employees["existing"] = &models.Employee{ID: "existing", Name: "Ana", Position: "vendedora"}
	guard := NewDuplicateGuard(store)

	dup := guard.CheckEmployee(&models.Employee{Name: "Ana", Position: "vendedora"})
	assert.True(t, dup.IsDuplicate)

	dup = guard.CheckEmployee(&models.Employee{Name: "Ana", Position: "gerente"})
	assert.False(t, dup.IsDuplicate)
}

func TestLookupFailureIsNotADuplicate(t *testing.T) {
	store := newFakeStore()
	store.failLookups = true
	guard := NewDuplicateGuard(store)

	dup := guard.CheckSale(&models.Sale{ID: knownUUID, Client: "Maria", Date: date("2026-01-10"), TotalValue: 1})
	assert.False(t, dup.IsDuplicate)
}
