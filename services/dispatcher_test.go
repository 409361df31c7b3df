package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financeiro-backend/models"
)

func newTestDispatcher(store *fakeStore) *Dispatcher {
	cards := NewCreditCardService(store)
	return NewDispatcher(store, cards, NewAcertoService(store, cards))
}

func TestProcessImmediateSale(t *testing.T) {
	store := newFakeStore()
	d := newTestDispatcher(store)

	outcomes := d.Process(OwnerSale, "sale-1", "Maria", date("2026-01-10"), models.PaymentMethods{
		{Type: models.PaymentDinheiro, Amount: 150},
	})
	require.Len(t, outcomes, 1)
	assert.NoError(t, outcomes[0].Err)

	entries := store.cashByCategory("venda")
	require.Len(t, entries, 1)
	assert.Equal(t, models.CashEntrada, entries[0].Type)
	assert.Equal(t, 150.0, entries[0].Amount)
	assert.Equal(t, "dinheiro", entries[0].PaymentMethod)
}

func TestProcessImmediateDebtPostsSaida(t *testing.T) {
	store := newFakeStore()
	d := newTestDispatcher(store)

	d.Process(OwnerDebt, "debt-1", "Fornecedor SA", date("2026-01-10"), models.PaymentMethods{
		{Type: models.PaymentPix, Amount: 80},
	})

	entries := store.cashByCategory("pagamento_divida")
	require.Len(t, entries, 1)
	assert.Equal(t, models.CashSaida, entries[0].Type)
}

func TestProcessChequeCreatesInstallmentRows(t *testing.T) {
	store := newFakeStore()
	d := newTestDispatcher(store)

	outcomes := d.Process(OwnerSale, "sale-1", "Maria", date("2026-01-10"), models.PaymentMethods{
		{
			Type:                 models.PaymentCheque,
			Amount:               300,
			Installments:         3,
			InstallmentInterval:  30,
			FirstInstallmentDate: "2026-02-01",
		},
	})
	require.Len(t, outcomes, 1)
	require.NoError(t, outcomes[0].Err)

	require.Len(t, store.checks, 3)
	for _, c := range store.checks {
		assert.Equal(t, models.CheckPendente, c.Status)
		require.NotNil(t, c.SaleID)
		assert.Equal(t, "sale-1", *c.SaleID)
		if c.InstallmentNumber == 1 {
			assert.Equal(t, date("2026-02-01"), c.DueDate)
		}
		if c.InstallmentNumber == 3 {
			assert.Equal(t, date("2026-04-02"), c.DueDate)
		}
	}
}

func TestProcessDebtChequeIsCompanyPayable(t *testing.T) {
	store := newFakeStore()
	d := newTestDispatcher(store)

	d.Process(OwnerDebt, "debt-1", "Fornecedor SA", date("2026-01-10"), models.PaymentMethods{
		{Type: models.PaymentCheque, Amount: 100},
	})

	require.Len(t, store.checks, 1)
	for _, c := range store.checks {
		assert.True(t, c.IsOwnCheck)
		assert.True(t, c.IsCompanyPayable)
		assert.Equal(t, "Fornecedor SA", c.CompanyName)
	}
}

func TestProcessBoletoDefaultsSingleInstallment(t *testing.T) {
	store := newFakeStore()
	d := newTestDispatcher(store)

	d.Process(OwnerSale, "sale-1", "Maria", date("2026-01-10"), models.PaymentMethods{
		{Type: models.PaymentBoleto, Amount: 250},
	})

	require.Len(t, store.boletos, 1)
	for _, b := range store.boletos {
		assert.Equal(t, 250.0, b.Value)
		// No explicit first due date: falls back to the sale date.
		assert.Equal(t, date("2026-01-10"), b.DueDate)
	}
}

func TestProcessCartaoCreditoCreatesCardRecord(t *testing.T) {
	store := newFakeStore()
	d := newTestDispatcher(store)

	d.Process(OwnerSale, "sale-1", "Maria", date("2026-01-10"), models.PaymentMethods{
		{Type: models.PaymentCartaoCredito, Amount: 600, Installments: 6, FirstInstallmentDate: "2026-02-10"},
	})

	require.Len(t, store.cardSales, 1)
	for _, cs := range store.cardSales {
		assert.Equal(t, 600.0, cs.TotalAmount)
		assert.Equal(t, 6, cs.Installments)
		require.NotNil(t, cs.SaleID)
		assert.Equal(t, "sale-1", *cs.SaleID)
	}
	assert.Len(t, store.cardSaleRows, 6)
}

func TestProcessAcertoAccrues(t *testing.T) {
	store := newFakeStore()
	d := newTestDispatcher(store)

	d.Process(OwnerSale, "sale-1", "Maria", date("2026-01-10"), models.PaymentMethods{
		{Type: models.PaymentAcerto, Amount: 100},
	})
	d.Process(OwnerSale, "sale-2", "Maria", date("2026-01-20"), models.PaymentMethods{
		{Type: models.PaymentAcerto, Amount: 50},
	})

	acerto, err := store.AcertoByParty("Maria", models.AcertoCliente)
	require.NoError(t, err)
	assert.Equal(t, 150.0, acerto.TotalAmount)
	assert.Equal(t, 150.0, acerto.PendingAmount)
	assert.Equal(t, models.StatusPendente, acerto.Status)
	require.Len(t, store.acertos, 1)
}

func TestProcessPermutaConsumes(t *testing.T) {
	store := newFakeStore()
	store.permutas["per-1"] = &models.Permuta{
		ID: "per-1", ClientName: "Maria", VehicleValue: 1000, RemainingValue: 1000,
	}
	d := newTestDispatcher(store)

	outcomes := d.Process(OwnerSale, "sale-1", "Maria", date("2026-01-10"), models.PaymentMethods{
		{Type: models.PaymentPermuta, Amount: 400, PermutaID: "per-1"},
	})
	require.NoError(t, outcomes[0].Err)

	p := store.permutas["per-1"]
	assert.Equal(t, 400.0, p.ConsumedValue)
	assert.Equal(t, 600.0, p.RemainingValue)
}

func TestProcessInvalidMethodReportedNotFatal(t *testing.T) {
	store := newFakeStore()
	d := newTestDispatcher(store)

	outcomes := d.Process(OwnerSale, "sale-1", "Maria", date("2026-01-10"), models.PaymentMethods{
		{Type: models.PaymentPermuta, Amount: 100}, // missing permuta_id
		{Type: models.PaymentDinheiro, Amount: 50},
	})
	require.Len(t, outcomes, 2)
	assert.Error(t, outcomes[0].Err)
	assert.NoError(t, outcomes[1].Err)

	// The failing method did not block the cash method.
	assert.Len(t, store.cashByCategory("venda"), 1)
}

func TestProcessSkipsAlreadyLandedEffect(t *testing.T) {
	store := newFakeStore()
	store.effects["sale|sale-1|dinheiro"] = true
	d := newTestDispatcher(store)

	outcomes := d.Process(OwnerSale, "sale-1", "Maria", date("2026-01-10"), models.PaymentMethods{
		{Type: models.PaymentDinheiro, Amount: 100},
	})
	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].Skipped)
	assert.Empty(t, store.cash)
}
