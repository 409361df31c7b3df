package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financeiro-backend/models"
)

func newTestAcertoService(store *fakeStore) *AcertoService {
	return NewAcertoService(store, NewCreditCardService(store))
}

func TestAccrueCreatesThenAdds(t *testing.T) {
	store := newFakeStore()
	svc := newTestAcertoService(store)

	require.NoError(t, svc.Accrue("Maria", models.AcertoCliente, 100))
	require.NoError(t, svc.Accrue("Maria", models.AcertoCliente, 50))

	acerto, err := store.AcertoByParty("Maria", models.AcertoCliente)
	require.NoError(t, err)
	assert.Equal(t, 150.0, acerto.TotalAmount)
	assert.Equal(t, 150.0, acerto.PendingAmount)
	assert.Equal(t, 0.0, acerto.PaidAmount)
	require.Len(t, store.acertos, 1)
}

func TestAccrueSeparatesKinds(t *testing.T) {
	store := newFakeStore()
	svc := newTestAcertoService(store)

	require.NoError(t, svc.Accrue("Silva", models.AcertoCliente, 100))
	require.NoError(t, svc.Accrue("Silva", models.AcertoEmpresa, 200))

	assert.Len(t, store.acertos, 2)
	empresa, err := store.AcertoByParty("Silva", models.AcertoEmpresa)
	require.NoError(t, err)
	assert.Equal(t, "Silva", empresa.CompanyName)
}

func TestAccrueIgnoresNonPositive(t *testing.T) {
	store := newFakeStore()
	svc := newTestAcertoService(store)

	require.NoError(t, svc.Accrue("Maria", models.AcertoCliente, 0))
	require.NoError(t, svc.Accrue("Maria", models.AcertoCliente, -10))
	assert.Empty(t, store.acertos)
}

func TestRegisterPaymentSettlesSalesAndPostsCash(t *testing.T) {
	store := newFakeStore()
	svc := newTestAcertoService(store)

	store.acertos["ac-1"] = &models.Acerto{
		ID: "ac-1", ClientName: "Maria", Type: models.AcertoCliente,
		TotalAmount: 300, PendingAmount: 300, Status: models.StatusPendente,
	}
	store.sales["sale-1"] = &models.Sale{
		ID: "sale-1", Client: "Maria", TotalValue: 100,
		ReceivedAmount: 0, PendingAmount: 100, Status: models.StatusPendente,
	}

	outcomes, err := svc.RegisterPayment("ac-1", []string{"sale-1"}, 200, models.PaymentMethods{
		{Type: models.PaymentPix, Amount: 200},
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.NoError(t, outcomes[0].Err)

	sale := store.sales["sale-1"]
	assert.Equal(t, 100.0, sale.ReceivedAmount)
	assert.Equal(t, 0.0, sale.PendingAmount)
	assert.Equal(t, models.StatusPago, sale.Status)

	entries := store.cashByCategory("acerto_cliente")
	require.Len(t, entries, 1)
	assert.Equal(t, models.CashEntrada, entries[0].Type)
	assert.Equal(t, 200.0, entries[0].Amount)

	acerto := store.acertos["ac-1"]
	assert.Equal(t, 200.0, acerto.PaidAmount)
	assert.Equal(t, 100.0, acerto.PendingAmount)
	assert.Equal(t, models.StatusParcial, acerto.Status)
	assert.NotNil(t, acerto.PaymentDate)
}

func TestRegisterPaymentFullSettlement(t *testing.T) {
	store := newFakeStore()
	svc := newTestAcertoService(store)

	store.acertos["ac-1"] = &models.Acerto{
		ID: "ac-1", ClientName: "Maria", Type: models.AcertoCliente,
		TotalAmount: 150, PendingAmount: 150, Status: models.StatusPendente,
	}

	_, err := svc.RegisterPayment("ac-1", nil, 150, models.PaymentMethods{
		{Type: models.PaymentDinheiro, Amount: 150},
	})
	require.NoError(t, err)

	acerto := store.acertos["ac-1"]
	assert.Equal(t, models.StatusPago, acerto.Status)
	assert.Equal(t, 0.0, acerto.PendingAmount)
}

func TestRegisterPaymentWithChequeCreatesAcertoLinkedRows(t *testing.T) {
	store := newFakeStore()
	svc := newTestAcertoService(store)

	store.acertos["ac-1"] = &models.Acerto{
		ID: "ac-1", ClientName: "Maria", Type: models.AcertoCliente,
		TotalAmount: 300, PendingAmount: 300, Status: models.StatusPendente,
	}

	_, err := svc.RegisterPayment("ac-1", nil, 300, models.PaymentMethods{
		{Type: models.PaymentCheque, Amount: 300, Installments: 2, FirstInstallmentDate: "2026-02-01"},
	})
	require.NoError(t, err)

	require.Len(t, store.checks, 2)
	for _, c := range store.checks {
		assert.Equal(t, "acerto", c.RelatedType)
		require.NotNil(t, c.RelatedID)
		assert.Equal(t, "ac-1", *c.RelatedID)
		assert.Nil(t, c.SaleID)
	}
}

func TestRegisterPaymentWithCardCreatesAcertoCardRecord(t *testing.T) {
	store := newFakeStore()
	svc := newTestAcertoService(store)

	store.acertos["ac-1"] = &models.Acerto{
		ID: "ac-1", ClientName: "Maria", Type: models.AcertoCliente,
		TotalAmount: 500, PendingAmount: 500, Status: models.StatusPendente,
	}

	_, err := svc.RegisterPayment("ac-1", nil, 500, models.PaymentMethods{
		{Type: models.PaymentCartaoCredito, Amount: 500, Installments: 5, FirstInstallmentDate: "2026-02-10"},
	})
	require.NoError(t, err)

	require.Len(t, store.cardSales, 1)
	for _, cs := range store.cardSales {
		require.NotNil(t, cs.AcertoID)
		assert.Equal(t, "ac-1", *cs.AcertoID)
		assert.Nil(t, cs.SaleID)
	}
}

func TestRegisterPaymentRejectsNonPositiveAmount(t *testing.T) {
	store := newFakeStore()
	svc := newTestAcertoService(store)
	store.acertos["ac-1"] = &models.Acerto{ID: "ac-1", ClientName: "Maria", Type: models.AcertoCliente}

	_, err := svc.RegisterPayment("ac-1", nil, 0, nil)
	assert.True(t, IsValidation(err))
}
