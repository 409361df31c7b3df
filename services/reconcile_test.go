package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financeiro-backend/models"
)

func TestRecalc(t *testing.T) {
	tests := []struct {
		name        string
		total       float64
		settled     float64
		wantPending float64
		wantStatus  string
	}{
		{"nothing settled", 100, 0, 100, models.StatusPendente},
		{"partially settled", 100, 40, 60, models.StatusParcial},
		{"fully settled", 100, 100, 0, models.StatusPago},
		{"within epsilon", 100, 99.995, 0, models.StatusPago},
		{"oversettled clamps", 100, 120, 0, models.StatusPago},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, pending, status := Recalc(tt.total, tt.settled)
			assert.Equal(t, tt.wantPending, pending)
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}

func TestImmediateTotal(t *testing.T) {
	methods := models.PaymentMethods{
		{Type: models.PaymentDinheiro, Amount: 100},
		{Type: models.PaymentPix, Amount: 50},
		{Type: models.PaymentCheque, Amount: 300},
		{Type: models.PaymentPermuta, Amount: 25},
	}
	assert.Equal(t, 175.0, ImmediateTotal(methods))
}

func TestSettleCheckThirdParty(t *testing.T) {
	store := newFakeStore()
	saleID := "sale-1"
	store.sales[saleID] = &models.Sale{ID: saleID, TotalValue: 200, Status: models.StatusPendente}
	store.checks["chk-1"] = &models.Check{
		ID: "chk-1", SaleID: &saleID, Client: "Maria", Value: 200, Status: models.CheckPendente,
	}

	svc := NewReconcileService(store)
	require.NoError(t, svc.SettleCheck("chk-1", date("2026-02-01")))

	assert.Equal(t, models.CheckCompensado, store.checks["chk-1"].Status)
	entries := store.cashByCategory("cheque")
	require.Len(t, entries, 1)
	assert.Equal(t, models.CashEntrada, entries[0].Type)
	assert.Equal(t, 200.0, entries[0].Amount)

	sale := store.sales[saleID]
	assert.Equal(t, models.StatusPago, sale.Status)
	assert.Equal(t, 0.0, sale.PendingAmount)
}

func TestSettleCheckOwnPostsSaida(t *testing.T) {
	store := newFakeStore()
	debtID := "debt-1"
	store.debts[debtID] = &models.Debt{ID: debtID, TotalValue: 500, Status: models.StatusPendente}
	store.checks["chk-1"] = &models.Check{
		ID: "chk-1", DebtID: &debtID, Client: "Fornecedor", Value: 500,
		Status: models.CheckPendente, IsOwnCheck: true, IsCompanyPayable: true, CompanyName: "Fornecedor SA",
	}

	svc := NewReconcileService(store)
	require.NoError(t, svc.SettleCheck("chk-1", date("2026-02-01")))

	entries := store.cashByCategory("cheque")
	require.Len(t, entries, 1)
	assert.Equal(t, models.CashSaida, entries[0].Type)
	assert.Contains(t, entries[0].Description, "Fornecedor SA")
}

func TestSettleCheckTwicePostsOnce(t *testing.T) {
	store := newFakeStore()
	saleID := "sale-1"
	store.sales[saleID] = &models.Sale{ID: saleID, TotalValue: 100}
	store.checks["chk-1"] = &models.Check{ID: "chk-1", SaleID: &saleID, Value: 100, Status: models.CheckPendente}

	svc := NewReconcileService(store)
	require.NoError(t, svc.SettleCheck("chk-1", date("2026-02-01")))
	require.NoError(t, svc.SettleCheck("chk-1", date("2026-02-02")))

	assert.Len(t, store.cashByCategory("cheque"), 1)
}

func TestSettleBoletoOverdue(t *testing.T) {
	store := newFakeStore()
	saleID := "sale-1"
	store.sales[saleID] = &models.Sale{ID: saleID, TotalValue: 1000}
	store.boletos["bol-1"] = &models.Boleto{
		ID: "bol-1", SaleID: &saleID, Client: "Pedro", Value: 1000, Status: models.BoletoVencido,
	}

	svc := NewReconcileService(store)
	require.NoError(t, svc.SettleBoleto("bol-1", BoletoSettlement{
		PaymentDate:    date("2026-03-10"),
		OverdueAction:  "cartorio",
		InterestAmount: 20,
		PenaltyAmount:  10,
		NotaryCosts:    15,
	}))

	boleto := store.boletos["bol-1"]
	assert.Equal(t, models.BoletoCompensado, boleto.Status)
	assert.Equal(t, 1030.0, boleto.FinalAmount)

	inflows := store.cashByCategory("boleto")
	require.Len(t, inflows, 1)
	assert.Equal(t, models.CashEntrada, inflows[0].Type)
	assert.Equal(t, 1015.0, inflows[0].Amount) // final minus notary

	notary := store.cashByCategory("outro")
	require.Len(t, notary, 1)
	assert.Equal(t, models.CashSaida, notary[0].Type)
	assert.Equal(t, 15.0, notary[0].Amount)

	// Reconciliation counts the principal, not the overdue extras.
	sale := store.sales[saleID]
	assert.Equal(t, models.StatusPago, sale.Status)
}

func TestSettleBoletoCompanyPayable(t *testing.T) {
	store := newFakeStore()
	debtID := "debt-1"
	store.debts[debtID] = &models.Debt{ID: debtID, TotalValue: 400}
	store.boletos["bol-1"] = &models.Boleto{
		ID: "bol-1", DebtID: &debtID, Client: "Fornecedor", Value: 400,
		Status: models.BoletoPendente, IsCompanyPayable: true, CompanyName: "Fornecedor SA",
	}

	svc := NewReconcileService(store)
	require.NoError(t, svc.SettleBoleto("bol-1", BoletoSettlement{PaymentDate: date("2026-02-01")}))

	entries := store.cashByCategory("boleto")
	require.Len(t, entries, 1)
	assert.Equal(t, models.CashSaida, entries[0].Type)
	assert.Equal(t, 400.0, entries[0].Amount)
	assert.Equal(t, models.StatusPago, store.debts[debtID].Status)
}

func TestRecalcSaleCountsImmediateMethods(t *testing.T) {
	store := newFakeStore()
	saleID := "sale-1"
	store.sales[saleID] = &models.Sale{
		ID:         saleID,
		TotalValue: 300,
		PaymentMethods: models.PaymentMethods{
			{Type: models.PaymentPix, Amount: 100},
			{Type: models.PaymentCheque, Amount: 200},
		},
	}
	store.checks["chk-1"] = &models.Check{ID: "chk-1", SaleID: &saleID, Value: 200, Status: models.CheckCompensado}

	svc := NewReconcileService(store)
	require.NoError(t, svc.RecalcSale(saleID))

	sale := store.sales[saleID]
	assert.Equal(t, 300.0, sale.ReceivedAmount)
	assert.Equal(t, models.StatusPago, sale.Status)
}
