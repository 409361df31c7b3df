package services

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"financeiro-backend/models"
	"financeiro-backend/utils"
)

// CardStore is the persistence surface of the credit-card sub-ledger.
// Settle* methods perform a gated pending -> settled transition and report
// whether this call won the transition; only the winner posts cash.
type CardStore interface {
	CreateCreditCardSale(sale *models.CreditCardSale, installments []models.CreditCardSaleInstallment) error
	CreditCardSaleByID(id string) (*models.CreditCardSale, error)
	UpdateCreditCardSale(id string, updates map[string]any) error
	SaleInstallments(cardID string) ([]models.CreditCardSaleInstallment, error)
	DueSaleInstallments(asOf time.Time) ([]models.CreditCardSaleInstallment, error)
	SettleSaleInstallment(id string, date time.Time) (bool, error)
	SettlePendingSaleInstallments(cardID string, date time.Time) error

	CreateCreditCardDebt(debt *models.CreditCardDebt, installments []models.CreditCardDebtInstallment) error
	CreditCardDebtByID(id string) (*models.CreditCardDebt, error)
	UpdateCreditCardDebt(id string, updates map[string]any) error
	DebtInstallments(cardID string) ([]models.CreditCardDebtInstallment, error)
	DueDebtInstallments(asOf time.Time) ([]models.CreditCardDebtInstallment, error)
	SettleDebtInstallment(id string, date time.Time) (bool, error)

	CreateCashTransaction(tx *models.CashTransaction) error
}

// CreditCardService owns the card sub-ledger: parent records with dated
// installment rows, anticipation, and the due-date sweep.
type CreditCardService struct {
	store CardStore
}

func NewCreditCardService(store CardStore) *CreditCardService {
	return &CreditCardService{store: store}
}

// CardParams describes a new card record derived from a sale, debt or acerto
// payment.
type CardParams struct {
	SaleID       string
	DebtID       string
	AcertoID     string
	PartyName    string
	TotalAmount  float64
	Installments int
	Date         time.Time
	FirstDueDate time.Time
}

// CreateFromSale inserts the parent receivable with remaining = total and one
// pending installment row per month.
func (s *CreditCardService) CreateFromSale(p CardParams) (string, error) {
	schedule, err := GenerateMonthlySchedule(p.TotalAmount, p.Installments, p.FirstDueDate)
	if err != nil {
		return "", err
	}

	sale := &models.CreditCardSale{
		ClientName:      p.PartyName,
		TotalAmount:     p.TotalAmount,
		RemainingAmount: p.TotalAmount,
		Installments:    p.Installments,
		SaleDate:        p.Date,
		FirstDueDate:    p.FirstDueDate,
		Status:          models.CardActive,
	}
	if p.SaleID != "" {
		sale.SaleID = &p.SaleID
	}
	if p.AcertoID != "" {
		sale.AcertoID = &p.AcertoID
	}

	rows := make([]models.CreditCardSaleInstallment, len(schedule))
	for i, entry := range schedule {
		rows[i] = models.CreditCardSaleInstallment{
			InstallmentNumber: entry.Number,
			Amount:            entry.Amount,
			DueDate:           entry.DueDate,
			Status:            models.CardInstallmentPending,
		}
	}

	if err := s.store.CreateCreditCardSale(sale, rows); err != nil {
		return "", err
	}
	return sale.ID, nil
}

// CreateFromDebt is the payable mirror of CreateFromSale.
func (s *CreditCardService) CreateFromDebt(p CardParams) (string, error) {
	schedule, err := GenerateMonthlySchedule(p.TotalAmount, p.Installments, p.FirstDueDate)
	if err != nil {
		return "", err
	}

	debt := &models.CreditCardDebt{
		SupplierName:    p.PartyName,
		TotalAmount:     p.TotalAmount,
		RemainingAmount: p.TotalAmount,
		Installments:    p.Installments,
		PurchaseDate:    p.Date,
		FirstDueDate:    p.FirstDueDate,
		Status:          models.CardActive,
	}
	if p.DebtID != "" {
		debt.DebtID = &p.DebtID
	}

	rows := make([]models.CreditCardDebtInstallment, len(schedule))
	for i, entry := range schedule {
		rows[i] = models.CreditCardDebtInstallment{
			InstallmentNumber: entry.Number,
			Amount:            entry.Amount,
			DueDate:           entry.DueDate,
			Status:            models.CardInstallmentPending,
		}
	}

	if err := s.store.CreateCreditCardDebt(debt, rows); err != nil {
		return "", err
	}
	return debt.ID, nil
}

// AnticipateSale collapses every still-pending installment of a receivable
// into a single discounted cash inflow: net = remaining - fee. The parent is
// forced to completed with remaining zeroed. Debts are not anticipated.
func (s *CreditCardService) AnticipateSale(cardID string, fee float64) error {
	if fee < 0 {
		return NewValidationError("anticipation fee must not be negative")
	}

	sale, err := s.store.CreditCardSaleByID(cardID)
	if err != nil {
		return err
	}
	if sale.RemainingAmount <= 0 {
		return NewValidationError("nothing to anticipate: remaining amount is zero")
	}
	if fee >= sale.RemainingAmount {
		return NewValidationError("anticipation fee exceeds remaining amount")
	}

	today := utils.Today()
	net := utils.Round2(sale.RemainingAmount - fee)

	if err := s.store.UpdateCreditCardSale(cardID, map[string]any{
		"anticipated":        true,
		"anticipated_date":   today,
		"anticipated_fee":    fee,
		"anticipated_amount": net,
		"remaining_amount":   0.0,
		"status":             models.CardCompleted,
	}); err != nil {
		return err
	}

	if err := s.store.SettlePendingSaleInstallments(cardID, today); err != nil {
		return err
	}

	return s.store.CreateCashTransaction(&models.CashTransaction{
		Date:          today,
		Type:          models.CashEntrada,
		Amount:        net,
		Category:      "antecipacao_cartao",
		Description:   fmt.Sprintf("Antecipação de venda (Cartão de Crédito) - %s", sale.ClientName),
		RelatedID:     &cardID,
		PaymentMethod: string(models.PaymentCartaoCredito),
	})
}

// SweepReport summarizes one due-date sweep run.
type SweepReport struct {
	SaleInstallmentsSettled int `json:"sale_installments_settled"`
	DebtInstallmentsSettled int `json:"debt_installments_settled"`
	Errors                  int `json:"errors"`
}

// SweepDue realizes every pending installment due on or before asOf into a
// cash transaction and refreshes the parents' remaining amounts. Safe to run
// repeatedly and concurrently: the gated pending -> settled transition means
// only the first caller to observe pending posts the cash entry. One bad row
// is logged and skipped, never aborting the batch.
func (s *CreditCardService) SweepDue(asOf time.Time) (SweepReport, error) {
	var report SweepReport

	saleRows, err := s.store.DueSaleInstallments(asOf)
	if err != nil {
		return report, err
	}
	for _, row := range saleRows {
		if err := s.realizeSaleInstallment(row, asOf); err != nil {
			report.Errors++
			log.Error().Err(err).Str("installment", row.ID).Msg("sweep: sale installment failed")
			continue
		}
		report.SaleInstallmentsSettled++
	}

	debtRows, err := s.store.DueDebtInstallments(asOf)
	if err != nil {
		return report, err
	}
	for _, row := range debtRows {
		if err := s.realizeDebtInstallment(row, asOf); err != nil {
			report.Errors++
			log.Error().Err(err).Str("installment", row.ID).Msg("sweep: debt installment failed")
			continue
		}
		report.DebtInstallmentsSettled++
	}

	return report, nil
}

func (s *CreditCardService) realizeSaleInstallment(row models.CreditCardSaleInstallment, asOf time.Time) error {
	won, err := s.store.SettleSaleInstallment(row.ID, asOf)
	if err != nil {
		return err
	}
	if !won {
		// Another caller already realized this installment.
		return nil
	}

	sale, err := s.store.CreditCardSaleByID(row.CreditCardSaleID)
	if err != nil {
		return err
	}

	if err := s.store.CreateCashTransaction(&models.CashTransaction{
		Date:          asOf,
		Type:          models.CashEntrada,
		Amount:        row.Amount,
		Category:      "recebimento_cartao",
		Description:   fmt.Sprintf("Recebimento parcela %d - %s (Cartão de Crédito)", row.InstallmentNumber, sale.ClientName),
		RelatedID:     &sale.ID,
		PaymentMethod: string(models.PaymentCartaoCredito),
	}); err != nil {
		return err
	}

	return s.refreshSaleRemaining(sale.ID)
}

func (s *CreditCardService) realizeDebtInstallment(row models.CreditCardDebtInstallment, asOf time.Time) error {
	won, err := s.store.SettleDebtInstallment(row.ID, asOf)
	if err != nil {
		return err
	}
	if !won {
		return nil
	}

	debt, err := s.store.CreditCardDebtByID(row.CreditCardDebtID)
	if err != nil {
		return err
	}

	if err := s.store.CreateCashTransaction(&models.CashTransaction{
		Date:          asOf,
		Type:          models.CashSaida,
		Amount:        row.Amount,
		Category:      "pagamento_cartao",
		Description:   fmt.Sprintf("Pagamento parcela %d - %s (Cartão de Crédito)", row.InstallmentNumber, debt.SupplierName),
		RelatedID:     &debt.ID,
		PaymentMethod: string(models.PaymentCartaoCredito),
	}); err != nil {
		return err
	}

	return s.refreshDebtRemaining(debt.ID)
}

// refreshSaleRemaining recomputes remaining_amount as the sum of still-pending
// installments and completes the parent when it reaches zero.
func (s *CreditCardService) refreshSaleRemaining(cardID string) error {
	rows, err := s.store.SaleInstallments(cardID)
	if err != nil {
		return err
	}
	var pending []any
	for _, r := range rows {
		if r.Status == models.CardInstallmentPending {
			pending = append(pending, r.Amount)
		}
	}
	return s.applyRemaining(cardID, utils.SumSafe(pending...), s.store.UpdateCreditCardSale)
}

func (s *CreditCardService) refreshDebtRemaining(cardID string) error {
	rows, err := s.store.DebtInstallments(cardID)
	if err != nil {
		return err
	}
	var pending []any
	for _, r := range rows {
		if r.Status == models.CardInstallmentPending {
			pending = append(pending, r.Amount)
		}
	}
	return s.applyRemaining(cardID, utils.SumSafe(pending...), s.store.UpdateCreditCardDebt)
}

func (s *CreditCardService) applyRemaining(cardID string, remaining float64, update func(string, map[string]any) error) error {
	updates := map[string]any{"remaining_amount": remaining}
	if remaining <= 0 {
		updates["status"] = models.CardCompleted
	}
	return update(cardID, updates)
}
