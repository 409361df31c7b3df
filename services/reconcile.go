package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"financeiro-backend/models"
	"financeiro-backend/utils"
)

// Epsilon absorbs 2-decimal rounding drift when deciding whether a balance
// is fully settled.
const Epsilon = 0.01

// Recalc derives the settled/pending pair and the owner status from a total
// and the amounts settled so far. pending never goes negative; the status is
// pago when pending is within Epsilon of zero, parcial when anything settled,
// pendente otherwise.
func Recalc(total float64, settled float64) (received, pending float64, status string) {
	t := decimal.NewFromFloat(utils.SafeAmount(total, 0))
	r := decimal.NewFromFloat(utils.SafeAmount(settled, 0))
	p := t.Sub(r)
	if p.IsNegative() {
		p = decimal.Zero
	}

	received = r.Round(2).InexactFloat64()
	pending = p.Round(2).InexactFloat64()

	switch {
	case pending <= Epsilon:
		status = models.StatusPago
		pending = 0
	case received > 0:
		status = models.StatusParcial
	default:
		status = models.StatusPendente
	}
	return received, pending, status
}

// ReconcileStore is the persistence surface of balance reconciliation and
// instrument settlement. SettleCheck/SettleBoleto on the store perform the
// gated pendente -> compensado transition and report whether this call won it.
type ReconcileStore interface {
	SaleByID(id string) (*models.Sale, error)
	UpdateSale(id string, updates map[string]any) error
	DebtByID(id string) (*models.Debt, error)
	UpdateDebt(id string, updates map[string]any) error

	// Settled child totals: compensated checks + compensated boletos +
	// realized card installments linked to the owner.
	SettledChildTotalForSale(saleID string) (float64, error)
	SettledChildTotalForDebt(debtID string) (float64, error)

	CheckByID(id string) (*models.Check, error)
	MarkCheckCompensado(id string, paymentDate time.Time) (bool, error)
	BoletoByID(id string) (*models.Boleto, error)
	MarkBoletoCompensado(id string, paymentDate time.Time, updates map[string]any) (bool, error)

	CreateCashTransaction(tx *models.CashTransaction) error
}

// ReconcileService keeps sale/debt aggregate totals consistent with their
// child installments and drives the cash postings triggered by instrument
// settlement.
type ReconcileService struct {
	store ReconcileStore
}

func NewReconcileService(store ReconcileStore) *ReconcileService {
	return &ReconcileService{store: store}
}

// RecalcSale recomputes a sale's received/pending amounts from its settled
// children plus its immediate payment methods, and updates the derived status.
func (s *ReconcileService) RecalcSale(saleID string) error {
	sale, err := s.store.SaleByID(saleID)
	if err != nil {
		return err
	}
	childTotal, err := s.store.SettledChildTotalForSale(saleID)
	if err != nil {
		return err
	}

	settled := utils.SumSafe(childTotal, ImmediateTotal(sale.PaymentMethods))
	received, pending, status := Recalc(sale.TotalValue, settled)
	return s.store.UpdateSale(saleID, map[string]any{
		"received_amount": received,
		"pending_amount":  pending,
		"status":          status,
	})
}

// RecalcDebt is the payable mirror of RecalcSale.
func (s *ReconcileService) RecalcDebt(debtID string) error {
	debt, err := s.store.DebtByID(debtID)
	if err != nil {
		return err
	}
	childTotal, err := s.store.SettledChildTotalForDebt(debtID)
	if err != nil {
		return err
	}

	settled := utils.SumSafe(childTotal, ImmediateTotal(debt.PaymentMethods))
	paid, pending, status := Recalc(debt.TotalValue, settled)
	return s.store.UpdateDebt(debtID, map[string]any{
		"paid_amount":    paid,
		"pending_amount": pending,
		"status":         status,
	})
}

// ImmediateTotal sums the methods that settle at creation time. Trade-ins
// count as settled in kind.
func ImmediateTotal(methods models.PaymentMethods) float64 {
	values := make([]any, 0, len(methods))
	for _, m := range methods {
		if m.Type.Immediate() || m.Type == models.PaymentPermuta {
			values = append(values, m.Amount)
		}
	}
	return utils.SumSafe(values...)
}

// SettleCheck compensates a check: own/company checks post a cash outflow,
// third-party checks an inflow, then the owning sale/debt is reconciled. The
// posting happens at most once; a second settle of the same check is a no-op.
func (s *ReconcileService) SettleCheck(checkID string, paymentDate time.Time) error {
	check, err := s.store.CheckByID(checkID)
	if err != nil {
		return err
	}

	won, err := s.store.MarkCheckCompensado(checkID, paymentDate)
	if err != nil {
		return err
	}
	if !won {
		return nil
	}

	cash := &models.CashTransaction{
		Date:          paymentDate,
		Amount:        check.Value,
		Category:      "cheque",
		RelatedID:     &check.ID,
		PaymentMethod: string(models.PaymentCheque),
	}
	if check.IsOwnCheck || check.IsCompanyPayable {
		cash.Type = models.CashSaida
		cash.Description = fmt.Sprintf("Cheque próprio pago - %s", partyName(check.CompanyName, check.Client))
	} else {
		cash.Type = models.CashEntrada
		cash.Description = fmt.Sprintf("Cheque compensado - %s", check.Client)
	}
	if err := s.store.CreateCashTransaction(cash); err != nil {
		return err
	}

	return s.reconcileOwner(check.SaleID, check.DebtID)
}

// BoletoSettlement carries the optional late-payment figures registered when
// a boleto is compensated.
type BoletoSettlement struct {
	PaymentDate    time.Time
	OverdueAction  string
	InterestAmount float64
	PenaltyAmount  float64
	NotaryCosts    float64
}

// SettleBoleto compensates a boleto. Receivable boletos post the final amount
// (value + interest + penalty) net of notary costs, with the notary costs as
// a separate outflow; company-payable boletos post the final amount as an
// outflow.
func (s *ReconcileService) SettleBoleto(boletoID string, p BoletoSettlement) error {
	boleto, err := s.store.BoletoByID(boletoID)
	if err != nil {
		return err
	}

	interest := utils.SafeAmount(p.InterestAmount, 0)
	penalty := utils.SafeAmount(p.PenaltyAmount, 0)
	notary := utils.SafeAmount(p.NotaryCosts, 0)
	final := utils.SumSafe(boleto.Value, interest, penalty)

	won, err := s.store.MarkBoletoCompensado(boletoID, p.PaymentDate, map[string]any{
		"overdue_action":  p.OverdueAction,
		"interest_amount": interest,
		"penalty_amount":  penalty,
		"notary_costs":    notary,
		"final_amount":    final,
	})
	if err != nil {
		return err
	}
	if !won {
		return nil
	}

	if boleto.IsCompanyPayable {
		if err := s.store.CreateCashTransaction(&models.CashTransaction{
			Date:          p.PaymentDate,
			Type:          models.CashSaida,
			Amount:        final,
			Category:      "boleto",
			Description:   fmt.Sprintf("Boleto pago - %s", partyName(boleto.CompanyName, boleto.Client)),
			RelatedID:     &boleto.ID,
			PaymentMethod: string(models.PaymentBoleto),
		}); err != nil {
			return err
		}
	} else {
		net := utils.Round2(final - notary)
		if err := s.store.CreateCashTransaction(&models.CashTransaction{
			Date:          p.PaymentDate,
			Type:          models.CashEntrada,
			Amount:        net,
			Category:      "boleto",
			Description:   fmt.Sprintf("Boleto recebido - %s", boleto.Client),
			RelatedID:     &boleto.ID,
			PaymentMethod: string(models.PaymentBoleto),
		}); err != nil {
			return err
		}
		if notary > 0 {
			if err := s.store.CreateCashTransaction(&models.CashTransaction{
				Date:          p.PaymentDate,
				Type:          models.CashSaida,
				Amount:        notary,
				Category:      "outro",
				Description:   fmt.Sprintf("Custos de cartório - %s", boleto.Client),
				RelatedID:     &boleto.ID,
				PaymentMethod: "cartorio",
			}); err != nil {
				return err
			}
		}
	}

	return s.reconcileOwner(boleto.SaleID, boleto.DebtID)
}

func (s *ReconcileService) reconcileOwner(saleID, debtID *string) error {
	if saleID != nil && *saleID != "" {
		return s.RecalcSale(*saleID)
	}
	if debtID != nil && *debtID != "" {
		return s.RecalcDebt(*debtID)
	}
	return nil
}

func partyName(company, client string) string {
	if company != "" {
		return company
	}
	return client
}
