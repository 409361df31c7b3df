package services

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"financeiro-backend/models"
	"financeiro-backend/utils"
)

// AcertoStore is the persistence surface of the settlement-account flows.
type AcertoStore interface {
	AcertoByID(id string) (*models.Acerto, error)
	AcertoByParty(party, kind string) (*models.Acerto, error)
	CreateAcerto(a *models.Acerto) error
	UpdateAcerto(id string, updates map[string]any) error

	SaleByID(id string) (*models.Sale, error)
	UpdateSale(id string, updates map[string]any) error

	CreateCashTransaction(tx *models.CashTransaction) error
	CreateCheck(c *models.Check) error
	CreateBoleto(b *models.Boleto) error

	PermutaByID(id string) (*models.Permuta, error)
	UpdatePermuta(id string, updates map[string]any) error
}

// AcertoService accrues deferred payments into per-party settlement balances
// and registers lump settlement payments against them.
type AcertoService struct {
	store AcertoStore
	cards *CreditCardService
}

func NewAcertoService(store AcertoStore, cards *CreditCardService) *AcertoService {
	return &AcertoService{store: store, cards: cards}
}

// Accrue adds amount to the party's open settlement balance, creating the
// balance on first use. kind is cliente for sale receivables and empresa for
// debt payables.
func (s *AcertoService) Accrue(party, kind string, amount float64) error {
	amount = utils.SafeAmount(amount, 0)
	if amount <= 0 {
		return nil
	}

	existing, err := s.store.AcertoByParty(party, kind)
	if err != nil && err != ErrNotFound {
		return err
	}

	if existing != nil {
		return s.store.UpdateAcerto(existing.ID, map[string]any{
			"total_amount":   utils.SumSafe(existing.TotalAmount, amount),
			"pending_amount": utils.SumSafe(existing.PendingAmount, amount),
			"status":         models.StatusPendente,
		})
	}

	acerto := &models.Acerto{
		ClientName:    party,
		Type:          kind,
		TotalAmount:   amount,
		PaidAmount:    0,
		PendingAmount: amount,
		Status:        models.StatusPendente,
		Observations:  fmt.Sprintf("Acerto criado automaticamente para %s", party),
	}
	if kind == models.AcertoEmpresa {
		acerto.CompanyName = party
	}
	return s.store.CreateAcerto(acerto)
}

// RegisterPayment settles part (or all) of a client acerto: the selected
// linked sales are marked fully received, each payment method fans out to its
// downstream effect, and the acerto totals are updated. Method failures are
// best-effort like the sale fan-out: logged, collected, never rolled back.
func (s *AcertoService) RegisterPayment(acertoID string, saleIDs []string, paymentAmount float64, methods []models.PaymentMethod) ([]MethodOutcome, error) {
	acerto, err := s.store.AcertoByID(acertoID)
	if err != nil {
		return nil, err
	}

	paymentAmount = utils.SafeAmount(paymentAmount, 0)
	if paymentAmount <= 0 {
		return nil, NewValidationError("payment amount must be positive")
	}

	for _, saleID := range saleIDs {
		if err := s.settleSale(saleID); err != nil {
			log.Error().Err(err).Str("sale", saleID).Msg("acerto payment: sale settle failed")
		}
	}

	today := utils.Today()
	outcomes := make([]MethodOutcome, 0, len(methods))
	for i := range methods {
		method := methods[i]
		method.Normalize()
		outcome := MethodOutcome{Method: method}
		if err := method.Validate(); err != nil {
			outcome.Err = err
		} else if err := s.applyPaymentMethod(acerto, method); err != nil {
			outcome.Err = err
			log.Error().Err(err).Str("acerto", acertoID).Str("type", string(method.Type)).
				Msg("acerto payment: method failed")
		}
		outcomes = append(outcomes, outcome)
	}

	paid := utils.SumSafe(acerto.PaidAmount, paymentAmount)
	_, pending, status := Recalc(acerto.TotalAmount, paid)
	if err := s.store.UpdateAcerto(acertoID, map[string]any{
		"paid_amount":    paid,
		"pending_amount": pending,
		"status":         status,
		"payment_date":   today,
	}); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}

func (s *AcertoService) settleSale(saleID string) error {
	sale, err := s.store.SaleByID(saleID)
	if err != nil {
		return err
	}
	return s.store.UpdateSale(saleID, map[string]any{
		"received_amount": utils.SumSafe(sale.ReceivedAmount, sale.PendingAmount),
		"pending_amount":  0.0,
		"status":          models.StatusPago,
	})
}

func (s *AcertoService) applyPaymentMethod(acerto *models.Acerto, method models.PaymentMethod) error {
	today := utils.Today()
	party := partyName(acerto.CompanyName, acerto.ClientName)

	switch {
	case method.Type.Immediate():
		return s.store.CreateCashTransaction(&models.CashTransaction{
			Date:          today,
			Type:          models.CashEntrada,
			Amount:        method.Amount,
			Category:      "acerto_cliente",
			Description:   fmt.Sprintf("Pagamento de acerto - Cliente: %s", party),
			RelatedID:     &acerto.ID,
			PaymentMethod: string(method.Type),
		})

	case method.Type == models.PaymentCartaoCredito:
		firstDue := today
		if method.FirstInstallmentDate != "" {
			firstDue, _ = utils.ParseDate(method.FirstInstallmentDate)
		}
		_, err := s.cards.CreateFromSale(CardParams{
			AcertoID:     acerto.ID,
			PartyName:    party,
			TotalAmount:  method.Amount,
			Installments: method.Installments,
			Date:         today,
			FirstDueDate: firstDue,
		})
		return err

	case method.Type == models.PaymentCheque:
		return s.createInstrumentRows(acerto, method, func(entry ScheduleEntry, total int) error {
			return s.store.CreateCheck(&models.Check{
				Client:            party,
				Value:             entry.Amount,
				DueDate:           entry.DueDate,
				Status:            models.CheckPendente,
				InstallmentNumber: entry.Number,
				TotalInstallments: total,
				RelatedType:       "acerto",
				RelatedID:         &acerto.ID,
			})
		})

	case method.Type == models.PaymentBoleto:
		return s.createInstrumentRows(acerto, method, func(entry ScheduleEntry, total int) error {
			return s.store.CreateBoleto(&models.Boleto{
				Client:            party,
				Value:             entry.Amount,
				DueDate:           entry.DueDate,
				Status:            models.BoletoPendente,
				InstallmentNumber: entry.Number,
				TotalInstallments: total,
				RelatedType:       "acerto",
				RelatedID:         &acerto.ID,
			})
		})

	case method.Type == models.PaymentPermuta:
		return consumePermuta(s.store, method.PermutaID, method.Amount)

	default:
		return NewValidationError("payment method %s not supported for acerto payments", method.Type)
	}
}

func (s *AcertoService) createInstrumentRows(acerto *models.Acerto, method models.PaymentMethod, create func(ScheduleEntry, int) error) error {
	firstDue := utils.Today()
	if method.FirstInstallmentDate != "" {
		firstDue, _ = utils.ParseDate(method.FirstInstallmentDate)
	}
	schedule, err := GenerateSchedule(method.Amount, method.Installments, firstDue, method.InstallmentInterval, method.InstallmentAmounts)
	if err != nil {
		return err
	}
	for _, entry := range schedule {
		if err := create(entry, method.Installments); err != nil {
			return err
		}
	}
	return nil
}
