package services

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"financeiro-backend/models"
	"financeiro-backend/utils"
)

// OwnerKind distinguishes the two fan-out directions.
type OwnerKind string

const (
	OwnerSale OwnerKind = "sale"
	OwnerDebt OwnerKind = "debt"
)

// PermutaStore reads and consumes trade-in assets.
type PermutaStore interface {
	PermutaByID(id string) (*models.Permuta, error)
	UpdatePermuta(id string, updates map[string]any) error
}

// DispatcherStore is the persistence surface of the payment-method fan-out.
// MethodEffectExists reports whether the downstream effect of (owner, type)
// already landed, making a replayed fan-out skip instead of double-writing.
type DispatcherStore interface {
	PermutaStore
	CreateCashTransaction(tx *models.CashTransaction) error
	CreateCheck(c *models.Check) error
	CreateBoleto(b *models.Boleto) error
	MethodEffectExists(kind OwnerKind, ownerID string, methodType models.PaymentType) (bool, error)
}

// MethodOutcome is one payment method's fan-out result. The fan-out is
// deliberately non-transactional: a failed method never rolls back the ones
// already applied, so callers get the full outcome list to act on.
type MethodOutcome struct {
	Method  models.PaymentMethod `json:"method"`
	Skipped bool                 `json:"skipped,omitempty"`
	Err     error                `json:"-"`
}

// Error is the serializable face of Err.
func (o MethodOutcome) Error() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// Dispatcher routes each payment method of a sale/debt to its downstream
// effect: immediate cash entry, check/boleto rows, card sub-ledger record,
// acerto accrual, or trade-in consumption.
type Dispatcher struct {
	store   DispatcherStore
	cards   *CreditCardService
	acertos *AcertoService
}

func NewDispatcher(store DispatcherStore, cards *CreditCardService, acertos *AcertoService) *Dispatcher {
	return &Dispatcher{store: store, cards: cards, acertos: acertos}
}

// Process fans the methods out best-effort: every method is attempted
// independently, failures are logged and reported per method, and a
// previously-landed effect for the same (owner, type) pair is skipped.
func (d *Dispatcher) Process(kind OwnerKind, ownerID, party string, date time.Time, methods []models.PaymentMethod) []MethodOutcome {
	outcomes := make([]MethodOutcome, 0, len(methods))
	for i := range methods {
		method := methods[i]
		method.Normalize()
		outcome := MethodOutcome{Method: method}

		if err := method.Validate(); err != nil {
			outcome.Err = err
			outcomes = append(outcomes, outcome)
			continue
		}

		exists, err := d.store.MethodEffectExists(kind, ownerID, method.Type)
		if err != nil {
			log.Warn().Err(err).Str("owner", ownerID).Str("type", string(method.Type)).
				Msg("fan-out replay probe failed; proceeding")
		}
		if exists {
			outcome.Skipped = true
			outcomes = append(outcomes, outcome)
			continue
		}

		if err := d.apply(kind, ownerID, party, date, method); err != nil {
			outcome.Err = err
			log.Error().Err(err).Str("owner", ownerID).Str("type", string(method.Type)).
				Msg("payment method fan-out failed")
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

func (d *Dispatcher) apply(kind OwnerKind, ownerID, party string, date time.Time, method models.PaymentMethod) error {
	switch {
	case method.Type.Immediate():
		return d.postImmediate(kind, ownerID, party, date, method)
	case method.Type == models.PaymentCheque:
		return d.createChecks(kind, ownerID, party, date, method)
	case method.Type == models.PaymentBoleto:
		return d.createBoletos(kind, ownerID, party, date, method)
	case method.Type == models.PaymentCartaoCredito:
		return d.createCardRecord(kind, ownerID, party, date, method)
	case method.Type == models.PaymentAcerto:
		acertoKind := models.AcertoCliente
		if kind == OwnerDebt {
			acertoKind = models.AcertoEmpresa
		}
		return d.acertos.Accrue(party, acertoKind, method.Amount)
	case method.Type == models.PaymentPermuta:
		return consumePermuta(d.store, method.PermutaID, method.Amount)
	default:
		return NewValidationError("unsupported payment method %s", method.Type)
	}
}

func (d *Dispatcher) postImmediate(kind OwnerKind, ownerID, party string, date time.Time, method models.PaymentMethod) error {
	cash := &models.CashTransaction{
		Date:          date,
		Amount:        method.Amount,
		RelatedID:     &ownerID,
		PaymentMethod: string(method.Type),
	}
	if kind == OwnerSale {
		cash.Type = models.CashEntrada
		cash.Category = "venda"
		cash.Description = fmt.Sprintf("Venda à vista - %s", party)
	} else {
		cash.Type = models.CashSaida
		cash.Category = "pagamento_divida"
		cash.Description = fmt.Sprintf("Pagamento - %s", party)
	}
	return d.store.CreateCashTransaction(cash)
}

func (d *Dispatcher) createChecks(kind OwnerKind, ownerID, party string, date time.Time, method models.PaymentMethod) error {
	schedule, err := methodSchedule(method, date)
	if err != nil {
		return err
	}
	for _, entry := range schedule {
		check := &models.Check{
			Client:            party,
			Value:             entry.Amount,
			DueDate:           entry.DueDate,
			Status:            models.CheckPendente,
			InstallmentNumber: entry.Number,
			TotalInstallments: method.Installments,
		}
		if kind == OwnerSale {
			check.SaleID = &ownerID
			check.IsOwnCheck = method.IsOwnCheck
			check.Observations = fmt.Sprintf("Cheque %d/%d - Venda para %s", entry.Number, method.Installments, party)
		} else {
			check.DebtID = &ownerID
			check.IsOwnCheck = true
			check.IsCompanyPayable = true
			check.CompanyName = party
			check.Observations = fmt.Sprintf("Cheque próprio %d/%d - Pagamento para %s", entry.Number, method.Installments, party)
		}
		if err := d.store.CreateCheck(check); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) createBoletos(kind OwnerKind, ownerID, party string, date time.Time, method models.PaymentMethod) error {
	schedule, err := methodSchedule(method, date)
	if err != nil {
		return err
	}
	for _, entry := range schedule {
		boleto := &models.Boleto{
			Client:            party,
			Value:             entry.Amount,
			DueDate:           entry.DueDate,
			Status:            models.BoletoPendente,
			InstallmentNumber: entry.Number,
			TotalInstallments: method.Installments,
		}
		if kind == OwnerSale {
			boleto.SaleID = &ownerID
			boleto.Observations = fmt.Sprintf("Boleto %d/%d - Venda para %s", entry.Number, method.Installments, party)
		} else {
			boleto.DebtID = &ownerID
			boleto.IsCompanyPayable = true
			boleto.CompanyName = party
			boleto.Observations = fmt.Sprintf("Boleto %d/%d - Pagamento para %s", entry.Number, method.Installments, party)
		}
		if err := d.store.CreateBoleto(boleto); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) createCardRecord(kind OwnerKind, ownerID, party string, date time.Time, method models.PaymentMethod) error {
	firstDue := date
	if method.FirstInstallmentDate != "" {
		firstDue, _ = utils.ParseDate(method.FirstInstallmentDate)
	}
	params := CardParams{
		PartyName:    party,
		TotalAmount:  method.Amount,
		Installments: method.Installments,
		Date:         date,
		FirstDueDate: firstDue,
	}
	if kind == OwnerSale {
		params.SaleID = ownerID
		_, err := d.cards.CreateFromSale(params)
		return err
	}
	params.DebtID = ownerID
	_, err := d.cards.CreateFromDebt(params)
	return err
}

// methodSchedule derives the check/boleto installment plan from a method,
// defaulting the first due date to the owning transaction's date.
func methodSchedule(method models.PaymentMethod, fallback time.Time) ([]ScheduleEntry, error) {
	firstDue := fallback
	if method.FirstInstallmentDate != "" {
		firstDue, _ = utils.ParseDate(method.FirstInstallmentDate)
	}
	return GenerateSchedule(method.Amount, method.Installments, firstDue, method.InstallmentInterval, method.InstallmentAmounts)
}

// consumePermuta decrements a trade-in asset's remaining value, floored at
// zero.
func consumePermuta(store PermutaStore, permutaID string, amount float64) error {
	permuta, err := store.PermutaByID(permutaID)
	if err != nil {
		return err
	}
	consumed := utils.SumSafe(permuta.ConsumedValue, amount)
	remaining := utils.Round2(permuta.VehicleValue - consumed)
	if remaining < 0 {
		remaining = 0
	}
	return store.UpdatePermuta(permutaID, map[string]any{
		"consumed_value":  consumed,
		"remaining_value": remaining,
	})
}
