package database

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"financeiro-backend/models"
	"financeiro-backend/services"
)

// Store is the gorm-backed implementation of every service persistence
// surface. It is bound to one *gorm.DB handle, so the same type serves both
// the per-request transaction and the base connection (used by the
// best-effort fan-out flows).
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return services.ErrNotFound
	}
	return err
}

// --- sales / debts ---

func (s *Store) SaleByID(id string) (*models.Sale, error) {
	var sale models.Sale
	if err := s.db.First(&sale, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &sale, nil
}

func (s *Store) UpdateSale(id string, updates map[string]any) error {
	return s.db.Model(&models.Sale{}).Where("id = ?", id).Updates(updates).Error
}

func (s *Store) DebtByID(id string) (*models.Debt, error) {
	var debt models.Debt
	if err := s.db.First(&debt, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &debt, nil
}

func (s *Store) UpdateDebt(id string, updates map[string]any) error {
	return s.db.Model(&models.Debt{}).Where("id = ?", id).Updates(updates).Error
}

// SettledChildTotalForSale sums the sale's realized children: compensated
// checks, compensated boletos (principal only) and received card installments.
func (s *Store) SettledChildTotalForSale(saleID string) (float64, error) {
	var checks, boletos, cards float64

	err := s.db.Model(&models.Check{}).
		Where("sale_id = ? AND status = ?", saleID, models.CheckCompensado).
		Select("COALESCE(SUM(value), 0)").Scan(&checks).Error
	if err != nil {
		return 0, err
	}

	err = s.db.Model(&models.Boleto{}).
		Where("sale_id = ? AND status = ?", saleID, models.BoletoCompensado).
		Select("COALESCE(SUM(value), 0)").Scan(&boletos).Error
	if err != nil {
		return 0, err
	}

	err = s.db.Model(&models.CreditCardSaleInstallment{}).
		Where("credit_card_sale_id IN (?) AND status = ?",
			s.db.Model(&models.CreditCardSale{}).Select("id").Where("sale_id = ?", saleID),
			models.CardInstallmentReceived).
		Select("COALESCE(SUM(amount), 0)").Scan(&cards).Error
	if err != nil {
		return 0, err
	}

	return checks + boletos + cards, nil
}

func (s *Store) SettledChildTotalForDebt(debtID string) (float64, error) {
	var checks, boletos, cards float64

	err := s.db.Model(&models.Check{}).
		Where("debt_id = ? AND status = ?", debtID, models.CheckCompensado).
		Select("COALESCE(SUM(value), 0)").Scan(&checks).Error
	if err != nil {
		return 0, err
	}

	err = s.db.Model(&models.Boleto{}).
		Where("debt_id = ? AND status = ?", debtID, models.BoletoCompensado).
		Select("COALESCE(SUM(value), 0)").Scan(&boletos).Error
	if err != nil {
		return 0, err
	}

	err = s.db.Model(&models.CreditCardDebtInstallment{}).
		Where("credit_card_debt_id IN (?) AND status = ?",
			s.db.Model(&models.CreditCardDebt{}).Select("id").Where("debt_id = ?", debtID),
			models.CardInstallmentPaid).
		Select("COALESCE(SUM(amount), 0)").Scan(&cards).Error
	if err != nil {
		return 0, err
	}

	return checks + boletos + cards, nil
}

// --- checks / boletos ---

func (s *Store) CreateCheck(c *models.Check) error {
	return s.db.Create(c).Error
}

func (s *Store) CheckByID(id string) (*models.Check, error) {
	var check models.Check
	if err := s.db.First(&check, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &check, nil
}

// MarkCheckCompensado flips pendente -> compensado with a conditional update;
// RowsAffected tells the caller whether this call won the transition.
func (s *Store) MarkCheckCompensado(id string, paymentDate time.Time) (bool, error) {
	res := s.db.Model(&models.Check{}).
		Where("id = ? AND status = ?", id, models.CheckPendente).
		Updates(map[string]any{
			"status":       models.CheckCompensado,
			"payment_date": paymentDate,
		})
	return res.RowsAffected == 1, res.Error
}

func (s *Store) CreateBoleto(b *models.Boleto) error {
	return s.db.Create(b).Error
}

func (s *Store) BoletoByID(id string) (*models.Boleto, error) {
	var boleto models.Boleto
	if err := s.db.First(&boleto, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &boleto, nil
}

// MarkBoletoCompensado settles pendente or vencido boletos; overdue figures
// ride along in updates.
func (s *Store) MarkBoletoCompensado(id string, paymentDate time.Time, updates map[string]any) (bool, error) {
	merged := map[string]any{
		"status":       models.BoletoCompensado,
		"payment_date": paymentDate,
	}
	for k, v := range updates {
		merged[k] = v
	}
	res := s.db.Model(&models.Boleto{}).
		Where("id = ? AND status IN ?", id, []string{models.BoletoPendente, models.BoletoVencido}).
		Updates(merged)
	return res.RowsAffected == 1, res.Error
}

// --- credit-card sub-ledger ---

func (s *Store) CreateCreditCardSale(sale *models.CreditCardSale, installments []models.CreditCardSaleInstallment) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sale).Error; err != nil {
			return err
		}
		for i := range installments {
			installments[i].CreditCardSaleID = sale.ID
		}
		return tx.Create(&installments).Error
	})
}

func (s *Store) CreditCardSaleByID(id string) (*models.CreditCardSale, error) {
	var sale models.CreditCardSale
	if err := s.db.First(&sale, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &sale, nil
}

func (s *Store) UpdateCreditCardSale(id string, updates map[string]any) error {
	return s.db.Model(&models.CreditCardSale{}).Where("id = ?", id).Updates(updates).Error
}

func (s *Store) SaleInstallments(cardID string) ([]models.CreditCardSaleInstallment, error) {
	var rows []models.CreditCardSaleInstallment
	err := s.db.Where("credit_card_sale_id = ?", cardID).
		Order("installment_number").Find(&rows).Error
	return rows, err
}

func (s *Store) DueSaleInstallments(asOf time.Time) ([]models.CreditCardSaleInstallment, error) {
	var rows []models.CreditCardSaleInstallment
	err := s.db.Where("status = ? AND due_date <= ?", models.CardInstallmentPending, asOf).
		Order("due_date").Find(&rows).Error
	return rows, err
}

func (s *Store) SettleSaleInstallment(id string, date time.Time) (bool, error) {
	res := s.db.Model(&models.CreditCardSaleInstallment{}).
		Where("id = ? AND status = ?", id, models.CardInstallmentPending).
		Updates(map[string]any{
			"status":        models.CardInstallmentReceived,
			"received_date": date,
		})
	return res.RowsAffected == 1, res.Error
}

func (s *Store) SettlePendingSaleInstallments(cardID string, date time.Time) error {
	return s.db.Model(&models.CreditCardSaleInstallment{}).
		Where("credit_card_sale_id = ? AND status = ?", cardID, models.CardInstallmentPending).
		Updates(map[string]any{
			"status":        models.CardInstallmentReceived,
			"received_date": date,
		}).Error
}

func (s *Store) CreateCreditCardDebt(debt *models.CreditCardDebt, installments []models.CreditCardDebtInstallment) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(debt).Error; err != nil {
			return err
		}
		for i := range installments {
			installments[i].CreditCardDebtID = debt.ID
		}
		return tx.Create(&installments).Error
	})
}

func (s *Store) CreditCardDebtByID(id string) (*models.CreditCardDebt, error) {
	var debt models.CreditCardDebt
	if err := s.db.First(&debt, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &debt, nil
}

func (s *Store) UpdateCreditCardDebt(id string, updates map[string]any) error {
	return s.db.Model(&models.CreditCardDebt{}).Where("id = ?", id).Updates(updates).Error
}

func (s *Store) DebtInstallments(cardID string) ([]models.CreditCardDebtInstallment, error) {
	var rows []models.CreditCardDebtInstallment
	err := s.db.Where("credit_card_debt_id = ?", cardID).
		Order("installment_number").Find(&rows).Error
	return rows, err
}

func (s *Store) DueDebtInstallments(asOf time.Time) ([]models.CreditCardDebtInstallment, error) {
	var rows []models.CreditCardDebtInstallment
	err := s.db.Where("status = ? AND due_date <= ?", models.CardInstallmentPending, asOf).
		Order("due_date").Find(&rows).Error
	return rows, err
}

func (s *Store) SettleDebtInstallment(id string, date time.Time) (bool, error) {
	res := s.db.Model(&models.CreditCardDebtInstallment{}).
		Where("id = ? AND status = ?", id, models.CardInstallmentPending).
		Updates(map[string]any{
			"status":    models.CardInstallmentPaid,
			"paid_date": date,
		})
	return res.RowsAffected == 1, res.Error
}

// --- acertos ---

func (s *Store) AcertoByID(id string) (*models.Acerto, error) {
	var acerto models.Acerto
	if err := s.db.First(&acerto, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &acerto, nil
}

func (s *Store) AcertoByParty(party, kind string) (*models.Acerto, error) {
	var acerto models.Acerto
	err := s.db.Where("client_name = ? AND type = ?", party, kind).
		First(&acerto).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &acerto, nil
}

func (s *Store) CreateAcerto(a *models.Acerto) error {
	return s.db.Create(a).Error
}

func (s *Store) UpdateAcerto(id string, updates map[string]any) error {
	return s.db.Model(&models.Acerto{}).Where("id = ?", id).Updates(updates).Error
}

// --- cash ledger ---

func (s *Store) CreateCashTransaction(tx *models.CashTransaction) error {
	return s.db.Create(tx).Error
}

// CashBalance is entradas minus saidas over the whole ledger.
func (s *Store) CashBalance() (float64, error) {
	var balance float64
	err := s.db.Model(&models.CashTransaction{}).
		Select("COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE -amount END), 0)", models.CashEntrada).
		Scan(&balance).Error
	return balance, err
}

// --- permutas ---

func (s *Store) PermutaByID(id string) (*models.Permuta, error) {
	var permuta models.Permuta
	if err := s.db.First(&permuta, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &permuta, nil
}

func (s *Store) UpdatePermuta(id string, updates map[string]any) error {
	return s.db.Model(&models.Permuta{}).Where("id = ?", id).Updates(updates).Error
}

// --- duplicate probes ---

func (s *Store) SaleIDExists(id string) (bool, error) {
	return s.exists(s.db.Model(&models.Sale{}).Where("id = ?", id))
}

func (s *Store) SaleByNaturalKey(client string, date time.Time, total float64) (string, bool, error) {
	return s.firstID(s.db.Model(&models.Sale{}).
		Where("client = ? AND date = ? AND total_value = ?", client, date, total))
}

func (s *Store) DebtIDExists(id string) (bool, error) {
	return s.exists(s.db.Model(&models.Debt{}).Where("id = ?", id))
}

func (s *Store) DebtByNaturalKey(company string, date time.Time, total float64) (string, bool, error) {
	return s.firstID(s.db.Model(&models.Debt{}).
		Where("company = ? AND date = ? AND total_value = ?", company, date, total))
}

func (s *Store) EmployeeIDExists(id string) (bool, error) {
	return s.exists(s.db.Model(&models.Employee{}).Where("id = ?", id))
}

func (s *Store) EmployeeByNaturalKey(name, position string) (string, bool, error) {
	return s.firstID(s.db.Model(&models.Employee{}).
		Where("name = ? AND position = ?", name, position))
}

func (s *Store) exists(q *gorm.DB) (bool, error) {
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) firstID(q *gorm.DB) (string, bool, error) {
	var ids []string
	if err := q.Limit(1).Pluck("id", &ids).Error; err != nil {
		return "", false, err
	}
	if len(ids) == 0 {
		return "", false, nil
	}
	return ids[0], true, nil
}

// --- fan-out replay probe ---

// MethodEffectExists reports whether the downstream effect of (owner, method
// type) already landed, so a replayed fan-out skips it. Acerto accruals and
// permuta consumption have no per-owner trace; their replays are suppressed
// upstream by the duplicate guard.
func (s *Store) MethodEffectExists(kind services.OwnerKind, ownerID string, methodType models.PaymentType) (bool, error) {
	ownerCol := "sale_id"
	if kind == services.OwnerDebt {
		ownerCol = "debt_id"
	}

	switch {
	case methodType.Immediate():
		return s.exists(s.db.Model(&models.CashTransaction{}).
			Where("related_id = ? AND payment_method = ?", ownerID, string(methodType)))
	case methodType == models.PaymentCheque:
		return s.exists(s.db.Model(&models.Check{}).Where(ownerCol+" = ?", ownerID))
	case methodType == models.PaymentBoleto:
		return s.exists(s.db.Model(&models.Boleto{}).Where(ownerCol+" = ?", ownerID))
	case methodType == models.PaymentCartaoCredito:
		if kind == services.OwnerDebt {
			return s.exists(s.db.Model(&models.CreditCardDebt{}).Where("debt_id = ?", ownerID))
		}
		return s.exists(s.db.Model(&models.CreditCardSale{}).Where("sale_id = ?", ownerID))
	default:
		return false, nil
	}
}

// --- payroll ---

func (s *Store) EmployeeByID(id string) (*models.Employee, error) {
	var employee models.Employee
	if err := s.db.First(&employee, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &employee, nil
}

func (s *Store) CreateEmployeePayment(p *models.EmployeePayment) error {
	return s.db.Create(p).Error
}

func (s *Store) SettleEmployeeAdvances(employeeID string) error {
	return s.db.Model(&models.EmployeeAdvance{}).
		Where("employee_id = ? AND status = ?", employeeID, models.AdvancePendente).
		Update("status", models.AdvanceDescontado).Error
}

func (s *Store) SettleEmployeeOvertimes(employeeID string) error {
	return s.db.Model(&models.EmployeeOvertime{}).
		Where("employee_id = ? AND status = ?", employeeID, models.OvertimePendente).
		Update("status", models.OvertimePago).Error
}

func (s *Store) SettleEmployeeCommissions(employeeID string) error {
	return s.db.Model(&models.EmployeeCommission{}).
		Where("employee_id = ? AND status = ?", employeeID, models.CommissionPendente).
		Update("status", models.CommissionPago).Error
}
