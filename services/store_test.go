package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"financeiro-backend/models"
)

// fakeStore is an in-memory implementation of every service store interface.
type fakeStore struct {
	sales        map[string]*models.Sale
	debts        map[string]*models.Debt
	checks       map[string]*models.Check
	boletos      map[string]*models.Boleto
	cardSales    map[string]*models.CreditCardSale
	cardSaleRows map[string]*models.CreditCardSaleInstallment
	cardDebts    map[string]*models.CreditCardDebt
	cardDebtRows map[string]*models.CreditCardDebtInstallment
	acertos      map[string]*models.Acerto
	permutas     map[string]*models.Permuta
	employees    map[string]*models.Employee
	advances     map[string]*models.EmployeeAdvance
	overtimes    map[string]*models.EmployeeOvertime
	commissions  map[string]*models.EmployeeCommission
	payments     []*models.EmployeePayment
	cash         []*models.CashTransaction

	// effects simulates already-landed fan-out writes: key kind|owner|type.
	effects map[string]bool
	// failLookups makes the duplicate probes fail.
	failLookups bool

	seq int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sales:        map[string]*models.Sale{},
		debts:        map[string]*models.Debt{},
		checks:       map[string]*models.Check{},
		boletos:      map[string]*models.Boleto{},
		cardSales:    map[string]*models.CreditCardSale{},
		cardSaleRows: map[string]*models.CreditCardSaleInstallment{},
		cardDebts:    map[string]*models.CreditCardDebt{},
		cardDebtRows: map[string]*models.CreditCardDebtInstallment{},
		acertos:      map[string]*models.Acerto{},
		permutas:     map[string]*models.Permuta{},
		employees:    map[string]*models.Employee{},
		advances:     map[string]*models.EmployeeAdvance{},
		overtimes:    map[string]*models.EmployeeOvertime{},
		commissions:  map[string]*models.EmployeeCommission{},
		effects:      map[string]bool{},
	}
}

func (f *fakeStore) nextID() string {
	f.seq++
	return fmt.Sprintf("id-%03d", f.seq)
}

func (f *fakeStore) cashByCategory(category string) []*models.CashTransaction {
	var out []*models.CashTransaction
	for _, tx := range f.cash {
		if tx.Category == category {
			out = append(out, tx)
		}
	}
	return out
}

// --- sales / debts ---

func (f *fakeStore) SaleByID(id string) (*models.Sale, error) {
	if s, ok := f.sales[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (f *fakeStore) UpdateSale(id string, updates map[string]any) error {
	s, ok := f.sales[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range updates {
		switch k {
		case "received_amount":
			s.ReceivedAmount = v.(float64)
		case "pending_amount":
			s.PendingAmount = v.(float64)
		case "status":
			s.Status = v.(string)
		}
	}
	return nil
}

func (f *fakeStore) DebtByID(id string) (*models.Debt, error) {
	if d, ok := f.debts[id]; ok {
		return d, nil
	}
	return nil, ErrNotFound
}

func (f *fakeStore) UpdateDebt(id string, updates map[string]any) error {
	d, ok := f.debts[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range updates {
		switch k {
		case "paid_amount":
			d.PaidAmount = v.(float64)
		case "pending_amount":
			d.PendingAmount = v.(float64)
		case "status":
			d.Status = v.(string)
		}
	}
	return nil
}

func (f *fakeStore) SettledChildTotalForSale(saleID string) (float64, error) {
	var total float64
	for _, c := range f.checks {
		if c.SaleID != nil && *c.SaleID == saleID && c.Status == models.CheckCompensado {
			total += c.Value
		}
	}
	for _, b := range f.boletos {
		if b.SaleID != nil && *b.SaleID == saleID && b.Status == models.BoletoCompensado {
			total += b.Value
		}
	}
	for _, row := range f.cardSaleRows {
		parent := f.cardSales[row.CreditCardSaleID]
		if parent != nil && parent.SaleID != nil && *parent.SaleID == saleID &&
			row.Status == models.CardInstallmentReceived {
			total += row.Amount
		}
	}
	return total, nil
}

func (f *fakeStore) SettledChildTotalForDebt(debtID string) (float64, error) {
	var total float64
	for _, c := range f.checks {
		if c.DebtID != nil && *c.DebtID == debtID && c.Status == models.CheckCompensado {
			total += c.Value
		}
	}
	for _, b := range f.boletos {
		if b.DebtID != nil && *b.DebtID == debtID && b.Status == models.BoletoCompensado {
			total += b.Value
		}
	}
	for _, row := range f.cardDebtRows {
		parent := f.cardDebts[row.CreditCardDebtID]
		if parent != nil && parent.DebtID != nil && *parent.DebtID == debtID &&
			row.Status == models.CardInstallmentPaid {
			total += row.Amount
		}
	}
	return total, nil
}

// --- checks / boletos ---

func (f *fakeStore) CreateCheck(c *models.Check) error {
	if c.ID == "" {
		c.ID = f.nextID()
	}
	f.checks[c.ID] = c
	return nil
}

func (f *fakeStore) CheckByID(id string) (*models.Check, error) {
	if c, ok := f.checks[id]; ok {
		return c, nil
	}
	return nil, ErrNotFound
}

func (f *fakeStore) MarkCheckCompensado(id string, paymentDate time.Time) (bool, error) {
	c, ok := f.checks[id]
	if !ok {
		return false, ErrNotFound
	}
	if c.Status != models.CheckPendente {
		return false, nil
	}
	c.Status = models.CheckCompensado
	c.PaymentDate = &paymentDate
	return true, nil
}

func (f *fakeStore) CreateBoleto(b *models.Boleto) error {
	if b.ID == "" {
		b.ID = f.nextID()
	}
	f.boletos[b.ID] = b
	return nil
}

func (f *fakeStore) BoletoByID(id string) (*models.Boleto, error) {
	if b, ok := f.boletos[id]; ok {
		return b, nil
	}
	return nil, ErrNotFound
}

func (f *fakeStore) MarkBoletoCompensado(id string, paymentDate time.Time, updates map[string]any) (bool, error) {
	b, ok := f.boletos[id]
	if !ok {
		return false, ErrNotFound
	}
	if b.Status != models.BoletoPendente && b.Status != models.BoletoVencido {
		return false, nil
	}
	b.Status = models.BoletoCompensado
	b.PaymentDate = &paymentDate
	for k, v := range updates {
		switch k {
		case "overdue_action":
			b.OverdueAction = v.(string)
		case "interest_amount":
			b.InterestAmount = v.(float64)
		case "penalty_amount":
			b.PenaltyAmount = v.(float64)
		case "notary_costs":
			b.NotaryCosts = v.(float64)
		case "final_amount":
			b.FinalAmount = v.(float64)
		}
	}
	return true, nil
}

// --- credit-card sub-ledger ---

func (f *fakeStore) CreateCreditCardSale(sale *models.CreditCardSale, installments []models.CreditCardSaleInstallment) error {
	if sale.ID == "" {
		sale.ID = f.nextID()
	}
	f.cardSales[sale.ID] = sale
	for i := range installments {
		row := installments[i]
		row.ID = f.nextID()
		row.CreditCardSaleID = sale.ID
		f.cardSaleRows[row.ID] = &row
	}
	return nil
}

func (f *fakeStore) CreditCardSaleByID(id string) (*models.CreditCardSale, error) {
	if s, ok := f.cardSales[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (f *fakeStore) UpdateCreditCardSale(id string, updates map[string]any) error {
	s, ok := f.cardSales[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range updates {
		switch k {
		case "anticipated":
			s.Anticipated = v.(bool)
		case "anticipated_date":
			d := v.(time.Time)
			s.AnticipatedDate = &d
		case "anticipated_fee":
			fee := v.(float64)
			s.AnticipatedFee = &fee
		case "anticipated_amount":
			net := v.(float64)
			s.AnticipatedAmount = &net
		case "remaining_amount":
			s.RemainingAmount = v.(float64)
		case "status":
			s.Status = v.(string)
		}
	}
	return nil
}

func (f *fakeStore) SaleInstallments(cardID string) ([]models.CreditCardSaleInstallment, error) {
	var rows []models.CreditCardSaleInstallment
	for _, r := range f.cardSaleRows {
		if r.CreditCardSaleID == cardID {
			rows = append(rows, *r)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].InstallmentNumber < rows[j].InstallmentNumber })
	return rows, nil
}

func (f *fakeStore) DueSaleInstallments(asOf time.Time) ([]models.CreditCardSaleInstallment, error) {
	var rows []models.CreditCardSaleInstallment
	for _, r := range f.cardSaleRows {
		if r.Status == models.CardInstallmentPending && !r.DueDate.After(asOf) {
			rows = append(rows, *r)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].DueDate.Before(rows[j].DueDate) })
	return rows, nil
}

func (f *fakeStore) SettleSaleInstallment(id string, date time.Time) (bool, error) {
	r, ok := f.cardSaleRows[id]
	if !ok {
		return false, ErrNotFound
	}
	if r.Status != models.CardInstallmentPending {
		return false, nil
	}
	r.Status = models.CardInstallmentReceived
	r.ReceivedDate = &date
	return true, nil
}

func (f *fakeStore) SettlePendingSaleInstallments(cardID string, date time.Time) error {
	for _, r := range f.cardSaleRows {
		if r.CreditCardSaleID == cardID && r.Status == models.CardInstallmentPending {
			r.Status = models.CardInstallmentReceived
			r.ReceivedDate = &date
		}
	}
	return nil
}

func (f *fakeStore) CreateCreditCardDebt(debt *models.CreditCardDebt, installments []models.CreditCardDebtInstallment) error {
	if debt.ID == "" {
		debt.ID = f.nextID()
	}
	f.cardDebts[debt.ID] = debt
	for i := range installments {
		row := installments[i]
		row.ID = f.nextID()
		row.CreditCardDebtID = debt.ID
		f.cardDebtRows[row.ID] = &row
	}
	return nil
}

func (f *fakeStore) CreditCardDebtByID(id string) (*models.CreditCardDebt, error) {
	if d, ok := f.cardDebts[id]; ok {
		return d, nil
	}
	return nil, ErrNotFound
}

func (f *fakeStore) UpdateCreditCardDebt(id string, updates map[string]any) error {
	d, ok := f.cardDebts[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range updates {
		switch k {
		case "remaining_amount":
			d.RemainingAmount = v.(float64)
		case "status":
			d.Status = v.(string)
		}
	}
	return nil
}

func (f *fakeStore) DebtInstallments(cardID string) ([]models.CreditCardDebtInstallment, error) {
	var rows []models.CreditCardDebtInstallment
	for _, r := range f.cardDebtRows {
		if r.CreditCardDebtID == cardID {
			rows = append(rows, *r)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].InstallmentNumber < rows[j].InstallmentNumber })
	return rows, nil
}

func (f *fakeStore) DueDebtInstallments(asOf time.Time) ([]models.CreditCardDebtInstallment, error) {
	var rows []models.CreditCardDebtInstallment
	for _, r := range f.cardDebtRows {
		if r.Status == models.CardInstallmentPending && !r.DueDate.After(asOf) {
			rows = append(rows, *r)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].DueDate.Before(rows[j].DueDate) })
	return rows, nil
}

func (f *fakeStore) SettleDebtInstallment(id string, date time.Time) (bool, error) {
	r, ok := f.cardDebtRows[id]
	if !ok {
		return false, ErrNotFound
	}
	if r.Status != models.CardInstallmentPending {
		return false, nil
	}
	r.Status = models.CardInstallmentPaid
	r.PaidDate = &date
	return true, nil
}

// --- acertos ---

func (f *fakeStore) AcertoByID(id string) (*models.Acerto, error) {
	if a, ok := f.acertos[id]; ok {
		return a, nil
	}
	return nil, ErrNotFound
}

func (f *fakeStore) AcertoByParty(party, kind string) (*models.Acerto, error) {
	for _, a := range f.acertos {
		if a.ClientName == party && a.Type == kind {
			return a, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) CreateAcerto(a *models.Acerto) error {
	if a.ID == "" {
		a.ID = f.nextID()
	}
	f.acertos[a.ID] = a
	return nil
}

func (f *fakeStore) UpdateAcerto(id string, updates map[string]any) error {
	a, ok := f.acertos[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range updates {
		switch k {
		case "total_amount":
			a.TotalAmount = v.(float64)
		case "paid_amount":
			a.PaidAmount = v.(float64)
		case "pending_amount":
			a.PendingAmount = v.(float64)
		case "status":
			a.Status = v.(string)
		case "payment_date":
			d := v.(time.Time)
			a.PaymentDate = &d
		}
	}
	return nil
}

// --- cash ledger ---

func (f *fakeStore) CreateCashTransaction(tx *models.CashTransaction) error {
	if tx.ID == "" {
		tx.ID = f.nextID()
	}
	f.cash = append(f.cash, tx)
	return nil
}

// --- permutas ---

func (f *fakeStore) PermutaByID(id string) (*models.Permuta, error) {
	if p, ok := f.permutas[id]; ok {
		return p, nil
	}
	return nil, ErrNotFound
}

func (f *fakeStore) UpdatePermuta(id string, updates map[string]any) error {
	p, ok := f.permutas[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range updates {
		switch k {
		case "consumed_value":
			p.ConsumedValue = v.(float64)
		case "remaining_value":
			p.RemainingValue = v.(float64)
		}
	}
	return nil
}

// --- duplicate probes ---

func (f *fakeStore) SaleIDExists(id string) (bool, error) {
	if f.failLookups {
		return false, errors.New("lookup failed")
	}
	_, ok := f.sales[id]
	return ok, nil
}

func (f *fakeStore) SaleByNaturalKey(client string, date time.Time, total float64) (string, bool, error) {
	if f.failLookups {
		return "", false, errors.New("lookup failed")
	}
	for _, s := range f.sales {
		if s.Client == client && s.Date.Equal(date) && s.TotalValue == total {
			return s.ID, true, nil
		}
	}
	return "", false, nil
}

func (f *fakeStore) DebtIDExists(id string) (bool, error) {
	if f.failLookups {
		return false, errors.New("lookup failed")
	}
	_, ok := f.debts[id]
	return ok, nil
}

func (f *fakeStore) DebtByNaturalKey(company string, date time.Time, total float64) (string, bool, error) {
	if f.failLookups {
		return "", false, errors.New("lookup failed")
	}
	for _, d := range f.debts {
		if d.Company == company && d.Date.Equal(date) && d.TotalValue == total {
			return d.ID, true, nil
		}
	}
	return "", false, nil
}

func (f *fakeStore) EmployeeIDExists(id string) (bool, error) {
	if f.failLookups {
		return false, errors.New("lookup failed")
	}
	_, ok := f.employees[id]
	return ok, nil
}

func (f *fakeStore) EmployeeByNaturalKey(name, position string) (string, bool, error) {
	if f.failLookups {
		return "", false, errors.New("lookup failed")
	}
	for _, e := range f.employees {
		if e.Name == name && e.Position == position {
			return e.ID, true, nil
		}
	}
	return "", false, nil
}

// --- fan-out replay probe ---

func (f *fakeStore) MethodEffectExists(kind OwnerKind, ownerID string, methodType models.PaymentType) (bool, error) {
	return f.effects[string(kind)+"|"+ownerID+"|"+string(methodType)], nil
}

// --- payroll ---

func (f *fakeStore) EmployeeByID(id string) (*models.Employee, error) {
	if e, ok := f.employees[id]; ok {
		return e, nil
	}
	return nil, ErrNotFound
}

func (f *fakeStore) CreateEmployeePayment(p *models.EmployeePayment) error {
	if p.ID == "" {
		p.ID = f.nextID()
	}
	f.payments = append(f.payments, p)
	return nil
}

func (f *fakeStore) SettleEmployeeAdvances(employeeID string) error {
	for _, a := range f.advances {
		if a.EmployeeID == employeeID && a.Status == models.AdvancePendente {
			a.Status = models.AdvanceDescontado
		}
	}
	return nil
}

func (f *fakeStore) SettleEmployeeOvertimes(employeeID string) error {
	for _, o := range f.overtimes {
		if o.EmployeeID == employeeID && o.Status == models.OvertimePendente {
			o.Status = models.OvertimePago
		}
	}
	return nil
}

func (f *fakeStore) SettleEmployeeCommissions(employeeID string) error {
	for _, c := range f.commissions {
		if c.EmployeeID == employeeID && c.Status == models.CommissionPendente {
			c.Status = models.CommissionPago
		}
	}
	return nil
}
