package services

import (
	"fmt"
	"time"

	"financeiro-backend/models"
	"financeiro-backend/utils"
)

// PayrollStore is the persistence surface of employee payments. The Settle*
// methods flip every pending item of the employee in one statement.
type PayrollStore interface {
	EmployeeByID(id string) (*models.Employee, error)
	CreateEmployeePayment(p *models.EmployeePayment) error
	SettleEmployeeAdvances(employeeID string) error
	SettleEmployeeOvertimes(employeeID string) error
	SettleEmployeeCommissions(employeeID string) error
	CreateCashTransaction(tx *models.CashTransaction) error
}

// PayrollService registers employee payments. Paying an employee posts the
// cash outflow and settles their pending advances, overtimes and commissions
// in the same operation, so the next payroll calculation does not double
// count them. Atomic from the caller's perspective; runs inside the
// per-request transaction.
type PayrollService struct {
	store PayrollStore
}

func NewPayrollService(store PayrollStore) *PayrollService {
	return &PayrollService{store: store}
}

// PayEmployee records the payment, posts saida and settles pending items.
func (s *PayrollService) PayEmployee(employeeID string, amount float64, paymentDate time.Time, observations string) (*models.EmployeePayment, error) {
	amount = utils.SafeAmount(amount, 0)
	if amount <= 0 {
		return nil, NewValidationError("payment amount must be positive")
	}

	employee, err := s.store.EmployeeByID(employeeID)
	if err != nil {
		return nil, err
	}

	payment := &models.EmployeePayment{
		EmployeeID:   employeeID,
		Amount:       amount,
		PaymentDate:  paymentDate,
		IsPaid:       true,
		Observations: observations,
	}
	if err := s.store.CreateEmployeePayment(payment); err != nil {
		return nil, err
	}

	if err := s.store.CreateCashTransaction(&models.CashTransaction{
		Date:        paymentDate,
		Type:        models.CashSaida,
		Amount:      amount,
		Category:    "salario",
		Description: fmt.Sprintf("Pagamento de funcionário - %s", employee.Name),
		RelatedID:   &payment.ID,
	}); err != nil {
		return nil, err
	}

	if err := s.store.SettleEmployeeAdvances(employeeID); err != nil {
		return nil, err
	}
	if err := s.store.SettleEmployeeOvertimes(employeeID); err != nil {
		return nil, err
	}
	if err := s.store.SettleEmployeeCommissions(employeeID); err != nil {
		return nil, err
	}
	return payment, nil
}
