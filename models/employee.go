package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee payroll item statuses.
const (
	AdvancePendente   = "pendente"
	AdvanceDescontado = "descontado"

	OvertimePendente = "pendente"
	OvertimePago     = "pago"

	CommissionPendente = "pendente"
	CommissionPago     = "pago"
)

type Employee struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null;index:idx_employees_natural_key,priority:1"`
	Position     string    `json:"position" gorm:"not null;index:idx_employees_natural_key,priority:2"`
	IsSeller     bool      `json:"is_seller"`
	Salary       float64   `json:"salary" gorm:"type:numeric(12,2)"`
	PaymentDay   int       `json:"payment_day"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	HireDate     time.Time `json:"hire_date" gorm:"type:date"`
	Observations string    `json:"observations"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (e *Employee) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return
}

// EmployeePayment is a payroll payment. Registering one settles the
// employee's pending advances, overtimes and commissions so the next payroll
// run does not double count them.
type EmployeePayment struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	EmployeeID   string    `json:"employee_id" gorm:"not null;index"`
	Amount       float64   `json:"amount" gorm:"type:numeric(12,2)"`
	PaymentDate  time.Time `json:"payment_date" gorm:"type:date"`
	IsPaid       bool      `json:"is_paid"`
	Observations string    `json:"observations"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (p *EmployeePayment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return
}

type EmployeeAdvance struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	EmployeeID    string    `json:"employee_id" gorm:"not null;index"`
	Amount        float64   `json:"amount" gorm:"type:numeric(12,2)"`
	Date          time.Time `json:"date" gorm:"type:date"`
	Description   string    `json:"description"`
	PaymentMethod string    `json:"payment_method"`
	Status        string    `json:"status" gorm:"type:varchar(15);default:pendente;index"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (a *EmployeeAdvance) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return
}

type EmployeeOvertime struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	EmployeeID  string    `json:"employee_id" gorm:"not null;index"`
	Hours       float64   `json:"hours"`
	HourlyRate  float64   `json:"hourly_rate" gorm:"type:numeric(12,2)"`
	TotalAmount float64   `json:"total_amount" gorm:"type:numeric(12,2)"`
	Date        time.Time `json:"date" gorm:"type:date"`
	Description string    `json:"description"`
	Status      string    `json:"status" gorm:"type:varchar(10);default:pendente;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (o *EmployeeOvertime) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return
}

type EmployeeCommission struct {
	ID               string    `json:"id" gorm:"primaryKey"`
	EmployeeID       string    `json:"employee_id" gorm:"not null;index"`
	SaleID           string    `json:"sale_id" gorm:"index"`
	SaleValue        float64   `json:"sale_value" gorm:"type:numeric(12,2)"`
	CommissionRate   float64   `json:"commission_rate"`
	CommissionAmount float64   `json:"commission_amount" gorm:"type:numeric(12,2)"`
	Date             time.Time `json:"date" gorm:"type:date"`
	Status           string    `json:"status" gorm:"type:varchar(10);default:pendente;index"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (c *EmployeeCommission) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return
}
