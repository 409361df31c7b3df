package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Credit-card sub-ledger statuses.
const (
	CardActive    = "active"
	CardCompleted = "completed"

	CardInstallmentPending  = "pending"
	CardInstallmentReceived = "received"
	CardInstallmentPaid     = "paid"
)

// CreditCardSale is the parent record of a sale paid by credit card. Created
// atomically with its installment rows; remaining_amount shrinks as
// installments are realized, or is zeroed by anticipation. Once anticipated,
// status is forced to completed.
type CreditCardSale struct {
	ID                string     `json:"id" gorm:"primaryKey"`
	SaleID            *string    `json:"sale_id" gorm:"index"`
	AcertoID          *string    `json:"acerto_id" gorm:"index"`
	ClientName        string     `json:"client_name" gorm:"not null"`
	TotalAmount       float64    `json:"total_amount" gorm:"type:numeric(12,2)"`
	RemainingAmount   float64    `json:"remaining_amount" gorm:"type:numeric(12,2)"`
	Installments      int        `json:"installments"`
	SaleDate          time.Time  `json:"sale_date" gorm:"type:date"`
	FirstDueDate      time.Time  `json:"first_due_date" gorm:"type:date"`
	Status            string     `json:"status" gorm:"type:varchar(10);default:active;index"`
	Anticipated       bool       `json:"anticipated"`
	AnticipatedDate   *time.Time `json:"anticipated_date" gorm:"type:date"`
	AnticipatedFee    *float64   `json:"anticipated_fee" gorm:"type:numeric(12,2)"`
	AnticipatedAmount *float64   `json:"anticipated_amount" gorm:"type:numeric(12,2)"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (s *CreditCardSale) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return
}

// CreditCardSaleInstallment is one dated slice of a CreditCardSale. Owned
// exclusively by its parent; immutable once received.
type CreditCardSaleInstallment struct {
	ID                string     `json:"id" gorm:"primaryKey"`
	CreditCardSaleID  string     `json:"credit_card_sale_id" gorm:"not null;index"`
	InstallmentNumber int        `json:"installment_number"`
	Amount            float64    `json:"amount" gorm:"type:numeric(12,2)"`
	DueDate           time.Time  `json:"due_date" gorm:"type:date;index"`
	Status            string     `json:"status" gorm:"type:varchar(10);default:pending;index"`
	ReceivedDate      *time.Time `json:"received_date" gorm:"type:date"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (i *CreditCardSaleInstallment) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return
}

// CreditCardDebt mirrors CreditCardSale for purchases paid by card. Debts are
// not anticipated in this design.
type CreditCardDebt struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	DebtID          *string   `json:"debt_id" gorm:"index"`
	SupplierName    string    `json:"supplier_name" gorm:"not null"`
	TotalAmount     float64   `json:"total_amount" gorm:"type:numeric(12,2)"`
	RemainingAmount float64   `json:"remaining_amount" gorm:"type:numeric(12,2)"`
	Installments    int       `json:"installments"`
	PurchaseDate    time.Time `json:"purchase_date" gorm:"type:date"`
	FirstDueDate    time.Time `json:"first_due_date" gorm:"type:date"`
	Status          string    `json:"status" gorm:"type:varchar(10);default:active;index"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (d *CreditCardDebt) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return
}

type CreditCardDebtInstallment struct {
	ID                string     `json:"id" gorm:"primaryKey"`
	CreditCardDebtID  string     `json:"credit_card_debt_id" gorm:"not null;index"`
	InstallmentNumber int        `json:"installment_number"`
	Amount            float64    `json:"amount" gorm:"type:numeric(12,2)"`
	DueDate           time.Time  `json:"due_date" gorm:"type:date;index"`
	Status            string     `json:"status" gorm:"type:varchar(10);default:pending;index"`
	PaidDate          *time.Time `json:"paid_date" gorm:"type:date"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (i *CreditCardDebtInstallment) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return
}
