package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Check statuses.
const (
	CheckPendente      = "pendente"
	CheckCompensado    = "compensado"
	CheckDevolvido     = "devolvido"
	CheckReapresentado = "reapresentado"
)

// Check is a check instrument, receivable (third-party) or payable (own /
// company check). The pendente -> compensado transition is the trigger for
// the cash-ledger posting.
type Check struct {
	ID                string     `json:"id" gorm:"primaryKey"`
	SaleID            *string    `json:"sale_id" gorm:"index"`
	DebtID            *string    `json:"debt_id" gorm:"index"`
	Client            string     `json:"client" gorm:"not null"`
	Value             float64    `json:"value" gorm:"type:numeric(12,2)"`
	DueDate           time.Time  `json:"due_date" gorm:"type:date;index"`
	Status            string     `json:"status" gorm:"type:varchar(15);default:pendente;index"`
	IsOwnCheck        bool       `json:"is_own_check"`
	IsCompanyPayable  bool       `json:"is_company_payable"`
	CompanyName       string     `json:"company_name"`
	InstallmentNumber int        `json:"installment_number"`
	TotalInstallments int        `json:"total_installments"`
	RelatedType       string     `json:"related_type"`
	RelatedID         *string    `json:"related_id"`
	PaymentDate       *time.Time `json:"payment_date" gorm:"type:date"`
	Observations      string     `json:"observations"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (c *Check) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return
}
