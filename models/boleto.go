package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Boleto statuses.
const (
	BoletoPendente   = "pendente"
	BoletoCompensado = "compensado"
	BoletoVencido    = "vencido"
	BoletoCancelado  = "cancelado"
)

// Boleto is a bank slip instrument. Receivable boletos may settle late with
// interest/penalty; notary costs are posted as a separate cash outflow.
type Boleto struct {
	ID                string     `json:"id" gorm:"primaryKey"`
	SaleID            *string    `json:"sale_id" gorm:"index"`
	DebtID            *string    `json:"debt_id" gorm:"index"`
	Client            string     `json:"client" gorm:"not null"`
	Value             float64    `json:"value" gorm:"type:numeric(12,2)"`
	DueDate           time.Time  `json:"due_date" gorm:"type:date;index"`
	Status            string     `json:"status" gorm:"type:varchar(15);default:pendente;index"`
	InstallmentNumber int        `json:"installment_number"`
	TotalInstallments int        `json:"total_installments"`
	IsCompanyPayable  bool       `json:"is_company_payable"`
	CompanyName       string     `json:"company_name"`
	OverdueAction     string     `json:"overdue_action"`
	InterestAmount    float64    `json:"interest_amount" gorm:"type:numeric(12,2)"`
	PenaltyAmount     float64    `json:"penalty_amount" gorm:"type:numeric(12,2)"`
	NotaryCosts       float64    `json:"notary_costs" gorm:"type:numeric(12,2)"`
	FinalAmount       float64    `json:"final_amount" gorm:"type:numeric(12,2)"`
	RelatedType       string     `json:"related_type"`
	RelatedID         *string    `json:"related_id"`
	PaymentDate       *time.Time `json:"payment_date" gorm:"type:date"`
	Observations      string     `json:"observations"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (b *Boleto) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return
}
