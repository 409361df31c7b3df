package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AcertoCliente accrues receivables from a client; AcertoEmpresa accrues
// payables to a company.
const (
	AcertoCliente = "cliente"
	AcertoEmpresa = "empresa"
)

// Acerto is a running settlement balance for a single party, accumulated from
// every sale/debt that chose the acerto payment method. pending_amount is
// always total_amount - paid_amount.
type Acerto struct {
	ID            string     `json:"id" gorm:"primaryKey"`
	ClientName    string     `json:"client_name" gorm:"not null;index:idx_acertos_party,priority:1"`
	CompanyName   string     `json:"company_name"`
	Type          string     `json:"type" gorm:"type:varchar(10);not null;index:idx_acertos_party,priority:2"`
	TotalAmount   float64    `json:"total_amount" gorm:"type:numeric(12,2)"`
	PaidAmount    float64    `json:"paid_amount" gorm:"type:numeric(12,2)"`
	PendingAmount float64    `json:"pending_amount" gorm:"type:numeric(12,2)"`
	Status        string     `json:"status" gorm:"type:varchar(10);default:pendente"`
	PaymentDate   *time.Time `json:"payment_date" gorm:"type:date"`
	Observations  string     `json:"observations"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (a *Acerto) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return
}
