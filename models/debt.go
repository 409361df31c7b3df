package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Debt is a payable transaction; the mirror of Sale with paid/pending totals.
type Debt struct {
	ID             string         `json:"id" gorm:"primaryKey"`
	Date           time.Time      `json:"date" gorm:"type:date;not null;index:idx_debts_natural_key,priority:2"`
	Company        string         `json:"company" gorm:"not null;index:idx_debts_natural_key,priority:1"`
	Description    string         `json:"description"`
	TotalValue     float64        `json:"total_value" gorm:"type:numeric(12,2);index:idx_debts_natural_key,priority:3"`
	PaymentMethods PaymentMethods `json:"payment_methods" gorm:"type:jsonb;serializer:json"`
	PaidAmount     float64        `json:"paid_amount" gorm:"type:numeric(12,2)"`
	PendingAmount  float64        `json:"pending_amount" gorm:"type:numeric(12,2)"`
	Status         string         `json:"status" gorm:"type:varchar(10);default:pendente"`
	Observations   string         `json:"observations"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func (d *Debt) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return
}
