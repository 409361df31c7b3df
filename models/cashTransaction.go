package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cash ledger entry directions.
const (
	CashEntrada = "entrada"
	CashSaida   = "saida"
)

// CashTransaction is an append-only ledger entry, created exactly once per
// realized economic event. Never updated or deleted by normal flow;
// corrections are new offsetting entries.
type CashTransaction struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	Date          time.Time `json:"date" gorm:"type:date;not null;index"`
	Type          string    `json:"type" gorm:"type:varchar(10);not null;index"`
	Amount        float64   `json:"amount" gorm:"type:numeric(12,2)"`
	Category      string    `json:"category" gorm:"index"`
	Description   string    `json:"description"`
	RelatedID     *string   `json:"related_id" gorm:"index"`
	PaymentMethod string    `json:"payment_method"`
	CreatedAt     time.Time `json:"created_at"`
}

func (t *CashTransaction) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return
}
