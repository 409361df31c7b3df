package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Status values shared by sales, debts and acertos.
const (
	StatusPendente = "pendente"
	StatusParcial  = "parcial"
	StatusPago     = "pago"
)

// Sale is a revenue transaction. received_amount + pending_amount always
// equals total_value (within rounding tolerance); status is derived from that
// pair by the reconciliation service, never set independently.
type Sale struct {
	ID             string         `json:"id" gorm:"primaryKey"`
	Date           time.Time      `json:"date" gorm:"type:date;not null;index:idx_sales_natural_key,priority:2"`
	Client         string         `json:"client" gorm:"not null;index:idx_sales_natural_key,priority:1"`
	SellerID       *string        `json:"seller_id" gorm:"index"`
	Products       datatypes.JSON `json:"products" gorm:"type:jsonb"`
	TotalValue     float64        `json:"total_value" gorm:"type:numeric(12,2);index:idx_sales_natural_key,priority:3"`
	PaymentMethods PaymentMethods `json:"payment_methods" gorm:"type:jsonb;serializer:json"`
	ReceivedAmount float64        `json:"received_amount" gorm:"type:numeric(12,2)"`
	PendingAmount  float64        `json:"pending_amount" gorm:"type:numeric(12,2)"`
	Status         string         `json:"status" gorm:"type:varchar(10);default:pendente"`
	CommissionRate float64        `json:"commission_rate"`
	Observations   string         `json:"observations"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func (s *Sale) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return
}
