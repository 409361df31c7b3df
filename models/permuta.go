package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Permuta is a trade-in asset (typically a vehicle) taken as payment. Its
// remaining value is consumed by permuta payment methods, floored at zero.
type Permuta struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	ClientName     string    `json:"client_name" gorm:"not null"`
	VehicleName    string    `json:"vehicle_name" gorm:"not null"`
	VehiclePlate   string    `json:"vehicle_plate"`
	VehicleValue   float64   `json:"vehicle_value" gorm:"type:numeric(12,2)"`
	ConsumedValue  float64   `json:"consumed_value" gorm:"type:numeric(12,2)"`
	RemainingValue float64   `json:"remaining_value" gorm:"type:numeric(12,2)"`
	Observations   string    `json:"observations"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (p *Permuta) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return
}
