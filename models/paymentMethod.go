package models

import (
	"fmt"

	"github.com/shopspring/decimal"

	"financeiro-backend/utils"
)

// PaymentType is the closed set of payment method variants.
type PaymentType string

const (
	PaymentDinheiro      PaymentType = "dinheiro"
	PaymentPix           PaymentType = "pix"
	PaymentCartaoCredito PaymentType = "cartao_credito"
	PaymentCartaoDebito  PaymentType = "cartao_debito"
	PaymentCheque        PaymentType = "cheque"
	PaymentBoleto        PaymentType = "boleto"
	PaymentTransferencia PaymentType = "transferencia"
	PaymentAcerto        PaymentType = "acerto"
	PaymentPermuta       PaymentType = "permuta"
)

// PaymentMethod is one payment leg of a sale or debt. It is embedded in the
// owning row as JSONB, never a standalone table. Installment fields only have
// meaning for the installment-bearing variants (cheque, boleto, cartao_credito).
type PaymentMethod struct {
	Type                 PaymentType `json:"type" validate:"required,oneof=dinheiro pix cartao_credito cartao_debito cheque boleto transferencia acerto permuta"`
	Amount               float64     `json:"amount" validate:"gt=0"`
	Installments         int         `json:"installments,omitempty"`
	InstallmentAmounts   []float64   `json:"installment_amounts,omitempty"`
	InstallmentInterval  int         `json:"installment_interval,omitempty"`
	FirstInstallmentDate string      `json:"first_installment_date,omitempty"`
	IsOwnCheck           bool        `json:"is_own_check,omitempty"`
	PermutaID            string      `json:"permuta_id,omitempty"`
}

// PaymentMethods is the JSONB column type for the embedded method list.
type PaymentMethods []PaymentMethod

// SupportsInstallments reports whether the variant carries installment
// semantics.
func (t PaymentType) SupportsInstallments() bool {
	switch t {
	case PaymentCartaoCredito, PaymentCheque, PaymentBoleto:
		return true
	}
	return false
}

// Immediate reports whether the variant settles at creation time (cash-ledger
// entry right away, no installment rows).
func (t PaymentType) Immediate() bool {
	switch t {
	case PaymentDinheiro, PaymentPix, PaymentCartaoDebito, PaymentTransferencia:
		return true
	}
	return false
}

// Normalize coerces the money-bearing fields and applies the defaults the
// rest of the engine relies on: 1 installment, 30-day interval.
func (m *PaymentMethod) Normalize() {
	m.Amount = utils.SafeAmount(m.Amount, 0)
	if m.Installments <= 0 {
		m.Installments = 1
	}
	if m.InstallmentInterval <= 0 {
		m.InstallmentInterval = 30
	}
	for i, v := range m.InstallmentAmounts {
		m.InstallmentAmounts[i] = utils.SafeAmount(v, 0)
	}
}

// Validate enforces the variant's construction rules. Called before any
// downstream write is attempted.
func (m PaymentMethod) Validate() error {
	if m.Amount <= 0 {
		return fmt.Errorf("payment method %s: amount must be positive", m.Type)
	}
	if m.Installments > 1 && !m.Type.SupportsInstallments() {
		return fmt.Errorf("payment method %s does not support installments", m.Type)
	}
	if m.Type == PaymentPermuta && m.PermutaID == "" {
		return fmt.Errorf("payment method permuta requires permuta_id")
	}
	if len(m.InstallmentAmounts) > 0 {
		if len(m.InstallmentAmounts) != m.Installments {
			return fmt.Errorf("payment method %s: %d installment amounts for %d installments",
				m.Type, len(m.InstallmentAmounts), m.Installments)
		}
		sum := decimal.Zero
		for _, v := range m.InstallmentAmounts {
			sum = sum.Add(decimal.NewFromFloat(v))
		}
		if !sum.Equal(decimal.NewFromFloat(m.Amount)) {
			return fmt.Errorf("payment method %s: installment amounts sum %s, want %s",
				m.Type, sum.StringFixed(2), decimal.NewFromFloat(m.Amount).StringFixed(2))
		}
	}
	if m.FirstInstallmentDate != "" {
		if _, err := utils.ParseDate(m.FirstInstallmentDate); err != nil {
			return fmt.Errorf("payment method %s: invalid first_installment_date", m.Type)
		}
	}
	return nil
}
