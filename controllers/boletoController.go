package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"financeiro-backend/middlewares"
	"financeiro-backend/models"
	"financeiro-backend/services"
	"financeiro-backend/utils"
)

type boletoDTO struct {
	SaleID            *string `json:"sale_id"`
	DebtID            *string `json:"debt_id"`
	Client            string  `json:"client" validate:"required"`
	Value             float64 `json:"value" validate:"gt=0"`
	DueDate           string  `json:"due_date" validate:"required"`
	IsCompanyPayable  bool    `json:"is_company_payable"`
	CompanyName       string  `json:"company_name"`
	InstallmentNumber int     `json:"installment_number"`
	TotalInstallments int     `json:"total_installments"`
	Observations      string  `json:"observations"`
}

func CreateBoleto(c *fiber.Ctx) error {
	var dto boletoDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeMoneyDTO(&dto)

	dueDate, err := utils.ParseDate(dto.DueDate)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid due_date, want YYYY-MM-DD")
	}

	boleto := models.Boleto{
		SaleID:            dto.SaleID,
		DebtID:            dto.DebtID,
		Client:            dto.Client,
		Value:             utils.SafeAmount(dto.Value, 0),
		DueDate:           dueDate,
		Status:            models.BoletoPendente,
		IsCompanyPayable:  dto.IsCompanyPayable,
		CompanyName:       dto.CompanyName,
		InstallmentNumber: dto.InstallmentNumber,
		TotalInstallments: dto.TotalInstallments,
		Observations:      dto.Observations,
	}
	if err := middlewares.RequestDB(c).Create(&boleto).Error; err != nil {
		return err
	}
	c.Status(fiber.StatusCreated)
	return c.JSON(boleto)
}

func GetBoletos(c *fiber.Ctx) error {
	q := middlewares.RequestDB(c).Model(&models.Boleto{}).Order("due_date")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if c.QueryBool("due") {
		q = q.Where("status IN ? AND due_date <= ?",
			[]string{models.BoletoPendente, models.BoletoVencido}, utils.Today())
	}

	var boletos []models.Boleto
	if err := q.Find(&boletos).Error; err != nil {
		return err
	}
	return c.JSON(boletos)
}

func GetBoleto(c *fiber.Ctx) error {
	var boleto models.Boleto
	if err := middlewares.RequestDB(c).First(&boleto, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "boleto not found")
		}
		return err
	}
	return c.JSON(boleto)
}

type boletoPatchDTO struct {
	Client       *string  `json:"client"`
	Value        *float64 `json:"value"`
	DueDate      *string  `json:"due_date"`
	Status       *string  `json:"status"`
	Observations *string  `json:"observations"`
}

func UpdateBoleto(c *fiber.Ctx) error {
	var dto boletoPatchDTO
	if err := c.BodyParser(&dto); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if dto.Status != nil && *dto.Status == models.BoletoCompensado {
		return fiber.NewError(fiber.StatusBadRequest, "use the settle endpoint to compensate a boleto")
	}

	updates := utils.PatchMap(&dto, nil)
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}
	if raw, ok := updates["due_date"].(string); ok {
		dueDate, err := utils.ParseDate(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid due_date, want YYYY-MM-DD")
		}
		updates["due_date"] = dueDate
	}
	if v, ok := updates["value"].(float64); ok {
		updates["value"] = utils.SafeAmount(v, 0)
	}

	db := middlewares.RequestDB(c)
	res := db.Model(&models.Boleto{}).Where("id = ?", c.Params("id")).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "boleto not found")
	}

	var boleto models.Boleto
	if err := db.First(&boleto, "id = ?", c.Params("id")).Error; err != nil {
		return err
	}
	return c.JSON(boleto)
}

func DeleteBoleto(c *fiber.Ctx) error {
	res := middlewares.RequestDB(c).Delete(&models.Boleto{}, "id = ?", c.Params("id"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "boleto not found")
	}
	return c.JSON(fiber.Map{"message": "boleto deleted"})
}

type boletoSettleDTO struct {
	PaymentDate    string  `json:"payment_date"`
	OverdueAction  string  `json:"overdue_action"`
	InterestAmount float64 `json:"interest_amount"`
	PenaltyAmount  float64 `json:"penalty_amount"`
	NotaryCosts    float64 `json:"notary_costs"`
}

// SettleBoleto compensates the boleto with its optional late-payment figures
// and reconciles the owning sale/debt.
func SettleBoleto(c *fiber.Ctx) error {
	var dto boletoSettleDTO
	if err := c.BodyParser(&dto); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	utils.NormalizeMoneyDTO(&dto)

	paymentDate := utils.Today()
	if dto.PaymentDate != "" {
		var err error
		if paymentDate, err = utils.ParseDate(dto.PaymentDate); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payment_date, want YYYY-MM-DD")
		}
	}

	db := middlewares.RequestDB(c)
	err := newReconciler(db).SettleBoleto(c.Params("id"), services.BoletoSettlement{
		PaymentDate:    paymentDate,
		OverdueAction:  dto.OverdueAction,
		InterestAmount: dto.InterestAmount,
		PenaltyAmount:  dto.PenaltyAmount,
		NotaryCosts:    dto.NotaryCosts,
	})
	if err != nil {
		return err
	}

	var boleto models.Boleto
	if err := db.First(&boleto, "id = ?", c.Params("id")).Error; err != nil {
		return err
	}
	return c.JSON(boleto)
}

// MarkOverdueBoletos flips past-due pendente boletos to vencido. Idempotent;
// already-vencido rows are untouched.
func MarkOverdueBoletos(c *fiber.Ctx) error {
	res := middlewares.RequestDB(c).Model(&models.Boleto{}).
		Where("status = ? AND due_date < ?", models.BoletoPendente, utils.Today()).
		Update("status", models.BoletoVencido)
	if res.Error != nil {
		return res.Error
	}
	return c.JSON(fiber.Map{"marked_overdue": res.RowsAffected})
}
