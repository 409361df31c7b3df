package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"financeiro-backend/middlewares"
	"financeiro-backend/models"
	"financeiro-backend/utils"
)

type checkDTO struct {
	SaleID            *string `json:"sale_id"`
	DebtID            *string `json:"debt_id"`
	Client            string  `json:"client" validate:"required"`
	Value             float64 `json:"value" validate:"gt=0"`
	DueDate           string  `json:"due_date" validate:"required"`
	IsOwnCheck        bool    `json:"is_own_check"`
	IsCompanyPayable  bool    `json:"is_company_payable"`
	CompanyName       string  `json:"company_name"`
	InstallmentNumber int     `json:"installment_number"`
	TotalInstallments int     `json:"total_installments"`
	Observations      string  `json:"observations"`
}

// CreateCheck registers a standalone check (not derived from a sale/debt
// payment method).
func CreateCheck(c *fiber.Ctx) error {
	var dto checkDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeMoneyDTO(&dto)

	dueDate, err := utils.ParseDate(dto.DueDate)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid due_date, want YYYY-MM-DD")
	}

	check := models.Check{
		SaleID:            dto.SaleID,
		DebtID:            dto.DebtID,
		Client:            dto.Client,
		Value:             utils.SafeAmount(dto.Value, 0),
		DueDate:           dueDate,
		Status:            models.CheckPendente,
		IsOwnCheck:        dto.IsOwnCheck,
		IsCompanyPayable:  dto.IsCompanyPayable,
		CompanyName:       dto.CompanyName,
		InstallmentNumber: dto.InstallmentNumber,
		TotalInstallments: dto.TotalInstallments,
		Observations:      dto.Observations,
	}
	if err := middlewares.RequestDB(c).Create(&check).Error; err != nil {
		return err
	}
	c.Status(fiber.StatusCreated)
	return c.JSON(check)
}

func GetChecks(c *fiber.Ctx) error {
	q := middlewares.RequestDB(c).Model(&models.Check{}).Order("due_date")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if c.QueryBool("due") {
		q = q.Where("status = ? AND due_date <= ?", models.CheckPendente, utils.Today())
	}

	var checks []models.Check
	if err := q.Find(&checks).Error; err != nil {
		return err
	}
	return c.JSON(checks)
}

func GetCheck(c *fiber.Ctx) error {
	var check models.Check
	if err := middlewares.RequestDB(c).First(&check, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "check not found")
		}
		return err
	}
	return c.JSON(check)
}

type checkPatchDTO struct {
	Client       *string  `json:"client"`
	Value        *float64 `json:"value"`
	DueDate      *string  `json:"due_date"`
	Status       *string  `json:"status"`
	Observations *string  `json:"observations"`
}

// UpdateCheck covers the non-settlement edits, including marking a bounced
// check devolvido/reapresentado. Compensation goes through SettleCheck.
func UpdateCheck(c *fiber.Ctx) error {
	var dto checkPatchDTO
	if err := c.BodyParser(&dto); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if dto.Status != nil && *dto.Status == models.CheckCompensado {
		return fiber.NewError(fiber.StatusBadRequest, "use the settle endpoint to compensate a check")
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
	res := db.Model(&models.Check{}).Where("id = ?", c.Params("id")).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "check not found")
	}

	var check models.Check
	if err := db.First(&check, "id = ?", c.Params("id")).Error; err != nil {
		return err
	}
	return c.JSON(check)
}

func DeleteCheck(c *fiber.Ctx) error {
	res := middlewares.RequestDB(c).Delete(&models.Check{}, "id = ?", c.Params("id"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "check not found")
	}
	return c.JSON(fiber.Map{"message": "check deleted"})
}

type checkSettleDTO struct {
	PaymentDate string `json:"payment_date"`
}

// SettleCheck compensates the check, posts the cash entry and reconciles the
// owning sale/debt. Settling an already-compensated check is a no-op.
func SettleCheck(c *fiber.Ctx) error {
	var dto checkSettleDTO
	if err := c.BodyParser(&dto); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	paymentDate := utils.Today()
	if dto.PaymentDate != "" {
		var err error
		if paymentDate, err = utils.ParseDate(dto.PaymentDate); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payment_date, want YYYY-MM-DD")
		}
	}

	db := middlewares.RequestDB(c)
	if err := newReconciler(db).SettleCheck(c.Params("id"), paymentDate); err != nil {
		return err
	}

	var check models.Check
	if err := db.First(&check, "id = ?", c.Params("id")).Error; err != nil {
		return err
	}
	return c.JSON(check)
}
