package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"financeiro-backend/database"
	"financeiro-backend/middlewares"
	"financeiro-backend/models"
	"financeiro-backend/services"
	"financeiro-backend/utils"
)

type debtDTO struct {
	ID             string                `json:"id"`
	Date           string                `json:"date" validate:"required"`
	Company        string                `json:"company" validate:"required"`
	Description    string                `json:"description"`
	TotalValue     float64               `json:"total_value" validate:"gt=0"`
	PaymentMethods models.PaymentMethods `json:"payment_methods" validate:"required,min=1,dive"`
	Observations   string                `json:"observations"`
}

// CreateDebt is the payable mirror of CreateSale: the debt row commits first,
// then each payment method is applied best-effort.
func CreateDebt(c *fiber.Ctx) error {
	var dto debtDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeMoneyDTO(&dto)

	date, err := utils.ParseDate(dto.Date)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid date, want YYYY-MM-DD")
	}
	total := utils.SafeAmount(dto.TotalValue, 0)
	if total <= 0 {
		return services.NewValidationError("total value must be positive")
	}
	for i := range dto.PaymentMethods {
		dto.PaymentMethods[i].Normalize()
	}

	debt := models.Debt{
		Date:           date,
		Company:        dto.Company,
		Description:    dto.Description,
		TotalValue:     total,
		PaymentMethods: dto.PaymentMethods,
		Observations:   dto.Observations,
	}
	if uuid.Validate(dto.ID) == nil {
		debt.ID = dto.ID
	}

	guard := services.NewDuplicateGuard(database.NewStore(database.DB))
	if dup := guard.CheckDebt(&debt); dup.IsDuplicate {
		return c.JSON(fiber.Map{
			"duplicate": true,
			"id":        dup.ExistingID,
			"reason":    dup.Reason,
		})
	}

	paid, pending, status := services.Recalc(total, services.ImmediateTotal(debt.PaymentMethods))
	debt.PaidAmount = paid
	debt.PendingAmount = pending
	debt.Status = status

	if err := database.DB.Create(&debt).Error; err != nil {
		return err
	}

	outcomes := newDispatcher(database.DB).Process(services.OwnerDebt, debt.ID, debt.Company, date, debt.PaymentMethods)

	c.Status(fiber.StatusCreated)
	return c.JSON(fiber.Map{
		"debt":            debt,
		"payment_results": outcomesJSON(outcomes),
	})
}

func GetDebts(c *fiber.Ctx) error {
	db := middlewares.RequestDB(c)
	q := db.Model(&models.Debt{}).Order("date DESC, created_at DESC")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if company := c.Query("company"); company != "" {
		q = q.Where("company ILIKE ?", "%"+company+"%")
	}

	var debts []models.Debt
	if err := q.Find(&debts).Error; err != nil {
		return err
	}
	debts = utils.DedupeByID(debts, func(d models.Debt) string { return d.ID })
	return c.JSON(debts)
}

func GetDebt(c *fiber.Ctx) error {
	var debt models.Debt
	if err := middlewares.RequestDB(c).First(&debt, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "debt not found")
		}
		return err
	}
	return c.JSON(debt)
}

type debtPatchDTO struct {
	Date         *string  `json:"date"`
	Company      *string  `json:"company"`
	Description  *string  `json:"description"`
	TotalValue   *float64 `json:"total_value"`
	Observations *string  `json:"observations"`
}

func UpdateDebt(c *fiber.Ctx) error {
	var dto debtPatchDTO
	if err := c.BodyParser(&dto); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updates := utils.PatchMap(&dto, nil)
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}
	if raw, ok := updates["date"].(string); ok {
		date, err := utils.ParseDate(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		}
		updates["date"] = date
	}
	if v, ok := updates["total_value"].(float64); ok {
		updates["total_value"] = utils.SafeAmount(v, 0)
	}

	db := middlewares.RequestDB(c)
	id := c.Params("id")
	res := db.Model(&models.Debt{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "debt not found")
	}

	if _, ok := updates["total_value"]; ok {
		if err := newReconciler(db).RecalcDebt(id); err != nil {
			return err
		}
	}

	var debt models.Debt
	if err := db.First(&debt, "id = ?", id).Error; err != nil {
		return err
	}
	return c.JSON(debt)
}

func DeleteDebt(c *fiber.Ctx) error {
	db := middlewares.RequestDB(c)
	id := c.Params("id")

	if err := db.Where("debt_id = ?", id).Delete(&models.Check{}).Error; err != nil {
		return err
	}
	if err := db.Where("debt_id = ?", id).Delete(&models.Boleto{}).Error; err != nil {
		return err
	}
	if err := db.Where("debt_id = ?", id).Delete(&models.CreditCardDebt{}).Error; err != nil {
		return err
	}

	res := db.Delete(&models.Debt{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "debt not found")
	}
	return c.JSON(fiber.Map{"message": "debt deleted"})
}
