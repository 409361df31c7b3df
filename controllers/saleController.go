package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"financeiro-backend/database"
	"financeiro-backend/middlewares"
	"financeiro-backend/models"
	"financeiro-backend/services"
	"financeiro-backend/utils"
)

type saleDTO struct {
	ID             string                `json:"id"`
	Date           string                `json:"date" validate:"required"`
	Client         string                `json:"client" validate:"required"`
	SellerID       *string               `json:"seller_id"`
	Products       datatypes.JSON        `json:"products"`
	TotalValue     float64               `json:"total_value" validate:"gt=0"`
	PaymentMethods models.PaymentMethods `json:"payment_methods" validate:"required,min=1,dive"`
	CommissionRate float64               `json:"commission_rate"`
	Observations   string                `json:"observations"`
}

// CreateSale registers a sale and fans its payment methods out. Runs on the
// base connection: the sale row commits first, then each method is applied
// best-effort and reported in payment_results.
func CreateSale(c *fiber.Ctx) error {
	var dto saleDTO
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

	sale := models.Sale{
		Date:           date,
		Client:         dto.Client,
		SellerID:       dto.SellerID,
		Products:       dto.Products,
		TotalValue:     total,
		PaymentMethods: dto.PaymentMethods,
		CommissionRate: dto.CommissionRate,
		Observations:   dto.Observations,
	}
	// Offline-generated ids are kept so the client can reconcile its queue.
	if uuid.Validate(dto.ID) == nil {
		sale.ID = dto.ID
	}

	guard := services.NewDuplicateGuard(database.NewStore(database.DB))
	if dup := guard.CheckSale(&sale); dup.IsDuplicate {
		return c.JSON(fiber.Map{
			"duplicate": true,
			"id":        dup.ExistingID,
			"reason":    dup.Reason,
		})
	}

	received, pending, status := services.Recalc(total, services.ImmediateTotal(sale.PaymentMethods))
	sale.ReceivedAmount = received
	sale.PendingAmount = pending
	sale.Status = status

	if err := database.DB.Create(&sale).Error; err != nil {
		return err
	}

	if sale.SellerID != nil && sale.CommissionRate > 0 {
		commission := models.EmployeeCommission{
			EmployeeID:       *sale.SellerID,
			SaleID:           sale.ID,
			SaleValue:        total,
			CommissionRate:   sale.CommissionRate,
			CommissionAmount: utils.Round2(total * sale.CommissionRate / 100),
			Date:             date,
			Status:           models.CommissionPendente,
		}
		if err := database.DB.Create(&commission).Error; err != nil {
			log.Error().Err(err).Str("sale", sale.ID).Msg("commission create failed")
		}
	}

	outcomes := newDispatcher(database.DB).Process(services.OwnerSale, sale.ID, sale.Client, date, sale.PaymentMethods)

	c.Status(fiber.StatusCreated)
	return c.JSON(fiber.Map{
		"sale":            sale,
		"payment_results": outcomesJSON(outcomes),
	})
}

func GetSales(c *fiber.Ctx) error {
	db := middlewares.RequestDB(c)
	q := db.Model(&models.Sale{}).Order("date DESC, created_at DESC")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if client := c.Query("client"); client != "" {
		q = q.Where("client ILIKE ?", "%"+client+"%")
	}

	var sales []models.Sale
	if err := q.Find(&sales).Error; err != nil {
		return err
	}
	sales = utils.DedupeByID(sales, func(s models.Sale) string { return s.ID })
	return c.JSON(sales)
}

func GetSale(c *fiber.Ctx) error {
	var sale models.Sale
	if err := middlewares.RequestDB(c).First(&sale, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "sale not found")
		}
		return err
	}
	return c.JSON(sale)
}

type salePatchDTO struct {
	Date           *string  `json:"date"`
	Client         *string  `json:"client"`
	SellerID       *string  `json:"seller_id"`
	TotalValue     *float64 `json:"total_value"`
	CommissionRate *float64 `json:"commission_rate"`
	Observations   *string  `json:"observations"`
}

// UpdateSale applies a partial update; a changed total triggers a
// reconciliation so the derived amounts stay consistent.
func UpdateSale(c *fiber.Ctx) error {
	var dto salePatchDTO
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
	res := db.Model(&models.Sale{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "sale not found")
	}

	if _, ok := updates["total_value"]; ok {
		if err := newReconciler(db).RecalcSale(id); err != nil {
			return err
		}
	}

	var sale models.Sale
	if err := db.First(&sale, "id = ?", id).Error; err != nil {
		return err
	}
	return c.JSON(sale)
}

// DeleteSale removes the sale and its instrument children. Card installment
// rows go with their parent via the cascade constraint.
func DeleteSale(c *fiber.Ctx) error {
	db := middlewares.RequestDB(c)
	id := c.Params("id")

	if err := db.Where("sale_id = ?", id).Delete(&models.Check{}).Error; err != nil {
		return err
	}
	if err := db.Where("sale_id = ?", id).Delete(&models.Boleto{}).Error; err != nil {
		return err
	}
	if err := db.Where("sale_id = ?", id).Delete(&models.CreditCardSale{}).Error; err != nil {
		return err
	}

	res := db.Delete(&models.Sale{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "sale not found")
	}
	return c.JSON(fiber.Map{"message": "sale deleted"})
}
