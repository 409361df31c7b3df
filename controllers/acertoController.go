package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"financeiro-backend/database"
	"financeiro-backend/middlewares"
	"financeiro-backend/models"
	"financeiro-backend/services"
	"financeiro-backend/utils"
)

func GetAcertos(c *fiber.Ctx) error {
	q := middlewares.RequestDB(c).Model(&models.Acerto{}).Order("updated_at DESC")
	if kind := c.Query("type"); kind != "" {
		q = q.Where("type = ?", kind)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var acertos []models.Acerto
	if err := q.Find(&acertos).Error; err != nil {
		return err
	}
	return c.JSON(acertos)
}

func GetAcerto(c *fiber.Ctx) error {
	var acerto models.Acerto
	if err := middlewares.RequestDB(c).First(&acerto, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "acerto not found")
		}
		return err
	}
	return c.JSON(acerto)
}

type acertoPaymentDTO struct {
	PaymentAmount  float64               `json:"payment_amount" validate:"gt=0"`
	SaleIDs        []string              `json:"sale_ids"`
	PaymentMethods models.PaymentMethods `json:"payment_methods" validate:"required,min=1,dive"`
}

// RegisterAcertoPayment settles (part of) a client acerto. Runs on the base
// connection like the sale fan-out: per-method failures are reported, not
// rolled back.
func RegisterAcertoPayment(c *fiber.Ctx) error {
	var dto acertoPaymentDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeMoneyDTO(&dto)

	store := database.NewStore(database.DB)
	cards := services.NewCreditCardService(store)
	acertos := services.NewAcertoService(store, cards)

	outcomes, err := acertos.RegisterPayment(c.Params("id"), dto.SaleIDs, dto.PaymentAmount, dto.PaymentMethods)
	if err != nil {
		return err
	}

	var acerto models.Acerto
	if err := database.DB.First(&acerto, "id = ?", c.Params("id")).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"acerto":          acerto,
		"payment_results": outcomesJSON(outcomes),
	})
}
