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

func GetCreditCardSales(c *fiber.Ctx) error {
	q := middlewares.RequestDB(c).Model(&models.CreditCardSale{}).Order("sale_date DESC")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var sales []models.CreditCardSale
	if err := q.Find(&sales).Error; err != nil {
		return err
	}
	return c.JSON(sales)
}

// GetCreditCardSale returns the parent record with its installment rows.
func GetCreditCardSale(c *fiber.Ctx) error {
	db := middlewares.RequestDB(c)

	var sale models.CreditCardSale
	if err := db.First(&sale, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "credit card sale not found")
		}
		return err
	}

	var installments []models.CreditCardSaleInstallment
	if err := db.Where("credit_card_sale_id = ?", sale.ID).
		Order("installment_number").Find(&installments).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"sale":         sale,
		"installments": installments,
	})
}

func GetCreditCardDebts(c *fiber.Ctx) error {
	q := middlewares.RequestDB(c).Model(&models.CreditCardDebt{}).Order("purchase_date DESC")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var debts []models.CreditCardDebt
	if err := q.Find(&debts).Error; err != nil {
		return err
	}
	return c.JSON(debts)
}

func GetCreditCardDebt(c *fiber.Ctx) error {
	db := middlewares.RequestDB(c)

	var debt models.CreditCardDebt
	if err := db.First(&debt, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "credit card debt not found")
		}
		return err
	}

	var installments []models.CreditCardDebtInstallment
	if err := db.Where("credit_card_debt_id = ?", debt.ID).
		Order("installment_number").Find(&installments).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"debt":         debt,
		"installments": installments,
	})
}

type anticipateDTO struct {
	Fee float64 `json:"fee"`
}

// AnticipateCreditCardSale collapses the receivable's pending installments
// into one discounted cash inflow.
func AnticipateCreditCardSale(c *fiber.Ctx) error {
	var dto anticipateDTO
	if err := c.BodyParser(&dto); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	db := middlewares.RequestDB(c)
	cards := services.NewCreditCardService(database.NewStore(db))
	if err := cards.AnticipateSale(c.Params("id"), utils.SafeAmount(dto.Fee, 0)); err != nil {
		return err
	}

	var sale models.CreditCardSale
	if err := db.First(&sale, "id = ?", c.Params("id")).Error; err != nil {
		return err
	}
	return c.JSON(sale)
}

// SweepCreditCardInstallments realizes every installment due on or before
// as_of (default today). Runs on the base connection so one bad row never
// rolls back the rest of the batch.
func SweepCreditCardInstallments(c *fiber.Ctx) error {
	asOf := utils.Today()
	if raw := c.Query("as_of"); raw != "" {
		var err error
		if asOf, err = utils.ParseDate(raw); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid as_of, want YYYY-MM-DD")
		}
	}

	cards := services.NewCreditCardService(database.NewStore(database.DB))
	report, err := cards.SweepDue(asOf)
	if err != nil {
		return err
	}
	return c.JSON(report)
}
