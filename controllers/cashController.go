package controllers

import (
	"github.com/gofiber/fiber/v2"

	"financeiro-backend/database"
	"financeiro-backend/middlewares"
	"financeiro-backend/models"
	"financeiro-backend/services"
	"financeiro-backend/utils"
)

func GetCashTransactions(c *fiber.Ctx) error {
	q := middlewares.RequestDB(c).Model(&models.CashTransaction{}).Order("date DESC, created_at DESC")
	if kind := c.Query("type"); kind != "" {
		q = q.Where("type = ?", kind)
	}
	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}
	if from := c.Query("from"); from != "" {
		date, err := utils.ParseDate(from)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid from, want YYYY-MM-DD")
		}
		q = q.Where("date >= ?", date)
	}
	if to := c.Query("to"); to != "" {
		date, err := utils.ParseDate(to)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid to, want YYYY-MM-DD")
		}
		q = q.Where("date <= ?", date)
	}

	var transactions []models.CashTransaction
	if err := q.Find(&transactions).Error; err != nil {
		return err
	}
	transactions = utils.DedupeByID(transactions, func(t models.CashTransaction) string { return t.ID })
	return c.JSON(transactions)
}

type cashDTO struct {
	Date          string  `json:"date" validate:"required"`
	Type          string  `json:"type" validate:"required,oneof=entrada saida"`
	Amount        float64 `json:"amount" validate:"gt=0"`
	Category      string  `json:"category"`
	Description   string  `json:"description"`
	PaymentMethod string  `json:"payment_method"`
}

// CreateCashTransaction registers a manual ledger entry (e.g. an expense that
// did not flow through a debt).
func CreateCashTransaction(c *fiber.Ctx) error {
	var dto cashDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeMoneyDTO(&dto)

	date, err := utils.ParseDate(dto.Date)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid date, want YYYY-MM-DD")
	}
	amount := utils.SafeAmount(dto.Amount, 0)
	if amount <= 0 {
		return services.NewValidationError("amount must be positive")
	}

	category := dto.Category
	if category == "" {
		category = "outro"
	}

	transaction := models.CashTransaction{
		Date:          date,
		Type:          dto.Type,
		Amount:        amount,
		Category:      category,
		Description:   dto.Description,
		PaymentMethod: dto.PaymentMethod,
	}
	if err := middlewares.RequestDB(c).Create(&transaction).Error; err != nil {
		return err
	}
	c.Status(fiber.StatusCreated)
	return c.JSON(transaction)
}

// GetCashBalance returns entradas minus saidas over the whole ledger.
func GetCashBalance(c *fiber.Ctx) error {
	balance, err := database.NewStore(middlewares.RequestDB(c)).CashBalance()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"balance": utils.Round2(balance)})
}
