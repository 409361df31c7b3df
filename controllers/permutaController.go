package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"financeiro-backend/middlewares"
	"financeiro-backend/models"
	"financeiro-backend/utils"
)

type permutaDTO struct {
	ClientName   string  `json:"client_name" validate:"required"`
	VehicleName  string  `json:"vehicle_name" validate:"required"`
	VehiclePlate string  `json:"vehicle_plate"`
	VehicleValue float64 `json:"vehicle_value" validate:"gt=0"`
	Observations string  `json:"observations"`
}

func CreatePermuta(c *fiber.Ctx) error {
	var dto permutaDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeMoneyDTO(&dto)

	value := utils.SafeAmount(dto.VehicleValue, 0)
	permuta := models.Permuta{
		ClientName:     dto.ClientName,
		VehicleName:    dto.VehicleName,
		VehiclePlate:   dto.VehiclePlate,
		VehicleValue:   value,
		ConsumedValue:  0,
		RemainingValue: value,
		Observations:   dto.Observations,
	}
	if err := middlewares.RequestDB(c).Create(&permuta).Error; err != nil {
		return err
	}
	c.Status(fiber.StatusCreated)
	return c.JSON(permuta)
}

func GetPermutas(c *fiber.Ctx) error {
	q := middlewares.RequestDB(c).Model(&models.Permuta{}).Order("created_at DESC")
	if c.QueryBool("available") {
		q = q.Where("remaining_value > 0")
	}

	var permutas []models.Permuta
	if err := q.Find(&permutas).Error; err != nil {
		return err
	}
	return c.JSON(permutas)
}

func GetPermuta(c *fiber.Ctx) error {
	var permuta models.Permuta
	if err := middlewares.RequestDB(c).First(&permuta, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "permuta not found")
		}
		return err
	}
	return c.JSON(permuta)
}

type permutaPatchDTO struct {
	ClientName   *string `json:"client_name"`
	VehicleName  *string `json:"vehicle_name"`
	VehiclePlate *string `json:"vehicle_plate"`
	Observations *string `json:"observations"`
}

// UpdatePermuta edits descriptive fields only; values move through the
// payment-method fan-out, never by direct edit.
func UpdatePermuta(c *fiber.Ctx) error {
	var dto permutaPatchDTO
	if err := c.BodyParser(&dto); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updates := utils.PatchMap(&dto, nil)
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	db := middlewares.RequestDB(c)
	res := db.Model(&models.Permuta{}).Where("id = ?", c.Params("id")).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "permuta not found")
	}

	var permuta models.Permuta
	if err := db.First(&permuta, "id = ?", c.Params("id")).Error; err != nil {
		return err
	}
	return c.JSON(permuta)
}

func DeletePermuta(c *fiber.Ctx) error {
	res := middlewares.RequestDB(c).Delete(&models.Permuta{}, "id = ?", c.Params("id"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "permuta not found")
	}
	return c.JSON(fiber.Map{"message": "permuta deleted"})
}
