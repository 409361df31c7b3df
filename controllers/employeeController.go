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

type employeeDTO struct {
	ID           string  `json:"id"`
	Name         string  `json:"name" validate:"required"`
	Position     string  `json:"position" validate:"required"`
	IsSeller     bool    `json:"is_seller"`
	Salary       float64 `json:"salary"`
	PaymentDay   int     `json:"payment_day"`
	HireDate     string  `json:"hire_date"`
	Observations string  `json:"observations"`
}

func CreateEmployee(c *fiber.Ctx) error {
	var dto employeeDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeMoneyDTO(&dto)

	employee := models.Employee{
		Name:         dto.Name,
		Position:     dto.Position,
		IsSeller:     dto.IsSeller,
		Salary:       utils.SafeAmount(dto.Salary, 0),
		PaymentDay:   dto.PaymentDay,
		IsActive:     true,
		Observations: dto.Observations,
	}
	if uuid.Validate(dto.ID) == nil {
		employee.ID = dto.ID
	}
	if dto.HireDate != "" {
		hireDate, err := utils.ParseDate(dto.HireDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid hire_date, want YYYY-MM-DD")
		}
		employee.HireDate = hireDate
	}

	db := middlewares.RequestDB(c)
	guard := services.NewDuplicateGuard(database.NewStore(db))
	if dup := guard.CheckEmployee(&employee); dup.IsDuplicate {
		return c.JSON(fiber.Map{
			"duplicate": true,
			"id":        dup.ExistingID,
			"reason":    dup.Reason,
		})
	}

	if err := db.Create(&employee).Error; err != nil {
		return err
	}
	c.Status(fiber.StatusCreated)
	return c.JSON(employee)
}

func GetEmployees(c *fiber.Ctx) error {
	q := middlewares.RequestDB(c).Model(&models.Employee{}).Order("name")
	if c.QueryBool("active") {
		q = q.Where("is_active = true")
	}
	if c.QueryBool("sellers") {
		q = q.Where("is_seller = true")
	}

	var employees []models.Employee
	if err := q.Find(&employees).Error; err != nil {
		return err
	}
	return c.JSON(employees)
}

func GetEmployee(c *fiber.Ctx) error {
	var employee models.Employee
	if err := middlewares.RequestDB(c).First(&employee, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "employee not found")
		}
		return err
	}
	return c.JSON(employee)
}

type employeePatchDTO struct {
	Name         *string  `json:"name"`
	Position     *string  `json:"position"`
	IsSeller     *bool    `json:"is_seller"`
	Salary       *float64 `json:"salary"`
	PaymentDay   *int     `json:"payment_day"`
	IsActive     *bool    `json:"is_active"`
	Observations *string  `json:"observations"`
}

func UpdateEmployee(c *fiber.Ctx) error {
	var dto employeePatchDTO
	if err := c.BodyParser(&dto); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updates := utils.PatchMap(&dto, nil)
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}
	if v, ok := updates["salary"].(float64); ok {
		updates["salary"] = utils.SafeAmount(v, 0)
	}

	db := middlewares.RequestDB(c)
	res := db.Model(&models.Employee{}).Where("id = ?", c.Params("id")).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "employee not found")
	}

	var employee models.Employee
	if err := db.First(&employee, "id = ?", c.Params("id")).Error; err != nil {
		return err
	}
	return c.JSON(employee)
}

// DeleteEmployee deactivates rather than removes: payroll history must stay
// attributable.
func DeleteEmployee(c *fiber.Ctx) error {
	res := middlewares.RequestDB(c).Model(&models.Employee{}).
		Where("id = ?", c.Params("id")).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "employee not found")
	}
	return c.JSON(fiber.Map{"message": "employee deactivated"})
}

type advanceDTO struct {
	Amount        float64 `json:"amount" validate:"gt=0"`
	Date          string  `json:"date" validate:"required"`
	Description   string  `json:"description"`
	PaymentMethod string  `json:"payment_method"`
}

// CreateEmployeeAdvance registers a salary advance and posts the cash outflow
// right away; the advance stays pendente until the next payroll payment.
func CreateEmployeeAdvance(c *fiber.Ctx) error {
	var dto advanceDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeMoneyDTO(&dto)

	date, err := utils.ParseDate(dto.Date)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid date, want YYYY-MM-DD")
	}

	db := middlewares.RequestDB(c)
	var employee models.Employee
	if err := db.First(&employee, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "employee not found")
		}
		return err
	}

	advance := models.EmployeeAdvance{
		EmployeeID:    employee.ID,
		Amount:        utils.SafeAmount(dto.Amount, 0),
		Date:          date,
		Description:   dto.Description,
		PaymentMethod: dto.PaymentMethod,
		Status:        models.AdvancePendente,
	}
	if err := db.Create(&advance).Error; err != nil {
		return err
	}

	if err := db.Create(&models.CashTransaction{
		Date:          date,
		Type:          models.CashSaida,
		Amount:        advance.Amount,
		Category:      "salario",
		Description:   "Adiantamento - " + employee.Name,
		RelatedID:     &advance.ID,
		PaymentMethod: dto.PaymentMethod,
	}).Error; err != nil {
		return err
	}

	c.Status(fiber.StatusCreated)
	return c.JSON(advance)
}

func GetEmployeeAdvances(c *fiber.Ctx) error {
	var advances []models.EmployeeAdvance
	err := middlewares.RequestDB(c).
		Where("employee_id = ?", c.Params("id")).
		Order("date DESC").Find(&advances).Error
	if err != nil {
		return err
	}
	return c.JSON(advances)
}

type overtimeDTO struct {
	Hours       float64 `json:"hours" validate:"gt=0"`
	HourlyRate  float64 `json:"hourly_rate" validate:"gt=0"`
	Date        string  `json:"date" validate:"required"`
	Description string  `json:"description"`
}

func CreateEmployeeOvertime(c *fiber.Ctx) error {
	var dto overtimeDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeMoneyDTO(&dto)

	date, err := utils.ParseDate(dto.Date)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid date, want YYYY-MM-DD")
	}

	db := middlewares.RequestDB(c)
	var employee models.Employee
	if err := db.First(&employee, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "employee not found")
		}
		return err
	}

	rate := utils.SafeAmount(dto.HourlyRate, 0)
	overtime := models.EmployeeOvertime{
		EmployeeID:  employee.ID,
		Hours:       dto.Hours,
		HourlyRate:  rate,
		TotalAmount: utils.Round2(dto.Hours * rate),
		Date:        date,
		Description: dto.Description,
		Status:      models.OvertimePendente,
	}
	if err := db.Create(&overtime).Error; err != nil {
		return err
	}
	c.Status(fiber.StatusCreated)
	return c.JSON(overtime)
}

func GetEmployeeOvertimes(c *fiber.Ctx) error {
	var overtimes []models.EmployeeOvertime
	err := middlewares.RequestDB(c).
		Where("employee_id = ?", c.Params("id")).
		Order("date DESC").Find(&overtimes).Error
	if err != nil {
		return err
	}
	return c.JSON(overtimes)
}

func GetEmployeeCommissions(c *fiber.Ctx) error {
	var commissions []models.EmployeeCommission
	err := middlewares.RequestDB(c).
		Where("employee_id = ?", c.Params("id")).
		Order("date DESC").Find(&commissions).Error
	if err != nil {
		return err
	}
	return c.JSON(commissions)
}

type payEmployeeDTO struct {
	Amount       float64 `json:"amount" validate:"gt=0"`
	PaymentDate  string  `json:"payment_date"`
	Observations string  `json:"observations"`
}

// PayEmployee registers a payroll payment: cash outflow plus settlement of
// the employee's pending advances, overtimes and commissions.
func PayEmployee(c *fiber.Ctx) error {
	var dto payEmployeeDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
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
	payroll := services.NewPayrollService(database.NewStore(db))
	payment, err := payroll.PayEmployee(c.Params("id"), dto.Amount, paymentDate, dto.Observations)
	if err != nil {
		return err
	}
	c.Status(fiber.StatusCreated)
	return c.JSON(payment)
}

func GetEmployeePayments(c *fiber.Ctx) error {
	var payments []models.EmployeePayment
	err := middlewares.RequestDB(c).
		Where("employee_id = ?", c.Params("id")).
		Order("payment_date DESC").Find(&payments).Error
	if err != nil {
		return err
	}
	return c.JSON(payments)
}
