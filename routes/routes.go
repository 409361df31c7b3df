package routes

import (
	"github.com/gofiber/fiber/v2"

	"financeiro-backend/controllers"
	"financeiro-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/registration", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Post("/logout", controllers.Logout)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Idempotency guard FIRST (not tied to request TX)
	protected.Use(middlewares.Idempotency())

	// Creation fan-out runs on the base connection on purpose: a failed
	// payment method must not roll back the methods already applied.
	protected.Post("/sales", controllers.CreateSale)
	protected.Post("/debts", controllers.CreateDebt)
	protected.Post("/acertos/:id/payments", controllers.RegisterAcertoPayment)
	protected.Post("/credit-cards/sweep", controllers.SweepCreditCardInstallments)

	// Everything below runs inside a per-request transaction.
	tx := protected.Group("", middlewares.Tx())

	// Sales
	tx.Get("/sales", controllers.GetSales)
	tx.Get("/sales/:id", controllers.GetSale)
	tx.Patch("/sales/:id", controllers.UpdateSale)
	tx.Delete("/sales/:id", controllers.DeleteSale)

	// Debts
	tx.Get("/debts", controllers.GetDebts)
	tx.Get("/debts/:id", controllers.GetDebt)
	tx.Patch("/debts/:id", controllers.UpdateDebt)
	tx.Delete("/debts/:id", controllers.DeleteDebt)

	// Checks
	tx.Post("/checks", controllers.CreateCheck)
	tx.Get("/checks", controllers.GetChecks)
	tx.Get("/checks/:id", controllers.GetCheck)
	tx.Patch("/checks/:id", controllers.UpdateCheck)
	tx.Delete("/checks/:id", controllers.DeleteCheck)
	tx.Post("/checks/:id/settle", controllers.SettleCheck)

	// Boletos
	tx.Post("/boletos", controllers.CreateBoleto)
	tx.Get("/boletos", controllers.GetBoletos)
	tx.Get("/boletos/:id", controllers.GetBoleto)
	tx.Patch("/boletos/:id", controllers.UpdateBoleto)
	tx.Delete("/boletos/:id", controllers.DeleteBoleto)
	tx.Post("/boletos/:id/settle", controllers.SettleBoleto)
	tx.Post("/boletos/mark-overdue", controllers.MarkOverdueBoletos)

	// Credit-card sub-ledger
	tx.Get("/credit-cards/sales", controllers.GetCreditCardSales)
	tx.Get("/credit-cards/sales/:id", controllers.GetCreditCardSale)
	tx.Post("/credit-cards/sales/:id/anticipate", controllers.AnticipateCreditCardSale)
	tx.Get("/credit-cards/debts", controllers.GetCreditCardDebts)
	tx.Get("/credit-cards/debts/:id", controllers.GetCreditCardDebt)

	// Acertos
	tx.Get("/acertos", controllers.GetAcertos)
	tx.Get("/acertos/:id", controllers.GetAcerto)

	// Cash ledger
	tx.Get("/cash-transactions", controllers.GetCashTransactions)
	tx.Post("/cash-transactions", controllers.CreateCashTransaction)
	tx.Get("/cash-transactions/balance", controllers.GetCashBalance)

	// Permutas
	tx.Post("/permutas", controllers.CreatePermuta)
	tx.Get("/permutas", controllers.GetPermutas)
	tx.Get("/permutas/:id", controllers.GetPermuta)
	tx.Patch("/permutas/:id", controllers.UpdatePermuta)
	tx.Delete("/permutas/:id", controllers.DeletePermuta)

	// Employees / payroll
	tx.Post("/employees", controllers.CreateEmployee)
	tx.Get("/employees", controllers.GetEmployees)
	tx.Get("/employees/:id", controllers.GetEmployee)
	tx.Patch("/employees/:id", controllers.UpdateEmployee)
	tx.Delete("/employees/:id", controllers.DeleteEmployee)
	tx.Post("/employees/:id/advances", controllers.CreateEmployeeAdvance)
	tx.Get("/employees/:id/advances", controllers.GetEmployeeAdvances)
	tx.Post("/employees/:id/overtimes", controllers.CreateEmployeeOvertime)
	tx.Get("/employees/:id/overtimes", controllers.GetEmployeeOvertimes)
	tx.Get("/employees/:id/commissions", controllers.GetEmployeeCommissions)
	tx.Post("/employees/:id/payments", controllers.PayEmployee)
	tx.Get("/employees/:id/payments", controllers.GetEmployeePayments)
}
