package database

import (
	"fmt"

	"financeiro-backend/models"

	"gorm.io/gorm"
)

// Migrate applies the (idempotent) schema migrations:
// - AutoMigrate (tables/columns/index tags)
// - Foreign keys: installment rows cascade with their card parent
// - Basic CHECK constraints on money columns
func Migrate() error {
	return DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(
			&models.User{},
			&models.Sale{},
			&models.Debt{},
			&models.Check{},
			&models.Boleto{},
			&models.CreditCardSale{},
			&models.CreditCardSaleInstallment{},
			&models.CreditCardDebt{},
			&models.CreditCardDebtInstallment{},
			&models.Acerto{},
			&models.CashTransaction{},
			&models.Permuta{},
			&models.Employee{},
			&models.EmployeePayment{},
			&models.EmployeeAdvance{},
			&models.EmployeeOvertime{},
			&models.EmployeeCommission{},
			&models.IdempotencyKey{},
		); err != nil {
			return fmt.Errorf("automigrate failed: %w", err)
		}

		// --- Foreign keys: installments live and die with their parent ---
		fks := []struct{ table, name, stmt string }{
			{
				"credit_card_sale_installments", "fk_card_sale_installments_parent",
				`ALTER TABLE credit_card_sale_installments
				 ADD CONSTRAINT fk_card_sale_installments_parent
				 FOREIGN KEY (credit_card_sale_id)
				 REFERENCES credit_card_sales(id)
				 ON DELETE CASCADE`,
			},
			{
				"credit_card_debt_installments", "fk_card_debt_installments_parent",
				`ALTER TABLE credit_card_debt_installments
				 ADD CONSTRAINT fk_card_debt_installments_parent
				 FOREIGN KEY (credit_card_debt_id)
				 REFERENCES credit_card_debts(id)
				 ON DELETE CASCADE`,
			},
			{
				"employee_payments", "fk_employee_payments_employee",
				`ALTER TABLE employee_payments
				 ADD CONSTRAINT fk_employee_payments_employee
				 FOREIGN KEY (employee_id)
				 REFERENCES employees(id)
				 ON DELETE CASCADE`,
			},
		}
		for _, fk := range fks {
			stmt := fmt.Sprintf(`
DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1 FROM pg_constraint
		WHERE conrelid = '%s'::regclass
		  AND conname  = '%s'
	) THEN
		%s;
	END IF;
END $$;`, fk.table, fk.name, fk.stmt)
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("foreign key migration failed (%s): %w", fk.name, err)
			}
		}

		// --- Basic CHECK constraints (idempotent) ---
		checks := []struct{ table, name, expr string }{
			{"sales", "chk_sales_total_value_nonneg", "total_value >= 0"},
			{"debts", "chk_debts_total_value_nonneg", "total_value >= 0"},
			{"checks", "chk_checks_value_nonneg", "value >= 0"},
			{"boletos", "chk_boletos_value_nonneg", "value >= 0"},
			{"cash_transactions", "chk_cash_transactions_amount_nonneg", "amount >= 0"},
			{"cash_transactions", "chk_cash_transactions_type", "type IN ('entrada', 'saida')"},
			{"acertos", "chk_acertos_total_amount_nonneg", "total_amount >= 0"},
		}
		for _, c := range checks {
			stmt := fmt.Sprintf(`
DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1 FROM pg_constraint
		WHERE conrelid = '%s'::regclass
		  AND conname  = '%s'
	) THEN
		ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s);
	END IF;
END $$;`, c.table, c.name, c.table, c.name, c.expr)
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed (%s): %w", c.name, err)
			}
		}

		return nil
	})
}
