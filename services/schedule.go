package services

import (
	"time"

	"github.com/shopspring/decimal"

	"financeiro-backend/utils"
)

// ScheduleEntry is one dated slice of a larger payment obligation.
type ScheduleEntry struct {
	Number  int
	Amount  float64
	DueDate time.Time
}

// GenerateSchedule derives the installment plan for a total amount: count
// entries, entry i due firstDue + (i-1)*intervalDays days. When custom has
// exactly count amounts they are used verbatim (the caller validated their
// sum); otherwise the total is split evenly with the rounding remainder
// absorbed by the last installment, so the amounts always sum to total
// exactly.
func GenerateSchedule(total float64, count int, firstDue time.Time, intervalDays int, custom []float64) ([]ScheduleEntry, error) {
	return generate(total, count, custom, func(i int) time.Time {
		return utils.AddDays(firstDue, (i-1)*intervalDays)
	})
}

// GenerateMonthlySchedule is the credit-card variant: due dates advance by
// calendar month instead of a fixed day interval.
func GenerateMonthlySchedule(total float64, count int, firstDue time.Time) ([]ScheduleEntry, error) {
	return generate(total, count, nil, func(i int) time.Time {
		return utils.AddMonths(firstDue, i-1)
	})
}

func generate(total float64, count int, custom []float64, dueDate func(i int) time.Time) ([]ScheduleEntry, error) {
	if count <= 0 {
		return nil, NewValidationError("installment count must be positive")
	}

	amounts := custom
	if len(amounts) != count {
		amounts = SplitEven(total, count)
	}

	entries := make([]ScheduleEntry, count)
	for i := 1; i <= count; i++ {
		entries[i-1] = ScheduleEntry{
			Number:  i,
			Amount:  amounts[i-1],
			DueDate: dueDate(i),
		}
	}
	return entries, nil
}

// SplitEven divides total into count 2-decimal amounts whose sum is exactly
// total; the last amount carries any rounding remainder.
func SplitEven(total float64, count int) []float64 {
	t := decimal.NewFromFloat(total)
	base := t.DivRound(decimal.NewFromInt(int64(count)), 2)
	last := t.Sub(base.Mul(decimal.NewFromInt(int64(count - 1))))

	amounts := make([]float64, count)
	for i := 0; i < count-1; i++ {
		amounts[i] = base.InexactFloat64()
	}
	amounts[count-1] = last.InexactFloat64()
	return amounts
}
