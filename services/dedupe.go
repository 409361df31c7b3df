package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"financeiro-backend/models"
)

// DedupeStore resolves records by primary key or natural key. Natural-key
// lookups return the existing id so callers can reconcile offline-generated
// ids with server ids.
type DedupeStore interface {
	SaleIDExists(id string) (bool, error)
	SaleByNaturalKey(client string, date time.Time, total float64) (string, bool, error)
	DebtIDExists(id string) (bool, error)
	DebtByNaturalKey(company string, date time.Time, total float64) (string, bool, error)
	EmployeeIDExists(id string) (bool, error)
	EmployeeByNaturalKey(name, position string) (string, bool, error)
}

// DuplicateCheck is the outcome of a duplicate probe. A duplicate is not an
// error: callers use ExistingID instead of creating a second row.
type DuplicateCheck struct {
	IsDuplicate bool   `json:"is_duplicate"`
	ExistingID  string `json:"existing_id,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// DuplicateGuard suppresses re-creation of records that already exist, both
// for online creates and when the offline queue replays a write that may have
// landed already. Lookup failures are logged and treated as "not a duplicate"
// so an unreachable backend never blocks a create.
type DuplicateGuard struct {
	store DedupeStore
}

func NewDuplicateGuard(store DedupeStore) *DuplicateGuard {
	return &DuplicateGuard{store: store}
}

// CheckSale probes by id, then by the sale natural key client+date+total.
func (g *DuplicateGuard) CheckSale(sale *models.Sale) DuplicateCheck {
	if dup := g.byID(sale.ID, g.store.SaleIDExists); dup.IsDuplicate {
		return dup
	}
	return g.byNaturalKey("same client, date and total value", func() (string, bool, error) {
		return g.store.SaleByNaturalKey(sale.Client, sale.Date, sale.TotalValue)
	})
}

// CheckDebt probes by id, then by company+date+total.
func (g *DuplicateGuard) CheckDebt(debt *models.Debt) DuplicateCheck {
	if dup := g.byID(debt.ID, g.store.DebtIDExists); dup.IsDuplicate {
		return dup
	}
	return g.byNaturalKey("same company, date and total value", func() (string, bool, error) {
		return g.store.DebtByNaturalKey(debt.Company, debt.Date, debt.TotalValue)
	})
}

// CheckEmployee probes by id, then by name+position.
func (g *DuplicateGuard) CheckEmployee(employee *models.Employee) DuplicateCheck {
	if dup := g.byID(employee.ID, g.store.EmployeeIDExists); dup.IsDuplicate {
		return dup
	}
	return g.byNaturalKey("same name and position", func() (string, bool, error) {
		return g.store.EmployeeByNaturalKey(employee.Name, employee.Position)
	})
}

func (g *DuplicateGuard) byID(id string, exists func(string) (bool, error)) DuplicateCheck {
	if id == "" || uuid.Validate(id) != nil {
		return DuplicateCheck{}
	}
	found, err := exists(id)
	if err != nil {
		log.Warn().Err(err).Str("id", id).Msg("duplicate probe by id failed")
		return DuplicateCheck{}
	}
	if found {
		return DuplicateCheck{IsDuplicate: true, ExistingID: id, Reason: "id already exists"}
	}
	return DuplicateCheck{}
}

func (g *DuplicateGuard) byNaturalKey(reason string, lookup func() (string, bool, error)) DuplicateCheck {
	id, found, err := lookup()
	if err != nil {
		log.Warn().Err(err).Msg("duplicate probe by natural key failed")
		return DuplicateCheck{}
	}
	if found {
		return DuplicateCheck{IsDuplicate: true, ExistingID: id, Reason: reason}
	}
	return DuplicateCheck{}
}
