package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"financeiro-backend/database"
	"financeiro-backend/services"
)

// newDispatcher wires the payment-method fan-out over the given DB handle.
// Creation flows pass the base connection (not the request TX) so that one
// failing method never rolls back the methods already applied.
func newDispatcher(db *gorm.DB) *services.Dispatcher {
	store := database.NewStore(db)
	cards := services.NewCreditCardService(store)
	return services.NewDispatcher(store, cards, services.NewAcertoService(store, cards))
}

func newReconciler(db *gorm.DB) *services.ReconcileService {
	return services.NewReconcileService(database.NewStore(db))
}

// outcomesJSON flattens fan-out outcomes for the response body.
func outcomesJSON(outcomes []services.MethodOutcome) []fiber.Map {
	out := make([]fiber.Map, 0, len(outcomes))
	for _, o := range outcomes {
		entry := fiber.Map{
			"type":    o.Method.Type,
			"amount":  o.Method.Amount,
			"skipped": o.Skipped,
		}
		if o.Err != nil {
			entry["error"] = o.Error()
		}
		out = append(out, entry)
	}
	return out
}
