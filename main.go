package main

import (
	"os"
	"strconv"
	"time"

	"financeiro-backend/database"
	"financeiro-backend/middlewares"
	"financeiro-backend/routes"
	"financeiro-backend/services"
	"financeiro-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// envInt reads an int env var with a default fallback.
func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// startSweeper realizes due credit-card installments in the background.
// The gated installment transition makes overlapping runs harmless.
func startSweeper() {
	interval := time.Duration(envInt("SWEEP_INTERVAL_MINUTES", 60)) * time.Minute
	if interval <= 0 {
		log.Info().Msg("card installment sweeper disabled")
		return
	}

	cards := services.NewCreditCardService(database.NewStore(database.DB))
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			report, err := cards.SweepDue(utils.Today())
			if err != nil {
				log.Error().Err(err).Msg("card installment sweep failed")
				continue
			}
			if report.SaleInstallmentsSettled > 0 || report.DebtInstallmentsSettled > 0 || report.Errors > 0 {
				log.Info().
					Int("sales_settled", report.SaleInstallmentsSettled).
					Int("debts_settled", report.DebtInstallmentsSettled).
					Int("errors", report.Errors).
					Msg("card installment sweep")
			}
		}
	}()
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("LOG_PRETTY") == "true" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// ---- Database
	database.Connect()
	if err := database.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	// ---- Limits (configurable via env)
	bodyLimitBytes := envInt("BODY_LIMIT_BYTES", 0)
	if bodyLimitBytes <= 0 {
		bodyLimitBytes = envInt("BODY_LIMIT_MB", 4) * 1024 * 1024
	}

	// ---- Fiber app with global error handler + body limit
	app := fiber.New(fiber.Config{
		ErrorHandler: middlewares.ErrorHandler,
		BodyLimit:    bodyLimitBytes,
	})

	// ---- CORS
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: false, // using Bearer tokens, not cookies
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Idempotency-Key",
	}))

	// ---- Global rate limiter
	rlMax := envInt("RATE_LIMIT_MAX", 60)
	rlWindow := time.Duration(envInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second
	app.Use(limiter.New(limiter.Config{
		Max:        rlMax,
		Expiration: rlWindow,
	}))

	// ---- Routes
	routes.Register(app)

	// ---- Background due-date sweep
	startSweeper()

	// ---- Start
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Info().Str("port", port).Msg("starting API server")
	if err := app.Listen(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
