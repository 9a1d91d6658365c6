package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/denuncia-service/internal/api/http/handlers"
	"github.com/spec-kit/denuncia-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Reports        *handlers.ReportsHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	// The emailed link is clicked (GET); API clients may also POST.
	authGroup.Get("/verifyUser/:token", cfg.Auth.VerifyUser)
	authGroup.Post("/verifyUser/:token", cfg.Auth.VerifyUser)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/passwordRecovery", cfg.Auth.PasswordRecovery)
	authGroup.Post("/newPassword", cfg.Auth.NewPassword)

	denuncias := app.Group("/denuncias", cfg.AuthMiddleware.RequireUser)
	denuncias.Post("/nuevaDenuncia", cfg.Reports.Create)
	denuncias.Get("/getDenunciasUser", cfg.Reports.ListMine)
	denuncias.Get("/detalleDenuncia/:id", cfg.Reports.Detail)
	denuncias.Delete("/eliminarDenuncia", cfg.Reports.Delete)

	admin := app.Group("/admin")
	admin.Post("/loginAdmin", cfg.Admin.Login)

	protected := admin.Group("", cfg.AuthMiddleware.RequireAdmin)
	protected.Post("/addAdmin", cfg.Admin.AddAdmin)
	protected.Post("/estadoDenuncia", cfg.Admin.ChangeReportStatus)
	protected.Post("/statusUser", cfg.Admin.SetAccountStatus)
	protected.Get("/getAllUsers", cfg.Admin.ListAccounts)
	protected.Get("/getUser/:id", cfg.Admin.GetAccount)
	protected.Get("/getAllDenuncias", cfg.Admin.ListReports)
	protected.Get("/detallesDenuncia/:id", cfg.Admin.ReportDetail)
	protected.Delete("/deleteDenuncia", cfg.Admin.DeleteReport)
	protected.Get("/getGeneralView", cfg.Admin.GeneralView)
}
