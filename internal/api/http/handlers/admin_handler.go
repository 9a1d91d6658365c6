package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/denuncia-service/internal/api/dto"
	"github.com/spec-kit/denuncia-service/internal/auth"
	"github.com/spec-kit/denuncia-service/internal/domain"
	"github.com/spec-kit/denuncia-service/internal/service"
	apperrors "github.com/spec-kit/denuncia-service/pkg/util"
)

// AdminHandler serves the administrator routes: authentication, moderation
// and the statistics dashboard.
type AdminHandler struct {
	admins      *service.AdminService
	accounts    *service.AccountService
	reports     *service.ReportService
	tokenHeader string
}

// NewAdminHandler returns a new handler instance.
func NewAdminHandler(admins *service.AdminService, accounts *service.AccountService, reports *service.ReportService, tokenHeader string) *AdminHandler {
	if tokenHeader == "" {
		tokenHeader = "auth-token"
	}
	return &AdminHandler{admins: admins, accounts: accounts, reports: reports, tokenHeader: tokenHeader}
}

// Login authenticates an administrator.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Cuerpo de la petición inválido", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	admin, token, exp, err := h.admins.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.Set(h.tokenHeader, token)
	return respond(c, fiber.StatusOK, "Inicio de sesión exitoso.", fiber.Map{
		"admin": admin.Public(),
		"auth":  dto.AuthData{Token: token, ExpiresAt: exp},
	})
}

// AddAdmin creates a new administrator.
func (h *AdminHandler) AddAdmin(c *fiber.Ctx) error {
	var req dto.AddAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Cuerpo de la petición inválido", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	admin, err := h.admins.AddAdmin(c.UserContext(), service.AddAdminInput{
		FullName:   req.NombreCompleto,
		Email:      req.Email,
		Password:   req.Password,
		SecretWord: req.PalabraSecreta,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "Administrador creado exitosamente.", admin.Public())
}

// ChangeReportStatus moves a denuncia to a new moderation status.
func (h *AdminHandler) ChangeReportStatus(c *fiber.Ctx) error {
	admin, err := auth.AdminFromContext(c)
	if err != nil {
		return err
	}

	var req dto.ChangeReportStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Cuerpo de la petición inválido", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	report, err := h.reports.ChangeStatus(c.UserContext(), admin.ID, req.ID, domain.ReportStatus(req.Estado))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Estado de la denuncia actualizado exitosamente.", report)
}

// SetAccountStatus blocks or unblocks a citizen account.
func (h *AdminHandler) SetAccountStatus(c *fiber.Ctx) error {
	admin, err := auth.AdminFromContext(c)
	if err != nil {
		return err
	}

	var req dto.AccountStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Cuerpo de la petición inválido", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	account, err := h.accounts.SetBlockedStatus(c.UserContext(), admin.ID, req.ID, req.Status == "block")
	if err != nil {
		return err
	}

	message := "Usuario desbloqueado exitosamente."
	if account.IsBlocked {
		message = "Usuario bloqueado exitosamente."
	}
	return respond(c, fiber.StatusOK, message, account.Public())
}

// ListAccounts returns every registered account.
func (h *AdminHandler) ListAccounts(c *fiber.Ctx) error {
	accounts, err := h.accounts.ListAccounts(c.UserContext())
	if err != nil {
		return err
	}
	public := make([]domain.PublicAccount, 0, len(accounts))
	for i := range accounts {
		public = append(public, accounts[i].Public())
	}
	return respond(c, fiber.StatusOK, "Usuarios obtenidos exitosamente.", public)
}

// GetAccount returns one account by id.
func (h *AdminHandler) GetAccount(c *fiber.Ctx) error {
	account, err := h.accounts.GetAccount(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Usuario obtenido exitosamente.", account.Public())
}

// ListReports returns every active denuncia.
func (h *AdminHandler) ListReports(c *fiber.Ctx) error {
	reports, err := h.reports.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Denuncias obtenidas exitosamente.", reports)
}

// ReportDetail returns one denuncia regardless of owner.
func (h *AdminHandler) ReportDetail(c *fiber.Ctx) error {
	admin, err := auth.AdminFromContext(c)
	if err != nil {
		return err
	}
	report, err := h.reports.Detail(c.UserContext(), adminActor(admin.ID), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Denuncia obtenida exitosamente.", report)
}

// DeleteReport soft-deletes any denuncia.
func (h *AdminHandler) DeleteReport(c *fiber.Ctx) error {
	admin, err := auth.AdminFromContext(c)
	if err != nil {
		return err
	}

	var req dto.DeleteReportRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Cuerpo de la petición inválido", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	if err := h.reports.SoftDelete(c.UserContext(), adminActor(admin.ID), req.ID); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Denuncia eliminada exitosamente.", nil)
}

// GeneralView returns the aggregate dashboard statistics.
func (h *AdminHandler) GeneralView(c *fiber.Ctx) error {
	stats, err := h.reports.GeneralView(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Vista general obtenida exitosamente.", stats)
}
