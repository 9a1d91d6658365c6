package handlers

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/denuncia-service/internal/api/dto"
	"github.com/spec-kit/denuncia-service/internal/auth"
	"github.com/spec-kit/denuncia-service/internal/domain"
	"github.com/spec-kit/denuncia-service/internal/events"
	"github.com/spec-kit/denuncia-service/internal/service"
	apperrors "github.com/spec-kit/denuncia-service/pkg/util"
)

// ReportsHandler serves the citizen-facing denuncia routes.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler returns a new handler instance.
func NewReportsHandler(reports *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

// Create files a new denuncia. The payload arrives either as JSON with an
// evidence URL, or as multipart form data with the image attached under the
// "evidencia" field and the location as a JSON string.
func (h *ReportsHandler) Create(c *fiber.Ctx) error {
	account, err := auth.AccountFromContext(c)
	if err != nil {
		return err
	}

	req, evidence, err := parseReportRequest(c)
	if err != nil {
		return err
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	report, err := h.reports.Submit(c.UserContext(), account, service.SubmitInput{
		Title:        req.TituloDenuncia,
		Description:  req.Descripcion,
		EvidenceURL:  req.Evidencia,
		EvidenceFile: evidence,
		Location: domain.GeoPoint{
			Type:        req.Ubicacion.Type,
			Coordinates: req.Ubicacion.Coordinates,
		},
		Category: domain.ReportCategory(req.Categoria),
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "Denuncia creada exitosamente.", report)
}

func parseReportRequest(c *fiber.Ctx) (dto.NewReportRequest, *service.EvidenceFile, error) {
	var req dto.NewReportRequest

	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		if err := c.BodyParser(&req); err != nil {
			return req, nil, apperrors.NewValidationError("Cuerpo de la petición inválido", nil)
		}
		return req, nil, nil
	}

	if err := c.BodyParser(&req); err != nil {
		return req, nil, apperrors.NewValidationError("Cuerpo de la petición inválido", nil)
	}
	if raw := c.FormValue("ubicacion"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Ubicacion); err != nil {
			return req, nil, apperrors.NewValidationError("La ubicación debe ser un punto GeoJSON con dos coordenadas", nil)
		}
	}

	fileHeader, err := c.FormFile("evidencia")
	if err != nil {
		// No attached image; the URL field may still carry the evidence.
		return req, nil, nil
	}
	file, err := fileHeader.Open()
	if err != nil {
		return req, nil, apperrors.NewValidationError("No se pudo leer el archivo de evidencia", nil)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return req, nil, apperrors.NewValidationError("No se pudo leer el archivo de evidencia", nil)
	}

	req.Evidencia = ""
	return req, &service.EvidenceFile{
		Name:        fileHeader.Filename,
		ContentType: fileHeader.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}

// ListMine returns the caller's denuncias.
func (h *ReportsHandler) ListMine(c *fiber.Ctx) error {
	account, err := auth.AccountFromContext(c)
	if err != nil {
		return err
	}
	reports, err := h.reports.ListMine(c.UserContext(), account.ID)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Denuncias obtenidas exitosamente.", reports)
}

// Detail returns one of the caller's denuncias.
func (h *ReportsHandler) Detail(c *fiber.Ctx) error {
	account, err := auth.AccountFromContext(c)
	if err != nil {
		return err
	}
	report, err := h.reports.Detail(c.UserContext(), userActor(account.ID), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Denuncia obtenida exitosamente.", report)
}

// Delete soft-deletes one of the caller's denuncias.
func (h *ReportsHandler) Delete(c *fiber.Ctx) error {
	account, err := auth.AccountFromContext(c)
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

	if err := h.reports.SoftDelete(c.UserContext(), userActor(account.ID), req.ID); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Denuncia eliminada exitosamente.", nil)
}

func userActor(accountID string) events.Actor {
	return events.Actor{Type: domain.SubjectTypeUser, AccountID: &accountID}
}

func adminActor(adminID string) events.Actor {
	return events.Actor{Type: domain.SubjectTypeAdmin, AdminID: &adminID}
}
