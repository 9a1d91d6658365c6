package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/denuncia-service/internal/assets"
	"github.com/spec-kit/denuncia-service/internal/domain"
	"github.com/spec-kit/denuncia-service/internal/events"
	"github.com/spec-kit/denuncia-service/internal/ratelimit"
	"github.com/spec-kit/denuncia-service/internal/repository"
	apperrors "github.com/spec-kit/denuncia-service/pkg/util"
)

// ReportService coordinates denuncia workflows.
type ReportService struct {
	reports      repository.ReportRepository
	accounts     repository.AccountRepository
	stats        repository.StatsRepository
	assetStore   assets.Store
	limiter      *ratelimit.SubmissionLimiter
	dispatcher   events.Dispatcher
	logger       *zap.Logger
	uploadWindow time.Duration
}

// ReportDependencies bundles collaborators for the report service.
type ReportDependencies struct {
	ReportRepo   repository.ReportRepository
	AccountRepo  repository.AccountRepository
	StatsRepo    repository.StatsRepository
	AssetStore   assets.Store
	Limiter      *ratelimit.SubmissionLimiter
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	UploadWindow time.Duration
}

// EvidenceFile is an uploaded image attached to a submission.
type EvidenceFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// SubmitInput describes a denuncia submission.
type SubmitInput struct {
	Title        string
	Description  string
	EvidenceURL  string
	EvidenceFile *EvidenceFile
	Location     domain.GeoPoint
	Category     domain.ReportCategory
}

// NewReportService constructs the service.
func NewReportService(deps ReportDependencies) *ReportService {
	window := deps.UploadWindow
	if window <= 0 {
		window = 15 * time.Second
	}
	return &ReportService{
		reports:      deps.ReportRepo,
		accounts:     deps.AccountRepo,
		stats:        deps.StatsRepo,
		assetStore:   deps.AssetStore,
		limiter:      deps.Limiter,
		dispatcher:   deps.Dispatcher,
		logger:       deps.Logger,
		uploadWindow: window,
	}
}

// Submit files a denuncia for a verified, unblocked account. If an evidence
// image is attached, it is uploaded first; an upload failure aborts the
// submission so no half-built record is ever persisted.
func (s *ReportService) Submit(ctx context.Context, account *domain.Account, input SubmitInput) (*domain.Report, error) {
	if account.IsBlocked {
		return nil, apperrors.NewForbidden("El usuario está bloqueado")
	}
	if !account.IsVerified {
		return nil, apperrors.NewForbidden("El usuario no está verificado")
	}
	if !s.limiter.Allow(ctx, account.ID) {
		return nil, apperrors.NewRateLimited("Espere antes de enviar otra denuncia")
	}

	if !domain.ValidCategory(input.Category) {
		return nil, apperrors.NewValidationError("Categoría inválida", map[string]any{
			"valid": []domain.ReportCategory{
				domain.CategorySecurity, domain.CategoryInfrastructure,
				domain.CategoryPollution, domain.CategoryNoise, domain.CategoryOther,
			},
		})
	}
	if err := input.Location.Validate(); err != nil {
		return nil, apperrors.NewValidationError("La ubicación debe ser un punto GeoJSON con dos coordenadas", nil)
	}

	title := strings.TrimSpace(input.Title)
	if _, err := s.reports.GetByOwnerAndTitle(ctx, account.ID, title); err == nil {
		return nil, apperrors.NewDuplicateField("tituloDenuncia", "Ya has presentado una denuncia con el mismo título.")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	evidenceURL := input.EvidenceURL
	if input.EvidenceFile != nil {
		if s.assetStore == nil {
			return nil, apperrors.NewDependencyUnavailable("El almacenamiento de evidencias no está disponible", nil)
		}
		uploadCtx, cancel := context.WithTimeout(ctx, s.uploadWindow)
		url, err := s.assetStore.Upload(uploadCtx, input.EvidenceFile.Name, input.EvidenceFile.ContentType, input.EvidenceFile.Data)
		cancel()
		if err != nil {
			return nil, apperrors.NewDependencyUnavailable("Error al subir la evidencia", err)
		}
		evidenceURL = url
	}

	report := &domain.Report{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		EvidenceURL: evidenceURL,
		Location:    input.Location,
		Category:    input.Category,
		Status:      domain.ReportStatusInReview,
		OwnerID:     account.ID,
		OwnerName:   account.FullName,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewDuplicateField("tituloDenuncia", "Ya has presentado una denuncia con el mismo título.")
		}
		return nil, apperrors.MapError(err)
	}

	if err := s.accounts.AdjustReportCount(ctx, account.ID, 1); err != nil {
		s.logger.Warn("report counter increment failed", zap.String("account_id", account.ID), zap.Error(err))
	}

	s.publish(ctx, events.Event{
		Type:      events.EventReportCreated,
		SubjectID: report.ID,
		Actor:     userActor(account.ID),
		Payload: events.ReportCreatedPayload{
			Title:    report.Title,
			Category: report.Category,
			OwnerID:  account.ID,
		},
	})
	return report, nil
}

// ChangeStatus updates a denuncia's moderation status. Any member of the
// status enumeration is accepted as the next state; entering "Atendida"
// stamps the resolution time used by the dashboard average.
func (s *ReportService) ChangeStatus(ctx context.Context, adminID, reportID string, newStatus domain.ReportStatus) (*domain.Report, error) {
	if !domain.ValidStatus(newStatus) {
		return nil, apperrors.NewValidationError("Estado inválido", nil)
	}

	report, err := s.getActive(ctx, reportID)
	if err != nil {
		return nil, err
	}

	oldStatus := report.Status
	report.Status = newStatus
	if newStatus == domain.ReportStatusResolved {
		if report.ResolvedAt == nil {
			now := time.Now()
			report.ResolvedAt = &now
		}
	} else {
		report.ResolvedAt = nil
	}
	if err := s.reports.Update(ctx, report); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventReportStatusChanged,
		SubjectID: report.ID,
		Actor:     adminActor(adminID),
		Payload: events.ReportStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
	return report, nil
}

// SoftDelete flags a denuncia as deleted and decrements the owner's counter.
// The row survives for the aggregate statistics. Citizens may only delete
// their own reports; admins may delete any.
func (s *ReportService) SoftDelete(ctx context.Context, actor events.Actor, reportID string) error {
	report, err := s.getActive(ctx, reportID)
	if err != nil {
		return err
	}
	if actor.Type == domain.SubjectTypeUser && (actor.AccountID == nil || *actor.AccountID != report.OwnerID) {
		return apperrors.NewForbidden("Solo puede eliminar sus propias denuncias")
	}

	report.IsDeleted = true
	if err := s.reports.Update(ctx, report); err != nil {
		return apperrors.MapError(err)
	}

	if err := s.accounts.AdjustReportCount(ctx, report.OwnerID, -1); err != nil {
		s.logger.Warn("report counter decrement failed", zap.String("account_id", report.OwnerID), zap.Error(err))
	}

	s.publish(ctx, events.Event{
		Type:      events.EventReportDeleted,
		SubjectID: report.ID,
		Actor:     actor,
	})
	return nil
}

// ListMine returns the caller's non-deleted denuncias.
func (s *ReportService) ListMine(ctx context.Context, accountID string) ([]domain.Report, error) {
	reports, err := s.reports.ListByOwner(ctx, accountID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return reports, nil
}

// ListAll returns every non-deleted denuncia for the admin views.
func (s *ReportService) ListAll(ctx context.Context) ([]domain.Report, error) {
	reports, err := s.reports.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return reports, nil
}

// Detail fetches one denuncia. A citizen caller must own it; admins see any.
func (s *ReportService) Detail(ctx context.Context, actor events.Actor, reportID string) (*domain.Report, error) {
	report, err := s.getActive(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if actor.Type == domain.SubjectTypeUser && (actor.AccountID == nil || *actor.AccountID != report.OwnerID) {
		return nil, apperrors.NewForbidden("Acceso denegado")
	}
	return report, nil
}

// GeneralView aggregates the admin dashboard statistics. Soft-deleted reports
// still count toward totals and averages.
func (s *ReportService) GeneralView(ctx context.Context) (*repository.GeneralStats, error) {
	stats, err := s.stats.GeneralView(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return stats, nil
}

func (s *ReportService) getActive(ctx context.Context, reportID string) (*domain.Report, error) {
	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Denuncia no encontrada.")
		}
		return nil, apperrors.MapError(err)
	}
	if report.IsDeleted {
		return nil, apperrors.NewNotFound("Denuncia no encontrada.")
	}
	return report, nil
}

func (s *ReportService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
