package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/denuncia-service/internal/domain"
	"github.com/spec-kit/denuncia-service/internal/events"
)

type reportFixture struct {
	service    *ReportService
	reports    *fakeReportRepo
	accounts   *fakeAccountRepo
	store      *fakeAssetStore
	dispatcher *recordingDispatcher
}

func newReportFixture() *reportFixture {
	reports := newFakeReportRepo()
	accounts := newFakeAccountRepo()
	store := &fakeAssetStore{url: "https://assets.example.com/evidencias/foto.jpg"}
	dispatcher := &recordingDispatcher{}
	svc := NewReportService(ReportDependencies{
		ReportRepo:  reports,
		AccountRepo: accounts,
		AssetStore:  store,
		Dispatcher:  dispatcher,
		Logger:      zap.NewNop(),
	})
	return &reportFixture{service: svc, reports: reports, accounts: accounts, store: store, dispatcher: dispatcher}
}

func (f *reportFixture) seedAccount(t *testing.T) *domain.Account {
	t.Helper()
	account := &domain.Account{
		FullName:   "Maria Torres",
		Cedula:     "1104567890",
		Phone:      "0991234567",
		Email:      "maria@example.com",
		IsVerified: true,
	}
	require.NoError(t, f.accounts.Create(context.Background(), account))
	return account
}

func submitInput() SubmitInput {
	return SubmitInput{
		Title:       "Luminaria dañada",
		Description: "Poste sin luz en la esquina del parque",
		Location:    domain.GeoPoint{Type: "Point", Coordinates: []float64{-79.2, -3.99}},
		Category:    domain.CategoryInfrastructure,
	}
}

func TestSubmitCreatesReport(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture()
	account := f.seedAccount(t)

	report, err := f.service.Submit(ctx, account, submitInput())
	require.NoError(t, err)

	assert.Equal(t, domain.ReportStatusInReview, report.Status)
	assert.Equal(t, account.ID, report.OwnerID)
	assert.Equal(t, account.FullName, report.OwnerName)

	stored, err := f.accounts.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.NumReports)

	published := f.dispatcher.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventReportCreated, published[0].Type)
}

func TestSubmitRejectsBlockedAndUnverified(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture()

	blocked := f.seedAccount(t)
	blocked.IsBlocked = true
	_, err := f.service.Submit(ctx, blocked, submitInput())
	requireDomainError(t, err, 403)

	unverified := &domain.Account{ID: "acc-2", Email: "otro@example.com"}
	_, err = f.service.Submit(ctx, unverified, submitInput())
	requireDomainError(t, err, 403)
}

func TestSubmitValidatesCategoryAndLocation(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture()
	account := f.seedAccount(t)

	input := submitInput()
	input.Category = "Transito"
	_, err := f.service.Submit(ctx, account, input)
	requireDomainError(t, err, 400)

	input = submitInput()
	input.Location = domain.GeoPoint{Type: "Point", Coordinates: []float64{-79.2}}
	_, err = f.service.Submit(ctx, account, input)
	requireDomainError(t, err, 400)
}

func TestSubmitRejectsDuplicateTitlePerOwner(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture()
	account := f.seedAccount(t)

	_, err := f.service.Submit(ctx, account, submitInput())
	require.NoError(t, err)

	_, err = f.service.Submit(ctx, account, submitInput())
	domainErr := requireDomainError(t, err, 400)
	assert.Equal(t, "Ya has presentado una denuncia con el mismo título.", domainErr.Message)

	// A different citizen may reuse the title.
	other := &domain.Account{
		FullName:   "Pedro Salas",
		Cedula:     "1104567891",
		Phone:      "0991234568",
		Email:      "pedro@example.com",
		IsVerified: true,
	}
	require.NoError(t, f.accounts.Create(ctx, other))
	_, err = f.service.Submit(ctx, other, submitInput())
	assert.NoError(t, err)
}

func TestSubmitUploadsEvidence(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture()
	account := f.seedAccount(t)

	input := submitInput()
	input.EvidenceFile = &EvidenceFile{Name: "foto.jpg", ContentType: "image/jpeg", Data: []byte{0xff, 0xd8}}

	report, err := f.service.Submit(ctx, account, input)
	require.NoError(t, err)
	assert.Equal(t, f.store.url, report.EvidenceURL)
	assert.Equal(t, []string{"foto.jpg"}, f.store.uploads)
}

func TestSubmitAbortsOnUploadFailure(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture()
	account := f.seedAccount(t)
	f.store.failWith = errors.New("s3 unavailable")

	input := submitInput()
	input.EvidenceFile = &EvidenceFile{Name: "foto.jpg", ContentType: "image/jpeg", Data: []byte{0xff}}

	_, err := f.service.Submit(ctx, account, input)
	requireDomainError(t, err, 500)

	all, err := f.reports.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	stored, err := f.accounts.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.NumReports)
}

func TestChangeStatusStampsResolution(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture()
	account := f.seedAccount(t)
	report, err := f.service.Submit(ctx, account, submitInput())
	require.NoError(t, err)

	resolved, err := f.service.ChangeStatus(ctx, "admin-1", report.ID, domain.ReportStatusResolved)
	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)

	// Moving out of the resolved state clears the stamp.
	reopened, err := f.service.ChangeStatus(ctx, "admin-1", report.ID, domain.ReportStatusInProgress)
	require.NoError(t, err)
	assert.Nil(t, reopened.ResolvedAt)
}

func TestChangeStatusRejectsUnknownStatus(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture()
	account := f.seedAccount(t)
	report, err := f.service.Submit(ctx, account, submitInput())
	require.NoError(t, err)

	_, err = f.service.ChangeStatus(ctx, "admin-1", report.ID, "Cerrada")
	requireDomainError(t, err, 400)
}

func TestSoftDeleteOwnership(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture()
	account := f.seedAccount(t)
	report, err := f.service.Submit(ctx, account, submitInput())
	require.NoError(t, err)

	strangerID := "acc-stranger"
	err = f.service.SoftDelete(ctx, events.Actor{Type: domain.SubjectTypeUser, AccountID: &strangerID}, report.ID)
	requireDomainError(t, err, 403)

	err = f.service.SoftDelete(ctx, events.Actor{Type: domain.SubjectTypeUser, AccountID: &account.ID}, report.ID)
	require.NoError(t, err)

	all, err := f.service.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	stored, err := f.accounts.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.NumReports)

	// Deleted reports answer like missing ones.
	_, err = f.service.Detail(ctx, events.Actor{Type: domain.SubjectTypeUser, AccountID: &account.ID}, report.ID)
	requireDomainError(t, err, 404)
}

func TestSoftDeleteByAdmin(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture()
	account := f.seedAccount(t)
	report, err := f.service.Submit(ctx, account, submitInput())
	require.NoError(t, err)

	adminID := "admin-1"
	err = f.service.SoftDelete(ctx, events.Actor{Type: domain.SubjectTypeAdmin, AdminID: &adminID}, report.ID)
	assert.NoError(t, err)
}

func TestDetailHidesForeignReports(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture()
	account := f.seedAccount(t)
	report, err := f.service.Submit(ctx, account, submitInput())
	require.NoError(t, err)

	strangerID := "acc-stranger"
	_, err = f.service.Detail(ctx, events.Actor{Type: domain.SubjectTypeUser, AccountID: &strangerID}, report.ID)
	requireDomainError(t, err, 403)

	adminID := "admin-1"
	got, err := f.service.Detail(ctx, events.Actor{Type: domain.SubjectTypeAdmin, AdminID: &adminID}, report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.ID, got.ID)
}

func TestListMineFiltersByOwner(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture()
	account := f.seedAccount(t)
	_, err := f.service.Submit(ctx, account, submitInput())
	require.NoError(t, err)

	mine, err := f.service.ListMine(ctx, account.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	none, err := f.service.ListMine(ctx, "acc-stranger")
	require.NoError(t, err)
	assert.Empty(t, none)
}
