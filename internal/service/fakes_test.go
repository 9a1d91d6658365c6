package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/denuncia-service/internal/domain"
	"github.com/spec-kit/denuncia-service/internal/events"
)

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505"}
}

type fakeAccountRepo struct {
	mu        sync.Mutex
	accounts  map[string]*domain.Account
	createErr error
	updateErr error
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	cp := *a
	if a.VerificationToken != nil {
		v := *a.VerificationToken
		cp.VerificationToken = &v
	}
	if a.ResetToken != nil {
		v := *a.ResetToken
		cp.ResetToken = &v
	}
	return &cp
}

func (r *fakeAccountRepo) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.accounts {
		if existing.Email == account.Email || existing.Cedula == account.Cedula || existing.Phone == account.Phone {
			return uniqueViolation()
		}
	}
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	r.accounts[account.ID] = cloneAccount(account)
	return nil
}

func (r *fakeAccountRepo) Update(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.accounts[account.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.accounts[account.ID] = cloneAccount(account)
	return nil
}

func (r *fakeAccountRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.accounts, id)
	return nil
}

func (r *fakeAccountRepo) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if account, ok := r.accounts[id]; ok {
		return cloneAccount(account), nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAccountRepo) findBy(match func(*domain.Account) bool) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.accounts {
		if match(account) {
			return cloneAccount(account), nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAccountRepo) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	return r.findBy(func(a *domain.Account) bool { return a.Email == email })
}

func (r *fakeAccountRepo) GetByCedula(_ context.Context, cedula string) (*domain.Account, error) {
	return r.findBy(func(a *domain.Account) bool { return a.Cedula == cedula })
}

func (r *fakeAccountRepo) GetByPhone(_ context.Context, phone string) (*domain.Account, error) {
	return r.findBy(func(a *domain.Account) bool { return a.Phone == phone })
}

func (r *fakeAccountRepo) GetByVerificationToken(_ context.Context, token string) (*domain.Account, error) {
	return r.findBy(func(a *domain.Account) bool {
		return a.VerificationToken != nil && *a.VerificationToken == token
	})
}

func (r *fakeAccountRepo) List(_ context.Context) ([]domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Account
	for _, account := range r.accounts {
		if !account.IsDeleted {
			out = append(out, *cloneAccount(account))
		}
	}
	return out, nil
}

func (r *fakeAccountRepo) AdjustReportCount(_ context.Context, id string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return pgx.ErrNoRows
	}
	account.NumReports += delta
	if account.NumReports < 0 {
		account.NumReports = 0
	}
	return nil
}

type fakeAdminRepo struct {
	mu     sync.Mutex
	admins map[string]*domain.Admin
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: make(map[string]*domain.Admin)}
}

func (r *fakeAdminRepo) Create(_ context.Context, admin *domain.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.admins {
		if existing.Email == admin.Email {
			return uniqueViolation()
		}
	}
	if admin.ID == "" {
		admin.ID = uuid.NewString()
	}
	cp := *admin
	r.admins[admin.ID] = &cp
	return nil
}

func (r *fakeAdminRepo) Update(_ context.Context, admin *domain.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.admins[admin.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *admin
	r.admins[admin.ID] = &cp
	return nil
}

func (r *fakeAdminRepo) GetByID(_ context.Context, id string) (*domain.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if admin, ok := r.admins[id]; ok {
		cp := *admin
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAdminRepo) GetByEmail(_ context.Context, email string) (*domain.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, admin := range r.admins {
		if admin.Email == email {
			cp := *admin
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeReportRepo struct {
	mu      sync.Mutex
	reports map[string]*domain.Report
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: make(map[string]*domain.Report)}
}

func (r *fakeReportRepo) Create(_ context.Context, report *domain.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.reports {
		if !existing.IsDeleted && existing.OwnerID == report.OwnerID && existing.Title == report.Title {
			return uniqueViolation()
		}
	}
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	cp := *report
	r.reports[report.ID] = &cp
	return nil
}

func (r *fakeReportRepo) Update(_ context.Context, report *domain.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reports[report.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *report
	r.reports[report.ID] = &cp
	return nil
}

func (r *fakeReportRepo) GetByID(_ context.Context, id string) (*domain.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if report, ok := r.reports[id]; ok {
		cp := *report
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeReportRepo) GetByOwnerAndTitle(_ context.Context, ownerID, title string) (*domain.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, report := range r.reports {
		if !report.IsDeleted && report.OwnerID == ownerID && report.Title == title {
			cp := *report
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeReportRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Report
	for _, report := range r.reports {
		if !report.IsDeleted && report.OwnerID == ownerID {
			out = append(out, *report)
		}
	}
	return out, nil
}

func (r *fakeReportRepo) ListAll(_ context.Context) ([]domain.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Report
	for _, report := range r.reports {
		if !report.IsDeleted {
			out = append(out, *report)
		}
	}
	return out, nil
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeMailer struct {
	mu       sync.Mutex
	sent     []sentMail
	failWith error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

type fakeAssetStore struct {
	mu       sync.Mutex
	uploads  []string
	url      string
	failWith error
}

func (s *fakeAssetStore) Upload(_ context.Context, fileName, _ string, _ []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return "", s.failWith
	}
	s.uploads = append(s.uploads, fileName)
	return s.url, nil
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) published() []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]events.Event{}, d.events...)
}
