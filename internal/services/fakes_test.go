package services

import (
	"context"
	"sync"
	"time"

	"github.com/kmuchiri/nyumba-api/internal/models"
	"github.com/kmuchiri/nyumba-api/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type mockTenantRepo struct {
	repository.TenantRepository
	mockFindByID    func(ctx context.Context, id uint) (*models.Tenant, error)
	mockFindByPhone func(ctx context.Context, phone string) (*models.Tenant, error)
}

func (m *mockTenantRepo) FindByID(ctx context.Context, id uint) (*models.Tenant, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockTenantRepo) FindByPhone(ctx context.Context, phone string) (*models.Tenant, error) {
	return m.mockFindByPhone(ctx, phone)
}

type mockLeaseRepo struct {
	repository.LeaseRepository
	mockFindByID           func(ctx context.Context, id uint) (*models.Lease, error)
	mockFindByTenant       func(ctx context.Context, tenantID uint) ([]models.Lease, error)
	mockFindActiveByTenant func(ctx context.Context, tenantID uint) (*models.Lease, error)
	mockFindActiveByUnit   func(ctx context.Context, unitID uint) (*models.Lease, error)
	mockFindCurrent        func(ctx context.Context) ([]models.Lease, error)
	mockUpdate             func(ctx context.Context, lease *models.Lease) error
}

func (m *mockLeaseRepo) FindByID(ctx context.Context, id uint) (*models.Lease, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockLeaseRepo) FindByTenant(ctx context.Context, tenantID uint) ([]models.Lease, error) {
	return m.mockFindByTenant(ctx, tenantID)
}

func (m *mockLeaseRepo) FindActiveByTenant(ctx context.Context, tenantID uint) (*models.Lease, error) {
	if m.mockFindActiveByTenant != nil {
		return m.mockFindActiveByTenant(ctx, tenantID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLeaseRepo) FindActiveByUnit(ctx context.Context, unitID uint) (*models.Lease, error) {
	if m.mockFindActiveByUnit != nil {
		return m.mockFindActiveByUnit(ctx, unitID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLeaseRepo) FindCurrent(ctx context.Context) ([]models.Lease, error) {
	return m.mockFindCurrent(ctx)
}

func (m *mockLeaseRepo) Update(ctx context.Context, lease *models.Lease) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, lease)
	}
	return nil
}

type mockInvoiceRepo struct {
	repository.InvoiceRepository
	mockFindByLeaseIDs      func(ctx context.Context, leaseIDs []uint) ([]models.Invoice, error)
	mockUpdateStatus        func(ctx context.Context, id uint, status string) error
	mockSumAmountByLeaseIDs func(ctx context.Context, leaseIDs []uint) (decimal.Decimal, error)
}

func (m *mockInvoiceRepo) FindByLeaseIDs(ctx context.Context, leaseIDs []uint) ([]models.Invoice, error) {
	if m.mockFindByLeaseIDs != nil {
		return m.mockFindByLeaseIDs(ctx, leaseIDs)
	}
	return nil, nil
}

func (m *mockInvoiceRepo) UpdateStatus(ctx context.Context, id uint, status string) error {
	if m.mockUpdateStatus != nil {
		return m.mockUpdateStatus(ctx, id, status)
	}
	return nil
}

func (m *mockInvoiceRepo) SumAmountByLeaseIDs(ctx context.Context, leaseIDs []uint) (decimal.Decimal, error) {
	return m.mockSumAmountByLeaseIDs(ctx, leaseIDs)
}

type mockPaymentRepo struct {
	repository.PaymentRepository
	mockFindByID             func(ctx context.Context, id uint) (*models.Payment, error)
	mockFindByTransactionRef func(ctx context.Context, ref string) (*models.Payment, error)
	mockCreate               func(ctx context.Context, payment *models.Payment) error
	mockSumAmountByLeaseIDs  func(ctx context.Context, leaseIDs []uint) (decimal.Decimal, error)
}

func (m *mockPaymentRepo) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockPaymentRepo) FindByTransactionRef(ctx context.Context, ref string) (*models.Payment, error) {
	return m.mockFindByTransactionRef(ctx, ref)
}

func (m *mockPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	return m.mockCreate(ctx, payment)
}

func (m *mockPaymentRepo) SumAmountByLeaseIDs(ctx context.Context, leaseIDs []uint) (decimal.Decimal, error) {
	return m.mockSumAmountByLeaseIDs(ctx, leaseIDs)
}

type mockAccountRepo struct {
	repository.AccountRepository
	mu           sync.Mutex
	upserted     []*models.Account
	mockUpsert   func(ctx context.Context, account *models.Account) error
	mockFind     func(ctx context.Context, tenantID uint) (*models.Account, error)
	mockByStatus func(ctx context.Context, status string) ([]models.Account, error)
}

func (m *mockAccountRepo) Upsert(ctx context.Context, account *models.Account) error {
	m.mu.Lock()
	m.upserted = append(m.upserted, account)
	m.mu.Unlock()
	if m.mockUpsert != nil {
		return m.mockUpsert(ctx, account)
	}
	return nil
}

func (m *mockAccountRepo) FindByTenant(ctx context.Context, tenantID uint) (*models.Account, error) {
	if m.mockFind != nil {
		return m.mockFind(ctx, tenantID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.upserted) > 0 {
		return m.upserted[len(m.upserted)-1], nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAccountRepo) ListByStatus(ctx context.Context, status string) ([]models.Account, error) {
	if m.mockByStatus != nil {
		return m.mockByStatus(ctx, status)
	}
	return nil, nil
}

func (m *mockAccountRepo) lastUpserted() *models.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.upserted) == 0 {
		return nil
	}
	return m.upserted[len(m.upserted)-1]
}

type mockNotificationLogRepo struct {
	repository.NotificationLogRepository
	mu                   sync.Mutex
	created              []*models.NotificationLog
	mockHasSentReference func(ctx context.Context, tenantID uint, reference string) (bool, error)
	mockLastSentAt       func(ctx context.Context, tenantID uint, reference string) (*time.Time, error)
}

func (m *mockNotificationLogRepo) Create(ctx context.Context, log *models.NotificationLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, log)
	return nil
}

func (m *mockNotificationLogRepo) HasSentReference(ctx context.Context, tenantID uint, reference string) (bool, error) {
	if m.mockHasSentReference != nil {
		return m.mockHasSentReference(ctx, tenantID, reference)
	}
	return false, nil
}

func (m *mockNotificationLogRepo) LastSentAt(ctx context.Context, tenantID uint, reference string) (*time.Time, error) {
	if m.mockLastSentAt != nil {
		return m.mockLastSentAt(ctx, tenantID, reference)
	}
	return nil, nil
}

func (m *mockNotificationLogRepo) entries() []*models.NotificationLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.NotificationLog, len(m.created))
	copy(out, m.created)
	return out
}

// fakeSettings is an in-memory SettingsProvider
type fakeSettings struct {
	values map[string]string
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{values: make(map[string]string)}
}

func (f *fakeSettings) GetString(ctx context.Context, key, fallback string) string {
	if v, ok := f.values[key]; ok {
		return v
	}
	return fallback
}

func (f *fakeSettings) GetBool(ctx context.Context, key string, fallback bool) bool {
	switch f.values[key] {
	case "true":
		return true
	case "false":
		return false
	}
	return fallback
}

func (f *fakeSettings) GetInt(ctx context.Context, key string, fallback int) int {
	if v, ok := f.values[key]; ok {
		n := 0
		for _, c := range v {
			if c < '0' || c > '9' {
				return fallback
			}
			n = n*10 + int(c-'0')
		}
		return n
	}
	return fallback
}

func (f *fakeSettings) Template(ctx context.Context, key string) string {
	if v, ok := f.values[key]; ok && v != "" {
		return v
	}
	return defaultTemplates[key]
}

func (f *fakeSettings) Set(ctx context.Context, key, value string) error {
	f.values[key] = value
	return nil
}

// stubChannel records sends and returns a configurable error
type stubChannel struct {
	name string
	mu   sync.Mutex
	sent []string
	err  error
}

func (s *stubChannel) Name() string { return s.name }

func (s *stubChannel) Send(ctx context.Context, tenant *models.Tenant, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, message)
	return nil
}

func (s *stubChannel) messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.sent))
	copy(out, s.sent)
	return out
}

func dec(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}
