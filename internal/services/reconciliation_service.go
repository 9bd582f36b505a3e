package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kmuchiri/nyumba-api/internal/models"
	"github.com/kmuchiri/nyumba-api/internal/repository"
	"github.com/kmuchiri/nyumba-api/pkg/logger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountSnapshot is the result of one reconciliation pass: the tenant's
// financial position derived entirely from the invoice and payment ledgers.
type AccountSnapshot struct {
	TenantID      uint             `json:"tenant_id"`
	TotalInvoiced decimal.Decimal  `json:"total_invoiced"`
	TotalPaid     decimal.Decimal  `json:"total_paid"`
	Balance       decimal.Decimal  `json:"balance"`
	Status        string           `json:"status"`
	ActiveLease   *models.Lease    `json:"active_lease,omitempty"`
	MonthlyRent   decimal.Decimal  `json:"monthly_rent"`
	ReconciledAt  time.Time        `json:"reconciled_at"`
	Invoices      []models.Invoice `json:"invoices,omitempty"`
}

// ReconciliationService rebuilds tenant account summaries from first
// principles. Every pass recomputes the totals from the full ledger rather
// than adjusting a running figure, so a replayed or reordered event stream
// always converges to the same snapshot.
type ReconciliationService struct {
	leaseRepo   repository.LeaseRepository
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
	accountRepo repository.AccountRepository

	mu      sync.Mutex
	tenants map[uint]*sync.Mutex
}

// NewReconciliationService creates a reconciliation service
func NewReconciliationService(
	leaseRepo repository.LeaseRepository,
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	accountRepo repository.AccountRepository,
) *ReconciliationService {
	return &ReconciliationService{
		leaseRepo:   leaseRepo,
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		accountRepo: accountRepo,
		tenants:     make(map[uint]*sync.Mutex),
	}
}

// tenantLock returns the mutex serializing reconciliations for one tenant.
// Different tenants reconcile concurrently; the same tenant never does.
func (s *ReconciliationService) tenantLock(tenantID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.tenants[tenantID]
	if !ok {
		lock = &sync.Mutex{}
		s.tenants[tenantID] = lock
	}
	return lock
}

const reconcileAttempts = 3

// Reconcile recomputes the tenant's account from the full invoice and
// payment history, persists the summary row, and refreshes the cached
// invoice statuses. Transient failures are retried a bounded number of
// times before giving up.
func (s *ReconciliationService) Reconcile(ctx context.Context, tenantID uint) (*AccountSnapshot, error) {
	lock := s.tenantLock(tenantID)
	lock.Lock()
	defer lock.Unlock()

	var snapshot *AccountSnapshot
	var err error
	for attempt := 1; attempt <= reconcileAttempts; attempt++ {
		snapshot, err = s.reconcileOnce(ctx, tenantID)
		if err == nil {
			return snapshot, nil
		}
		if errors.Is(err, ErrNotFound) || ctx.Err() != nil {
			return nil, err
		}
		logger.Warn(fmt.Sprintf("[Reconcile] attempt %d/%d failed for tenant %d: %v",
			attempt, reconcileAttempts, tenantID, err))
	}
	return nil, fmt.Errorf("reconcile tenant %d: %w", tenantID, err)
}

func (s *ReconciliationService) reconcileOnce(ctx context.Context, tenantID uint) (*AccountSnapshot, error) {
	leases, err := s.leaseRepo.FindByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("load leases: %w", err)
	}
	if len(leases) == 0 {
		return nil, ErrNotFound
	}

	leaseIDs := make([]uint, 0, len(leases))
	for _, lease := range leases {
		leaseIDs = append(leaseIDs, lease.ID)
	}

	totalInvoiced, err := s.invoiceRepo.SumAmountByLeaseIDs(ctx, leaseIDs)
	if err != nil {
		return nil, fmt.Errorf("sum invoices: %w", err)
	}
	totalPaid, err := s.paymentRepo.SumAmountByLeaseIDs(ctx, leaseIDs)
	if err != nil {
		return nil, fmt.Errorf("sum payments: %w", err)
	}

	balance := totalPaid.Sub(totalInvoiced)
	status := models.AccountStatusFor(balance)
	now := time.Now()

	account := &models.Account{
		TenantID:      tenantID,
		TotalInvoiced: totalInvoiced,
		TotalPaid:     totalPaid,
		Balance:       balance,
		Status:        status,
		ReconciledAt:  now,
		UpdatedAt:     now,
	}
	if err := s.accountRepo.Upsert(ctx, account); err != nil {
		return nil, fmt.Errorf("upsert account: %w", err)
	}

	invoices, err := s.refreshInvoiceStatuses(ctx, leaseIDs, totalPaid, now)
	if err != nil {
		return nil, err
	}

	snapshot := &AccountSnapshot{
		TenantID:      tenantID,
		TotalInvoiced: totalInvoiced,
		TotalPaid:     totalPaid,
		Balance:       balance,
		Status:        status,
		ReconciledAt:  now,
		Invoices:      invoices,
	}

	activeLease, err := s.leaseRepo.FindActiveByTenant(ctx, tenantID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load active lease: %w", err)
	}
	if activeLease != nil {
		snapshot.ActiveLease = activeLease
		snapshot.MonthlyRent = activeLease.MonthlyRent
	}

	return snapshot, nil
}

// refreshInvoiceStatuses re-derives every invoice's cached status by
// allocating the tenant's total paid amount against invoices oldest-first.
// An invoice fully covered by the allocation is paid; an uncovered invoice
// past its due date is overdue; anything else is unpaid. Only changed rows
// are written.
func (s *ReconciliationService) refreshInvoiceStatuses(ctx context.Context, leaseIDs []uint, totalPaid decimal.Decimal, now time.Time) ([]models.Invoice, error) {
	invoices, err := s.invoiceRepo.FindByLeaseIDs(ctx, leaseIDs)
	if err != nil {
		return nil, fmt.Errorf("load invoices: %w", err)
	}

	remaining := totalPaid
	for i := range invoices {
		invoice := &invoices[i]

		var status string
		switch {
		case remaining.GreaterThanOrEqual(invoice.Amount):
			status = models.InvoiceStatusPaid
			remaining = remaining.Sub(invoice.Amount)
		case invoice.IsPastDue(now):
			status = models.InvoiceStatusOverdue
			remaining = decimal.Zero
		default:
			status = models.InvoiceStatusUnpaid
			remaining = decimal.Zero
		}

		if invoice.Status != status {
			if err := s.invoiceRepo.UpdateStatus(ctx, invoice.ID, status); err != nil {
				return nil, fmt.Errorf("update invoice %d status: %w", invoice.ID, err)
			}
			invoice.Status = status
		}
	}
	return invoices, nil
}

// Snapshot returns the stored account row without recomputing. Callers that
// need guaranteed freshness should use Reconcile instead.
func (s *ReconciliationService) Snapshot(ctx context.Context, tenantID uint) (*models.Account, error) {
	account, err := s.accountRepo.FindByTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return account, nil
}
