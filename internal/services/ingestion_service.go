package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kmuchiri/nyumba-api/internal/jobs"
	"github.com/kmuchiri/nyumba-api/internal/models"
	"github.com/kmuchiri/nyumba-api/internal/repository"
	"github.com/kmuchiri/nyumba-api/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentEvent is an externally-sourced payment notification, typically a
// mobile-money webhook callback.
type PaymentEvent struct {
	TransactionID string          `json:"transaction_id"`
	PayerPhone    string          `json:"payer_phone"`
	Amount        decimal.Decimal `json:"amount"`
	Timestamp     time.Time       `json:"timestamp"`
	Method        string          `json:"method"`
}

// Validate checks the event carries everything ingestion needs
func (e *PaymentEvent) Validate() error {
	if e.TransactionID == "" || e.PayerPhone == "" {
		return ErrMalformedEvent
	}
	if !e.Amount.IsPositive() {
		return ErrMalformedEvent
	}
	return nil
}

// IngestResult reports what ingestion did with an event
type IngestResult struct {
	PaymentID uint             `json:"payment_id"`
	Duplicate bool             `json:"duplicate"`
	Snapshot  *AccountSnapshot `json:"snapshot,omitempty"`
}

// ManualPaymentInput records a payment captured by staff rather than an
// external gateway. An empty TransactionRef gets a generated one so the
// uniqueness invariant holds for every row.
type ManualPaymentInput struct {
	LeaseID        uint            `json:"lease_id" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	Method         string          `json:"method" binding:"required"`
	PaymentDate    *time.Time      `json:"payment_date"`
	TransactionRef string          `json:"transaction_ref"`
	Notes          *string         `json:"notes"`
}

// IngestionService turns raw payment events into ledger rows. Each accepted
// event is recorded exactly once, triggers a reconciliation, and queues a
// receipt notification that can fail without affecting the ledger.
type IngestionService struct {
	tenantRepo      repository.TenantRepository
	leaseRepo       repository.LeaseRepository
	paymentRepo     repository.PaymentRepository
	notificationLog repository.NotificationLogRepository
	reconciliation  *ReconciliationService
	dispatcher      *DispatcherService
	settings        SettingsProvider
	worker          *jobs.Worker
}

// NewIngestionService creates a payment ingestion service
func NewIngestionService(
	tenantRepo repository.TenantRepository,
	leaseRepo repository.LeaseRepository,
	paymentRepo repository.PaymentRepository,
	notificationLog repository.NotificationLogRepository,
	reconciliation *ReconciliationService,
	dispatcher *DispatcherService,
	settings SettingsProvider,
	worker *jobs.Worker,
) *IngestionService {
	return &IngestionService{
		tenantRepo:      tenantRepo,
		leaseRepo:       leaseRepo,
		paymentRepo:     paymentRepo,
		notificationLog: notificationLog,
		reconciliation:  reconciliation,
		dispatcher:      dispatcher,
		settings:        settings,
		worker:          worker,
	}
}

// IngestPayment processes one external payment event end to end: dedup by
// transaction reference, resolve payer phone to a tenant and their active
// lease, record the payment, reconcile, then queue the receipt. Replayed
// events return the original payment with Duplicate set and cause no writes.
func (s *IngestionService) IngestPayment(ctx context.Context, event *PaymentEvent) (*IngestResult, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}

	// Fast path: reference already recorded.
	if existing, err := s.paymentRepo.FindByTransactionRef(ctx, event.TransactionID); err == nil {
		logger.Info(fmt.Sprintf("[Ingest] duplicate event %s ignored (payment %d)",
			event.TransactionID, existing.ID))
		return &IngestResult{PaymentID: existing.ID, Duplicate: true}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("dedup lookup: %w", err)
	}

	tenant, err := s.tenantRepo.FindByPhone(ctx, models.NormalizePhone(event.PayerPhone))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("resolve payer: %w", err)
	}

	lease, err := s.leaseRepo.FindActiveByTenant(ctx, tenant.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveLease
		}
		return nil, fmt.Errorf("resolve lease: %w", err)
	}

	method := event.Method
	if !models.ValidPaymentMethod(method) {
		method = models.PaymentMethodMpesa
	}
	paymentDate := event.Timestamp
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	ref := event.TransactionID
	payment := &models.Payment{
		LeaseID:        lease.ID,
		Amount:         event.Amount,
		PaymentDate:    paymentDate,
		Method:         method,
		TransactionRef: &ref,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		if repository.IsDuplicate(err) {
			// Lost the race against a concurrent delivery of the same event.
			existing, lookupErr := s.paymentRepo.FindByTransactionRef(ctx, event.TransactionID)
			if lookupErr != nil {
				return nil, fmt.Errorf("dedup re-fetch: %w", lookupErr)
			}
			logger.Info(fmt.Sprintf("[Ingest] concurrent duplicate event %s ignored (payment %d)",
				event.TransactionID, existing.ID))
			return &IngestResult{PaymentID: existing.ID, Duplicate: true}, nil
		}
		return nil, fmt.Errorf("record payment: %w", err)
	}

	snapshot, err := s.reconciliation.Reconcile(ctx, tenant.ID)
	if err != nil {
		// The payment is committed; the account row catches up on the next
		// reconciliation of this tenant.
		logger.Error(fmt.Sprintf("[Ingest] reconcile after payment %d failed: %v", payment.ID, err))
	}

	s.enqueueReceipt(tenant.ID, payment.ID, event.TransactionID)

	logger.Info(fmt.Sprintf("[Ingest] recorded payment %d (%s, KES %s) for tenant %d",
		payment.ID, event.TransactionID, event.Amount.StringFixed(2), tenant.ID))

	return &IngestResult{PaymentID: payment.ID, Snapshot: snapshot}, nil
}

// IngestManual records a staff-entered payment against a known lease.
// Manual entries flow through the same reconcile-and-notify pipeline as
// webhook events.
func (s *IngestionService) IngestManual(ctx context.Context, input *ManualPaymentInput) (*IngestResult, error) {
	if !input.Amount.IsPositive() || !models.ValidPaymentMethod(input.Method) {
		return nil, ErrMalformedEvent
	}

	lease, err := s.leaseRepo.FindByID(ctx, input.LeaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load lease: %w", err)
	}

	ref := input.TransactionRef
	if ref == "" {
		ref = "manual-" + uuid.NewString()
	}
	paymentDate := time.Now()
	if input.PaymentDate != nil {
		paymentDate = *input.PaymentDate
	}

	payment := &models.Payment{
		LeaseID:        lease.ID,
		Amount:         input.Amount,
		PaymentDate:    paymentDate,
		Method:         input.Method,
		TransactionRef: &ref,
		Notes:          input.Notes,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("record payment: %w", err)
	}

	snapshot, err := s.reconciliation.Reconcile(ctx, lease.TenantID)
	if err != nil {
		logger.Error(fmt.Sprintf("[Ingest] reconcile after payment %d failed: %v", payment.ID, err))
	}

	s.enqueueReceipt(lease.TenantID, payment.ID, ref)

	return &IngestResult{PaymentID: payment.ID, Snapshot: snapshot}, nil
}

// enqueueReceipt queues the payment receipt notification. Runs off the
// request path; any failure here is logged and never reaches the caller.
func (s *IngestionService) enqueueReceipt(tenantID, paymentID uint, reference string) {
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		already, err := s.notificationLog.HasSentReference(ctx, tenantID, reference)
		if err != nil {
			return fmt.Errorf("receipt dedup check: %w", err)
		}
		if already {
			return nil
		}

		tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
		if err != nil {
			return fmt.Errorf("load tenant %d: %w", tenantID, err)
		}
		payment, err := s.paymentRepo.FindByID(ctx, paymentID)
		if err != nil {
			return fmt.Errorf("load payment %d: %w", paymentID, err)
		}
		account, err := s.reconciliation.Snapshot(ctx, tenantID)
		if err != nil {
			return fmt.Errorf("load account %d: %w", tenantID, err)
		}

		template := s.settings.Template(ctx, ReceiptTemplateKey(account.Status))
		message := Compose(template, map[string]string{
			"name":    tenant.FullName,
			"amount":  payment.Amount.StringFixed(2),
			"balance": account.Balance.Abs().StringFixed(2),
		}, SMSMaxLength)

		s.dispatcher.Dispatch(ctx, tenant, message, reference)
		return nil
	})
}
