package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kmuchiri/nyumba-api/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reconcileFixture(invoiced, paid string) (*ReconciliationService, *mockAccountRepo) {
	leaseRepo := &mockLeaseRepo{
		mockFindByTenant: func(ctx context.Context, tenantID uint) ([]models.Lease, error) {
			return []models.Lease{{ID: 10, TenantID: tenantID, Status: models.LeaseStatusActive}}, nil
		},
	}
	invoiceRepo := &mockInvoiceRepo{
		mockSumAmountByLeaseIDs: func(ctx context.Context, leaseIDs []uint) (decimal.Decimal, error) {
			return dec(invoiced), nil
		},
	}
	paymentRepo := &mockPaymentRepo{
		mockSumAmountByLeaseIDs: func(ctx context.Context, leaseIDs []uint) (decimal.Decimal, error) {
			return dec(paid), nil
		},
	}
	accountRepo := &mockAccountRepo{}
	return NewReconciliationService(leaseRepo, invoiceRepo, paymentRepo, accountRepo), accountRepo
}

func TestReconcile_ArrearsBalance(t *testing.T) {
	svc, accountRepo := reconcileFixture("36000.00", "24000.00")

	snapshot, err := svc.Reconcile(context.Background(), 1)
	require.NoError(t, err)

	assert.True(t, snapshot.Balance.Equal(dec("-12000.00")))
	assert.Equal(t, models.AccountStatusArrears, snapshot.Status)

	stored := accountRepo.lastUpserted()
	require.NotNil(t, stored)
	assert.True(t, stored.Balance.Equal(dec("-12000.00")))
	assert.Equal(t, models.AccountStatusArrears, stored.Status)
}

func TestReconcile_CreditBalance(t *testing.T) {
	svc, _ := reconcileFixture("12000.00", "18000.00")

	snapshot, err := svc.Reconcile(context.Background(), 1)
	require.NoError(t, err)

	assert.True(t, snapshot.Balance.Equal(dec("6000.00")))
	assert.Equal(t, models.AccountStatusCredit, snapshot.Status)
}

func TestReconcile_ClearedBalance(t *testing.T) {
	svc, _ := reconcileFixture("12000.00", "12000.00")

	snapshot, err := svc.Reconcile(context.Background(), 1)
	require.NoError(t, err)

	assert.True(t, snapshot.Balance.IsZero())
	assert.Equal(t, models.AccountStatusCleared, snapshot.Status)
}

func TestReconcile_ZeroActivity(t *testing.T) {
	svc, _ := reconcileFixture("0", "0")

	snapshot, err := svc.Reconcile(context.Background(), 1)
	require.NoError(t, err)

	assert.True(t, snapshot.TotalInvoiced.IsZero())
	assert.True(t, snapshot.TotalPaid.IsZero())
	assert.Equal(t, models.AccountStatusCleared, snapshot.Status)
}

func TestReconcile_NoLeases(t *testing.T) {
	leaseRepo := &mockLeaseRepo{
		mockFindByTenant: func(ctx context.Context, tenantID uint) ([]models.Lease, error) {
			return nil, nil
		},
	}
	svc := NewReconciliationService(leaseRepo, &mockInvoiceRepo{}, &mockPaymentRepo{}, &mockAccountRepo{})

	_, err := svc.Reconcile(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReconcile_Idempotent(t *testing.T) {
	svc, accountRepo := reconcileFixture("36000.00", "24000.00")

	first, err := svc.Reconcile(context.Background(), 1)
	require.NoError(t, err)
	second, err := svc.Reconcile(context.Background(), 1)
	require.NoError(t, err)

	assert.True(t, first.Balance.Equal(second.Balance))
	assert.Equal(t, first.Status, second.Status)

	// Every pass overwrites wholesale; both rows carry identical totals.
	assert.Len(t, accountRepo.upserted, 2)
	assert.True(t, accountRepo.upserted[0].Balance.Equal(accountRepo.upserted[1].Balance))
}

func TestReconcile_RetriesTransientFailure(t *testing.T) {
	attempts := 0
	leaseRepo := &mockLeaseRepo{
		mockFindByTenant: func(ctx context.Context, tenantID uint) ([]models.Lease, error) {
			attempts++
			if attempts < 3 {
				return nil, errors.New("connection reset")
			}
			return []models.Lease{{ID: 10, TenantID: tenantID}}, nil
		},
	}
	invoiceRepo := &mockInvoiceRepo{
		mockSumAmountByLeaseIDs: func(ctx context.Context, leaseIDs []uint) (decimal.Decimal, error) {
			return dec("1000"), nil
		},
	}
	paymentRepo := &mockPaymentRepo{
		mockSumAmountByLeaseIDs: func(ctx context.Context, leaseIDs []uint) (decimal.Decimal, error) {
			return dec("1000"), nil
		},
	}
	svc := NewReconciliationService(leaseRepo, invoiceRepo, paymentRepo, &mockAccountRepo{})

	snapshot, err := svc.Reconcile(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, models.AccountStatusCleared, snapshot.Status)
}

func TestReconcile_GivesUpAfterBoundedRetries(t *testing.T) {
	attempts := 0
	leaseRepo := &mockLeaseRepo{
		mockFindByTenant: func(ctx context.Context, tenantID uint) ([]models.Lease, error) {
			attempts++
			return nil, errors.New("connection reset")
		},
	}
	svc := NewReconciliationService(leaseRepo, &mockInvoiceRepo{}, &mockPaymentRepo{}, &mockAccountRepo{})

	_, err := svc.Reconcile(context.Background(), 1)
	assert.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestReconcile_InvoiceStatusProjection(t *testing.T) {
	now := time.Now()
	past := now.AddDate(0, -1, 0)
	future := now.AddDate(0, 1, 0)

	invoices := []models.Invoice{
		{ID: 1, LeaseID: 10, Amount: dec("10000"), DueDate: past, Status: models.InvoiceStatusUnpaid},
		{ID: 2, LeaseID: 10, Amount: dec("10000"), DueDate: past, Status: models.InvoiceStatusUnpaid},
		{ID: 3, LeaseID: 10, Amount: dec("10000"), DueDate: future, Status: models.InvoiceStatusUnpaid},
	}

	var updated sync.Map
	leaseRepo := &mockLeaseRepo{
		mockFindByTenant: func(ctx context.Context, tenantID uint) ([]models.Lease, error) {
			return []models.Lease{{ID: 10, TenantID: tenantID}}, nil
		},
	}
	invoiceRepo := &mockInvoiceRepo{
		mockSumAmountByLeaseIDs: func(ctx context.Context, leaseIDs []uint) (decimal.Decimal, error) {
			return dec("30000"), nil
		},
		mockFindByLeaseIDs: func(ctx context.Context, leaseIDs []uint) ([]models.Invoice, error) {
			return invoices, nil
		},
		mockUpdateStatus: func(ctx context.Context, id uint, status string) error {
			updated.Store(id, status)
			return nil
		},
	}
	paymentRepo := &mockPaymentRepo{
		mockSumAmountByLeaseIDs: func(ctx context.Context, leaseIDs []uint) (decimal.Decimal, error) {
			// Covers the first invoice fully, the second not at all.
			return dec("10000"), nil
		},
	}
	svc := NewReconciliationService(leaseRepo, invoiceRepo, paymentRepo, &mockAccountRepo{})

	_, err := svc.Reconcile(context.Background(), 1)
	require.NoError(t, err)

	status1, _ := updated.Load(uint(1))
	status2, _ := updated.Load(uint(2))
	_, touched3 := updated.Load(uint(3))

	assert.Equal(t, models.InvoiceStatusPaid, status1)
	assert.Equal(t, models.InvoiceStatusOverdue, status2)
	// Invoice 3 is not yet due and already unpaid; no write expected.
	assert.False(t, touched3)
}

func TestReconcile_ConcurrentSameTenantSerialized(t *testing.T) {
	var inFlight, maxInFlight int
	var mu sync.Mutex

	leaseRepo := &mockLeaseRepo{
		mockFindByTenant: func(ctx context.Context, tenantID uint) ([]models.Lease, error) {
			mu.Lock()
			inFlight++
			if inFlight > maxInFlight {
				maxInFlight = inFlight
			}
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
			mu.Lock()
			inFlight--
			mu.Unlock()
			return []models.Lease{{ID: 10, TenantID: tenantID}}, nil
		},
	}
	invoiceRepo := &mockInvoiceRepo{
		mockSumAmountByLeaseIDs: func(ctx context.Context, leaseIDs []uint) (decimal.Decimal, error) {
			return dec("1000"), nil
		},
	}
	paymentRepo := &mockPaymentRepo{
		mockSumAmountByLeaseIDs: func(ctx context.Context, leaseIDs []uint) (decimal.Decimal, error) {
			return dec("500"), nil
		},
	}
	svc := NewReconciliationService(leaseRepo, invoiceRepo, paymentRepo, &mockAccountRepo{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Reconcile(context.Background(), 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInFlight)
}
